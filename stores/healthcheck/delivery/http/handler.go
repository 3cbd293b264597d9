package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/delivery"
	hcdomain "github.com/x-xyz/saleengine/domain/healthcheck"
)

type healthCheckHandler struct {
	healthCheck hcdomain.HealthCheckUsecase
}

// New will initialize the healthcheck/
func New(e *echo.Echo, us hcdomain.HealthCheckUsecase) {
	handler := &healthCheckHandler{
		healthCheck: us,
	}
	g := e.Group("/health")
	g.GET("", handler.check)
}

// check
//
//	@Summary	Health check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	object{data=healthcheck.Report}
//	@Failure	503	{object}	object{data=healthcheck.Report}
//	@Router		/health [get]
func (h *healthCheckHandler) check(c echo.Context) error {
	context := c.Get("ctx").(ctx.Ctx)
	report := h.healthCheck.Check(context)
	if !report.Healthy() {
		return delivery.MakeJsonResp(c, http.StatusServiceUnavailable, report)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, report)
}
