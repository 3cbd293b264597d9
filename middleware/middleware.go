package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/delivery"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/base/metrics"
	"github.com/x-xyz/saleengine/base/validator"
	"github.com/x-xyz/saleengine/domain"
)

// GoMiddleware holds the middlewares shared by every route
type GoMiddleware struct{}

// InitMiddleware initialize the middleware
func InitMiddleware() *GoMiddleware {
	return &GoMiddleware{}
}

// CORS will handle the CORS middleware
func (m *GoMiddleware) CORS(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		return next(c)
	}
}

// AddContext puts a request scoped ctx.Ctx under "ctx"
func (m *GoMiddleware) AddContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			cont := ctx.From(c.Request().Context())
			cont = ctx.WithValue(cont, "requestID", reqID)
			c.Set("ctx", cont)
			return next(c)
		}
	}
}

// ResponseLogger logs response for every request
func (m *GoMiddleware) ResponseLogger() echo.MiddlewareFunc {
	met := metrics.New("http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer met.BumpTime("request.time", "method", c.Request().Method, "path", c.Path()).End()

			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			fields := log.Fields{
				"ms":         time.Since(start).Seconds() * 1000,
				"httpStatus": res.Status,
				"host":       req.Host,
				"remoteIP":   c.RealIP(),
				"uri":        req.URL.Path,
				"route":      c.Path(),
				"httpMethod": req.Method,
				"size":       res.Size,
				"userAgent":  req.UserAgent(),
				"referer":    req.Header.Get("Referer"),
			}

			if res.Status >= 400 {
				fields["nextErr"] = err
			}

			met.BumpSum("request.count", 1, "status", http.StatusText(res.Status))

			cont, ok := c.Get("ctx").(ctx.Ctx)
			if !ok {
				cont = ctx.From(req.Context())
			}
			cont.WithFields(fields).Info("response")
			return nil
		}
	}
}

// IsValidID rejects requests whose path param is not a canonical id
func IsValidID(params ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			for _, param := range params {
				if !validator.IsValidID(c.Param(param)) {
					return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput.WithMsg("invalid "+param))
				}
			}
			return next(c)
		}
	}
}
