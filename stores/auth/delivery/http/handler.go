package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/delivery"
	"github.com/x-xyz/saleengine/domain"
)

type authHandler struct {
	auth domain.AuthUsecase
}

// New registers the token endpoint. Tokens are normally issued by the account
// service, the endpoint only exists for local development.
func New(e *echo.Echo, auth domain.AuthUsecase) {
	handler := &authHandler{
		auth: auth,
	}
	g := e.Group("/auth")
	g.POST("/sign", handler.sign)
}

// sign
//
//	@Summary		Get access token
//	@Description	Create a bearer token for the given user id, local development only
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			params	body		http.sign.params	true	"params"
//	@Success		201		{object}	object{data=string}
//	@Failure		400
//	@Failure		500
//	@Router			/auth/sign [post]
func (h *authHandler) sign(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		UserID string `json:"userId" validate:"required"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Warn("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if tkn, err := h.auth.SignToken(ctx, p.UserID); err != nil {
		ctx.WithField("err", err).Error("auth.SignToken failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, tkn)
	}
}
