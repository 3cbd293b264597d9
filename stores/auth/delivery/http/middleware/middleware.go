package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
)

// UserIDKey holds the authenticated user id in echo.Context
const UserIDKey = "userId"

type AuthMiddleware struct {
	auth domain.AuthUsecase
}

func New(auth domain.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

func (m *AuthMiddleware) Auth() echo.MiddlewareFunc {
	return middleware.KeyAuth(m.validateAuthToken)
}

func (m *AuthMiddleware) validateAuthToken(key string, c echo.Context) (bool, error) {
	ctx := c.Get("ctx").(ctx.Ctx)
	if uid, err := m.auth.ParseToken(ctx, key); err != nil {
		ctx.WithField("err", err).Warn("auth.ParseToken failed")
		return false, err
	} else {
		c.Set(UserIDKey, uid)
		return true, nil
	}
}

// UserID returns the id set by Auth
func UserID(c echo.Context) string {
	uid, _ := c.Get(UserIDKey).(string)
	return uid
}
