package domain

import (
	"github.com/golang-jwt/jwt"

	"github.com/x-xyz/saleengine/base/ctx"
)

type JwtCustomClaims struct {
	UserID string `json:"uid"`
	jwt.StandardClaims
}

// AuthUsecase turns bearer tokens issued by the account service into user ids
type AuthUsecase interface {
	SignToken(ctx ctx.Ctx, userID string) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (userID string, err error)
}
