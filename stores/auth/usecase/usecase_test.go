package usecase_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/stores/auth/usecase"
)

func TestSignAndParseToken(t *testing.T) {
	ctx := ctx.Background()
	u := usecase.New("jwt-secret", time.Hour)
	tkn, err := u.SignToken(ctx, "user-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, tkn)
	uid, err := u.ParseToken(ctx, tkn)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", uid)

	_, err = usecase.New("other-secret", time.Hour).ParseToken(ctx, tkn)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestExpiredToken(t *testing.T) {
	claims := domain.JwtCustomClaims{
		UserID:         "user-1",
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()},
	}
	tkn, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("jwt-secret"))
	assert.NoError(t, err)

	_, err = usecase.New("jwt-secret", time.Hour).ParseToken(ctx.Background(), tkn)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
