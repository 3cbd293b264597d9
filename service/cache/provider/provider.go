package provider

import (
	"errors"
	"time"

	"github.com/x-xyz/saleengine/base/ctx"
)

var (
	ErrNotFound = errors.New("cache not found")
)

// Provider is a raw byte cache, in process or shared
type Provider interface {
	Get(c ctx.Ctx, key string) ([]byte, time.Duration, error)
	Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error
	Incr(c ctx.Ctx, key string, val int) (int64, time.Duration, error)
	Del(c ctx.Ctx, key string) error
}
