package redis

import (
	"errors"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/saleengine/base/ctx"
)

const (
	// Forever means the key never expires
	Forever = time.Duration(0)
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = redis.ErrNil
	// ErrNoTTL is returned by TTL when the key exists without expire
	ErrNoTTL = errors.New("key has no ttl")
)

// Service is the subset of redis commands the engine relies on
type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	// SetNX sets key only when it does not exist and reports whether it did
	SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) (bool, error)
	Del(context ctx.Ctx, keys ...string) (int, error)
	Exists(context ctx.Ctx, key string) (bool, error)
	Incrby(context ctx.Ctx, key string, val int) (int64, error)
	// TTL returns the remaining time to live in seconds
	TTL(context ctx.Ctx, key string) (int, error)
	Ping(context ctx.Ctx) error
}
