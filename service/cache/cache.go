package cache

import (
	"errors"
	"time"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/service/cache/provider"
)

var (
	ErrNotFound = errors.New("cache not found")
)

// OneTimeGetter loads the value on a miss. It must return a pointer of the
// same type as the container passed to GetByFunc.
type OneTimeGetter func() (interface{}, error)

type Serializer func(interface{}) ([]byte, error)

type Deserializer func([]byte, interface{}) error

// Service is a typed cache on top of a provider
type Service interface {
	GetByFunc(c ctx.Ctx, key string, container interface{}, getter OneTimeGetter) error
	Get(c ctx.Ctx, key string, container interface{}) error
	Set(c ctx.Ctx, key string, value interface{}) error
	Del(c ctx.Ctx, key string) error
}

type ServiceConfig struct {
	Ttl         time.Duration
	Pfx         string
	Cache       provider.Provider
	Serialize   Serializer
	Deserialize Deserializer
}
