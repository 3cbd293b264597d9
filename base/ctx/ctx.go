package ctx

import (
	"context"
	"time"

	log "github.com/x-xyz/saleengine/base/log"
)

// Ctx is passed through every usecase and repository call. It bundles the
// request context with a logger that already carries request scoped fields.
type Ctx struct {
	context.Context
	log.Logger
}

func Background() Ctx {
	return Ctx{
		Context: context.Background(),
		Logger:  log.Log(),
	}
}

func Todo() Ctx {
	return Ctx{
		Context: context.TODO(),
		Logger:  log.Log(),
	}
}

// From wraps a plain context.Context
func From(c context.Context) Ctx {
	if cc, ok := c.(Ctx); ok {
		return cc
	}
	return Ctx{
		Context: c,
		Logger:  log.Log(),
	}
}

func WithValue(parent Ctx, key string, val interface{}) Ctx {
	return Ctx{
		Context: context.WithValue(parent, key, val),
		Logger:  parent.Logger.WithField(key, val),
	}
}

func WithValues(parent Ctx, kvs map[string]interface{}) Ctx {
	c := parent
	for k, v := range kvs {
		c = WithValue(c, k, v)
	}
	return c
}

// WithLogFields only decorates the logger, the context values stay untouched
func WithLogFields(parent Ctx, fields log.Fields) Ctx {
	return Ctx{
		Context: parent.Context,
		Logger:  parent.Logger.WithFields(fields),
	}
}

// Detach keeps the logger but drops cancellation of the parent. Used when a
// command admitted for an object must finish even if the caller went away.
func Detach(parent Ctx) Ctx {
	return Ctx{
		Context: context.Background(),
		Logger:  parent.Logger,
	}
}

func WithCancel(parent Ctx) (Ctx, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	return Ctx{
		Context: ctx,
		Logger:  parent.Logger,
	}, cancel
}

func WithTimeout(parent Ctx, timeout time.Duration) (Ctx, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return Ctx{
		Context: ctx,
		Logger:  parent.Logger,
	}, cancel
}
