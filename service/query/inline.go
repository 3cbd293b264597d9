package query

import (
	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
)

type inline struct{}

// Inline runs units of work directly, for the memory storage driver where
// the dispatcher is the only writer of an object
func Inline() domain.Transactor {
	return inline{}
}

func (inline) RunWithTransaction(c ctx.Ctx, run func(ctx.Ctx) error) error {
	return run(c)
}
