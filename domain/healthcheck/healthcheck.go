package healthcheck

import (
	"github.com/x-xyz/saleengine/base/ctx"
)

// Dependencies probed by a health check
const (
	DepMongo = "mongo"
	DepRedis = "redis"
)

// Report maps every failing dependency to its error message
type Report struct {
	Failed map[string]string `json:"failed,omitempty"`
}

func (r *Report) Healthy() bool {
	return len(r.Failed) == 0
}

// HealthCheckUsecase checks every backing store and reports the ones that are down
type HealthCheckUsecase interface {
	Check(context ctx.Ctx) *Report
}

// HealthCheckRepo pings the backing stores. A store the service runs
// without is reported healthy.
type HealthCheckRepo interface {
	PingMongo(context ctx.Ctx) error
	PingRedis(context ctx.Ctx) error
}
