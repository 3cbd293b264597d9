package usecase

import (
	"time"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/base/metrics"
	hcdomain "github.com/x-xyz/saleengine/domain/healthcheck"
)

const defaultTimeout = 2 * time.Second

var met = metrics.New("healthcheck")

type impl struct {
	repo    hcdomain.HealthCheckRepo
	timeout time.Duration
}

// New creates the health check usecase, a non positive timeout falls back to 2s
func New(repo hcdomain.HealthCheckRepo, timeout time.Duration) hcdomain.HealthCheckUsecase {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &impl{
		repo:    repo,
		timeout: timeout,
	}
}

func (im *impl) Check(context ctx.Ctx) *hcdomain.Report {
	c, cancel := ctx.WithTimeout(context, im.timeout)
	defer cancel()

	report := &hcdomain.Report{}
	pings := []struct {
		dep  string
		ping func(ctx.Ctx) error
	}{
		{hcdomain.DepMongo, im.repo.PingMongo},
		{hcdomain.DepRedis, im.repo.PingRedis},
	}
	for _, p := range pings {
		if err := p.ping(c); err != nil {
			context.WithFields(log.Fields{"dep": p.dep, "err": err}).Error("dependency unhealthy")
			met.BumpSum("dependency.down", 1, "dep", p.dep)
			if report.Failed == nil {
				report.Failed = map[string]string{}
			}
			report.Failed[p.dep] = err.Error()
		}
	}
	return report
}
