package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/x-xyz/saleengine/base/ctx"
	hcdomain "github.com/x-xyz/saleengine/domain/healthcheck"
	"github.com/x-xyz/saleengine/domain/keys"
	"github.com/x-xyz/saleengine/service/redis"
)

// MongoPinger is satisfied by *mongoclient.Client
type MongoPinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

type impl struct {
	mgoClient  MongoPinger
	redisCache redis.Service
}

// New creates the health check repo. Either backend may be nil when the
// service runs without it.
func New(
	mgoClient MongoPinger,
	redisCache redis.Service,
) hcdomain.HealthCheckRepo {
	return &impl{
		mgoClient:  mgoClient,
		redisCache: redisCache,
	}
}

func (im *impl) PingMongo(context ctx.Ctx) error {
	if im.mgoClient == nil {
		return nil
	}
	return im.mgoClient.Ping(context, readpref.Primary())
}

func (im *impl) PingRedis(context ctx.Ctx) error {
	if im.redisCache == nil {
		return nil
	}
	return im.redisCache.Set(context, keys.RedisKey(keys.PfxHealthCheck, "testset"), []byte("1"), 30*time.Second)
}
