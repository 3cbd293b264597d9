package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/service/cache/provider"
	"github.com/x-xyz/saleengine/service/redis"
	mockRedis "github.com/x-xyz/saleengine/service/redis/mocks"
)

var (
	mockCtx = ctx.Background()
)

type testsuite struct {
	suite.Suite
	im    *impl
	redis *mockRedis.Service
}

func (ts *testsuite) SetupTest() {
	ts.redis = &mockRedis.Service{}
	ts.im = NewRedis(ts.redis).(*impl)
}

func (ts *testsuite) TearDownTest() {
	ts.redis.AssertExpectations(ts.T())
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestSet() {
	ts.redis.On("Set", mockCtx, "key", []byte("value"), time.Second).Return(nil).Once()
	ts.NoError(ts.im.Set(mockCtx, "key", []byte("value"), time.Second))
}

func (ts *testsuite) TestGet() {
	k := "key"
	v := []byte("value")

	ts.redis.On("Get", mockCtx, k).Return(nil, redis.ErrNotFound).Once()
	res, _, err := ts.im.Get(mockCtx, k)
	ts.Nil(res)
	ts.Equal(provider.ErrNotFound, err)

	ts.redis.On("Get", mockCtx, k).Return(v, nil).Once()
	ts.redis.On("TTL", mockCtx, k).Return(3, nil).Once()
	res, ttl, err := ts.im.Get(mockCtx, k)
	ts.NoError(err)
	ts.Equal(v, res)
	ts.Equal(3*time.Second, ttl)

	ts.redis.On("Get", mockCtx, k).Return(v, nil).Once()
	ts.redis.On("TTL", mockCtx, k).Return(-2, redis.ErrNotFound).Once()
	_, _, err = ts.im.Get(mockCtx, k)
	ts.Equal(provider.ErrNotFound, err)
}

func (ts *testsuite) TestIncr() {
	k := "key"

	ts.redis.On("Exists", mockCtx, k).Return(false, nil).Once()
	_, _, err := ts.im.Incr(mockCtx, k, 2)
	ts.Equal(provider.ErrNotFound, err)

	ts.redis.On("Exists", mockCtx, k).Return(true, nil).Once()
	ts.redis.On("Incrby", mockCtx, k, 2).Return(int64(3), nil).Once()
	ts.redis.On("TTL", mockCtx, k).Return(1, nil).Once()
	res, ttl, err := ts.im.Incr(mockCtx, k, 2)
	ts.NoError(err)
	ts.Equal(int64(3), res)
	ts.Equal(time.Second, ttl)
}

func (ts *testsuite) TestDel() {
	ts.redis.On("Del", mockCtx, "key").Return(1, nil).Once()
	ts.NoError(ts.im.Del(mockCtx, "key"))
}
