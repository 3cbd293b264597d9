package cache

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain/keys"
	"github.com/x-xyz/saleengine/service/cache/provider"
	"github.com/x-xyz/saleengine/service/cache/provider/primitive"
)

var (
	mockCtx = ctx.Background()
)

type snapshot struct {
	BidID  string `json:"bidId"`
	Amount string `json:"amount"`
}

type testsuite struct {
	suite.Suite
	im    *impl
	cache provider.Provider
}

func (ts *testsuite) SetupTest() {
	ts.cache = primitive.NewPrimitive("test", 1)
	ts.im = New(ServiceConfig{
		Ttl:   time.Minute,
		Pfx:   "testing",
		Cache: ts.cache,
	}).(*impl)
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestGet() {
	c := &snapshot{}
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "o1", c))

	raw, err := json.Marshal(snapshot{"b1", "110"})
	ts.Require().NoError(err)
	ts.Require().NoError(ts.cache.Set(mockCtx, keys.RedisKey("testing", "o1"), raw, time.Minute))

	ts.NoError(ts.im.Get(mockCtx, "o1", c))
	ts.Equal(snapshot{"b1", "110"}, *c)
}

func (ts *testsuite) TestSetDel() {
	ts.NoError(ts.im.Set(mockCtx, "o1", snapshot{"b2", "160"}))

	raw, _, err := ts.cache.Get(mockCtx, keys.RedisKey("testing", "o1"))
	ts.Require().NoError(err)
	c := &snapshot{}
	ts.NoError(json.Unmarshal(raw, c))
	ts.Equal("b2", c.BidID)

	ts.NoError(ts.im.Del(mockCtx, "o1"))
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "o1", c))
}

func (ts *testsuite) TestGetByFunc() {
	calls := 0
	getter := func() (interface{}, error) {
		calls++
		return &snapshot{"b1", "110"}, nil
	}

	c := &snapshot{}
	ts.NoError(ts.im.GetByFunc(mockCtx, "o1", c, getter))
	ts.Equal(snapshot{"b1", "110"}, *c)

	c = &snapshot{}
	ts.NoError(ts.im.GetByFunc(mockCtx, "o1", c, getter))
	ts.Equal(snapshot{"b1", "110"}, *c)
	ts.Equal(1, calls, "second read is served from cache")
}

func (ts *testsuite) TestGetByFuncGetterError() {
	errBoom := errors.New("boom")
	err := ts.im.GetByFunc(mockCtx, "o1", &snapshot{}, func() (interface{}, error) {
		return nil, errBoom
	})
	ts.Equal(errBoom, err)
}
