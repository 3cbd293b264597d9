package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain/keys"
	"github.com/x-xyz/saleengine/service/cache"
	"github.com/x-xyz/saleengine/service/cache/provider"
	"github.com/x-xyz/saleengine/service/cache/provider/primitive"
)

type cacheMiddlewareSuite struct {
	suite.Suite

	store provider.Provider
	svc   cache.Service
	e     *echo.Echo
}

func (s *cacheMiddlewareSuite) SetupTest() {
	s.store = primitive.NewPrimitive("httpCacheTest", 1)
	s.svc = cache.New(cache.ServiceConfig{
		Ttl:   30 * time.Second,
		Pfx:   HttpCachePfx,
		Cache: s.store,
	})
	s.e = echo.New()
}

func TestCacheMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(cacheMiddlewareSuite))
}

func (s *cacheMiddlewareSuite) serve(method, target string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.Set("ctx", ctx.Background())
	s.Require().NoError(CacheHttp(s.svc)(h)(c))
	return rec
}

func reply(body string, code int) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(code, body)
	}
}

func (s *cacheMiddlewareSuite) TestServesCachedResponse() {
	rec := s.serve(http.MethodGet, "/listings?b=2&a=1", reply("first", http.StatusOK))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("first", rec.Body.String())

	// params are sorted so the order does not matter
	rec = s.serve(http.MethodGet, "/listings?a=1&b=2", reply("second", http.StatusOK))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("first", rec.Body.String())

	key := generateKey("/listings?a=1&b=2")
	_, _, err := s.store.Get(ctx.Background(), keys.RedisKey(HttpCachePfx, key))
	s.NoError(err)
}

func (s *cacheMiddlewareSuite) TestSkipsErrors() {
	rec := s.serve(http.MethodGet, "/listings/x", reply("missing", http.StatusNotFound))
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.serve(http.MethodGet, "/listings/x", reply("found", http.StatusOK))
	s.Equal("found", rec.Body.String())
}

func (s *cacheMiddlewareSuite) TestSkipsWrites() {
	s.serve(http.MethodPost, "/listings", reply("one", http.StatusCreated))
	rec := s.serve(http.MethodPost, "/listings", reply("two", http.StatusCreated))
	s.Equal("two", rec.Body.String())
}
