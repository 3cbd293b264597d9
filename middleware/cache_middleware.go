package middleware

import (
	"bufio"
	"bytes"
	"hash/fnv"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/service/cache"
)

// HttpCachePfx prefixes every cached response key
const HttpCachePfx = "httpCacheMiddleware"

// Response is the cached response data structure.
type Response struct {
	// Value is the cached response value.
	Value []byte

	// Header is the cached response header.
	Header http.Header
}

type bodyDumpResponseWriter struct {
	statusCode int
	io.Writer
	http.ResponseWriter
}

func (w *bodyDumpResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyDumpResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *bodyDumpResponseWriter) Flush() {
	w.ResponseWriter.(http.Flusher).Flush()
}

func (w *bodyDumpResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.(http.Hijacker).Hijack()
}

func sortURLParams(URL *url.URL) {
	params := URL.Query()
	for _, param := range params {
		sort.Strings(param)
	}
	URL.RawQuery = params.Encode()
}

func generateKey(URL string) string {
	hash := fnv.New64a()
	hash.Write([]byte(URL))

	return strconv.FormatUint(hash.Sum64(), 36)
}

// CacheHttp serves successful GET responses from svc until its ttl runs out.
// Only use it on reads that tolerate that much staleness.
func CacheHttp(svc cache.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			ctx := c.Get("ctx").(ctx.Ctx)

			sortURLParams(c.Request().URL)
			key := generateKey(c.Request().URL.String())

			response := Response{}
			err := svc.Get(ctx, key, &response)
			if err == nil {
				// cache hit
				for k, v := range response.Header {
					c.Response().Header().Set(k, strings.Join(v, ","))
				}
				c.Response().WriteHeader(http.StatusOK)
				_, err := c.Response().Write(response.Value)
				return err
			} else if err != cache.ErrNotFound {
				ctx.WithFields(log.Fields{
					"err": err,
				}).Error("failed to cacheService.Get")
			}

			// cache miss
			resBody := new(bytes.Buffer)
			mw := io.MultiWriter(c.Response().Writer, resBody)
			writer := &bodyDumpResponseWriter{Writer: mw, ResponseWriter: c.Response().Writer}
			c.Response().Writer = writer
			if err := next(c); err != nil {
				c.Error(err)
			}

			if writer.statusCode < 400 {
				response := Response{
					Value:  resBody.Bytes(),
					Header: writer.Header(),
				}

				if err := svc.Set(ctx, key, response); err != nil {
					ctx.WithFields(log.Fields{
						"err": err,
					}).Error("failed to cacheService.Set")
				}
			}

			return nil
		}
	}
}
