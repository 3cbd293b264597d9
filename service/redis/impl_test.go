package redis

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/metrics"
)

var mockCtx = ctx.Background()

type fakeConn struct {
	mu      sync.Mutex
	replies map[string]interface{}
	cmds    [][]interface{}
}

func (c *fakeConn) Close() error { return nil }
func (c *fakeConn) Err() error   { return nil }

func (c *fakeConn) Do(commandName string, args ...interface{}) (interface{}, error) {
	if commandName == "" {
		return nil, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cmds = append(c.cmds, append([]interface{}{commandName}, args...))
	return c.replies[commandName], nil
}

func (c *fakeConn) Send(commandName string, args ...interface{}) error { return nil }
func (c *fakeConn) Flush() error                                       { return nil }
func (c *fakeConn) Receive() (interface{}, error)                      { return nil, nil }

type redisSuite struct {
	suite.Suite

	conn *fakeConn
	svc  Service
}

func TestRedisSuite(t *testing.T) {
	suite.Run(t, new(redisSuite))
}

func (s *redisSuite) SetupTest() {
	s.conn = &fakeConn{replies: map[string]interface{}{}}
	s.svc = New("test", metrics.New("redis_test"), &redis.Pool{
		Dial: func() (redis.Conn, error) { return s.conn, nil },
	})
}

func (s *redisSuite) TestGet() {
	s.conn.replies["GET"] = []byte("value")
	val, err := s.svc.Get(mockCtx, "k")
	s.NoError(err)
	s.Equal([]byte("value"), val)

	s.conn.replies["GET"] = nil
	_, err = s.svc.Get(mockCtx, "k")
	s.Equal(ErrNotFound, err)
}

func (s *redisSuite) TestSetNX() {
	s.conn.replies["SET"] = "OK"
	ok, err := s.svc.SetNX(mockCtx, "lease", []byte("pod-1"), time.Second)
	s.NoError(err)
	s.True(ok)
	s.Equal([]interface{}{"SET", "lease", []byte("pod-1"), "NX", "PX", 1000}, s.conn.cmds[0])

	s.conn.replies["SET"] = nil
	ok, err = s.svc.SetNX(mockCtx, "lease", []byte("pod-2"), time.Second)
	s.NoError(err)
	s.False(ok)
}

func (s *redisSuite) TestDialFailure() {
	svc := New("test", metrics.New("redis_test"), &redis.Pool{
		Dial: func() (redis.Conn, error) { return nil, errors.New("refused") },
	})
	s.Error(svc.Ping(mockCtx))
	_, err := svc.Get(mockCtx, "k")
	s.Error(err)
	s.NotEqual(ErrNotFound, err)
}
