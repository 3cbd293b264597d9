package redisclient

import (
	"context"
	"runtime"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/saleengine/base/backoff"
	"github.com/x-xyz/saleengine/base/log"
)

const (
	dialTimeout  = 2 * time.Second
	readTimeout  = 1500 * time.Millisecond
	writeTimeout = 1500 * time.Millisecond

	dialAttempts = 4
)

// RedisParam is the optional param for redis connection
type RedisParam struct {
	PoolMultiplier float64
	// Retry dials up to dialAttempts times with exponential backoff
	Retry bool
}

// MustConnectRedis connects to one redis uri and panics on failure
func MustConnectRedis(uri, password string, param ...RedisParam) *redis.Pool {
	p, err := ConnectRedis(uri, password, param...)
	if err != nil {
		log.Log().WithFields(log.Fields{"redisURI": uri, "err": err}).Panic("fail to dial Redis")
	}
	return p
}

// ConnectRedis builds a pool for uri and checks that one connection can PING
func ConnectRedis(uri, password string, param ...RedisParam) (*redis.Pool, error) {
	p := NewPool(uri, password, param...)

	attempts := 1
	if len(param) > 0 && param[0].Retry {
		attempts = dialAttempts
	}

	err := backoff.Retry(context.Background(), backoff.NewExponential(time.Second, 8*time.Second), attempts, nil, func() error {
		c, err := p.Dial()
		if err != nil {
			log.Log().WithFields(log.Fields{"redisURI": uri, "err": err}).Error("fail to dial Redis")
			return err
		}
		defer c.Close()
		if err := p.TestOnBorrow(c, time.Time{}); err != nil {
			log.Log().WithFields(log.Fields{"redisURI": uri, "err": err}).Error("fail to TestOnBorrow Redis")
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Log().WithField("redisURI", uri).Info("redis connected")
	return p, nil
}

// NewPool returns a lazily dialing pool
func NewPool(uri, password string, param ...RedisParam) *redis.Pool {
	maxIdle := 200
	maxActive := 1024
	if len(param) > 0 && param[0].PoolMultiplier > 0 {
		cpu := float64(runtime.NumCPU())
		// allowing 25% idle connection
		maxIdle = int(cpu * param[0].PoolMultiplier / 4)
		maxActive = int(cpu * param[0].PoolMultiplier)
	}

	opts := []redis.DialOption{
		redis.DialConnectTimeout(dialTimeout),
		redis.DialReadTimeout(readTimeout),
		redis.DialWriteTimeout(writeTimeout),
	}
	if password != "" {
		opts = append(opts, redis.DialPassword(password))
	}

	return &redis.Pool{
		MaxIdle:     maxIdle,
		MaxActive:   maxActive,
		Wait:        true,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", uri, opts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			// No need to test if it's been recycled less than 1 sec.
			if time.Since(t) < time.Second {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}
