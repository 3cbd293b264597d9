package redis

import (
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/metrics"
	"github.com/x-xyz/saleengine/domain/keys"
)

const (
	// retTTLNoKey is the return value of TTL when the key does not exist
	retTTLNoKey = -2

	// retTTLNoExpire is the return value of TTL when the key exists but has
	// no associated expire
	retTTLNoExpire = -1
)

var (
	delBatchSize = 100
)

type redImpl struct {
	name string
	met  metrics.Service
	pool *redis.Pool
}

// New wraps a redigo pool
func New(name string, metrics metrics.Service, pool *redis.Pool) Service {
	return &redImpl{
		name: name,
		met:  metrics,
		pool: pool,
	}
}

func (r *redImpl) getConn(context ctx.Ctx) (redis.Conn, error) {
	defer r.met.BumpTime("getconn.time", "cluster", r.name).End()

	conn, err := r.pool.GetContext(context)
	if err != nil {
		r.met.BumpSum("getConn.err", 1, "cluster", r.name)
		return nil, err
	}
	return conn, nil
}

func (r *redImpl) connDo(context ctx.Ctx, commandName string, args ...interface{}) (interface{}, error) {
	conn, err := r.getConn(context)
	if err != nil {
		return nil, err
	}

	reply, err := conn.Do(commandName, args...)

	// close asap so the pool does not hold many connections at once
	if err := conn.Close(); err != nil {
		r.met.BumpSum("conn.Close.err", 1, "cluster", r.name)
	}
	return reply, err
}

func (r *redImpl) Get(context ctx.Ctx, key string) ([]byte, error) {
	tags := []string{"func", "get", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	val, err := redis.Bytes(r.connDo(context, "GET", key))
	if err != nil {
		if err != ErrNotFound {
			context.WithField("err", err).Error("GET redis failed")
		}
		return nil, err
	}
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)
	return val, nil
}

func (r *redImpl) Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error {
	tags := []string{"func", "set", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)

	var err error
	if expire == Forever {
		_, err = r.connDo(context, "SET", key, val)
	} else {
		_, err = r.connDo(context, "SET", key, val, "PX", int(expire/time.Millisecond))
	}
	if err != nil {
		context.WithField("err", err).Error("SET redis failed")
	}
	return err
}

func (r *redImpl) SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) (bool, error) {
	tags := []string{"func", "setnx", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	var err error
	if expire == Forever {
		_, err = redis.String(r.connDo(context, "SET", key, val, "NX"))
	} else {
		_, err = redis.String(r.connDo(context, "SET", key, val, "NX", "PX", int(expire/time.Millisecond)))
	}
	if err == ErrNotFound {
		return false, nil
	} else if err != nil {
		context.WithField("err", err).Error("SETNX redis failed")
		return false, err
	}
	return true, nil
}

func (r *redImpl) Del(context ctx.Ctx, ks ...string) (int, error) {
	if len(ks) == 0 {
		return 0, fmt.Errorf("length of keys is 0")
	}

	tags := []string{"func", "del", "cluster", r.name, "prefix", keys.GetPrefix(ks[0])}
	defer r.met.BumpTime("time", tags...).End()

	affected := 0
	for i := 0; i < len(ks); i += delBatchSize {
		end := i + delBatchSize
		if end > len(ks) {
			end = len(ks)
		}
		res, err := redis.Int(r.connDo(context, "DEL", redis.Args{}.AddFlat(ks[i:end])...))
		if err != nil {
			context.WithField("err", err).Error("DEL redis failed")
			return 0, err
		}
		affected += res
	}
	return affected, nil
}

// Exists Returns if the key exists.
func (r *redImpl) Exists(context ctx.Ctx, key string) (bool, error) {
	defer r.met.BumpTime("time", "func", "exists", "cluster", r.name, "prefix", keys.GetPrefix(key)).End()
	res, err := redis.Bool(r.connDo(context, "EXISTS", key))
	if err != nil {
		context.WithField("err", err).Error("EXISTS redis failed")
	}
	return res, err
}

func (r *redImpl) Incrby(context ctx.Ctx, key string, val int) (int64, error) {
	defer r.met.BumpTime("time", "func", "incrby", "cluster", r.name, "prefix", keys.GetPrefix(key)).End()
	res, err := redis.Int64(r.connDo(context, "INCRBY", key, val))
	if err != nil {
		context.WithField("err", err).Error("INCRBY redis failed")
	}
	return res, err
}

func (r *redImpl) TTL(context ctx.Ctx, key string) (int, error) {
	defer r.met.BumpTime("time", "func", "ttl", "cluster", r.name, "prefix", keys.GetPrefix(key)).End()
	res, err := redis.Int(r.connDo(context, "TTL", key))
	if err != nil {
		context.WithField("err", err).Error("TTL redis failed")
		return 0, err
	}

	if res == retTTLNoKey {
		return res, ErrNotFound
	} else if res == retTTLNoExpire {
		return res, ErrNoTTL
	}
	return res, nil
}

func (r *redImpl) Ping(context ctx.Ctx) error {
	_, err := r.connDo(context, "PING")
	return err
}
