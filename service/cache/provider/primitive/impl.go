package primitive

import (
	"strconv"
	"time"

	"github.com/coocood/freecache"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/service/cache/provider"
)

type impl struct {
	name  string
	cache *freecache.Cache
}

// NewPrimitive returns an in process cache of sizeMB megabytes
func NewPrimitive(name string, sizeMB int) provider.Provider {
	return &impl{name, freecache.NewCache(sizeMB * 1024 * 1024)}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, expireAt, err := im.cache.GetWithExpiration([]byte(key))
	if err == freecache.ErrNotFound {
		return nil, 0, provider.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key, "cache": im.name}).Error("freecache.Get failed")
		return nil, 0, err
	}
	return val, remaining(expireAt), nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	if err := im.cache.Set([]byte(key), value, int(ttl.Seconds())); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key, "cache": im.name}).Error("freecache.Set failed")
		return err
	}
	return nil
}

func (im *impl) Incr(c ctx.Ctx, key string, val int) (int64, time.Duration, error) {
	v, ttl, err := im.Get(c, key)
	if err != nil {
		return 0, 0, err
	}

	i, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("strconv.ParseInt failed")
		return 0, 0, err
	}

	nv := i + int64(val)
	return nv, ttl, im.Set(c, key, []byte(strconv.FormatInt(nv, 10)), ttl)
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	im.cache.Del([]byte(key))
	return nil
}

// remaining turns freecache's absolute expiry (unix seconds, 0 for none) into a ttl
func remaining(expireAt uint32) time.Duration {
	if expireAt == 0 {
		return 0
	}
	left := time.Until(time.Unix(int64(expireAt), 0))
	if left < 0 {
		return 0
	}
	return left.Round(time.Second)
}
