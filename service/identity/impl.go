package identity

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/xerrors"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/base/metrics"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/keys"
	"github.com/x-xyz/saleengine/service/cache"
	"github.com/x-xyz/saleengine/service/cache/provider/primitive"
)

var met = metrics.New("identity")

// NewClient asks the account service for roles. Answers are cached in process
// for CacheTTL.
func NewClient(cfg *ClientCfg) domain.IdentityService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.CacheSizeMB <= 0 {
		cfg.CacheSizeMB = 4
	}
	return &client{
		client:  cfg.HttpClient,
		baseUrl: cfg.BaseUrl,
		timeout: cfg.Timeout,
		cache: cache.New(cache.ServiceConfig{
			Ttl:   cfg.CacheTTL,
			Pfx:   keys.PfxIdentity,
			Cache: primitive.NewPrimitive(keys.PfxIdentity, cfg.CacheSizeMB),
		}),
	}
}

type client struct {
	client  http.Client
	baseUrl string
	timeout time.Duration
	cache   cache.Service
}

func (c *client) IsEligibleBidder(ctx ctx.Ctx, userID string) (bool, error) {
	var eligible bool
	key := keys.RedisKey("bidder", userID)
	if err := c.cache.GetByFunc(ctx, key, &eligible, func() (interface{}, error) {
		resp := eligibilityResp{}
		u := fmt.Sprintf("%s/users/%s/bidder-eligibility", c.baseUrl, url.PathEscape(userID))
		if err := c.get(ctx, u, &resp); err != nil {
			return nil, err
		}
		return &resp.Eligible, nil
	}); err != nil {
		return false, err
	}
	return eligible, nil
}

func (c *client) IsSeller(ctx ctx.Ctx, userID, objectID string) (bool, error) {
	var seller bool
	key := keys.RedisKey("seller", userID, objectID)
	if err := c.cache.GetByFunc(ctx, key, &seller, func() (interface{}, error) {
		resp := sellerResp{}
		u := fmt.Sprintf("%s/users/%s/objects/%s/seller", c.baseUrl, url.PathEscape(userID), url.PathEscape(objectID))
		if err := c.get(ctx, u, &resp); err != nil {
			return nil, err
		}
		return &resp.Seller, nil
	}); err != nil {
		return false, err
	}
	return seller, nil
}

func (c *client) get(bCtx ctx.Ctx, u string, out interface{}) error {
	defer met.BumpTime("latency").End()

	c2, cancel := ctx.WithTimeout(bCtx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(c2, http.MethodGet, u, nil)
	if err != nil {
		c2.WithFields(log.Fields{"url": u, "err": err}).Error("NewRequestWithContext failed")
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c2.WithFields(log.Fields{"url": u, "err": err}).Warn("client.Do failed")
		return xerrors.Errorf("GET %s: %v: %w", u, err, domain.ErrExternal)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c2.WithFields(log.Fields{"url": u, "statusCode": resp.StatusCode}).Warn("resp.StatusCode != 200")
		return xerrors.Errorf("GET %s: status %d: %w", u, resp.StatusCode, domain.ErrExternal)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c2.WithFields(log.Fields{"url": u, "err": err}).Error("json.Decode failed")
		return xerrors.Errorf("decode %s: %v: %w", u, err, domain.ErrExternal)
	}
	return nil
}
