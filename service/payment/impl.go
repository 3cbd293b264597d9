package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/xerrors"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/base/metrics"
	"github.com/x-xyz/saleengine/domain"
)

var met = metrics.New("payment")

// NewClient talks to the payment provider over http. Network failures and
// 5xx answers are domain.ErrExternal.
func NewClient(cfg *ClientCfg) domain.PaymentService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &client{
		client:  cfg.HttpClient,
		baseUrl: cfg.BaseUrl,
		timeout: cfg.Timeout,
	}
}

type client struct {
	client  http.Client
	baseUrl string
	timeout time.Duration
}

func (c *client) HasVerifiedPaymentMethod(ctx ctx.Ctx, userID string) (bool, error) {
	resp := verifiedResp{}
	u := fmt.Sprintf("%s/users/%s/payment-methods/verified", c.baseUrl, url.PathEscape(userID))
	if err := c.do(ctx, http.MethodGet, u, nil, &resp); err != nil {
		return false, err
	}
	return resp.Verified, nil
}

func (c *client) CaptureFunds(ctx ctx.Ctx, req domain.CaptureRequest) error {
	return c.do(ctx, http.MethodPost, c.baseUrl+"/captures", req, nil)
}

func (c *client) Refund(ctx ctx.Ctx, req domain.RefundRequest) error {
	return c.do(ctx, http.MethodPost, c.baseUrl+"/refunds", req, nil)
}

func (c *client) do(bCtx ctx.Ctx, method, u string, body, out interface{}) error {
	defer met.BumpTime("latency", "method", method).End()

	c2, cancel := ctx.WithTimeout(bCtx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c2.WithField("err", err).Error("json.Marshal failed")
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(c2, method, u, reader)
	if err != nil {
		c2.WithFields(log.Fields{"url": u, "err": err}).Error("NewRequestWithContext failed")
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c2.WithFields(log.Fields{"url": u, "err": err}).Warn("client.Do failed")
		met.BumpSum("err", 1, "reason", "network")
		return xerrors.Errorf("%s %s: %v: %w", method, u, err, domain.ErrExternal)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		met.BumpSum("err", 1, "reason", "5xx")
		return xerrors.Errorf("%s %s: status %d: %w", method, u, resp.StatusCode, domain.ErrExternal)
	case resp.StatusCode >= http.StatusBadRequest:
		c2.WithFields(log.Fields{"url": u, "statusCode": resp.StatusCode}).Warn("payment request declined")
		met.BumpSum("err", 1, "reason", "4xx")
		return xerrors.Errorf("%s %s: status %d: %w", method, u, resp.StatusCode, ErrDeclined)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c2.WithFields(log.Fields{"url": u, "err": err}).Error("json.Decode failed")
		return xerrors.Errorf("decode %s: %v: %w", u, err, domain.ErrExternal)
	}
	return nil
}
