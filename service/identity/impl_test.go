package identity

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/saleobject"
	soRepository "github.com/x-xyz/saleengine/stores/saleobject/repository"
)

func TestClientCachesAnswers(t *testing.T) {
	req := require.New(t)

	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/users/pro/bidder-eligibility", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"eligible":true}`))
	})
	mux.HandleFunc("/users/pro/objects/o1/seller", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"seller":false}`))
	})
	mux.HandleFunc("/users/down/bidder-eligibility", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(&ClientCfg{BaseUrl: srv.URL})
	bCtx := ctx.Background()

	for i := 0; i < 3; i++ {
		ok, err := c.IsEligibleBidder(bCtx, "pro")
		req.NoError(err)
		req.True(ok)
	}
	req.Equal(int32(1), atomic.LoadInt32(&calls))

	ok, err := c.IsSeller(bCtx, "pro", "o1")
	req.NoError(err)
	req.False(ok)

	_, err = c.IsEligibleBidder(bCtx, "down")
	req.ErrorIs(err, domain.ErrExternal)
}

func TestLocal(t *testing.T) {
	req := require.New(t)
	bCtx := ctx.Background()
	repo := soRepository.NewMemorySaleObjectRepo()
	req.NoError(repo.Create(bCtx, &saleobject.SaleObject{ID: "o1", SellerID: "s"}))

	l := NewLocal(repo)
	ok, err := l.IsSeller(bCtx, "s", "o1")
	req.NoError(err)
	req.True(ok)

	ok, err = l.IsSeller(bCtx, "x", "o1")
	req.NoError(err)
	req.False(ok)

	_, err = l.IsSeller(bCtx, "s", "missing")
	req.ErrorIs(err, domain.ErrObjectNotFound)
}
