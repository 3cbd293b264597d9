package eventbus

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain/event"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	fail     map[string]bool
	drained  bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.fail[subject] {
		return errors.New("nats: connection closed")
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func TestNatsPublisher(t *testing.T) {
	req := require.New(t)
	conn := &fakeConn{fail: map[string]bool{"sale.events.broken": true}}
	p := NewNats(conn, "")
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	err := p.Publish(ctx.Background(),
		event.New(event.TypeBidAccepted, "o1", at, map[string]string{"bidderId": "A"}),
		event.New(event.TypeAuctionClosed, "broken", at, nil),
		event.New(event.TypeAuctionClosed, "o2", at, nil),
	)
	req.Error(err)
	req.Equal([]string{"sale.events.o1", "sale.events.o2"}, conn.subjects)

	got := event.Event{}
	req.NoError(json.Unmarshal(conn.payloads[0], &got))
	req.Equal(event.TypeBidAccepted, got.Type)
	req.Equal("o1", got.ObjectID)
	req.True(at.Equal(got.At))

	p.Close()
	req.True(conn.drained)
}
