package transaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanAdvanceTo(t *testing.T) {
	assert := assert.New(t)

	forward := [][2]Status{
		{StatusPendingPayment, StatusPaymentHeld},
		{StatusPaymentHeld, StatusInTransit},
		{StatusInTransit, StatusDelivered},
		{StatusDelivered, StatusCompleted},
		{StatusPendingPayment, StatusCancelled},
		{StatusPaymentHeld, StatusCancelled},
	}
	for _, f := range forward {
		assert.True(f[0].CanAdvanceTo(f[1]), "%s -> %s", f[0], f[1])
	}

	blocked := [][2]Status{
		{StatusPaymentHeld, StatusPendingPayment},
		{StatusPendingPayment, StatusInTransit},
		{StatusInTransit, StatusCancelled},
		{StatusDelivered, StatusCancelled},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusPendingPayment},
		{StatusCompleted, StatusDelivered},
		{StatusPaymentHeld, StatusPaymentHeld},
	}
	for _, b := range blocked {
		assert.False(b[0].CanAdvanceTo(b[1]), "%s -> %s", b[0], b[1])
	}
}

func TestMatchesDeliveredBefore(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	delivered := now.Add(-time.Hour)

	opts, err := GetFindAllOptions(WithStatuses(StatusDelivered), WithDeliveredBefore(now))
	assert.NoError(t, err)

	assert.True(t, opts.Matches(&Transaction{Status: StatusDelivered, DeliveredAt: &delivered}))
	assert.False(t, opts.Matches(&Transaction{Status: StatusDelivered}))
	assert.False(t, opts.Matches(&Transaction{Status: StatusInTransit, DeliveredAt: &delivered}))

	later := now.Add(time.Minute)
	assert.False(t, opts.Matches(&Transaction{Status: StatusDelivered, DeliveredAt: &later}))
}

func TestIsParticipant(t *testing.T) {
	tx := &Transaction{BuyerID: "b", SellerID: "s"}
	assert.True(t, tx.IsParticipant("b"))
	assert.True(t, tx.IsParticipant("s"))
	assert.False(t, tx.IsParticipant("x"))
	assert.False(t, tx.IsParticipant(""))
}
