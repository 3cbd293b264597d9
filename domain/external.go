package domain

import (
	"github.com/shopspring/decimal"

	"github.com/x-xyz/saleengine/base/ctx"
)

// IdentityService answers role questions owned by the account service
type IdentityService interface {
	IsEligibleBidder(ctx ctx.Ctx, userID string) (bool, error)
	IsSeller(ctx ctx.Ctx, userID, objectID string) (bool, error)
}

type CaptureRequest struct {
	TransactionID string          `json:"transactionId"`
	BuyerID       string          `json:"buyerId"`
	Amount        decimal.Decimal `json:"amount"`
}

type RefundRequest struct {
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason,omitempty"`
}

// PaymentService holds and refunds buyer funds. Failures it reports are
// ErrExternal so callers can retry them.
type PaymentService interface {
	HasVerifiedPaymentMethod(ctx ctx.Ctx, userID string) (bool, error)
	CaptureFunds(ctx ctx.Ctx, req CaptureRequest) error
	Refund(ctx ctx.Ctx, req RefundRequest) error
}

// Transactor runs fn as one unit of work. Repositories called with the ctx
// passed to fn join it.
type Transactor interface {
	RunWithTransaction(ctx ctx.Ctx, fn func(ctx.Ctx) error) error
}
