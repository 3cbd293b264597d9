package payment

import (
	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
)

// NewSandbox accepts every user and every capture. It stands in for the
// provider when payment.baseUrl is not configured.
func NewSandbox() domain.PaymentService {
	return sandbox{}
}

type sandbox struct{}

func (sandbox) HasVerifiedPaymentMethod(ctx ctx.Ctx, userID string) (bool, error) {
	return true, nil
}

func (sandbox) CaptureFunds(ctx ctx.Ctx, req domain.CaptureRequest) error {
	ctx.WithField("txId", req.TransactionID).Info("sandbox capture")
	return nil
}

func (sandbox) Refund(ctx ctx.Ctx, req domain.RefundRequest) error {
	ctx.WithField("txId", req.TransactionID).Info("sandbox refund")
	return nil
}
