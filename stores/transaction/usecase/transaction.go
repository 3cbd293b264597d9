package usecase

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/base/ptr"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/pricing"
	"github.com/x-xyz/saleengine/domain/saleobject"
	"github.com/x-xyz/saleengine/domain/transaction"
)

const DefaultAutoCompleteAfter = 72 * time.Hour

type TransactionUseCaseCfg struct {
	Repo           transaction.Repo
	SaleObjectRepo saleobject.Repo
	Transactor     domain.Transactor
	Clock          clock.Clock
	// CommissionRate defaults to pricing.DefaultCommissionRate when nil
	CommissionRate    *decimal.Decimal
	AutoCompleteAfter time.Duration
}

type impl struct {
	repo              transaction.Repo
	saleObjectRepo    saleobject.Repo
	transactor        domain.Transactor
	clock             clock.Clock
	commissionRate    decimal.Decimal
	autoCompleteAfter time.Duration
}

func New(cfg *TransactionUseCaseCfg) transaction.UseCase {
	rate := pricing.DefaultCommissionRate
	if cfg.CommissionRate != nil {
		rate = *cfg.CommissionRate
	}
	after := cfg.AutoCompleteAfter
	if after <= 0 {
		after = DefaultAutoCompleteAfter
	}
	return &impl{
		repo:              cfg.Repo,
		saleObjectRepo:    cfg.SaleObjectRepo,
		transactor:        cfg.Transactor,
		clock:             cfg.Clock,
		commissionRate:    rate,
		autoCompleteAfter: after,
	}
}

func (im *impl) Create(ctx ctx.Ctx, input transaction.CreateInput) (*transaction.Transaction, error) {
	if !input.FinalPrice.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	if live, err := im.repo.FindLive(ctx, input.ObjectID); err == nil {
		ctx.WithFields(log.Fields{"objectId": input.ObjectID, "live": live.ID}).Warn("object already has a live transaction")
		return nil, domain.ErrLiveTransaction
	} else if !errors.Is(err, domain.ErrNotFound) {
		ctx.WithFields(log.Fields{"objectId": input.ObjectID, "err": err}).Error("repo.FindLive failed")
		return nil, err
	}

	now := im.clock.Now()
	buyerCommission := pricing.Commission(input.FinalPrice, im.commissionRate)
	sellerCommission := pricing.Commission(input.FinalPrice, im.commissionRate)
	tx := &transaction.Transaction{
		ID:               domain.NewID(),
		ObjectID:         input.ObjectID,
		BuyerID:          input.BuyerID,
		SellerID:         input.SellerID,
		Source:           input.Source,
		SourceID:         input.SourceID,
		FinalPrice:       input.FinalPrice,
		BuyerCommission:  buyerCommission,
		SellerCommission: sellerCommission,
		ShippingCost:     input.ShippingCost,
		TotalAmount:      input.FinalPrice.Add(buyerCommission).Add(input.ShippingCost),
		SellerPayout:     input.FinalPrice.Sub(sellerCommission),
		Status:           transaction.StatusPendingPayment,
		ShippingAddress:  input.ShippingAddress,
		BillingAddress:   input.BillingAddress,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := im.repo.Create(ctx, tx); err != nil {
		ctx.WithFields(log.Fields{"objectId": input.ObjectID, "err": err}).Error("repo.Create failed")
		return nil, err
	}
	return tx, nil
}

func (im *impl) FindOne(ctx ctx.Ctx, id string) (*transaction.Transaction, error) {
	return im.repo.FindOne(ctx, id)
}

func (im *impl) FindAll(ctx ctx.Ctx, opts ...transaction.FindAllOptionsFunc) ([]*transaction.Transaction, error) {
	res, err := im.repo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Status(ctx ctx.Ctx, id, requester string) (*transaction.Transaction, error) {
	tx, err := im.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tx.IsParticipant(requester) {
		return nil, domain.ErrNotParticipant
	}
	return tx, nil
}

func (im *impl) SetAddresses(ctx ctx.Ctx, id, buyerID string, input transaction.AddressInput) (*transaction.Transaction, error) {
	tx, err := im.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.BuyerID != buyerID {
		return nil, domain.ErrNotParticipant
	}
	if tx.Status != transaction.StatusPendingPayment && tx.Status != transaction.StatusPaymentHeld {
		return nil, domain.ErrInvalidTransition.WithMsg("addresses are frozen once shipped")
	}

	now := im.clock.Now()
	patch := transaction.Patchable{
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		UpdatedAt:       &now,
	}
	return im.update(ctx, tx, patch)
}

func (im *impl) PaymentCaptured(ctx ctx.Ctx, id string) (*transaction.Transaction, bool, error) {
	tx, err := im.repo.FindOne(ctx, id)
	if err != nil {
		return nil, false, err
	}

	now := im.clock.Now()
	switch tx.Status {
	case transaction.StatusPendingPayment:
		tx, err := im.advance(ctx, tx, transaction.StatusPaymentHeld, transaction.Patchable{
			PaidAt:       ptr.Time(now),
			PaymentError: ptr.String(""),
		})
		return tx, false, err
	case transaction.StatusCancelled:
		if tx.RefundRequested || tx.Refunded {
			return tx, false, nil
		}
		// funds arrived after the sale fell through
		tx, err := im.update(ctx, tx, transaction.Patchable{RefundRequested: ptr.Bool(true), UpdatedAt: ptr.Time(now)})
		if err != nil {
			return nil, false, err
		}
		return tx, true, nil
	default:
		return tx, false, nil
	}
}

func (im *impl) PaymentFailed(ctx ctx.Ctx, id string, reason string) (*transaction.Transaction, error) {
	tx, err := im.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Status != transaction.StatusPendingPayment {
		return tx, nil
	}

	now := im.clock.Now()
	return im.update(ctx, tx, transaction.Patchable{PaymentError: &reason, UpdatedAt: &now})
}

func (im *impl) Refunded(ctx ctx.Ctx, id string) (*transaction.Transaction, error) {
	tx, err := im.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tx.RefundRequested || tx.Refunded {
		return tx, nil
	}

	now := im.clock.Now()
	return im.update(ctx, tx, transaction.Patchable{Refunded: ptr.Bool(true), UpdatedAt: ptr.Time(now)})
}

func (im *impl) MarkShipped(ctx ctx.Ctx, id, trackingNumber string) (*transaction.Transaction, error) {
	tx, err := im.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if reached(tx.Status, transaction.StatusInTransit) {
		return tx, nil
	}

	now := im.clock.Now()
	patch := transaction.Patchable{ShippedAt: &now}
	if trackingNumber != "" {
		patch.TrackingNumber = ptr.String(trackingNumber)
	}
	return im.advance(ctx, tx, transaction.StatusInTransit, patch)
}

func (im *impl) MarkDelivered(ctx ctx.Ctx, id string) (*transaction.Transaction, error) {
	tx, err := im.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if reached(tx.Status, transaction.StatusDelivered) {
		return tx, nil
	}

	now := im.clock.Now()
	return im.advance(ctx, tx, transaction.StatusDelivered, transaction.Patchable{DeliveredAt: &now})
}

func (im *impl) Complete(ctx ctx.Ctx, id, buyerID string) (*transaction.Transaction, error) {
	tx, err := im.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.BuyerID != buyerID {
		return nil, domain.ErrNotParticipant.WithMsg("only the buyer can confirm receipt")
	}
	if tx.Status == transaction.StatusCompleted {
		return tx, nil
	}

	now := im.clock.Now()
	return im.advance(ctx, tx, transaction.StatusCompleted, transaction.Patchable{CompletedAt: &now})
}

func (im *impl) AutoComplete(ctx ctx.Ctx, id string) (*transaction.Transaction, error) {
	tx, err := im.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Status == transaction.StatusCompleted {
		return tx, nil
	}

	now := im.clock.Now()
	if tx.Status != transaction.StatusDelivered || tx.DeliveredAt == nil || now.Before(tx.DeliveredAt.Add(im.autoCompleteAfter)) {
		return nil, domain.ErrInvalidTransition.WithMsg("transaction is not due for auto completion")
	}
	return im.advance(ctx, tx, transaction.StatusCompleted, transaction.Patchable{CompletedAt: &now})
}

func (im *impl) Cancel(context ctx.Ctx, id, requester, reason string) (*transaction.Transaction, error) {
	tx, err := im.repo.FindOne(context, id)
	if err != nil {
		return nil, err
	}
	if !tx.IsParticipant(requester) {
		return nil, domain.ErrNotParticipant
	}
	if tx.Status == transaction.StatusCancelled {
		return tx, nil
	}
	if !tx.Status.CanAdvanceTo(transaction.StatusCancelled) {
		return nil, domain.ErrInvalidTransition.WithMsg("transaction can no longer be cancelled")
	}

	obj, err := im.saleObjectRepo.FindOne(context, tx.ObjectID)
	if err != nil {
		context.WithFields(log.Fields{"objectId": tx.ObjectID, "err": err}).Error("saleObjectRepo.FindOne failed")
		return nil, err
	}

	now := im.clock.Now()
	refund := tx.Status == transaction.StatusPaymentHeld
	patch := transaction.Patchable{
		CancelledAt:     &now,
		CancelReason:    &reason,
		CancelledBy:     &requester,
		RefundRequested: &refund,
	}

	var res *transaction.Transaction
	if err := im.transactor.RunWithTransaction(context, func(ctx ctx.Ctx) error {
		var err error
		if res, err = im.advance(ctx, tx, transaction.StatusCancelled, patch); err != nil {
			return err
		}
		if err := im.saleObjectRepo.Update(ctx, obj.ID, obj.Version, obj.Relist(now)); err != nil {
			ctx.WithFields(log.Fields{"objectId": obj.ID, "err": err}).Error("saleObjectRepo.Update failed")
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// reached reports whether s is target or past it on the forward path
func reached(s, target transaction.Status) bool {
	order := map[transaction.Status]int{
		transaction.StatusPendingPayment: 0,
		transaction.StatusPaymentHeld:    1,
		transaction.StatusInTransit:      2,
		transaction.StatusDelivered:      3,
		transaction.StatusCompleted:      4,
	}
	cur, ok := order[s]
	return ok && cur >= order[target]
}

func (im *impl) advance(ctx ctx.Ctx, tx *transaction.Transaction, next transaction.Status, patch transaction.Patchable) (*transaction.Transaction, error) {
	if !tx.Status.CanAdvanceTo(next) {
		ctx.WithFields(log.Fields{"id": tx.ID, "from": tx.Status, "to": next}).Warn("illegal transition")
		return nil, domain.ErrInvalidTransition
	}
	patch.Status = &next
	patch.UpdatedAt = ptr.Time(im.clock.Now())
	return im.update(ctx, tx, patch)
}

func (im *impl) update(ctx ctx.Ctx, tx *transaction.Transaction, patch transaction.Patchable) (*transaction.Transaction, error) {
	if err := im.repo.Update(ctx, tx.ID, tx.Version, patch); err != nil {
		ctx.WithFields(log.Fields{"id": tx.ID, "err": err}).Error("repo.Update failed")
		return nil, err
	}
	res := *tx
	res.Apply(patch)
	res.Version++
	return &res, nil
}
