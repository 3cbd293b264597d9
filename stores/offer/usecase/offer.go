package usecase

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/base/pii"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/offer"
	"github.com/x-xyz/saleengine/domain/saleobject"
	"github.com/x-xyz/saleengine/domain/transaction"
)

type OfferUseCaseCfg struct {
	Repo           offer.Repo
	SaleObjectRepo saleobject.Repo
	TransactionUC  transaction.UseCase
	Transactor     domain.Transactor
	Clock          clock.Clock
}

type impl struct {
	repo           offer.Repo
	saleObjectRepo saleobject.Repo
	transactionUC  transaction.UseCase
	transactor     domain.Transactor
	clock          clock.Clock
}

func New(cfg *OfferUseCaseCfg) offer.UseCase {
	return &impl{
		repo:           cfg.Repo,
		saleObjectRepo: cfg.SaleObjectRepo,
		transactionUC:  cfg.TransactionUC,
		transactor:     cfg.Transactor,
		clock:          cfg.Clock,
	}
}

func (im *impl) MakeOffer(context ctx.Ctx, input offer.MakeOfferInput) (*offer.Offer, *offer.Offer, error) {
	if input.Amount.IsNegative() {
		return nil, nil, domain.ErrInvalidAmount
	}

	obj, err := im.loadQuickSale(context, input.ObjectID)
	if err != nil {
		return nil, nil, err
	}
	if obj.SellerID == input.BuyerID {
		return nil, nil, domain.ErrSelfOfferForbidden
	}

	now := im.clock.Now()
	o := &offer.Offer{
		ID:        domain.NewID(),
		ObjectID:  obj.ID,
		BuyerID:   input.BuyerID,
		Kind:      offer.KindFor(input.Amount),
		Amount:    input.Amount,
		Message:   pii.Strip(input.Message),
		Status:    offer.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var superseded *offer.Offer
	if err := im.transactor.RunWithTransaction(context, func(ctx ctx.Ctx) error {
		if !o.IsQuestion() {
			prev, err := im.repo.FindAll(ctx,
				offer.WithObjectID(obj.ID),
				offer.WithBuyerID(input.BuyerID),
				offer.WithKind(offer.KindOffer),
				offer.WithStatus(offer.StatusPending),
			)
			if err != nil {
				return err
			}
			for _, p := range prev {
				if err := im.setStatus(ctx, p, offer.StatusWithdrawn, now); err != nil {
					return err
				}
				superseded = p
			}
		}
		return im.repo.Create(ctx, o)
	}); err != nil {
		context.WithFields(log.Fields{"objectId": obj.ID, "buyerId": input.BuyerID, "err": err}).Error("make offer failed")
		return nil, nil, err
	}
	return o, superseded, nil
}

func (im *impl) AcceptOffer(ctx ctx.Ctx, offerID, sellerID string) (*offer.AcceptResult, error) {
	o, err := im.repo.FindOne(ctx, offerID)
	if err != nil {
		return nil, err
	}
	obj, err := im.saleObjectRepo.FindOne(ctx, o.ObjectID)
	if err != nil {
		return nil, err
	}
	if obj.SellerID != sellerID {
		return nil, domain.ErrNotSeller
	}
	if err := checkDecidable(o); err != nil {
		return nil, err
	}
	switch obj.Status {
	case saleobject.StatusActive:
	case saleobject.StatusSold:
		return nil, domain.ErrLiveTransaction
	default:
		return nil, domain.ErrObjectNotActive
	}
	return im.accept(ctx, obj, o, nil, nil)
}

func (im *impl) BuyNow(ctx ctx.Ctx, input offer.BuyNowInput) (*offer.AcceptResult, error) {
	obj, err := im.loadQuickSale(ctx, input.ObjectID)
	if err != nil {
		return nil, err
	}
	if obj.SellerID == input.BuyerID {
		return nil, domain.ErrSelfOfferForbidden
	}

	now := im.clock.Now()
	o := &offer.Offer{
		ID:        domain.NewID(),
		ObjectID:  obj.ID,
		BuyerID:   input.BuyerID,
		Kind:      offer.KindOffer,
		Amount:    obj.ListedPrice(),
		Status:    offer.StatusPending,
		BuyNow:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !o.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount.WithMsg("listing has no price")
	}
	return im.accept(ctx, obj, o, input.ShippingAddress, input.BillingAddress)
}

// accept sells obj to o's buyer. A buy now offer is stored in the same unit
// of work. Every other pending offer on the object is rejected.
func (im *impl) accept(context ctx.Ctx, obj *saleobject.SaleObject, o *offer.Offer, shipping, billing *transaction.Address) (*offer.AcceptResult, error) {
	now := im.clock.Now()
	res := &offer.AcceptResult{Rejected: []*offer.Offer{}}
	source := transaction.SourceOffer
	if o.BuyNow {
		source = transaction.SourceBuyNow
	}

	status := saleobject.StatusSold
	patch := saleobject.Patchable{Status: &status, UpdatedAt: &now}

	if err := im.transactor.RunWithTransaction(context, func(ctx ctx.Ctx) error {
		tx, err := im.transactionUC.Create(ctx, transaction.CreateInput{
			ObjectID:        obj.ID,
			BuyerID:         o.BuyerID,
			SellerID:        obj.SellerID,
			Source:          source,
			SourceID:        o.ID,
			FinalPrice:      o.Amount,
			ShippingCost:    obj.ShippingCost,
			ShippingAddress: shipping,
			BillingAddress:  billing,
		})
		if err != nil {
			return err
		}
		res.Transaction = tx

		if o.BuyNow {
			o.Status = offer.StatusAccepted
			if err := im.repo.Create(ctx, o); err != nil {
				return err
			}
		} else if err := im.setStatus(ctx, o, offer.StatusAccepted, now); err != nil {
			return err
		}

		others, err := im.repo.FindAll(ctx,
			offer.WithObjectID(obj.ID),
			offer.WithKind(offer.KindOffer),
			offer.WithStatus(offer.StatusPending),
		)
		if err != nil {
			return err
		}
		for _, other := range others {
			if other.ID == o.ID {
				continue
			}
			if err := im.setStatus(ctx, other, offer.StatusRejected, now); err != nil {
				return err
			}
			res.Rejected = append(res.Rejected, other)
		}

		return im.saleObjectRepo.Update(ctx, obj.ID, obj.Version, patch)
	}); err != nil {
		if !domain.IsKind(err, domain.KindState) {
			context.WithFields(log.Fields{"objectId": obj.ID, "offerId": o.ID, "err": err}).Error("accept offer failed")
		}
		return nil, err
	}

	res.Offer = o
	return res, nil
}

func (im *impl) RejectOffer(ctx ctx.Ctx, offerID, sellerID string) (*offer.Offer, error) {
	o, err := im.repo.FindOne(ctx, offerID)
	if err != nil {
		return nil, err
	}
	obj, err := im.saleObjectRepo.FindOne(ctx, o.ObjectID)
	if err != nil {
		return nil, err
	}
	if obj.SellerID != sellerID {
		return nil, domain.ErrNotSeller
	}
	if err := checkDecidable(o); err != nil {
		return nil, err
	}

	if err := im.setStatus(ctx, o, offer.StatusRejected, im.clock.Now()); err != nil {
		ctx.WithFields(log.Fields{"offerId": o.ID, "err": err}).Error("reject offer failed")
		return nil, err
	}
	return o, nil
}

func (im *impl) WithdrawOffer(ctx ctx.Ctx, offerID, buyerID string) (*offer.Offer, error) {
	o, err := im.repo.FindOne(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if o.BuyerID != buyerID {
		return nil, domain.ErrNotOfferOwner
	}
	if o.Status != offer.StatusPending {
		return nil, domain.ErrOfferNotPending
	}

	if err := im.setStatus(ctx, o, offer.StatusWithdrawn, im.clock.Now()); err != nil {
		ctx.WithFields(log.Fields{"offerId": o.ID, "err": err}).Error("withdraw offer failed")
		return nil, err
	}
	return o, nil
}

func (im *impl) FindOne(ctx ctx.Ctx, id string) (*offer.Offer, error) {
	return im.repo.FindOne(ctx, id)
}

func (im *impl) FindAll(ctx ctx.Ctx, opts ...offer.FindAllOptionsFunc) ([]*offer.Offer, error) {
	res, err := im.repo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}
	return res, nil
}

func checkDecidable(o *offer.Offer) error {
	if o.IsQuestion() {
		return domain.ErrQuestionNotOffer
	}
	if o.Status != offer.StatusPending {
		return domain.ErrOfferNotPending
	}
	return nil
}

func (im *impl) setStatus(ctx ctx.Ctx, o *offer.Offer, status offer.Status, now time.Time) error {
	if err := im.repo.Update(ctx, o.ID, offer.Patchable{Status: &status, UpdatedAt: &now}); err != nil {
		return err
	}
	o.Status = status
	o.UpdatedAt = now
	return nil
}

func (im *impl) loadQuickSale(ctx ctx.Ctx, objectID string) (*saleobject.SaleObject, error) {
	obj, err := im.saleObjectRepo.FindOne(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if obj.IsAuction() {
		return nil, domain.ErrWrongSaleMode
	}
	if obj.Status != saleobject.StatusActive {
		return nil, domain.ErrObjectNotActive
	}
	return obj, nil
}
