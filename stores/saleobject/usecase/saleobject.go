package usecase

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/bid"
	"github.com/x-xyz/saleengine/domain/saleobject"
	"github.com/x-xyz/saleengine/domain/transaction"
)

const DefaultAuctionDuration = 7 * 24 * time.Hour

type SaleObjectUseCaseCfg struct {
	Repo            saleobject.Repo
	Ledger          bid.Ledger
	TransactionRepo transaction.Repo
	Clock           clock.Clock
	// DefaultDuration is used for auctions created without a duration
	DefaultDuration time.Duration
}

type impl struct {
	repo            saleobject.Repo
	ledger          bid.Ledger
	transactionRepo transaction.Repo
	clock           clock.Clock
	defaultDuration time.Duration
}

func New(cfg *SaleObjectUseCaseCfg) saleobject.UseCase {
	d := cfg.DefaultDuration
	if d <= 0 {
		d = DefaultAuctionDuration
	}
	return &impl{
		repo:            cfg.Repo,
		ledger:          cfg.Ledger,
		transactionRepo: cfg.TransactionRepo,
		clock:           cfg.Clock,
		defaultDuration: d,
	}
}

func (im *impl) CreateListing(ctx ctx.Ctx, input saleobject.CreateListingInput) (*saleobject.SaleObject, error) {
	now := im.clock.Now()
	obj := &saleobject.SaleObject{
		ID:        domain.NewID(),
		SellerID:  input.SellerID,
		Title:     input.Title,
		SaleMode:  input.SaleMode,
		Status:    saleobject.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.ShippingCost != nil {
		obj.ShippingCost = *input.ShippingCost
	}

	switch input.SaleMode {
	case saleobject.SaleModeQuickSale:
		if input.Price == nil || !input.Price.IsPositive() {
			return nil, domain.ErrBadParamInput.WithMsg("quick sale requires a positive price")
		}
		obj.Price = *input.Price
	case saleobject.SaleModeAuction:
		if input.StartPrice == nil || !input.StartPrice.IsPositive() {
			return nil, domain.ErrBadParamInput.WithMsg("auction requires a positive start price")
		}
		obj.StartPrice = *input.StartPrice
		obj.ReservePrice = decimal.Zero
		if input.ReservePrice != nil {
			obj.ReservePrice = *input.ReservePrice
		}
		obj.Duration = im.defaultDuration
		if input.DurationMinutes > 0 {
			obj.Duration = time.Duration(input.DurationMinutes) * time.Minute
		}
		if input.EndTime != nil {
			if !input.EndTime.After(now) {
				return nil, domain.ErrBadParamInput.WithMsg("end time must be in the future")
			}
			obj.EndTime = *input.EndTime
		}
	default:
		return nil, domain.ErrBadParamInput.WithMsg("unknown sale mode")
	}

	if err := im.repo.Create(ctx, obj); err != nil {
		ctx.WithFields(log.Fields{"sellerId": input.SellerID, "err": err}).Error("repo.Create failed")
		return nil, err
	}

	if input.Publish {
		return im.Publish(ctx, obj.ID, obj.SellerID)
	}
	return obj, nil
}

// Publish makes a draft or pending listing active. Auctions open their
// first round now and end after their duration unless an explicit end time
// is still ahead.
func (im *impl) Publish(ctx ctx.Ctx, id, sellerID string) (*saleobject.SaleObject, error) {
	obj, err := im.owned(ctx, id, sellerID)
	if err != nil {
		return nil, err
	}
	if obj.Status != saleobject.StatusDraft && obj.Status != saleobject.StatusPending {
		return nil, domain.ErrObjectNotActive.WithMsg("listing is already published")
	}

	now := im.clock.Now()
	status := saleobject.StatusActive
	patch := saleobject.Patchable{Status: &status, UpdatedAt: &now}
	if obj.IsAuction() {
		state := saleobject.AuctionStateOpen
		end := obj.EndTime
		if !end.After(now) {
			end = now.Add(obj.Duration)
		}
		patch.AuctionState = &state
		patch.StartTime = &now
		patch.EndTime = &end
	}

	return im.update(ctx, obj, patch)
}

// Withdraw takes an unsold listing off sale. Auctions that received a bid
// and objects with a live transaction stay.
func (im *impl) Withdraw(ctx ctx.Ctx, id, sellerID string) (*saleobject.SaleObject, error) {
	obj, err := im.owned(ctx, id, sellerID)
	if err != nil {
		return nil, err
	}
	switch obj.Status {
	case saleobject.StatusWithdrawn:
		return obj, nil
	case saleobject.StatusSold:
		return nil, domain.ErrLiveTransaction
	}

	if _, err := im.transactionRepo.FindLive(ctx, obj.ID); err == nil {
		return nil, domain.ErrLiveTransaction
	} else if !errors.Is(err, domain.ErrNotFound) {
		ctx.WithFields(log.Fields{"objectId": obj.ID, "err": err}).Error("transactionRepo.FindLive failed")
		return nil, err
	}

	now := im.clock.Now()
	status := saleobject.StatusWithdrawn
	patch := saleobject.Patchable{Status: &status, UpdatedAt: &now}
	if obj.IsAuction() {
		leader, err := im.ledger.Leader(ctx, obj.ID, obj.Round)
		if err != nil {
			ctx.WithFields(log.Fields{"objectId": obj.ID, "err": err}).Error("ledger.Leader failed")
			return nil, err
		}
		if leader != nil {
			return nil, domain.ErrObjectHasBids
		}
		if obj.AuctionState.IsLive() {
			state := saleobject.AuctionStateClosedUnsold
			patch.AuctionState = &state
		}
	}

	return im.update(ctx, obj, patch)
}

func (im *impl) FindOne(ctx ctx.Ctx, id string) (*saleobject.SaleObject, error) {
	return im.repo.FindOne(ctx, id)
}

func (im *impl) FindAll(ctx ctx.Ctx, opts ...saleobject.FindAllOptionsFunc) ([]*saleobject.SaleObject, error) {
	res, err := im.repo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) owned(ctx ctx.Ctx, id, sellerID string) (*saleobject.SaleObject, error) {
	obj, err := im.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if obj.SellerID != sellerID {
		return nil, domain.ErrNotSeller
	}
	return obj, nil
}

func (im *impl) update(ctx ctx.Ctx, obj *saleobject.SaleObject, patch saleobject.Patchable) (*saleobject.SaleObject, error) {
	if err := im.repo.Update(ctx, obj.ID, obj.Version, patch); err != nil {
		ctx.WithFields(log.Fields{"objectId": obj.ID, "err": err}).Error("repo.Update failed")
		return nil, err
	}
	res := *obj
	res.Apply(patch)
	res.Version++
	return &res, nil
}
