package usecase

import (
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/base/metrics"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/auction"
	"github.com/x-xyz/saleengine/domain/bid"
	"github.com/x-xyz/saleengine/domain/pricing"
	"github.com/x-xyz/saleengine/domain/saleobject"
	"github.com/x-xyz/saleengine/domain/transaction"
)

// maxStaleRetries bounds how often a bid is re-evaluated after losing the
// ledger compare and set
const maxStaleRetries = 3

var met = metrics.New("auction")

type AuctionUseCaseCfg struct {
	SaleObjectRepo saleobject.Repo
	Ledger         bid.Ledger
	TransactionUC  transaction.UseCase
	Transactor     domain.Transactor
	Policy         pricing.Policy
	Clock          clock.Clock
}

type impl struct {
	saleObjectRepo saleobject.Repo
	ledger         bid.Ledger
	transactionUC  transaction.UseCase
	transactor     domain.Transactor
	policy         pricing.Policy
	clock          clock.Clock
}

func New(cfg *AuctionUseCaseCfg) auction.UseCase {
	return &impl{
		saleObjectRepo: cfg.SaleObjectRepo,
		ledger:         cfg.Ledger,
		transactionUC:  cfg.TransactionUC,
		transactor:     cfg.Transactor,
		policy:         cfg.Policy,
		clock:          cfg.Clock,
	}
}

func (im *impl) PlaceBid(ctx ctx.Ctx, input auction.PlaceBidInput) (*auction.BidOutcome, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	for attempt := 0; ; attempt++ {
		out, err := im.placeBid(ctx, input)
		if err == nil {
			met.BumpSum("bid.accepted", 1)
			return out, nil
		}
		if errors.Is(err, domain.ErrStaleLeader) && attempt < maxStaleRetries {
			met.BumpSum("bid.stale", 1)
			ctx.WithFields(log.Fields{"objectId": input.ObjectID, "attempt": attempt}).Warn("leader moved, re-evaluating bid")
			continue
		}
		met.BumpSum("bid.rejected", 1, "kind", string(domain.KindOf(err)))
		return out, err
	}
}

func (im *impl) placeBid(context ctx.Ctx, input auction.PlaceBidInput) (*auction.BidOutcome, error) {
	obj, err := im.loadAuction(context, input.ObjectID)
	if err != nil {
		return nil, err
	}
	if obj.AuctionState.IsClosed() {
		return nil, domain.ErrAuctionClosed
	}
	if obj.Status != saleobject.StatusActive || !obj.AuctionState.IsLive() {
		return nil, domain.ErrObjectNotActive
	}
	if input.BidderID == obj.SellerID {
		return nil, domain.ErrSelfBidForbidden
	}

	now := im.clock.Now()
	if !now.Before(obj.EndTime) {
		closed, err := im.close(context, obj)
		if err != nil {
			return nil, err
		}
		return &auction.BidOutcome{Object: closed.Object, Closed: closed}, domain.ErrAuctionClosed
	}

	leader, err := im.ledger.Leader(context, obj.ID, obj.Round)
	if err != nil {
		context.WithFields(log.Fields{"objectId": obj.ID, "err": err}).Error("ledger.Leader failed")
		return nil, err
	}

	floor := obj.StartPrice
	expected := ""
	if leader != nil {
		floor = leader.Amount
		expected = leader.ID
	}
	if minBid := pricing.MinNextBid(floor); input.Amount.LessThan(minBid) {
		return nil, domain.ErrBidTooLow.WithMsg(fmt.Sprintf("bid must be at least %s", minBid.String()))
	}

	b := &bid.Bid{
		ID:        domain.NewID(),
		ObjectID:  obj.ID,
		BidderID:  input.BidderID,
		Amount:    input.Amount,
		Round:     obj.Round,
		CreatedAt: now,
	}

	patch := saleobject.Patchable{
		LeadingBidID:  &b.ID,
		LeadingAmount: &b.Amount,
		UpdatedAt:     &now,
	}
	extended := im.policy.ShouldExtend(now, obj.EndTime, b.CreatedAt)
	if extended {
		end := im.policy.NewEndTime(obj.EndTime)
		state := saleobject.AuctionStateExtending
		patch.EndTime = &end
		patch.AuctionState = &state
	}

	if err := im.transactor.RunWithTransaction(context, func(ctx ctx.Ctx) error {
		if err := im.ledger.Append(ctx, b, expected); err != nil {
			return err
		}
		if err := im.saleObjectRepo.Update(ctx, obj.ID, obj.Version, patch); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				return domain.ErrStaleLeader
			}
			return err
		}
		return nil
	}); err != nil {
		if !domain.IsKind(err, domain.KindConflict) {
			context.WithFields(log.Fields{"objectId": obj.ID, "err": err}).Error("append bid failed")
		}
		return nil, err
	}

	obj.Apply(patch)
	obj.Version++
	if extended {
		met.BumpSum("auction.extended", 1)
	}
	b.Status = bid.StatusActive
	return &auction.BidOutcome{
		Bid:      b,
		Previous: leader,
		Object:   obj,
		Extended: extended,
	}, nil
}

func (im *impl) Close(ctx ctx.Ctx, objectID string) (*auction.CloseOutcome, error) {
	obj, err := im.loadAuction(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if obj.AuctionState.IsClosed() {
		return nil, domain.ErrAuctionClosed
	}
	if !obj.AuctionState.IsLive() {
		return nil, domain.ErrObjectNotActive
	}
	if im.clock.Now().Before(obj.EndTime) {
		return nil, domain.ErrAuctionNotEnded
	}
	return im.close(ctx, obj)
}

func (im *impl) close(ctx ctx.Ctx, obj *saleobject.SaleObject) (*auction.CloseOutcome, error) {
	leader, err := im.ledger.Leader(ctx, obj.ID, obj.Round)
	if err != nil {
		ctx.WithFields(log.Fields{"objectId": obj.ID, "err": err}).Error("ledger.Leader failed")
		return nil, err
	}

	if leader != nil && leader.Amount.GreaterThanOrEqual(obj.ReservePrice) {
		return im.sell(ctx, obj, leader)
	}

	now := im.clock.Now()
	status := saleobject.StatusExpired
	state := saleobject.AuctionStateClosedUnsold
	patch := saleobject.Patchable{Status: &status, AuctionState: &state, UpdatedAt: &now}
	if err := im.saleObjectRepo.Update(ctx, obj.ID, obj.Version, patch); err != nil {
		ctx.WithFields(log.Fields{"objectId": obj.ID, "err": err}).Error("saleObjectRepo.Update failed")
		return nil, err
	}
	obj.Apply(patch)
	obj.Version++
	met.BumpSum("auction.closed", 1, "result", string(state))
	return &auction.CloseOutcome{Object: obj}, nil
}

// sell closes the round with winner as buyer and creates the transaction
func (im *impl) sell(context ctx.Ctx, obj *saleobject.SaleObject, winner *bid.Bid) (*auction.CloseOutcome, error) {
	now := im.clock.Now()
	status := saleobject.StatusSold
	state := saleobject.AuctionStateClosedSold
	patch := saleobject.Patchable{Status: &status, AuctionState: &state, UpdatedAt: &now}

	var tx *transaction.Transaction
	if err := im.transactor.RunWithTransaction(context, func(ctx ctx.Ctx) error {
		var err error
		tx, err = im.transactionUC.Create(ctx, transaction.CreateInput{
			ObjectID:     obj.ID,
			BuyerID:      winner.BidderID,
			SellerID:     obj.SellerID,
			Source:       transaction.SourceAuction,
			SourceID:     winner.ID,
			FinalPrice:   winner.Amount,
			ShippingCost: obj.ShippingCost,
		})
		if err != nil {
			return err
		}
		return im.saleObjectRepo.Update(ctx, obj.ID, obj.Version, patch)
	}); err != nil {
		context.WithFields(log.Fields{"objectId": obj.ID, "winner": winner.ID, "err": err}).Error("sell failed")
		return nil, err
	}

	obj.Apply(patch)
	obj.Version++
	winner.Status = bid.StatusWon
	met.BumpSum("auction.closed", 1, "result", string(state))
	return &auction.CloseOutcome{Object: obj, Winner: winner, Transaction: tx}, nil
}

func (im *impl) AcceptBid(ctx ctx.Ctx, objectID, sellerID, bidID string) (*auction.CloseOutcome, error) {
	obj, err := im.loadAuction(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if obj.SellerID != sellerID {
		return nil, domain.ErrNotSeller
	}
	if !obj.AuctionState.IsLive() {
		return nil, domain.ErrAuctionClosed
	}

	b, err := im.ledger.FindOne(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if b.ObjectID != obj.ID {
		return nil, domain.ErrBidNotFound
	}

	leader, err := im.ledger.Leader(ctx, obj.ID, obj.Round)
	if err != nil {
		ctx.WithFields(log.Fields{"objectId": obj.ID, "err": err}).Error("ledger.Leader failed")
		return nil, err
	}
	if leader == nil || leader.ID != b.ID {
		return nil, domain.ErrNotLeader
	}
	return im.sell(ctx, obj, leader)
}

func (im *impl) Leader(ctx ctx.Ctx, objectID string) (*auction.Snapshot, error) {
	obj, err := im.loadAuction(ctx, objectID)
	if err != nil {
		return nil, err
	}

	leader, err := im.ledger.Leader(ctx, obj.ID, obj.Round)
	if err != nil {
		ctx.WithFields(log.Fields{"objectId": obj.ID, "err": err}).Error("ledger.Leader failed")
		return nil, err
	}
	count, err := im.ledger.Count(ctx, obj.ID)
	if err != nil {
		ctx.WithFields(log.Fields{"objectId": obj.ID, "err": err}).Error("ledger.Count failed")
		return nil, err
	}

	res := &auction.Snapshot{
		ObjectID:     obj.ID,
		Round:        obj.Round,
		AuctionState: obj.AuctionState,
		EndTime:      obj.EndTime,
		MinNextBid:   pricing.MinNextBid(obj.StartPrice),
		BidCount:     count,
	}
	if leader != nil {
		bid.DeriveStatuses([]*bid.Bid{leader}, obj.AuctionState, obj.Round)
		res.Leader = leader
		res.MinNextBid = pricing.MinNextBid(leader.Amount)
	}
	return res, nil
}

func (im *impl) History(ctx ctx.Ctx, objectID string) ([]*bid.Bid, error) {
	obj, err := im.loadAuction(ctx, objectID)
	if err != nil {
		return nil, err
	}

	bids, err := im.ledger.History(ctx, obj.ID)
	if err != nil {
		ctx.WithFields(log.Fields{"objectId": obj.ID, "err": err}).Error("ledger.History failed")
		return nil, err
	}
	bid.DeriveStatuses(bids, obj.AuctionState, obj.Round)
	return bids, nil
}

func (im *impl) loadAuction(ctx ctx.Ctx, objectID string) (*saleobject.SaleObject, error) {
	obj, err := im.saleObjectRepo.FindOne(ctx, objectID)
	if err != nil {
		if !errors.Is(err, domain.ErrObjectNotFound) {
			ctx.WithFields(log.Fields{"objectId": objectID, "err": err}).Error("saleObjectRepo.FindOne failed")
		}
		return nil, err
	}
	if !obj.IsAuction() {
		return nil, domain.ErrWrongSaleMode
	}
	return obj, nil
}
