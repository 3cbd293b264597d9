package usecase

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/base/metrics"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/auction"
	"github.com/x-xyz/saleengine/domain/bid"
	"github.com/x-xyz/saleengine/domain/event"
	"github.com/x-xyz/saleengine/domain/offer"
	"github.com/x-xyz/saleengine/domain/sale"
	"github.com/x-xyz/saleengine/domain/saleobject"
	"github.com/x-xyz/saleengine/domain/transaction"
	"github.com/x-xyz/saleengine/service/cache"
	"github.com/x-xyz/saleengine/service/dispatcher"
)

const (
	DefaultPaymentWorkers    = 8
	DefaultPaymentRetryLimit = 5
	DefaultPaymentRetryStart = 500 * time.Millisecond
)

var met = metrics.New("sale")

type SaleUseCaseCfg struct {
	Dispatcher    dispatcher.Dispatcher
	SaleObjectUC  saleobject.UseCase
	AuctionUC     auction.UseCase
	OfferUC       offer.UseCase
	TransactionUC transaction.UseCase
	Identity      domain.IdentityService
	Payment       domain.PaymentService
	Publisher     event.Publisher
	// LeaderCache is optional, LeadingBid reads through to the engine without it
	LeaderCache cache.Service
	Clock       clock.Clock

	PaymentWorkers    int
	PaymentRetryLimit int
	PaymentRetryStart time.Duration
}

type impl struct {
	dispatcher    dispatcher.Dispatcher
	saleObjectUC  saleobject.UseCase
	auctionUC     auction.UseCase
	offerUC       offer.UseCase
	transactionUC transaction.UseCase
	identity      domain.IdentityService
	payment       domain.PaymentService
	publisher     event.Publisher
	leaderCache   cache.Service
	clock         clock.Clock

	payments *payments
}

func New(cfg *SaleUseCaseCfg) sale.UseCase {
	workers := cfg.PaymentWorkers
	if workers <= 0 {
		workers = DefaultPaymentWorkers
	}
	retryLimit := cfg.PaymentRetryLimit
	if retryLimit <= 0 {
		retryLimit = DefaultPaymentRetryLimit
	}
	retryStart := cfg.PaymentRetryStart
	if retryStart <= 0 {
		retryStart = DefaultPaymentRetryStart
	}

	im := &impl{
		dispatcher:    cfg.Dispatcher,
		saleObjectUC:  cfg.SaleObjectUC,
		auctionUC:     cfg.AuctionUC,
		offerUC:       cfg.OfferUC,
		transactionUC: cfg.TransactionUC,
		identity:      cfg.Identity,
		payment:       cfg.Payment,
		publisher:     cfg.Publisher,
		leaderCache:   cfg.LeaderCache,
		clock:         cfg.Clock,
	}
	im.payments = &payments{
		pool:       goroutines.NewPool(workers, goroutines.WithTaskQueueLength(1024)),
		retryLimit: retryLimit,
		retryStart: retryStart,
	}
	return im
}

func (im *impl) CreateListing(ctx ctx.Ctx, input saleobject.CreateListingInput) (*saleobject.SaleObject, error) {
	obj, err := im.saleObjectUC.CreateListing(ctx, input)
	if err != nil {
		return nil, err
	}
	if obj.Status == saleobject.StatusActive {
		im.publish(ctx, event.New(event.TypeListingPublished, obj.ID, im.clock.Now(), obj))
	}
	return obj, nil
}

func (im *impl) PublishListing(context ctx.Ctx, objectID, sellerID string) (*saleobject.SaleObject, error) {
	if err := im.checkSeller(context, sellerID, objectID); err != nil {
		return nil, err
	}

	var obj *saleobject.SaleObject
	if err := im.submit(context, "publishListing", objectID, func(ctx ctx.Ctx) (err error) {
		obj, err = im.saleObjectUC.Publish(ctx, objectID, sellerID)
		return err
	}); err != nil {
		return nil, err
	}

	im.invalidateLeader(context, objectID)
	im.publish(context, event.New(event.TypeListingPublished, objectID, im.clock.Now(), obj))
	return obj, nil
}

func (im *impl) WithdrawListing(context ctx.Ctx, objectID, sellerID string) (*saleobject.SaleObject, error) {
	if err := im.checkSeller(context, sellerID, objectID); err != nil {
		return nil, err
	}

	var obj *saleobject.SaleObject
	if err := im.submit(context, "withdrawListing", objectID, func(ctx ctx.Ctx) (err error) {
		obj, err = im.saleObjectUC.Withdraw(ctx, objectID, sellerID)
		return err
	}); err != nil {
		return nil, err
	}

	im.invalidateLeader(context, objectID)
	im.publish(context, event.New(event.TypeListingWithdrawn, objectID, im.clock.Now(), obj))
	return obj, nil
}

func (im *impl) GetListing(ctx ctx.Ctx, objectID string) (*saleobject.SaleObject, error) {
	return im.saleObjectUC.FindOne(ctx, objectID)
}

func (im *impl) PlaceBid(context ctx.Ctx, input auction.PlaceBidInput) (*auction.BidOutcome, error) {
	if err := im.checkBidder(context, input.BidderID); err != nil {
		return nil, err
	}

	var out *auction.BidOutcome
	err := im.submit(context, "placeBid", input.ObjectID, func(ctx ctx.Ctx) (err error) {
		out, err = im.auctionUC.PlaceBid(ctx, input)
		return err
	})
	if out == nil {
		return nil, err
	}

	im.invalidateLeader(context, input.ObjectID)
	now := im.clock.Now()
	if out.Closed != nil {
		// the bid came too late and closed the auction instead
		im.closed(context, out.Closed)
		return nil, err
	}

	events := []event.Event{event.New(event.TypeBidAccepted, input.ObjectID, now, out.Bid)}
	if out.Extended {
		events = append(events, event.New(event.TypeAuctionExtended, input.ObjectID, now, out.Object))
	}
	im.publish(context, events...)
	return out, err
}

func (im *impl) AcceptBid(context ctx.Ctx, objectID, sellerID, bidID string) (*auction.CloseOutcome, error) {
	if err := im.checkSeller(context, sellerID, objectID); err != nil {
		return nil, err
	}

	var out *auction.CloseOutcome
	if err := im.submit(context, "acceptBid", objectID, func(ctx ctx.Ctx) (err error) {
		out, err = im.auctionUC.AcceptBid(ctx, objectID, sellerID, bidID)
		return err
	}); err != nil {
		return nil, err
	}

	im.invalidateLeader(context, objectID)
	im.closed(context, out)
	return out, nil
}

func (im *impl) CloseAuction(context ctx.Ctx, objectID string) (*auction.CloseOutcome, error) {
	var out *auction.CloseOutcome
	if err := im.submit(context, "closeAuction", objectID, func(ctx ctx.Ctx) (err error) {
		out, err = im.auctionUC.Close(ctx, objectID)
		return err
	}); err != nil {
		return nil, err
	}

	im.invalidateLeader(context, objectID)
	im.closed(context, out)
	return out, nil
}

func (im *impl) LeadingBid(ctx ctx.Ctx, objectID string) (*auction.Snapshot, error) {
	if im.leaderCache == nil {
		return im.auctionUC.Leader(ctx, objectID)
	}

	snap := &auction.Snapshot{}
	if err := im.leaderCache.GetByFunc(ctx, objectID, snap, func() (interface{}, error) {
		return im.auctionUC.Leader(ctx, objectID)
	}); err != nil {
		return nil, err
	}
	return snap, nil
}

func (im *impl) BidHistory(ctx ctx.Ctx, objectID string) ([]*bid.Bid, error) {
	return im.auctionUC.History(ctx, objectID)
}

func (im *impl) MakeOffer(context ctx.Ctx, input offer.MakeOfferInput) (*offer.Offer, error) {
	if input.Amount.IsPositive() {
		if err := im.checkPaymentMethod(context, input.BuyerID); err != nil {
			return nil, err
		}
	}

	var made, superseded *offer.Offer
	if err := im.submit(context, "makeOffer", input.ObjectID, func(ctx ctx.Ctx) (err error) {
		made, superseded, err = im.offerUC.MakeOffer(ctx, input)
		return err
	}); err != nil {
		return nil, err
	}

	now := im.clock.Now()
	events := []event.Event{}
	if superseded != nil {
		events = append(events, event.New(event.TypeOfferWithdrawn, input.ObjectID, now, superseded))
	}
	events = append(events, event.New(event.TypeOfferMade, input.ObjectID, now, made))
	im.publish(context, events...)
	return made, nil
}

func (im *impl) AcceptOffer(context ctx.Ctx, offerID, sellerID string) (*offer.AcceptResult, error) {
	o, err := im.offerUC.FindOne(context, offerID)
	if err != nil {
		return nil, err
	}
	if err := im.checkSeller(context, sellerID, o.ObjectID); err != nil {
		return nil, err
	}

	var res *offer.AcceptResult
	if err := im.submit(context, "acceptOffer", o.ObjectID, func(ctx ctx.Ctx) (err error) {
		res, err = im.offerUC.AcceptOffer(ctx, offerID, sellerID)
		return err
	}); err != nil {
		return nil, err
	}

	im.sold(context, res)
	return res, nil
}

func (im *impl) RejectOffer(context ctx.Ctx, offerID, sellerID string) (*offer.Offer, error) {
	o, err := im.offerUC.FindOne(context, offerID)
	if err != nil {
		return nil, err
	}
	if err := im.checkSeller(context, sellerID, o.ObjectID); err != nil {
		return nil, err
	}

	if err := im.submit(context, "rejectOffer", o.ObjectID, func(ctx ctx.Ctx) (err error) {
		o, err = im.offerUC.RejectOffer(ctx, offerID, sellerID)
		return err
	}); err != nil {
		return nil, err
	}

	im.publish(context, event.New(event.TypeOfferRejected, o.ObjectID, im.clock.Now(), o))
	return o, nil
}

func (im *impl) WithdrawOffer(context ctx.Ctx, offerID, buyerID string) (*offer.Offer, error) {
	o, err := im.offerUC.FindOne(context, offerID)
	if err != nil {
		return nil, err
	}

	if err := im.submit(context, "withdrawOffer", o.ObjectID, func(ctx ctx.Ctx) (err error) {
		o, err = im.offerUC.WithdrawOffer(ctx, offerID, buyerID)
		return err
	}); err != nil {
		return nil, err
	}

	im.publish(context, event.New(event.TypeOfferWithdrawn, o.ObjectID, im.clock.Now(), o))
	return o, nil
}

func (im *impl) BuyNow(context ctx.Ctx, input offer.BuyNowInput) (*offer.AcceptResult, error) {
	if err := im.checkPaymentMethod(context, input.BuyerID); err != nil {
		return nil, err
	}

	var res *offer.AcceptResult
	if err := im.submit(context, "buyNow", input.ObjectID, func(ctx ctx.Ctx) (err error) {
		res, err = im.offerUC.BuyNow(ctx, input)
		return err
	}); err != nil {
		return nil, err
	}

	im.sold(context, res)
	return res, nil
}

func (im *impl) ListOffers(ctx ctx.Ctx, objectID, requester string) ([]*offer.Offer, error) {
	obj, err := im.saleObjectUC.FindOne(ctx, objectID)
	if err != nil {
		return nil, err
	}

	opts := []offer.FindAllOptionsFunc{offer.WithObjectID(objectID)}
	if obj.SellerID != requester {
		opts = append(opts, offer.WithBuyerID(requester))
	}
	return im.offerUC.FindAll(ctx, opts...)
}

// closed publishes the end of an auction and starts the payment of its sale
func (im *impl) closed(ctx ctx.Ctx, out *auction.CloseOutcome) {
	now := im.clock.Now()
	events := []event.Event{event.New(event.TypeAuctionClosed, out.Object.ID, now, out.Object)}
	if out.Transaction != nil {
		events = append(events, event.New(event.TypeTransactionCreated, out.Object.ID, now, out.Transaction))
	}
	im.publish(ctx, events...)

	if out.Transaction != nil {
		im.capture(ctx, out.Transaction)
	}
}

// sold publishes an accepted offer and starts the payment of its sale
func (im *impl) sold(ctx ctx.Ctx, res *offer.AcceptResult) {
	now := im.clock.Now()
	objectID := res.Offer.ObjectID
	events := []event.Event{event.New(event.TypeOfferAccepted, objectID, now, res.Offer)}
	for _, o := range res.Rejected {
		events = append(events, event.New(event.TypeOfferRejected, objectID, now, o))
	}
	events = append(events, event.New(event.TypeTransactionCreated, objectID, now, res.Transaction))
	im.publish(ctx, events...)

	im.capture(ctx, res.Transaction)
}

func (im *impl) submit(ctx ctx.Ctx, name, objectID string, fn dispatcher.Command) error {
	defer met.BumpTime("command.time", "cmd", name).End()

	err := im.dispatcher.Submit(ctx, objectID, fn)
	if err != nil {
		met.BumpSum("command.err", 1, "cmd", name, "kind", string(domain.KindOf(err)))
		if domain.KindOf(err) == domain.KindInternal {
			ctx.WithFields(log.Fields{"cmd": name, "objectId": objectID, "err": err}).Error("command failed")
		}
	}
	return err
}

// publish runs after a command committed, so it outlives the caller's ctx
func (im *impl) publish(context ctx.Ctx, events ...event.Event) {
	if im.publisher == nil || len(events) == 0 {
		return
	}
	bg := ctx.Detach(context)
	if err := im.publisher.Publish(bg, events...); err != nil {
		bg.WithFields(log.Fields{"type": events[0].Type, "objectId": events[0].ObjectID, "err": err}).Error("publisher.Publish failed")
	}
}

func (im *impl) invalidateLeader(context ctx.Ctx, objectID string) {
	if im.leaderCache == nil {
		return
	}
	bg := ctx.Detach(context)
	if err := im.leaderCache.Del(bg, objectID); err != nil {
		bg.WithFields(log.Fields{"objectId": objectID, "err": err}).Warn("leaderCache.Del failed")
	}
}

func (im *impl) checkBidder(ctx ctx.Ctx, bidderID string) error {
	ok, err := im.identity.IsEligibleBidder(ctx, bidderID)
	if err != nil {
		ctx.WithFields(log.Fields{"userId": bidderID, "err": err}).Error("identity.IsEligibleBidder failed")
		return err
	}
	if !ok {
		return domain.ErrRoleNotEligible
	}
	return im.checkPaymentMethod(ctx, bidderID)
}

func (im *impl) checkPaymentMethod(ctx ctx.Ctx, userID string) error {
	ok, err := im.payment.HasVerifiedPaymentMethod(ctx, userID)
	if err != nil {
		ctx.WithFields(log.Fields{"userId": userID, "err": err}).Error("payment.HasVerifiedPaymentMethod failed")
		return err
	}
	if !ok {
		return domain.ErrPaymentMethodMissing
	}
	return nil
}

func (im *impl) checkSeller(ctx ctx.Ctx, userID, objectID string) error {
	ok, err := im.identity.IsSeller(ctx, userID, objectID)
	if err != nil {
		ctx.WithFields(log.Fields{"userId": userID, "objectId": objectID, "err": err}).Error("identity.IsSeller failed")
		return err
	}
	if !ok {
		return domain.ErrNotSeller
	}
	return nil
}

func (im *impl) Close() {
	im.payments.close()
}
