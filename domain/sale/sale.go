// Package sale is the command surface of the engine. Every mutation is
// admitted through the dispatcher slot of the sale object it touches, external
// checks run before admission and domain events are published afterwards.
package sale

import (
	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain/auction"
	"github.com/x-xyz/saleengine/domain/bid"
	"github.com/x-xyz/saleengine/domain/offer"
	"github.com/x-xyz/saleengine/domain/saleobject"
	"github.com/x-xyz/saleengine/domain/transaction"
)

type PaymentEvent string

const (
	PaymentCaptured PaymentEvent = "captured"
	PaymentFailed   PaymentEvent = "failed"
	PaymentRefunded PaymentEvent = "refunded"
)

type LogisticsEvent string

const (
	LogisticsShipped   LogisticsEvent = "shipped"
	LogisticsDelivered LogisticsEvent = "delivered"
)

type PaymentWebhook struct {
	TransactionID string       `json:"transactionId" validate:"required"`
	Event         PaymentEvent `json:"event" validate:"required,oneof=captured failed refunded"`
	Reason        string       `json:"reason"`
}

type LogisticsWebhook struct {
	TransactionID  string         `json:"transactionId" validate:"required"`
	Event          LogisticsEvent `json:"event" validate:"required,oneof=shipped delivered"`
	TrackingNumber string         `json:"trackingNumber"`
}

type CancelInput struct {
	Reason string `json:"reason" validate:"max=500"`
}

type UseCase interface {
	CreateListing(ctx ctx.Ctx, input saleobject.CreateListingInput) (*saleobject.SaleObject, error)
	PublishListing(ctx ctx.Ctx, objectID, sellerID string) (*saleobject.SaleObject, error)
	WithdrawListing(ctx ctx.Ctx, objectID, sellerID string) (*saleobject.SaleObject, error)
	GetListing(ctx ctx.Ctx, objectID string) (*saleobject.SaleObject, error)

	PlaceBid(ctx ctx.Ctx, input auction.PlaceBidInput) (*auction.BidOutcome, error)
	AcceptBid(ctx ctx.Ctx, objectID, sellerID, bidID string) (*auction.CloseOutcome, error)
	CloseAuction(ctx ctx.Ctx, objectID string) (*auction.CloseOutcome, error)
	// LeadingBid is served from the read cache, refreshed after every accepted bid
	LeadingBid(ctx ctx.Ctx, objectID string) (*auction.Snapshot, error)
	BidHistory(ctx ctx.Ctx, objectID string) ([]*bid.Bid, error)

	MakeOffer(ctx ctx.Ctx, input offer.MakeOfferInput) (*offer.Offer, error)
	AcceptOffer(ctx ctx.Ctx, offerID, sellerID string) (*offer.AcceptResult, error)
	RejectOffer(ctx ctx.Ctx, offerID, sellerID string) (*offer.Offer, error)
	WithdrawOffer(ctx ctx.Ctx, offerID, buyerID string) (*offer.Offer, error)
	BuyNow(ctx ctx.Ctx, input offer.BuyNowInput) (*offer.AcceptResult, error)
	// ListOffers returns every offer to the seller and only their own to anybody else
	ListOffers(ctx ctx.Ctx, objectID, requester string) ([]*offer.Offer, error)

	TransactionStatus(ctx ctx.Ctx, txID, requester string) (*transaction.Transaction, error)
	SetAddresses(ctx ctx.Ctx, txID, buyerID string, input transaction.AddressInput) (*transaction.Transaction, error)
	CancelTransaction(ctx ctx.Ctx, txID, requester string, input CancelInput) (*transaction.Transaction, error)
	ConfirmReceipt(ctx ctx.Ctx, txID, buyerID string) (*transaction.Transaction, error)
	AutoComplete(ctx ctx.Ctx, txID string) (*transaction.Transaction, error)
	HandlePayment(ctx ctx.Ctx, hook PaymentWebhook) (*transaction.Transaction, error)
	HandleLogistics(ctx ctx.Ctx, hook LogisticsWebhook) (*transaction.Transaction, error)

	// Close waits for pending payment work and stops the workers
	Close()
}
