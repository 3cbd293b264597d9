package auction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain/bid"
	"github.com/x-xyz/saleengine/domain/saleobject"
	"github.com/x-xyz/saleengine/domain/transaction"
)

type PlaceBidInput struct {
	ObjectID string          `json:"-" validate:"required"`
	BidderID string          `json:"-" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
}

type BidOutcome struct {
	Bid      *bid.Bid               `json:"bid"`
	Previous *bid.Bid               `json:"previous,omitempty"`
	Object   *saleobject.SaleObject `json:"object"`
	Extended bool                   `json:"extended"`
	// Closed is set when the bid arrived at or after the end time. The bid is
	// rejected with domain.ErrAuctionClosed and the auction closed instead.
	Closed *CloseOutcome `json:"closed,omitempty"`
}

type CloseOutcome struct {
	Object *saleobject.SaleObject `json:"object"`
	// Winner and Transaction are nil when the auction closed unsold
	Winner      *bid.Bid                 `json:"winner,omitempty"`
	Transaction *transaction.Transaction `json:"transaction,omitempty"`
}

// Snapshot is the public view of an auction's current round
type Snapshot struct {
	ObjectID     string                  `json:"objectId"`
	Round        int                     `json:"round"`
	AuctionState saleobject.AuctionState `json:"auctionState"`
	EndTime      time.Time               `json:"endTime"`
	Leader       *bid.Bid                `json:"leader,omitempty"`
	MinNextBid   decimal.Decimal         `json:"minNextBid"`
	BidCount     int                     `json:"bidCount"`
}

// UseCase is the bidding engine. Mutations must run inside the object's
// dispatcher slot.
type UseCase interface {
	PlaceBid(ctx ctx.Ctx, input PlaceBidInput) (*BidOutcome, error)
	// Close settles an auction whose end time has passed
	Close(ctx ctx.Ctx, objectID string) (*CloseOutcome, error)
	// AcceptBid lets the seller sell to the current leader before the end, ignoring the reserve
	AcceptBid(ctx ctx.Ctx, objectID, sellerID, bidID string) (*CloseOutcome, error)
	Leader(ctx ctx.Ctx, objectID string) (*Snapshot, error)
	// History returns every bid across rounds, newest first, with derived statuses
	History(ctx ctx.Ctx, objectID string) ([]*bid.Bid, error)
}
