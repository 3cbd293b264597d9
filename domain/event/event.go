package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/x-xyz/saleengine/base/ctx"
)

type Type string

const (
	TypeBidAccepted          Type = "bid_accepted"
	TypeAuctionExtended      Type = "auction_extended"
	TypeAuctionClosed        Type = "auction_closed"
	TypeOfferMade            Type = "offer_made"
	TypeOfferAccepted        Type = "offer_accepted"
	TypeOfferRejected        Type = "offer_rejected"
	TypeOfferWithdrawn       Type = "offer_withdrawn"
	TypeTransactionCreated   Type = "transaction_created"
	TypeTransactionAdvanced  Type = "transaction_advanced"
	TypeTransactionCancelled Type = "transaction_cancelled"
	TypeListingRelisted      Type = "listing_relisted"
	TypeListingPublished     Type = "listing_published"
	TypeListingWithdrawn     Type = "listing_withdrawn"
)

// Event is an engine outcome published after the command that caused it
// finished. Payload is the affected entity.
type Event struct {
	ID       string      `json:"id"`
	Type     Type        `json:"type"`
	ObjectID string      `json:"objectId"`
	At       time.Time   `json:"at"`
	Payload  interface{} `json:"payload,omitempty"`
}

type Publisher interface {
	Publish(ctx ctx.Ctx, events ...Event) error
	Close()
}

func New(t Type, objectID string, at time.Time, payload interface{}) Event {
	return Event{
		ID:       uuid.NewString(),
		Type:     t,
		ObjectID: objectID,
		At:       at,
		Payload:  payload,
	}
}
