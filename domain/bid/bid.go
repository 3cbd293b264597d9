package bid

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain/saleobject"
)

// Status is derived from the ledger and the auction state, never stored
type Status string

const (
	StatusActive Status = "active"
	StatusOutbid Status = "outbid"
	StatusWon    Status = "won"
	StatusLost   Status = "lost"
)

// Bid is immutable once appended
type Bid struct {
	ID       string          `json:"id" bson:"_id"`
	ObjectID string          `json:"objectId" bson:"objectId"`
	BidderID string          `json:"bidderId" bson:"bidderId"`
	Amount   decimal.Decimal `json:"amount" bson:"amount"`
	// Round is the auction round the bid belongs to, see saleobject.Relist
	Round     int       `json:"round" bson:"round"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`

	Status Status `json:"status,omitempty" bson:"-"`
}

// Outranks orders bids by amount desc, then created at asc
func Outranks(a, b *Bid) bool {
	if !a.Amount.Equal(b.Amount) {
		return a.Amount.GreaterThan(b.Amount)
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// Best returns the highest ranked bid of round, nil when there is none
func Best(bids []*Bid, round int) *Bid {
	var best *Bid
	for _, b := range bids {
		if b.Round != round {
			continue
		}
		if best == nil || Outranks(b, best) {
			best = b
		}
	}
	return best
}

// SortNewestFirst sorts by created at desc, later rounds first on ties
func SortNewestFirst(bids []*Bid) {
	sort.SliceStable(bids, func(i, j int) bool {
		if !bids[i].CreatedAt.Equal(bids[j].CreatedAt) {
			return bids[i].CreatedAt.After(bids[j].CreatedAt)
		}
		return bids[i].Round > bids[j].Round
	})
}

// DeriveStatuses fills Status for every bid. Bids of earlier rounds are lost.
// In the current round the leader is active while the auction is live, won
// when it closed sold and lost when it closed unsold; the rest are outbid
// while live and lost once closed.
func DeriveStatuses(bids []*Bid, state saleobject.AuctionState, round int) {
	leader := Best(bids, round)
	for _, b := range bids {
		switch {
		case b.Round != round:
			b.Status = StatusLost
		case b == leader && state == saleobject.AuctionStateClosedSold:
			b.Status = StatusWon
		case b == leader && state.IsLive():
			b.Status = StatusActive
		case state.IsLive():
			b.Status = StatusOutbid
		default:
			b.Status = StatusLost
		}
	}
}

// Ledger is the append only bid log of every auction
type Ledger interface {
	// Append stores b when the current leader of b's object and round is
	// expectedLeaderID ("" for none). Otherwise domain.ErrStaleLeader.
	Append(ctx ctx.Ctx, b *Bid, expectedLeaderID string) error
	// Leader returns the leading bid of the round, nil when nobody bid yet
	Leader(ctx ctx.Ctx, objectID string, round int) (*Bid, error)
	// History returns every bid on the object across rounds, newest first
	History(ctx ctx.Ctx, objectID string) ([]*Bid, error)
	FindOne(ctx ctx.Ctx, id string) (*Bid, error)
	Count(ctx ctx.Ctx, objectID string) (int, error)
}
