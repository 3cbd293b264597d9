package offer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain/transaction"
)

// Kind separates monetary offers from plain questions, which share the log
type Kind string

const (
	KindOffer    Kind = "offer"
	KindQuestion Kind = "question"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

func (s Status) IsTerminal() bool {
	return s != StatusPending
}

type Offer struct {
	ID       string          `json:"id" bson:"_id"`
	ObjectID string          `json:"objectId" bson:"objectId"`
	BuyerID  string          `json:"buyerId" bson:"buyerId"`
	Kind     Kind            `json:"kind" bson:"kind"`
	Amount   decimal.Decimal `json:"amount" bson:"amount"`
	// Message has emails and phone numbers redacted
	Message string `json:"message" bson:"message"`
	Status  Status `json:"status" bson:"status"`
	// BuyNow marks the implicit offer created by a quick buy at the listed price
	BuyNow    bool      `json:"buyNow" bson:"buyNow"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (o *Offer) IsQuestion() bool {
	return o.Kind == KindQuestion
}

// KindFor maps a zero amount to a question
func KindFor(amount decimal.Decimal) Kind {
	if amount.IsZero() {
		return KindQuestion
	}
	return KindOffer
}

type Patchable struct {
	Status    *Status    `bson:"status,omitempty"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty"`
}

type FindAllOptions struct {
	ObjectID *string
	BuyerID  *string
	Kind     *Kind
	Status   *Status
	Offset   *int32
	Limit    *int32
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithObjectID(objectID string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ObjectID = &objectID
		return nil
	}
}

func WithBuyerID(buyerID string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.BuyerID = &buyerID
		return nil
	}
}

func WithKind(kind Kind) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Kind = &kind
		return nil
	}
}

func WithStatus(status Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Status = &status
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func (opts FindAllOptions) Matches(o *Offer) bool {
	if opts.ObjectID != nil && o.ObjectID != *opts.ObjectID {
		return false
	}
	if opts.BuyerID != nil && o.BuyerID != *opts.BuyerID {
		return false
	}
	if opts.Kind != nil && o.Kind != *opts.Kind {
		return false
	}
	if opts.Status != nil && o.Status != *opts.Status {
		return false
	}
	return true
}

type Repo interface {
	Create(ctx ctx.Ctx, o *Offer) error
	FindOne(ctx ctx.Ctx, id string) (*Offer, error)
	// FindAll returns offers newest first
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Offer, error)
	Update(ctx ctx.Ctx, id string, patch Patchable) error
}

type MakeOfferInput struct {
	ObjectID string          `json:"-" validate:"required"`
	BuyerID  string          `json:"-" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"gte=0"`
	Message  string          `json:"message" validate:"max=2000"`
}

type BuyNowInput struct {
	ObjectID        string               `json:"-" validate:"required"`
	BuyerID         string               `json:"-" validate:"required"`
	ShippingAddress *transaction.Address `json:"shippingAddress"`
	BillingAddress  *transaction.Address `json:"billingAddress"`
}

// AcceptResult is returned when an offer turns into a sale
type AcceptResult struct {
	Offer       *Offer                   `json:"offer"`
	Rejected    []*Offer                 `json:"rejected"`
	Transaction *transaction.Transaction `json:"transaction"`
}

// UseCase is the quick sale negotiation of one object. Mutations must run
// inside the object's dispatcher slot.
type UseCase interface {
	// MakeOffer records an offer or a question (zero amount). A pending offer
	// of the same buyer is withdrawn and returned as superseded.
	MakeOffer(ctx ctx.Ctx, input MakeOfferInput) (made *Offer, superseded *Offer, err error)
	AcceptOffer(ctx ctx.Ctx, offerID, sellerID string) (*AcceptResult, error)
	RejectOffer(ctx ctx.Ctx, offerID, sellerID string) (*Offer, error)
	WithdrawOffer(ctx ctx.Ctx, offerID, buyerID string) (*Offer, error)
	BuyNow(ctx ctx.Ctx, input BuyNowInput) (*AcceptResult, error)
	FindOne(ctx ctx.Ctx, id string) (*Offer, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Offer, error)
}
