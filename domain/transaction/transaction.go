package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/x-xyz/saleengine/base/ctx"
)

type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusPaymentHeld    Status = "payment_held"
	StatusInTransit      Status = "in_transit"
	StatusDelivered      Status = "delivered"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPendingPayment: {StatusPaymentHeld, StatusCancelled},
	StatusPaymentHeld:    {StatusInTransit, StatusCancelled},
	StatusInTransit:      {StatusDelivered},
	StatusDelivered:      {StatusCompleted},
}

// CanAdvanceTo reports whether s may move to next. Status only moves
// forward, and only pending_payment and payment_held can be cancelled.
func (s Status) CanAdvanceTo(next Status) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// IsLive is true for every status but cancelled
func (s Status) IsLive() bool {
	return s != StatusCancelled
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// LiveStatuses lists the statuses that block a new sale of the object
var LiveStatuses = []Status{
	StatusPendingPayment,
	StatusPaymentHeld,
	StatusInTransit,
	StatusDelivered,
	StatusCompleted,
}

type Source string

const (
	SourceAuction Source = "auction"
	SourceOffer   Source = "offer"
	SourceBuyNow  Source = "buy_now"
)

type Address struct {
	Name       string `json:"name" bson:"name" validate:"required"`
	Line1      string `json:"line1" bson:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty" bson:"line2,omitempty"`
	City       string `json:"city" bson:"city" validate:"required"`
	PostalCode string `json:"postalCode" bson:"postalCode" validate:"required"`
	Country    string `json:"country" bson:"country" validate:"required,len=2"`
}

type Transaction struct {
	ID       string `json:"id" bson:"_id"`
	ObjectID string `json:"objectId" bson:"objectId"`
	BuyerID  string `json:"buyerId" bson:"buyerId"`
	SellerID string `json:"sellerId" bson:"sellerId"`
	Source   Source `json:"source" bson:"source"`
	// SourceID is the winning bid or the accepted offer
	SourceID string `json:"sourceId" bson:"sourceId"`

	FinalPrice       decimal.Decimal `json:"finalPrice" bson:"finalPrice"`
	BuyerCommission  decimal.Decimal `json:"buyerCommission" bson:"buyerCommission"`
	SellerCommission decimal.Decimal `json:"sellerCommission" bson:"sellerCommission"`
	ShippingCost     decimal.Decimal `json:"shippingCost" bson:"shippingCost"`
	TotalAmount      decimal.Decimal `json:"totalAmount" bson:"totalAmount"`
	SellerPayout     decimal.Decimal `json:"sellerPayout" bson:"sellerPayout"`

	Status          Status   `json:"status" bson:"status"`
	ShippingAddress *Address `json:"shippingAddress,omitempty" bson:"shippingAddress,omitempty"`
	BillingAddress  *Address `json:"billingAddress,omitempty" bson:"billingAddress,omitempty"`
	TrackingNumber  string   `json:"trackingNumber,omitempty" bson:"trackingNumber,omitempty"`
	CancelReason    string   `json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`
	CancelledBy     string   `json:"cancelledBy,omitempty" bson:"cancelledBy,omitempty"`
	RefundRequested bool     `json:"refundRequested" bson:"refundRequested"`
	Refunded        bool     `json:"refunded" bson:"refunded"`
	PaymentError    string   `json:"paymentError,omitempty" bson:"paymentError,omitempty"`

	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
	PaidAt      *time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	ShippedAt   *time.Time `json:"shippedAt,omitempty" bson:"shippedAt,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`

	Version int64 `json:"version" bson:"version"`
}

func (t *Transaction) IsParticipant(userID string) bool {
	return userID != "" && (t.BuyerID == userID || t.SellerID == userID)
}

func (t *Transaction) Apply(p Patchable) {
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.ShippingAddress != nil {
		t.ShippingAddress = p.ShippingAddress
	}
	if p.BillingAddress != nil {
		t.BillingAddress = p.BillingAddress
	}
	if p.TrackingNumber != nil {
		t.TrackingNumber = *p.TrackingNumber
	}
	if p.CancelReason != nil {
		t.CancelReason = *p.CancelReason
	}
	if p.CancelledBy != nil {
		t.CancelledBy = *p.CancelledBy
	}
	if p.RefundRequested != nil {
		t.RefundRequested = *p.RefundRequested
	}
	if p.Refunded != nil {
		t.Refunded = *p.Refunded
	}
	if p.PaymentError != nil {
		t.PaymentError = *p.PaymentError
	}
	if p.UpdatedAt != nil {
		t.UpdatedAt = *p.UpdatedAt
	}
	if p.PaidAt != nil {
		t.PaidAt = p.PaidAt
	}
	if p.ShippedAt != nil {
		t.ShippedAt = p.ShippedAt
	}
	if p.DeliveredAt != nil {
		t.DeliveredAt = p.DeliveredAt
	}
	if p.CompletedAt != nil {
		t.CompletedAt = p.CompletedAt
	}
	if p.CancelledAt != nil {
		t.CancelledAt = p.CancelledAt
	}
}

type Patchable struct {
	Status          *Status    `bson:"status,omitempty"`
	ShippingAddress *Address   `bson:"shippingAddress,omitempty"`
	BillingAddress  *Address   `bson:"billingAddress,omitempty"`
	TrackingNumber  *string    `bson:"trackingNumber,omitempty"`
	CancelReason    *string    `bson:"cancelReason,omitempty"`
	CancelledBy     *string    `bson:"cancelledBy,omitempty"`
	RefundRequested *bool      `bson:"refundRequested,omitempty"`
	Refunded        *bool      `bson:"refunded,omitempty"`
	PaymentError    *string    `bson:"paymentError,omitempty"`
	UpdatedAt       *time.Time `bson:"updatedAt,omitempty"`
	PaidAt          *time.Time `bson:"paidAt,omitempty"`
	ShippedAt       *time.Time `bson:"shippedAt,omitempty"`
	DeliveredAt     *time.Time `bson:"deliveredAt,omitempty"`
	CompletedAt     *time.Time `bson:"completedAt,omitempty"`
	CancelledAt     *time.Time `bson:"cancelledAt,omitempty"`
}

type FindAllOptions struct {
	ObjectID        *string
	BuyerID         *string
	SellerID        *string
	Statuses        []Status
	DeliveredBefore *time.Time
	Offset          *int32
	Limit           *int32
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

func WithSellerID(sellerID string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SellerID = &sellerID
		return nil
	}
}

func WithStatuses(statuses ...Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Statuses = statuses
		return nil
	}
}

// WithDeliveredBefore selects transactions delivered at or before t
func WithDeliveredBefore(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.DeliveredBefore = &t
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

func (opts FindAllOptions) Matches(t *Transaction) bool {
	if opts.ObjectID != nil && t.ObjectID != *opts.ObjectID {
		return false
	}
	if opts.BuyerID != nil && t.BuyerID != *opts.BuyerID {
		return false
	}
	if opts.SellerID != nil && t.SellerID != *opts.SellerID {
		return false
	}
	if len(opts.Statuses) > 0 {
		found := false
		for _, s := range opts.Statuses {
			if t.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if opts.DeliveredBefore != nil && (t.DeliveredAt == nil || t.DeliveredAt.After(*opts.DeliveredBefore)) {
		return false
	}
	return true
}

type Repo interface {
	Create(ctx ctx.Ctx, tx *Transaction) error
	FindOne(ctx ctx.Ctx, id string) (*Transaction, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Transaction, error)
	// FindLive returns the non cancelled transaction of the object, domain.ErrNotFound when none
	FindLive(ctx ctx.Ctx, objectID string) (*Transaction, error)
	// Update applies patch when the stored version equals version, then bumps it
	Update(ctx ctx.Ctx, id string, version int64, patch Patchable) error
}

type CreateInput struct {
	ObjectID        string
	BuyerID         string
	SellerID        string
	Source          Source
	SourceID        string
	FinalPrice      decimal.Decimal
	ShippingCost    decimal.Decimal
	ShippingAddress *Address
	BillingAddress  *Address
}

type AddressInput struct {
	ShippingAddress *Address `json:"shippingAddress" validate:"omitempty"`
	BillingAddress  *Address `json:"billingAddress" validate:"omitempty"`
}

// UseCase drives the post sale state machine. Mutations must run inside the
// dispatcher slot of the transaction's object.
type UseCase interface {
	// Create fails with domain.ErrLiveTransaction when the object already has one
	Create(ctx ctx.Ctx, input CreateInput) (*Transaction, error)
	FindOne(ctx ctx.Ctx, id string) (*Transaction, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Transaction, error)
	// Status returns the transaction when requester is its buyer or seller
	Status(ctx ctx.Ctx, id, requester string) (*Transaction, error)

	SetAddresses(ctx ctx.Ctx, id, buyerID string, input AddressInput) (*Transaction, error)
	// PaymentCaptured moves pending_payment to payment_held. The returned bool
	// is true when the funds arrived after cancellation and must be refunded.
	PaymentCaptured(ctx ctx.Ctx, id string) (tx *Transaction, refund bool, err error)
	PaymentFailed(ctx ctx.Ctx, id string, reason string) (*Transaction, error)
	Refunded(ctx ctx.Ctx, id string) (*Transaction, error)
	MarkShipped(ctx ctx.Ctx, id, trackingNumber string) (*Transaction, error)
	MarkDelivered(ctx ctx.Ctx, id string) (*Transaction, error)
	// Complete is the buyer confirmation
	Complete(ctx ctx.Ctx, id, buyerID string) (*Transaction, error)
	// AutoComplete completes a delivered transaction once autoCompleteAfter elapsed
	AutoComplete(ctx ctx.Ctx, id string) (*Transaction, error)
	// Cancel reverts the object to active. The returned transaction has
	// RefundRequested set when funds were held.
	Cancel(ctx ctx.Ctx, id, requester, reason string) (*Transaction, error)
}
