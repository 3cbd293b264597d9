package saleobject

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/x-xyz/saleengine/base/ctx"
)

type SaleMode string

const (
	SaleModeQuickSale SaleMode = "quick_sale"
	SaleModeAuction   SaleMode = "auction"
)

func (m SaleMode) IsValid() bool {
	return m == SaleModeQuickSale || m == SaleModeAuction
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSold      Status = "sold"
	StatusExpired   Status = "expired"
	StatusWithdrawn Status = "withdrawn"
)

// AuctionState is empty for quick sales and for auctions never published
type AuctionState string

const (
	AuctionStateOpen         AuctionState = "open"
	AuctionStateExtending    AuctionState = "extending"
	AuctionStateClosedSold   AuctionState = "closed_sold"
	AuctionStateClosedUnsold AuctionState = "closed_unsold"
)

// IsLive reports whether the auction still accepts bids, ignoring the clock
func (s AuctionState) IsLive() bool {
	return s == AuctionStateOpen || s == AuctionStateExtending
}

func (s AuctionState) IsClosed() bool {
	return s == AuctionStateClosedSold || s == AuctionStateClosedUnsold
}

type SaleObject struct {
	ID       string   `json:"id" bson:"_id"`
	SellerID string   `json:"sellerId" bson:"sellerId"`
	Title    string   `json:"title" bson:"title"`
	SaleMode SaleMode `json:"saleMode" bson:"saleMode"`
	Status   Status   `json:"status" bson:"status"`

	// quick sale
	Price decimal.Decimal `json:"price" bson:"price"`

	// auction
	StartPrice    decimal.Decimal `json:"startPrice" bson:"startPrice"`
	ReservePrice  decimal.Decimal `json:"reservePrice" bson:"reservePrice"`
	Duration      time.Duration   `json:"duration" bson:"duration"`
	StartTime     time.Time       `json:"startTime" bson:"startTime"`
	EndTime       time.Time       `json:"endTime" bson:"endTime"`
	AuctionState  AuctionState    `json:"auctionState,omitempty" bson:"auctionState"`
	Round         int             `json:"round" bson:"round"`
	LeadingBidID  string          `json:"leadingBidId,omitempty" bson:"leadingBidId"`
	LeadingAmount decimal.Decimal `json:"leadingAmount" bson:"leadingAmount"`

	ShippingCost decimal.Decimal `json:"shippingCost" bson:"shippingCost"`

	// Version is bumped by every Update
	Version   int64     `json:"version" bson:"version"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (o *SaleObject) IsAuction() bool {
	return o.SaleMode == SaleModeAuction
}

func (o *SaleObject) HasLeader() bool {
	return o.LeadingBidID != ""
}

// ListedPrice is the fixed price of a quick sale
func (o *SaleObject) ListedPrice() decimal.Decimal {
	return o.Price
}

// Relist returns the patch that puts the object back on sale after a
// cancelled transaction. Auctions restart as a new round, so leader queries
// start from scratch while history is kept. The new round runs for the
// configured duration and never ends before the original end time.
func (o *SaleObject) Relist(now time.Time) Patchable {
	status := StatusActive
	p := Patchable{
		Status:    &status,
		UpdatedAt: &now,
	}
	if o.IsAuction() {
		state := AuctionStateOpen
		round := o.Round + 1
		end := now.Add(o.Duration)
		if o.EndTime.After(end) {
			end = o.EndTime
		}
		empty := ""
		zero := decimal.Zero
		p.AuctionState = &state
		p.Round = &round
		p.StartTime = &now
		p.EndTime = &end
		p.LeadingBidID = &empty
		p.LeadingAmount = &zero
	}
	return p
}

// Apply copies the non nil fields of p onto o
func (o *SaleObject) Apply(p Patchable) {
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.Title != nil {
		o.Title = *p.Title
	}
	if p.AuctionState != nil {
		o.AuctionState = *p.AuctionState
	}
	if p.StartTime != nil {
		o.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		o.EndTime = *p.EndTime
	}
	if p.Round != nil {
		o.Round = *p.Round
	}
	if p.LeadingBidID != nil {
		o.LeadingBidID = *p.LeadingBidID
	}
	if p.LeadingAmount != nil {
		o.LeadingAmount = *p.LeadingAmount
	}
	if p.UpdatedAt != nil {
		o.UpdatedAt = *p.UpdatedAt
	}
}

type Patchable struct {
	Status        *Status          `bson:"status,omitempty"`
	Title         *string          `bson:"title,omitempty"`
	AuctionState  *AuctionState    `bson:"auctionState,omitempty"`
	StartTime     *time.Time       `bson:"startTime,omitempty"`
	EndTime       *time.Time       `bson:"endTime,omitempty"`
	Round         *int             `bson:"round,omitempty"`
	LeadingBidID  *string          `bson:"leadingBidId,omitempty"`
	LeadingAmount *decimal.Decimal `bson:"leadingAmount,omitempty"`
	UpdatedAt     *time.Time       `bson:"updatedAt,omitempty"`
}

type FindAllOptions struct {
	SellerID      *string
	SaleMode      *SaleMode
	Status        *Status
	AuctionStates []AuctionState
	EndTimeLTE    *time.Time
	Offset        *int32
	Limit         *int32
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

func WithSellerID(sellerID string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SellerID = &sellerID
		return nil
	}
}

func WithSaleMode(mode SaleMode) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SaleMode = &mode
		return nil
	}
}

func WithStatus(status Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Status = &status
		return nil
	}
}

func WithAuctionStates(states ...AuctionState) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.AuctionStates = states
		return nil
	}
}

// WithEndTimeLTE selects auctions whose end time is at or before t
func WithEndTimeLTE(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.EndTimeLTE = &t
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

// Matches reports whether o satisfies opts, used by the in memory store
func (opts FindAllOptions) Matches(o *SaleObject) bool {
	if opts.SellerID != nil && o.SellerID != *opts.SellerID {
		return false
	}
	if opts.SaleMode != nil && o.SaleMode != *opts.SaleMode {
		return false
	}
	if opts.Status != nil && o.Status != *opts.Status {
		return false
	}
	if len(opts.AuctionStates) > 0 {
		found := false
		for _, s := range opts.AuctionStates {
			if o.AuctionState == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if opts.EndTimeLTE != nil && o.EndTime.After(*opts.EndTimeLTE) {
		return false
	}
	return true
}

type Repo interface {
	Create(ctx ctx.Ctx, obj *SaleObject) error
	FindOne(ctx ctx.Ctx, id string) (*SaleObject, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*SaleObject, error)
	// Update applies patch when the stored version equals version, then bumps it.
	// A mismatch returns domain.ErrVersionConflict.
	Update(ctx ctx.Ctx, id string, version int64, patch Patchable) error
}

type CreateListingInput struct {
	SellerID     string           `json:"-" validate:"required"`
	Title        string           `json:"title" validate:"required,max=200"`
	SaleMode     SaleMode         `json:"saleMode" validate:"required,oneof=quick_sale auction"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,gt=0"`
	StartPrice   *decimal.Decimal `json:"startPrice" validate:"omitempty,gt=0"`
	ReservePrice *decimal.Decimal `json:"reservePrice" validate:"omitempty,gte=0"`
	// DurationMinutes is the length of each auction round, 0 uses auction.defaultDuration
	DurationMinutes int              `json:"durationMinutes" validate:"gte=0"`
	EndTime         *time.Time       `json:"endTime"`
	ShippingCost    *decimal.Decimal `json:"shippingCost" validate:"omitempty,gte=0"`
	// Publish makes the listing active right away
	Publish bool `json:"publish"`
}

// UseCase is the listing lifecycle. Mutations must run inside the object's
// dispatcher slot.
type UseCase interface {
	CreateListing(ctx ctx.Ctx, input CreateListingInput) (*SaleObject, error)
	Publish(ctx ctx.Ctx, id, sellerID string) (*SaleObject, error)
	Withdraw(ctx ctx.Ctx, id, sellerID string) (*SaleObject, error)
	FindOne(ctx ctx.Ctx, id string) (*SaleObject, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*SaleObject, error)
}
