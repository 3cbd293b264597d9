// Package pricing holds the pure rules shared by every engine: the minimum
// next bid, anti-sniping extension and commissions.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultExtendWindow = 10 * time.Minute
	DefaultExtension    = 10 * time.Minute
)

// DefaultCommissionRate is applied to both the buyer and the seller leg
var DefaultCommissionRate = decimal.RequireFromString("0.03")

type tier struct {
	upTo      decimal.Decimal
	inclusive bool
	increment decimal.Decimal
}

// tiers are ordered by upTo, anything above the last one uses topIncrement
var (
	tiers = []tier{
		{upTo: decimal.NewFromInt(100), inclusive: true, increment: decimal.NewFromInt(10)},
		{upTo: decimal.NewFromInt(500), inclusive: true, increment: decimal.NewFromInt(50)},
		{upTo: decimal.NewFromInt(1000), inclusive: true, increment: decimal.NewFromInt(100)},
		{upTo: decimal.NewFromInt(5000), inclusive: true, increment: decimal.NewFromInt(200)},
		{upTo: decimal.NewFromInt(10000), inclusive: false, increment: decimal.NewFromInt(500)},
	}
	topIncrement = decimal.NewFromInt(1000)
)

// Increment returns the step added to current by MinNextBid
func Increment(current decimal.Decimal) decimal.Decimal {
	for _, t := range tiers {
		if current.LessThan(t.upTo) || (t.inclusive && current.Equal(t.upTo)) {
			return t.increment
		}
	}
	return topIncrement
}

// MinNextBid returns the lowest amount a bid must reach to beat current
func MinNextBid(current decimal.Decimal) decimal.Decimal {
	return current.Add(Increment(current))
}

// Commission returns price * rate rounded to cents
func Commission(price, rate decimal.Decimal) decimal.Decimal {
	return price.Mul(rate).Round(2)
}

// Policy carries the configurable part of the anti-sniping rule
type Policy struct {
	ExtendWindow time.Duration
	Extension    time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		ExtendWindow: DefaultExtendWindow,
		Extension:    DefaultExtension,
	}
}

// ShouldExtend is true when bidTime falls in the last ExtendWindow before
// endTime and the auction has not ended at now.
func (p Policy) ShouldExtend(now, endTime, bidTime time.Time) bool {
	if !now.Before(endTime) || !bidTime.Before(endTime) {
		return false
	}
	return !bidTime.Before(endTime.Add(-p.window()))
}

// NewEndTime returns endTime pushed by the configured extension
func (p Policy) NewEndTime(endTime time.Time) time.Time {
	return NewEndTime(endTime, p.Extension)
}

func (p Policy) window() time.Duration {
	if p.ExtendWindow <= 0 {
		return DefaultExtendWindow
	}
	return p.ExtendWindow
}

// NewEndTime is always strictly after endTime, a non-positive extension
// falls back to DefaultExtension.
func NewEndTime(endTime time.Time, extension time.Duration) time.Time {
	if extension <= 0 {
		extension = DefaultExtension
	}
	return endTime.Add(extension)
}
