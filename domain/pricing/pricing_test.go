package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PricingTestSuite struct {
	suite.Suite
}

func (s *PricingTestSuite) TestMinNextBid() {
	tests := []struct {
		current string
		exp     string
	}{
		{"0", "10"},
		{"99.5", "109.5"},
		{"100", "110"},
		{"110", "160"},
		{"500", "550"},
		{"501", "601"},
		{"1000", "1100"},
		{"1000.01", "1200.01"},
		{"5000", "5200"},
		{"5001", "5501"},
		{"9999", "10499"},
		{"10000", "11000"},
		{"250000", "251000"},
	}
	for _, t := range tests {
		got := MinNextBid(decimal.RequireFromString(t.current))
		s.True(decimal.RequireFromString(t.exp).Equal(got), "MinNextBid(%s) = %s, want %s", t.current, got, t.exp)
	}
}

func (s *PricingTestSuite) TestMinNextBidStrictlyGreater() {
	for _, c := range []int64{0, 1, 100, 101, 499, 5000, 9999, 10000, 99999} {
		cur := decimal.NewFromInt(c)
		s.True(MinNextBid(cur).GreaterThan(cur))
	}
}

func (s *PricingTestSuite) TestShouldExtend() {
	p := DefaultPolicy()
	end := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		desc    string
		now     time.Time
		bidTime time.Time
		exp     bool
	}{
		{"one second before end", end.Add(-time.Second), end.Add(-time.Second), true},
		{"window boundary", end.Add(-10 * time.Minute), end.Add(-10 * time.Minute), true},
		{"just outside window", end.Add(-10*time.Minute - time.Second), end.Add(-10*time.Minute - time.Second), false},
		{"twenty minutes before end", end.Add(-20 * time.Minute), end.Add(-20 * time.Minute), false},
		{"at end", end, end, false},
		{"bid late but evaluated after end", end.Add(time.Second), end.Add(-time.Second), false},
	}
	for _, t := range tests {
		s.Equal(t.exp, p.ShouldExtend(t.now, end, t.bidTime), t.desc)
	}
}

func (s *PricingTestSuite) TestCustomWindow() {
	p := Policy{ExtendWindow: 2 * time.Minute, Extension: 30 * time.Second}
	end := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.False(p.ShouldExtend(end.Add(-3*time.Minute), end, end.Add(-3*time.Minute)))
	s.True(p.ShouldExtend(end.Add(-time.Minute), end, end.Add(-time.Minute)))
	s.Equal(end.Add(30*time.Second), p.NewEndTime(end))
}

func (s *PricingTestSuite) TestNewEndTime() {
	end := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.Equal(end.Add(10*time.Minute), NewEndTime(end, 10*time.Minute))
	s.True(NewEndTime(end, 0).After(end))
	s.True(NewEndTime(end, -time.Hour).After(end))
	s.Equal(end.Add(DefaultExtension), DefaultPolicy().NewEndTime(end))
}

func (s *PricingTestSuite) TestCommission() {
	rate := DefaultCommissionRate
	s.True(decimal.RequireFromString("4.8").Equal(Commission(decimal.NewFromInt(160), rate)))
	s.True(decimal.RequireFromString("0.37").Equal(Commission(decimal.RequireFromString("12.34"), rate)))
	s.True(decimal.Zero.Equal(Commission(decimal.NewFromInt(160), decimal.Zero)))
}

func TestPricingTestSuite(t *testing.T) {
	suite.Run(t, new(PricingTestSuite))
}
