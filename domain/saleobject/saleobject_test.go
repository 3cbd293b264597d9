package saleobject

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SaleObjectTestSuite struct {
	suite.Suite
}

func (s *SaleObjectTestSuite) TestRelistEndTime() {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		endTime time.Time
		exp     time.Time
	}{
		{"no end time", time.Time{}, now.Add(24 * time.Hour)},
		{"original end passed", now.Add(-time.Hour), now.Add(24 * time.Hour)},
		{"original end sooner", now.Add(2 * time.Hour), now.Add(24 * time.Hour)},
		{"original end later", now.Add(72 * time.Hour), now.Add(72 * time.Hour)},
	}
	for _, t := range tests {
		obj := &SaleObject{
			SaleMode:      SaleModeAuction,
			Status:        StatusSold,
			Duration:      24 * time.Hour,
			EndTime:       t.endTime,
			Round:         2,
			LeadingBidID:  "bid",
			LeadingAmount: decimal.NewFromInt(150),
		}
		obj.Apply(obj.Relist(now))
		s.Equal(t.exp, obj.EndTime, t.name)
		s.Equal(now, obj.StartTime, t.name)
		s.Equal(3, obj.Round, t.name)
		s.Equal(AuctionStateOpen, obj.AuctionState, t.name)
		s.False(obj.HasLeader(), t.name)
	}
}

func (s *SaleObjectTestSuite) TestRelistQuickSale() {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	obj := &SaleObject{SaleMode: SaleModeQuickSale, Status: StatusSold, Price: decimal.NewFromInt(100)}
	p := obj.Relist(now)
	s.Nil(p.EndTime)
	s.Nil(p.Round)
	obj.Apply(p)
	s.Equal(StatusActive, obj.Status)
}

func TestSaleObjectTestSuite(t *testing.T) {
	suite.Run(t, new(SaleObjectTestSuite))
}
