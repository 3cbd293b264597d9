package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/saleobject"
)

type memorySuite struct {
	suite.Suite

	repo saleobject.Repo
	now  time.Time
}

func TestMemorySuite(t *testing.T) {
	suite.Run(t, new(memorySuite))
}

func (s *memorySuite) SetupTest() {
	s.repo = NewMemorySaleObjectRepo()
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *memorySuite) auction(id string, end time.Time, state saleobject.AuctionState) *saleobject.SaleObject {
	return &saleobject.SaleObject{
		ID:           id,
		SellerID:     "seller",
		SaleMode:     saleobject.SaleModeAuction,
		Status:       saleobject.StatusActive,
		StartPrice:   decimal.NewFromInt(100),
		EndTime:      end,
		AuctionState: state,
		CreatedAt:    end,
	}
}

func (s *memorySuite) TestCreateAndFindOne() {
	c := ctx.Background()
	obj := s.auction("a", s.now, saleobject.AuctionStateOpen)

	s.Require().NoError(s.repo.Create(c, obj))
	s.ErrorIs(s.repo.Create(c, obj), domain.ErrDuplicateID)

	got, err := s.repo.FindOne(c, "a")
	s.Require().NoError(err)
	s.Equal(*obj, *got)

	// callers get copies
	got.Title = "changed"
	again, err := s.repo.FindOne(c, "a")
	s.Require().NoError(err)
	s.Empty(again.Title)

	_, err = s.repo.FindOne(c, "missing")
	s.ErrorIs(err, domain.ErrObjectNotFound)
}

func (s *memorySuite) TestUpdateChecksVersion() {
	c := ctx.Background()
	s.Require().NoError(s.repo.Create(c, s.auction("a", s.now, saleobject.AuctionStateOpen)))

	state := saleobject.AuctionStateExtending
	amount := decimal.NewFromInt(110)
	s.Require().NoError(s.repo.Update(c, "a", 0, saleobject.Patchable{AuctionState: &state, LeadingAmount: &amount}))

	got, err := s.repo.FindOne(c, "a")
	s.Require().NoError(err)
	s.Equal(int64(1), got.Version)
	s.Equal(state, got.AuctionState)
	s.True(amount.Equal(got.LeadingAmount))

	s.ErrorIs(s.repo.Update(c, "a", 0, saleobject.Patchable{AuctionState: &state}), domain.ErrVersionConflict)
	s.ErrorIs(s.repo.Update(c, "missing", 0, saleobject.Patchable{}), domain.ErrObjectNotFound)
}

func (s *memorySuite) TestFindAllDueAuctions() {
	c := ctx.Background()
	s.Require().NoError(s.repo.Create(c, s.auction("due", s.now.Add(-time.Minute), saleobject.AuctionStateOpen)))
	s.Require().NoError(s.repo.Create(c, s.auction("extending", s.now, saleobject.AuctionStateExtending)))
	s.Require().NoError(s.repo.Create(c, s.auction("later", s.now.Add(time.Hour), saleobject.AuctionStateOpen)))
	s.Require().NoError(s.repo.Create(c, s.auction("closed", s.now.Add(-time.Hour), saleobject.AuctionStateClosedSold)))

	res, err := s.repo.FindAll(c,
		saleobject.WithAuctionStates(saleobject.AuctionStateOpen, saleobject.AuctionStateExtending),
		saleobject.WithEndTimeLTE(s.now),
	)
	s.Require().NoError(err)
	s.Require().Len(res, 2)
	s.Equal("extending", res[0].ID)
	s.Equal("due", res[1].ID)

	res, err = s.repo.FindAll(c, saleobject.WithSellerID("seller"), saleobject.WithPagination(1, 2))
	s.Require().NoError(err)
	s.Require().Len(res, 2)
	s.Equal("extending", res[0].ID)
	s.Equal("due", res[1].ID)
}
