package usecase

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/bid"
	"github.com/x-xyz/saleengine/domain/saleobject"
	"github.com/x-xyz/saleengine/domain/transaction"
	bidRepository "github.com/x-xyz/saleengine/stores/bid/repository"
	soRepository "github.com/x-xyz/saleengine/stores/saleobject/repository"
	txRepository "github.com/x-xyz/saleengine/stores/transaction/repository"
)

type saleObjectSuite struct {
	suite.Suite

	ctx    ctx.Ctx
	clock  *clock.Mock
	now    time.Time
	ledger bid.Ledger
	txRepo transaction.Repo
	uc     saleobject.UseCase
}

func TestSaleObjectSuite(t *testing.T) {
	suite.Run(t, new(saleObjectSuite))
}

func (s *saleObjectSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.clock = clock.NewMock()
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.clock.Set(s.now)
	s.ledger = bidRepository.NewMemoryLedger()
	s.txRepo = txRepository.NewMemoryTransactionRepo()
	s.uc = New(&SaleObjectUseCaseCfg{
		Repo:            soRepository.NewMemorySaleObjectRepo(),
		Ledger:          s.ledger,
		TransactionRepo: s.txRepo,
		Clock:           s.clock,
		DefaultDuration: 24 * time.Hour,
	})
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func (s *saleObjectSuite) auction(publish bool) *saleobject.SaleObject {
	obj, err := s.uc.CreateListing(s.ctx, saleobject.CreateListingInput{
		SellerID:     "seller",
		Title:        "lamp",
		SaleMode:     saleobject.SaleModeAuction,
		StartPrice:   dec(100),
		ReservePrice: dec(150),
		Publish:      publish,
	})
	s.Require().NoError(err)
	return obj
}

func (s *saleObjectSuite) TestCreateDraft() {
	obj := s.auction(false)
	s.Equal(saleobject.StatusDraft, obj.Status)
	s.Equal(24*time.Hour, obj.Duration)
	s.Empty(obj.AuctionState)

	_, err := s.uc.CreateListing(s.ctx, saleobject.CreateListingInput{
		SellerID: "seller",
		Title:    "chair",
		SaleMode: saleobject.SaleModeQuickSale,
	})
	s.ErrorIs(err, domain.ErrBadParamInput)

	_, err = s.uc.CreateListing(s.ctx, saleobject.CreateListingInput{
		SellerID:   "seller",
		Title:      "chair",
		SaleMode:   saleobject.SaleModeAuction,
		StartPrice: dec(10),
		EndTime:    &s.now,
	})
	s.ErrorIs(err, domain.ErrBadParamInput)
}

func (s *saleObjectSuite) TestPublish() {
	obj := s.auction(false)

	_, err := s.uc.Publish(s.ctx, obj.ID, "other")
	s.ErrorIs(err, domain.ErrNotSeller)

	s.clock.Add(time.Hour)
	published, err := s.uc.Publish(s.ctx, obj.ID, "seller")
	s.Require().NoError(err)
	s.Equal(saleobject.StatusActive, published.Status)
	s.Equal(saleobject.AuctionStateOpen, published.AuctionState)
	s.Equal(s.now.Add(time.Hour), published.StartTime)
	s.Equal(s.now.Add(25*time.Hour), published.EndTime)

	stored, err := s.uc.FindOne(s.ctx, obj.ID)
	s.Require().NoError(err)
	s.Equal(published.EndTime, stored.EndTime)
	s.Equal(published.Version, stored.Version)

	_, err = s.uc.Publish(s.ctx, obj.ID, "seller")
	s.ErrorIs(err, domain.ErrObjectNotActive)
}

func (s *saleObjectSuite) TestPublishKeepsExplicitEndTime() {
	end := s.now.Add(3 * time.Hour)
	obj, err := s.uc.CreateListing(s.ctx, saleobject.CreateListingInput{
		SellerID:   "seller",
		Title:      "lamp",
		SaleMode:   saleobject.SaleModeAuction,
		StartPrice: dec(100),
		EndTime:    &end,
		Publish:    true,
	})
	s.Require().NoError(err)
	s.Equal(end, obj.EndTime)
	s.True(obj.ReservePrice.IsZero())
}

func (s *saleObjectSuite) TestQuickSalePublish() {
	obj, err := s.uc.CreateListing(s.ctx, saleobject.CreateListingInput{
		SellerID: "seller",
		Title:    "chair",
		SaleMode: saleobject.SaleModeQuickSale,
		Price:    dec(200),
		Publish:  true,
	})
	s.Require().NoError(err)
	s.Equal(saleobject.StatusActive, obj.Status)
	s.Empty(obj.AuctionState)
	s.True(obj.StartTime.IsZero())
}

func (s *saleObjectSuite) TestWithdraw() {
	obj := s.auction(true)

	withdrawn, err := s.uc.Withdraw(s.ctx, obj.ID, "seller")
	s.Require().NoError(err)
	s.Equal(saleobject.StatusWithdrawn, withdrawn.Status)
	s.Equal(saleobject.AuctionStateClosedUnsold, withdrawn.AuctionState)

	due, err := s.uc.FindAll(s.ctx, saleobject.WithAuctionStates(saleobject.AuctionStateOpen, saleobject.AuctionStateExtending))
	s.Require().NoError(err)
	s.Empty(due)
}

func (s *saleObjectSuite) TestWithdrawWithBids() {
	obj := s.auction(true)
	s.Require().NoError(s.ledger.Append(s.ctx, &bid.Bid{
		ID:        "b1",
		ObjectID:  obj.ID,
		BidderID:  "A",
		Amount:    decimal.NewFromInt(110),
		CreatedAt: s.now,
	}, ""))

	_, err := s.uc.Withdraw(s.ctx, obj.ID, "seller")
	s.ErrorIs(err, domain.ErrObjectHasBids)
}

func (s *saleObjectSuite) TestWithdrawWithLiveTransaction() {
	obj, err := s.uc.CreateListing(s.ctx, saleobject.CreateListingInput{
		SellerID: "seller",
		Title:    "chair",
		SaleMode: saleobject.SaleModeQuickSale,
		Price:    dec(200),
		Publish:  true,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.txRepo.Create(s.ctx, &transaction.Transaction{
		ID:       "tx",
		ObjectID: obj.ID,
		BuyerID:  "A",
		SellerID: "seller",
		Status:   transaction.StatusPendingPayment,
	}))

	_, err = s.uc.Withdraw(s.ctx, obj.ID, "seller")
	s.ErrorIs(err, domain.ErrLiveTransaction)
}
