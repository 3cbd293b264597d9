package usecase

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/xerrors"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/saleobject"
	"github.com/x-xyz/saleengine/domain/transaction"
	"github.com/x-xyz/saleengine/service/query"
	soRepository "github.com/x-xyz/saleengine/stores/saleobject/repository"
	txRepository "github.com/x-xyz/saleengine/stores/transaction/repository"
)

// wrappingRepo reports a missing live transaction the way a driver-backed
// repository does, wrapped with call context
type wrappingRepo struct {
	transaction.Repo
}

func (r wrappingRepo) FindLive(ctx ctx.Ctx, objectID string) (*transaction.Transaction, error) {
	tx, err := r.Repo.FindLive(ctx, objectID)
	if err != nil {
		return nil, xerrors.Errorf("find live %s: %w", objectID, err)
	}
	return tx, nil
}

type transactionSuite struct {
	suite.Suite

	ctx     ctx.Ctx
	clock   *clock.Mock
	objects saleobject.Repo
	repo    transaction.Repo
	uc      transaction.UseCase
}

func TestTransactionSuite(t *testing.T) {
	suite.Run(t, new(transactionSuite))
}

func (s *transactionSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.clock = clock.NewMock()
	s.clock.Set(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s.objects = soRepository.NewMemorySaleObjectRepo()
	s.repo = txRepository.NewMemoryTransactionRepo()
	s.uc = New(&TransactionUseCaseCfg{
		Repo:           s.repo,
		SaleObjectRepo: s.objects,
		Transactor:     query.Inline(),
		Clock:          s.clock,
	})

	s.Require().NoError(s.objects.Create(s.ctx, &saleobject.SaleObject{
		ID:           "obj",
		SellerID:     "seller",
		SaleMode:     saleobject.SaleModeAuction,
		Status:       saleobject.StatusSold,
		StartPrice:   decimal.NewFromInt(100),
		Duration:     24 * time.Hour,
		AuctionState: saleobject.AuctionStateClosedSold,
		LeadingBidID: "bid",
	}))
}

func (s *transactionSuite) create() *transaction.Transaction {
	tx, err := s.uc.Create(s.ctx, transaction.CreateInput{
		ObjectID:     "obj",
		BuyerID:      "buyer",
		SellerID:     "seller",
		Source:       transaction.SourceAuction,
		SourceID:     "bid",
		FinalPrice:   decimal.NewFromInt(160),
		ShippingCost: decimal.NewFromInt(10),
	})
	s.Require().NoError(err)
	return tx
}

func (s *transactionSuite) TestCreateComputesAmounts() {
	tx := s.create()

	s.Equal(transaction.StatusPendingPayment, tx.Status)
	s.Equal("4.8", tx.BuyerCommission.String())
	s.Equal("4.8", tx.SellerCommission.String())
	s.Equal("174.8", tx.TotalAmount.String())
	s.Equal("155.2", tx.SellerPayout.String())
}

func (s *transactionSuite) TestZeroCommissionRate() {
	zero := decimal.Zero
	s.uc = New(&TransactionUseCaseCfg{
		Repo:           s.repo,
		SaleObjectRepo: s.objects,
		Transactor:     query.Inline(),
		Clock:          s.clock,
		CommissionRate: &zero,
	})

	tx := s.create()
	s.True(tx.BuyerCommission.IsZero())
	s.True(tx.SellerCommission.IsZero())
	s.Equal("170", tx.TotalAmount.String())
	s.Equal("160", tx.SellerPayout.String())
}

func (s *transactionSuite) TestCreateWithWrappedNotFound() {
	s.uc = New(&TransactionUseCaseCfg{
		Repo:           wrappingRepo{s.repo},
		SaleObjectRepo: s.objects,
		Transactor:     query.Inline(),
		Clock:          s.clock,
	})

	tx := s.create()
	s.Equal(transaction.StatusPendingPayment, tx.Status)
}

func (s *transactionSuite) TestSingleLiveTransaction() {
	tx := s.create()

	_, err := s.uc.Create(s.ctx, transaction.CreateInput{ObjectID: "obj", BuyerID: "other", SellerID: "seller", FinalPrice: decimal.NewFromInt(200)})
	s.ErrorIs(err, domain.ErrLiveTransaction)

	_, err = s.uc.Cancel(s.ctx, tx.ID, "buyer", "changed my mind")
	s.Require().NoError(err)

	_, err = s.uc.Create(s.ctx, transaction.CreateInput{ObjectID: "obj", BuyerID: "other", SellerID: "seller", FinalPrice: decimal.NewFromInt(200)})
	s.NoError(err)
}

func (s *transactionSuite) TestHappyPath() {
	tx := s.create()

	tx, refund, err := s.uc.PaymentCaptured(s.ctx, tx.ID)
	s.Require().NoError(err)
	s.False(refund)
	s.Equal(transaction.StatusPaymentHeld, tx.Status)
	s.NotNil(tx.PaidAt)

	// duplicate capture is a no-op
	again, refund, err := s.uc.PaymentCaptured(s.ctx, tx.ID)
	s.Require().NoError(err)
	s.False(refund)
	s.Equal(tx.Version, again.Version)

	tx, err = s.uc.MarkShipped(s.ctx, tx.ID, "TRK1")
	s.Require().NoError(err)
	s.Equal(transaction.StatusInTransit, tx.Status)
	s.Equal("TRK1", tx.TrackingNumber)

	again, err = s.uc.MarkShipped(s.ctx, tx.ID, "TRK2")
	s.Require().NoError(err)
	s.Equal("TRK1", again.TrackingNumber)

	tx, err = s.uc.MarkDelivered(s.ctx, tx.ID)
	s.Require().NoError(err)
	s.Equal(transaction.StatusDelivered, tx.Status)

	_, err = s.uc.Complete(s.ctx, tx.ID, "seller")
	s.ErrorIs(err, domain.ErrNotParticipant)

	tx, err = s.uc.Complete(s.ctx, tx.ID, "buyer")
	s.Require().NoError(err)
	s.Equal(transaction.StatusCompleted, tx.Status)

	_, err = s.uc.Cancel(s.ctx, tx.ID, "buyer", "")
	s.ErrorIs(err, domain.ErrInvalidTransition)
}

func (s *transactionSuite) TestOutOfOrderEventsRejected() {
	tx := s.create()

	_, err := s.uc.MarkShipped(s.ctx, tx.ID, "TRK1")
	s.ErrorIs(err, domain.ErrInvalidTransition)

	_, err = s.uc.MarkDelivered(s.ctx, tx.ID)
	s.ErrorIs(err, domain.ErrInvalidTransition)

	got, err := s.repo.FindOne(s.ctx, tx.ID)
	s.Require().NoError(err)
	s.Equal(transaction.StatusPendingPayment, got.Status)
}

func (s *transactionSuite) TestCancelHeldFundsRelists() {
	tx := s.create()
	_, _, err := s.uc.PaymentCaptured(s.ctx, tx.ID)
	s.Require().NoError(err)

	_, err = s.uc.Cancel(s.ctx, tx.ID, "stranger", "")
	s.ErrorIs(err, domain.ErrNotParticipant)

	tx, err = s.uc.Cancel(s.ctx, tx.ID, "seller", "out of stock")
	s.Require().NoError(err)
	s.Equal(transaction.StatusCancelled, tx.Status)
	s.True(tx.RefundRequested)
	s.Equal("seller", tx.CancelledBy)

	obj, err := s.objects.FindOne(s.ctx, "obj")
	s.Require().NoError(err)
	s.Equal(saleobject.StatusActive, obj.Status)
	s.Equal(saleobject.AuctionStateOpen, obj.AuctionState)
	s.Equal(1, obj.Round)
	s.False(obj.HasLeader())
	s.Equal(s.clock.Now().Add(24*time.Hour), obj.EndTime)

	tx, err = s.uc.Refunded(s.ctx, tx.ID)
	s.Require().NoError(err)
	s.True(tx.Refunded)
}

func (s *transactionSuite) TestCaptureAfterCancelRequestsRefund() {
	tx := s.create()
	tx, err := s.uc.Cancel(s.ctx, tx.ID, "buyer", "")
	s.Require().NoError(err)
	s.False(tx.RefundRequested)

	tx, refund, err := s.uc.PaymentCaptured(s.ctx, tx.ID)
	s.Require().NoError(err)
	s.True(refund)
	s.True(tx.RefundRequested)
	s.Equal(transaction.StatusCancelled, tx.Status)

	_, refund, err = s.uc.PaymentCaptured(s.ctx, tx.ID)
	s.Require().NoError(err)
	s.False(refund)
}

func (s *transactionSuite) TestPaymentFailedKeepsPending() {
	tx := s.create()

	tx, err := s.uc.PaymentFailed(s.ctx, tx.ID, "card declined")
	s.Require().NoError(err)
	s.Equal(transaction.StatusPendingPayment, tx.Status)
	s.Equal("card declined", tx.PaymentError)

	tx, _, err = s.uc.PaymentCaptured(s.ctx, tx.ID)
	s.Require().NoError(err)
	s.Empty(tx.PaymentError)
}

func (s *transactionSuite) TestAutoComplete() {
	tx := s.create()
	_, _, err := s.uc.PaymentCaptured(s.ctx, tx.ID)
	s.Require().NoError(err)
	_, err = s.uc.MarkShipped(s.ctx, tx.ID, "")
	s.Require().NoError(err)
	_, err = s.uc.MarkDelivered(s.ctx, tx.ID)
	s.Require().NoError(err)

	s.clock.Add(DefaultAutoCompleteAfter - time.Minute)
	_, err = s.uc.AutoComplete(s.ctx, tx.ID)
	s.ErrorIs(err, domain.ErrInvalidTransition)

	s.clock.Add(time.Minute)
	tx, err = s.uc.AutoComplete(s.ctx, tx.ID)
	s.Require().NoError(err)
	s.Equal(transaction.StatusCompleted, tx.Status)
}

func (s *transactionSuite) TestStatusRequiresParticipant() {
	tx := s.create()

	_, err := s.uc.Status(s.ctx, tx.ID, "stranger")
	s.ErrorIs(err, domain.ErrNotParticipant)

	got, err := s.uc.Status(s.ctx, tx.ID, "seller")
	s.Require().NoError(err)
	s.Equal(tx.ID, got.ID)

	_, err = s.uc.Status(s.ctx, "missing", "seller")
	s.ErrorIs(err, domain.ErrTransactionNotFound)
}
