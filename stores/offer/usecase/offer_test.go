package usecase

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/offer"
	"github.com/x-xyz/saleengine/domain/saleobject"
	"github.com/x-xyz/saleengine/domain/transaction"
	"github.com/x-xyz/saleengine/service/query"
	offerRepository "github.com/x-xyz/saleengine/stores/offer/repository"
	soRepository "github.com/x-xyz/saleengine/stores/saleobject/repository"
	txRepository "github.com/x-xyz/saleengine/stores/transaction/repository"
	txUsecase "github.com/x-xyz/saleengine/stores/transaction/usecase"
)

type offerSuite struct {
	suite.Suite

	ctx     ctx.Ctx
	clock   *clock.Mock
	objects saleobject.Repo
	offers  offer.Repo
	txUC    transaction.UseCase
	uc      offer.UseCase
}

func TestOfferSuite(t *testing.T) {
	suite.Run(t, new(offerSuite))
}

func (s *offerSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.clock = clock.NewMock()
	s.clock.Set(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	s.objects = soRepository.NewMemorySaleObjectRepo()
	s.offers = offerRepository.NewMemoryOfferRepo()
	s.txUC = txUsecase.New(&txUsecase.TransactionUseCaseCfg{
		Repo:           txRepository.NewMemoryTransactionRepo(),
		SaleObjectRepo: s.objects,
		Transactor:     query.Inline(),
		Clock:          s.clock,
	})
	s.uc = New(&OfferUseCaseCfg{
		Repo:           s.offers,
		SaleObjectRepo: s.objects,
		TransactionUC:  s.txUC,
		Transactor:     query.Inline(),
		Clock:          s.clock,
	})

	s.Require().NoError(s.objects.Create(s.ctx, &saleobject.SaleObject{
		ID:           "obj",
		SellerID:     "seller",
		SaleMode:     saleobject.SaleModeQuickSale,
		Status:       saleobject.StatusActive,
		Price:        decimal.NewFromInt(200),
		ShippingCost: decimal.NewFromInt(5),
	}))
}

func (s *offerSuite) offer(buyer string, amount int64, msg string) (*offer.Offer, *offer.Offer, error) {
	s.clock.Add(time.Second)
	return s.uc.MakeOffer(s.ctx, offer.MakeOfferInput{
		ObjectID: "obj",
		BuyerID:  buyer,
		Amount:   decimal.NewFromInt(amount),
		Message:  msg,
	})
}

func (s *offerSuite) TestNewOfferSupersedesPending() {
	first, superseded, err := s.offer("A", 150, "")
	s.Require().NoError(err)
	s.Nil(superseded)
	s.Equal(offer.KindOffer, first.Kind)

	question, superseded, err := s.offer("A", 0, "does it ship abroad? mail a@b.com")
	s.Require().NoError(err)
	s.Nil(superseded)
	s.Equal(offer.KindQuestion, question.Kind)
	s.Equal("does it ship abroad? mail [redacted]", question.Message)

	second, superseded, err := s.offer("A", 170, "")
	s.Require().NoError(err)
	s.Require().NotNil(superseded)
	s.Equal(first.ID, superseded.ID)
	s.Equal(offer.StatusWithdrawn, superseded.Status)

	pending, err := s.uc.FindAll(s.ctx, offer.WithObjectID("obj"), offer.WithStatus(offer.StatusPending))
	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	s.Equal(second.ID, pending[0].ID)
	s.Equal(question.ID, pending[1].ID)
}

func (s *offerSuite) TestMakeOfferRejections() {
	_, _, err := s.offer("seller", 150, "")
	s.ErrorIs(err, domain.ErrSelfOfferForbidden)

	_, _, err = s.offer("A", -1, "")
	s.ErrorIs(err, domain.ErrInvalidAmount)

	_, _, err = s.uc.MakeOffer(s.ctx, offer.MakeOfferInput{ObjectID: "missing", BuyerID: "A", Amount: decimal.NewFromInt(1)})
	s.ErrorIs(err, domain.ErrObjectNotFound)
}

func (s *offerSuite) TestAcceptOffer() {
	a, _, err := s.offer("A", 150, "")
	s.Require().NoError(err)
	b, _, err := s.offer("B", 160, "")
	s.Require().NoError(err)
	q, _, err := s.offer("C", 0, "still there?")
	s.Require().NoError(err)

	_, err = s.uc.AcceptOffer(s.ctx, a.ID, "B")
	s.ErrorIs(err, domain.ErrNotSeller)

	_, err = s.uc.AcceptOffer(s.ctx, q.ID, "seller")
	s.ErrorIs(err, domain.ErrQuestionNotOffer)

	res, err := s.uc.AcceptOffer(s.ctx, a.ID, "seller")
	s.Require().NoError(err)
	s.Equal(offer.StatusAccepted, res.Offer.Status)
	s.Require().Len(res.Rejected, 1)
	s.Equal(b.ID, res.Rejected[0].ID)
	s.Equal(transaction.SourceOffer, res.Transaction.Source)
	s.Equal("A", res.Transaction.BuyerID)
	s.True(decimal.NewFromInt(150).Equal(res.Transaction.FinalPrice))

	obj, err := s.objects.FindOne(s.ctx, "obj")
	s.Require().NoError(err)
	s.Equal(saleobject.StatusSold, obj.Status)

	stillQuestion, err := s.uc.FindOne(s.ctx, q.ID)
	s.Require().NoError(err)
	s.Equal(offer.StatusPending, stillQuestion.Status)

	_, err = s.uc.AcceptOffer(s.ctx, b.ID, "seller")
	s.ErrorIs(err, domain.ErrOfferNotPending)

	_, _, err = s.offer("D", 190, "")
	s.ErrorIs(err, domain.ErrObjectNotActive)
}

func (s *offerSuite) TestSecondAcceptBlockedByLiveTransaction() {
	a, _, err := s.offer("A", 150, "")
	s.Require().NoError(err)
	_, err = s.uc.AcceptOffer(s.ctx, a.ID, "seller")
	s.Require().NoError(err)

	// an offer that slipped in as pending cannot be accepted while the sale is live
	late := &offer.Offer{ID: "late", ObjectID: "obj", BuyerID: "E", Kind: offer.KindOffer, Amount: decimal.NewFromInt(199), Status: offer.StatusPending}
	s.Require().NoError(s.offers.Create(s.ctx, late))
	_, err = s.uc.AcceptOffer(s.ctx, late.ID, "seller")
	s.ErrorIs(err, domain.ErrLiveTransaction)
}

func (s *offerSuite) TestCancellationReopensNegotiation() {
	a, _, err := s.offer("A", 150, "")
	s.Require().NoError(err)
	res, err := s.uc.AcceptOffer(s.ctx, a.ID, "seller")
	s.Require().NoError(err)

	_, err = s.txUC.Cancel(s.ctx, res.Transaction.ID, "seller", "damaged")
	s.Require().NoError(err)

	b, _, err := s.offer("B", 180, "")
	s.Require().NoError(err)
	res, err = s.uc.AcceptOffer(s.ctx, b.ID, "seller")
	s.Require().NoError(err)
	s.Equal("B", res.Transaction.BuyerID)
}

func (s *offerSuite) TestRejectAndWithdraw() {
	a, _, err := s.offer("A", 150, "")
	s.Require().NoError(err)
	q, _, err := s.offer("B", 0, "hi")
	s.Require().NoError(err)

	_, err = s.uc.RejectOffer(s.ctx, a.ID, "A")
	s.ErrorIs(err, domain.ErrNotSeller)
	_, err = s.uc.RejectOffer(s.ctx, q.ID, "seller")
	s.ErrorIs(err, domain.ErrQuestionNotOffer)

	rejected, err := s.uc.RejectOffer(s.ctx, a.ID, "seller")
	s.Require().NoError(err)
	s.Equal(offer.StatusRejected, rejected.Status)

	_, err = s.uc.WithdrawOffer(s.ctx, a.ID, "A")
	s.ErrorIs(err, domain.ErrOfferNotPending)

	c, _, err := s.offer("C", 160, "")
	s.Require().NoError(err)
	_, err = s.uc.WithdrawOffer(s.ctx, c.ID, "A")
	s.ErrorIs(err, domain.ErrNotOfferOwner)

	withdrawn, err := s.uc.WithdrawOffer(s.ctx, c.ID, "C")
	s.Require().NoError(err)
	s.Equal(offer.StatusWithdrawn, withdrawn.Status)
}

func (s *offerSuite) TestBuyNow() {
	a, _, err := s.offer("A", 150, "")
	s.Require().NoError(err)

	_, err = s.uc.BuyNow(s.ctx, offer.BuyNowInput{ObjectID: "obj", BuyerID: "seller"})
	s.ErrorIs(err, domain.ErrSelfOfferForbidden)

	addr := &transaction.Address{Name: "B", Line1: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"}
	res, err := s.uc.BuyNow(s.ctx, offer.BuyNowInput{ObjectID: "obj", BuyerID: "B", ShippingAddress: addr})
	s.Require().NoError(err)
	s.True(res.Offer.BuyNow)
	s.Equal(offer.StatusAccepted, res.Offer.Status)
	s.Equal(transaction.SourceBuyNow, res.Transaction.Source)
	s.True(decimal.NewFromInt(200).Equal(res.Transaction.FinalPrice))
	s.Equal("1 Main St", res.Transaction.ShippingAddress.Line1)
	s.Require().Len(res.Rejected, 1)
	s.Equal(a.ID, res.Rejected[0].ID)

	_, err = s.uc.BuyNow(s.ctx, offer.BuyNowInput{ObjectID: "obj", BuyerID: "C"})
	s.ErrorIs(err, domain.ErrObjectNotActive)
}

func (s *offerSuite) TestAuctionObjectRejectsOffers() {
	s.Require().NoError(s.objects.Create(s.ctx, &saleobject.SaleObject{
		ID:       "auction",
		SellerID: "seller",
		SaleMode: saleobject.SaleModeAuction,
		Status:   saleobject.StatusActive,
	}))

	_, _, err := s.uc.MakeOffer(s.ctx, offer.MakeOfferInput{ObjectID: "auction", BuyerID: "A", Amount: decimal.NewFromInt(10)})
	s.ErrorIs(err, domain.ErrWrongSaleMode)

	_, err = s.uc.BuyNow(s.ctx, offer.BuyNowInput{ObjectID: "auction", BuyerID: "A"})
	s.ErrorIs(err, domain.ErrWrongSaleMode)
}
