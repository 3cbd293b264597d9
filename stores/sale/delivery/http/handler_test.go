package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/delivery"
	"github.com/x-xyz/saleengine/base/validator"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/auction"
	"github.com/x-xyz/saleengine/domain/bid"
	"github.com/x-xyz/saleengine/domain/sale"
	"github.com/x-xyz/saleengine/domain/sale/mocks"
	"github.com/x-xyz/saleengine/domain/saleobject"
	"github.com/x-xyz/saleengine/domain/transaction"
	"github.com/x-xyz/saleengine/middleware"
	authMiddleware "github.com/x-xyz/saleengine/stores/auth/delivery/http/middleware"
	authUsecase "github.com/x-xyz/saleengine/stores/auth/usecase"
	bidRepository "github.com/x-xyz/saleengine/stores/bid/repository"
	soRepository "github.com/x-xyz/saleengine/stores/saleobject/repository"
	soUsecase "github.com/x-xyz/saleengine/stores/saleobject/usecase"
	txRepository "github.com/x-xyz/saleengine/stores/transaction/repository"
)

const secret = "hook-secret"

type handlerSuite struct {
	suite.Suite

	e       *echo.Echo
	sale    *mocks.UseCase
	listing saleobject.UseCase
	token   string
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	auth := authUsecase.New("jwt-secret", time.Hour)
	tkn, err := auth.SignToken(ctx.Background(), "buyer")
	s.Require().NoError(err)
	s.token = tkn

	s.sale = mocks.NewUseCase(s.T())
	s.listing = soUsecase.New(&soUsecase.SaleObjectUseCaseCfg{
		Repo:            soRepository.NewMemorySaleObjectRepo(),
		Ledger:          bidRepository.NewMemoryLedger(),
		TransactionRepo: txRepository.NewMemoryTransactionRepo(),
		Clock:           clock.NewMock(),
	})

	s.e = echo.New()
	s.e.Validator = validator.NewCustomValidator(validator.New())
	s.e.Use(middleware.InitMiddleware().AddContext())
	New(s.e, s.sale, s.listing, authMiddleware.New(auth), nil, secret)
}

func (s *handlerSuite) do(method, target, body string, header map[string]string) (*httptest.ResponseRecorder, delivery.JsonResponse) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	res := delivery.JsonResponse{}
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	return rec, res
}

func (s *handlerSuite) bearer() map[string]string {
	return map[string]string{echo.HeaderAuthorization: "Bearer " + s.token}
}

func (s *handlerSuite) TestPlaceBid() {
	objID := domain.NewID()
	s.sale.On("PlaceBid", mock.Anything, mock.MatchedBy(func(in auction.PlaceBidInput) bool {
		return in.ObjectID == objID && in.BidderID == "buyer" && in.Amount.Equal(decimal.NewFromInt(120))
	})).Return(&auction.BidOutcome{Bid: &bid.Bid{ID: "b1", ObjectID: objID}}, nil).Once()

	rec, res := s.do(http.MethodPost, "/listings/"+objID+"/bids", `{"amount":"120"}`, s.bearer())
	s.Equal(http.StatusCreated, rec.Code)
	s.Equal(delivery.JsonResponseStatusSuccess, res.Status)
}

func (s *handlerSuite) TestErrorStatus() {
	objID := domain.NewID()
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrBidTooLow, http.StatusBadRequest},
		{domain.ErrSelfBidForbidden, http.StatusForbidden},
		{domain.ErrObjectNotFound, http.StatusNotFound},
		{domain.ErrStaleLeader, http.StatusConflict},
		{domain.ErrAuctionClosed, http.StatusUnprocessableEntity},
		{domain.ErrExternal, http.StatusBadGateway},
	}
	for _, c := range cases {
		s.sale.On("PlaceBid", mock.Anything, mock.Anything).Return(nil, c.err).Once()

		rec, res := s.do(http.MethodPost, "/listings/"+objID+"/bids", `{"amount":"120"}`, s.bearer())
		s.Equal(c.status, rec.Code, c.err.Error())
		s.Equal(delivery.JsonResponseStatusFail, res.Status)
		s.Equal(c.err.(*domain.Error).Code, res.Code)
	}
}

func (s *handlerSuite) TestRejectsBadRequests() {
	rec, _ := s.do(http.MethodPost, "/listings/not-an-id/bids", `{"amount":"120"}`, s.bearer())
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPost, "/listings/"+domain.NewID()+"/bids", `{"amount":"120"}`, map[string]string{
		echo.HeaderAuthorization: "Bearer nope",
	})
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodPost, "/listings/"+domain.NewID()+"/bids", `{"amount":`, s.bearer())
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *handlerSuite) TestCreateListingUsesCaller() {
	s.sale.On("CreateListing", mock.Anything, mock.MatchedBy(func(in saleobject.CreateListingInput) bool {
		return in.SellerID == "buyer" && in.SaleMode == saleobject.SaleModeAuction
	})).Return(&saleobject.SaleObject{ID: domain.NewID()}, nil).Once()

	rec, _ := s.do(http.MethodPost, "/listings", `{"title":"lamp","saleMode":"auction","startPrice":"100"}`, s.bearer())
	s.Equal(http.StatusCreated, rec.Code)

	rec, _ = s.do(http.MethodPost, "/listings", `{"title":"lamp","saleMode":"barter"}`, s.bearer())
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *handlerSuite) TestCancelTransaction() {
	txID := domain.NewID()
	s.sale.On("CancelTransaction", mock.Anything, txID, "buyer", sale.CancelInput{Reason: "changed my mind"}).
		Return(&transaction.Transaction{ID: txID, Status: transaction.StatusCancelled}, nil).Once()

	rec, _ := s.do(http.MethodPost, "/transactions/"+txID+"/cancel", `{"reason":"changed my mind"}`, s.bearer())
	s.Equal(http.StatusOK, rec.Code)
}

func (s *handlerSuite) TestWebhookSecret() {
	txID := domain.NewID()
	body := `{"transactionId":"` + txID + `","event":"captured"}`

	rec, _ := s.do(http.MethodPost, "/webhooks/payment", body, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	s.sale.On("HandlePayment", mock.Anything, sale.PaymentWebhook{TransactionID: txID, Event: sale.PaymentCaptured}).
		Return(&transaction.Transaction{ID: txID}, nil).Once()
	rec, _ = s.do(http.MethodPost, "/webhooks/payment", body, map[string]string{WebhookSecretHeader: secret})
	s.Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodPost, "/webhooks/logistics", `{"transactionId":"`+txID+`","event":"lost"}`, map[string]string{WebhookSecretHeader: secret})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *handlerSuite) TestBrowse() {
	price := decimal.NewFromInt(50)
	for _, publish := range []bool{true, false} {
		_, err := s.listing.CreateListing(ctx.Background(), saleobject.CreateListingInput{
			SellerID: "seller",
			Title:    "chair",
			SaleMode: saleobject.SaleModeQuickSale,
			Price:    &price,
			Publish:  publish,
		})
		s.Require().NoError(err)
	}

	rec, res := s.do(http.MethodGet, "/listings?saleMode=quick_sale", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Len(res.Data, 1)

	rec, res = s.do(http.MethodGet, "/listings?status=draft&sellerId=seller", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Len(res.Data, 1)

	rec, _ = s.do(http.MethodGet, "/listings?limit=1000", "", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}
