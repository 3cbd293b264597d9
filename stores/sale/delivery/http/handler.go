package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/delivery"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/base/metrics"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/auction"
	"github.com/x-xyz/saleengine/domain/offer"
	"github.com/x-xyz/saleengine/domain/sale"
	"github.com/x-xyz/saleengine/domain/saleobject"
	"github.com/x-xyz/saleengine/domain/transaction"
	"github.com/x-xyz/saleengine/middleware"
	"github.com/x-xyz/saleengine/service/cache"
	authMiddleware "github.com/x-xyz/saleengine/stores/auth/delivery/http/middleware"
)

// WebhookSecretHeader carries the shared secret of the payment and logistics providers
const WebhookSecretHeader = "X-Webhook-Secret"

const (
	defaultBrowseLimit = 20
	maxBrowseLimit     = 100
)

var met = metrics.New("sale.http")

type handler struct {
	sale          sale.UseCase
	listing       saleobject.UseCase
	webhookSecret string
}

// New registers the listing, bidding, offer, transaction and webhook routes.
// listCache may be nil, webhooks are unauthenticated when webhookSecret is empty.
func New(
	e *echo.Echo,
	saleUC sale.UseCase,
	listing saleobject.UseCase,
	authMiddleware *authMiddleware.AuthMiddleware,
	listCache cache.Service,
	webhookSecret string,
) {
	h := &handler{saleUC, listing, webhookSecret}

	auth := authMiddleware.Auth()
	id := middleware.IsValidID("id")

	browse := []echo.MiddlewareFunc{}
	if listCache != nil {
		browse = append(browse, middleware.CacheHttp(listCache))
	}

	e.GET("/listings", h.browse, browse...)
	e.POST("/listings", h.createListing, auth)

	l := e.Group("/listings/:id")
	l.GET("", h.getListing, id)
	l.POST("/publish", h.publish, id, auth)
	l.POST("/withdraw", h.withdraw, id, auth)

	l.POST("/bids", h.placeBid, id, auth)
	l.GET("/bids", h.bidHistory, id)
	l.GET("/bids/leader", h.leadingBid, id)
	l.POST("/bids/:bidId/accept", h.acceptBid, middleware.IsValidID("id", "bidId"), auth)

	l.POST("/offers", h.makeOffer, id, auth)
	l.GET("/offers", h.listOffers, id, auth)
	l.POST("/buy", h.buyNow, id, auth)

	offerID := middleware.IsValidID("offerId")
	o := e.Group("/offers/:offerId")
	o.POST("/accept", h.acceptOffer, offerID, auth)
	o.POST("/reject", h.rejectOffer, offerID, auth)
	o.POST("/withdraw", h.withdrawOffer, offerID, auth)

	t := e.Group("/transactions/:id")
	t.GET("", h.transactionStatus, id, auth)
	t.PUT("/address", h.setAddresses, id, auth)
	t.POST("/cancel", h.cancelTransaction, id, auth)
	t.POST("/confirm", h.confirmReceipt, id, auth)

	w := e.Group("/webhooks")
	w.POST("/payment", h.paymentWebhook, h.verifyWebhook)
	w.POST("/logistics", h.logisticsWebhook, h.verifyWebhook)
}

// fail logs err by severity and writes the matching response
func fail(c echo.Context, ctx ctx.Ctx, op string, err error) error {
	kind := domain.KindOf(err)
	met.BumpSum("err", 1, "op", op, "kind", string(kind))
	fields := log.Fields{"err": err, "op": op}
	switch kind {
	case domain.KindInternal, domain.KindExternal:
		ctx.WithFields(fields).Error("sale command failed")
	default:
		ctx.WithFields(fields).Info("sale command rejected")
	}
	return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
}

// bindAndValidate returns an error that MakeJsonResp turns into a 400
func bindAndValidate(c echo.Context, ctx ctx.Ctx, p interface{}) error {
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Warn("bind failed")
		return domain.ErrBadParamInput
	}
	return c.Validate(p)
}

// browse
//
//	@Summary		Browse listings
//	@Description	List sale objects, active ones unless status is given
//	@Tags			listing
//	@Produce		json
//	@Param			sellerId	query		string	false	"seller id"
//	@Param			saleMode	query		string	false	"quick_sale or auction"
//	@Param			status	query		string	false	"listing status, active by default"
//	@Param			offset	query		int	false	"offset"
//	@Param			limit	query		int	false	"limit, at most 100"
//	@Success		200	{object}	object{data=[]saleobject.SaleObject}
//	@Failure		400
//	@Failure		500
//	@Router			/listings [get]
func (h *handler) browse(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		SellerID string `query:"sellerId"`
		SaleMode string `query:"saleMode" validate:"omitempty,oneof=quick_sale auction"`
		Status   string `query:"status" validate:"omitempty,oneof=draft pending active sold expired withdrawn"`
		Offset   int32  `query:"offset" validate:"gte=0"`
		Limit    int32  `query:"limit" validate:"gte=0,lte=100"`
	}

	p := &params{}
	if err := bindAndValidate(c, ctx, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	status := saleobject.StatusActive
	if p.Status != "" {
		status = saleobject.Status(p.Status)
	}
	limit := p.Limit
	if limit == 0 {
		limit = defaultBrowseLimit
	} else if limit > maxBrowseLimit {
		limit = maxBrowseLimit
	}

	opts := []saleobject.FindAllOptionsFunc{
		saleobject.WithStatus(status),
		saleobject.WithPagination(p.Offset, limit),
	}
	if p.SellerID != "" {
		opts = append(opts, saleobject.WithSellerID(p.SellerID))
	}
	if p.SaleMode != "" {
		opts = append(opts, saleobject.WithSaleMode(saleobject.SaleMode(p.SaleMode)))
	}

	res, err := h.listing.FindAll(ctx, opts...)
	if err != nil {
		return fail(c, ctx, "browse", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// createListing
//
//	@Summary		Create listing
//	@Description	Create a draft listing owned by the caller, published right away when publish is set
//	@Tags			listing
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		saleobject.CreateListingInput	true	"params"
//	@Success		201	{object}	object{data=saleobject.SaleObject}
//	@Failure		400
//	@Failure		401
//	@Failure		500
//	@Router			/listings [post]
func (h *handler) createListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &saleobject.CreateListingInput{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Warn("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	p.SellerID = authMiddleware.UserID(c)
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.CreateListing(ctx, *p)
	if err != nil {
		return fail(c, ctx, "createListing", err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

// getListing
//
//	@Summary		Get listing
//	@Tags			listing
//	@Produce		json
//	@Param			id	path		string	true	"sale object id"
//	@Success		200	{object}	object{data=saleobject.SaleObject}
//	@Failure		400
//	@Failure		404
//	@Failure		500
//	@Router			/listings/{id} [get]
func (h *handler) getListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.sale.GetListing(ctx, c.Param("id"))
	if err != nil {
		return fail(c, ctx, "getListing", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// publish
//
//	@Summary		Publish listing
//	@Description	Open a draft listing, auctions start their clock
//	@Tags			listing
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id	path		string	true	"sale object id"
//	@Success		200	{object}	object{data=saleobject.SaleObject}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		404
//	@Failure		422
//	@Failure		500
//	@Router			/listings/{id}/publish [post]
func (h *handler) publish(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.sale.PublishListing(ctx, c.Param("id"), authMiddleware.UserID(c))
	if err != nil {
		return fail(c, ctx, "publish", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// withdraw
//
//	@Summary		Withdraw listing
//	@Description	Only without bids and without a live transaction
//	@Tags			listing
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id	path		string	true	"sale object id"
//	@Success		200	{object}	object{data=saleobject.SaleObject}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		404
//	@Failure		422
//	@Failure		500
//	@Router			/listings/{id}/withdraw [post]
func (h *handler) withdraw(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.sale.WithdrawListing(ctx, c.Param("id"), authMiddleware.UserID(c))
	if err != nil {
		return fail(c, ctx, "withdraw", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// placeBid
//
//	@Summary		Place bid
//	@Tags			bid
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id	path		string	true	"sale object id"
//	@Param			params	body		auction.PlaceBidInput	true	"params"
//	@Success		201	{object}	object{data=auction.BidOutcome}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		404
//	@Failure		409
//	@Failure		422
//	@Failure		500
//	@Failure		502
//	@Router			/listings/{id}/bids [post]
func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &auction.PlaceBidInput{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Warn("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	p.ObjectID = c.Param("id")
	p.BidderID = authMiddleware.UserID(c)
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.PlaceBid(ctx, *p)
	if err != nil {
		return fail(c, ctx, "placeBid", err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

// bidHistory
//
//	@Summary		Bid history
//	@Description	Bids of every round, newest first
//	@Tags			bid
//	@Produce		json
//	@Param			id	path		string	true	"sale object id"
//	@Success		200	{object}	object{data=[]bid.Bid}
//	@Failure		400
//	@Failure		404
//	@Failure		500
//	@Router			/listings/{id}/bids [get]
func (h *handler) bidHistory(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.sale.BidHistory(ctx, c.Param("id"))
	if err != nil {
		return fail(c, ctx, "bidHistory", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// leadingBid
//
//	@Summary		Leading bid
//	@Description	Leader of the current round with the minimum next bid
//	@Tags			bid
//	@Produce		json
//	@Param			id	path		string	true	"sale object id"
//	@Success		200	{object}	object{data=auction.Snapshot}
//	@Failure		400
//	@Failure		404
//	@Failure		500
//	@Router			/listings/{id}/bids/leader [get]
func (h *handler) leadingBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.sale.LeadingBid(ctx, c.Param("id"))
	if err != nil {
		return fail(c, ctx, "leadingBid", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// acceptBid
//
//	@Summary		Accept bid
//	@Description	Seller closes the auction on the current leader
//	@Tags			bid
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id	path		string	true	"sale object id"
//	@Param			bidId	path		string	true	"bid id"
//	@Success		200	{object}	object{data=auction.CloseOutcome}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		404
//	@Failure		409
//	@Failure		422
//	@Failure		500
//	@Router			/listings/{id}/bids/{bidId}/accept [post]
func (h *handler) acceptBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.sale.AcceptBid(ctx, c.Param("id"), authMiddleware.UserID(c), c.Param("bidId"))
	if err != nil {
		return fail(c, ctx, "acceptBid", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// makeOffer
//
//	@Summary		Make offer
//	@Description	An amount of 0 asks a question instead
//	@Tags			offer
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id	path		string	true	"sale object id"
//	@Param			params	body		offer.MakeOfferInput	true	"params"
//	@Success		201	{object}	object{data=offer.Offer}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		404
//	@Failure		422
//	@Failure		500
//	@Failure		502
//	@Router			/listings/{id}/offers [post]
func (h *handler) makeOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &offer.MakeOfferInput{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Warn("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	p.ObjectID = c.Param("id")
	p.BuyerID = authMiddleware.UserID(c)
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.MakeOffer(ctx, *p)
	if err != nil {
		return fail(c, ctx, "makeOffer", err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

// listOffers
//
//	@Summary		List offers
//	@Description	Sellers see every offer, buyers their own
//	@Tags			offer
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id	path		string	true	"sale object id"
//	@Success		200	{object}	object{data=[]offer.Offer}
//	@Failure		400
//	@Failure		401
//	@Failure		404
//	@Failure		500
//	@Router			/listings/{id}/offers [get]
func (h *handler) listOffers(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.sale.ListOffers(ctx, c.Param("id"), authMiddleware.UserID(c))
	if err != nil {
		return fail(c, ctx, "listOffers", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// buyNow
//
//	@Summary		Buy now
//	@Description	Buy at the listed price
//	@Tags			offer
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id	path		string	true	"sale object id"
//	@Param			params	body		offer.BuyNowInput	true	"params"
//	@Success		201	{object}	object{data=offer.AcceptResult}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		404
//	@Failure		422
//	@Failure		500
//	@Failure		502
//	@Router			/listings/{id}/buy [post]
func (h *handler) buyNow(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &offer.BuyNowInput{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Warn("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	p.ObjectID = c.Param("id")
	p.BuyerID = authMiddleware.UserID(c)
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.BuyNow(ctx, *p)
	if err != nil {
		return fail(c, ctx, "buyNow", err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

// acceptOffer
//
//	@Summary		Accept offer
//	@Tags			offer
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			offerId	path		string	true	"offer id"
//	@Success		200	{object}	object{data=offer.AcceptResult}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		404
//	@Failure		422
//	@Failure		500
//	@Router			/offers/{offerId}/accept [post]
func (h *handler) acceptOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.sale.AcceptOffer(ctx, c.Param("offerId"), authMiddleware.UserID(c))
	if err != nil {
		return fail(c, ctx, "acceptOffer", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// rejectOffer
//
//	@Summary		Reject offer
//	@Tags			offer
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			offerId	path		string	true	"offer id"
//	@Success		200	{object}	object{data=offer.Offer}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		404
//	@Failure		422
//	@Failure		500
//	@Router			/offers/{offerId}/reject [post]
func (h *handler) rejectOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.sale.RejectOffer(ctx, c.Param("offerId"), authMiddleware.UserID(c))
	if err != nil {
		return fail(c, ctx, "rejectOffer", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// withdrawOffer
//
//	@Summary		Withdraw offer
//	@Tags			offer
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			offerId	path		string	true	"offer id"
//	@Success		200	{object}	object{data=offer.Offer}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		404
//	@Failure		422
//	@Failure		500
//	@Router			/offers/{offerId}/withdraw [post]
func (h *handler) withdrawOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.sale.WithdrawOffer(ctx, c.Param("offerId"), authMiddleware.UserID(c))
	if err != nil {
		return fail(c, ctx, "withdrawOffer", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// transactionStatus
//
//	@Summary		Transaction status
//	@Tags			transaction
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id	path		string	true	"transaction id"
//	@Success		200	{object}	object{data=transaction.Transaction}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		404
//	@Failure		500
//	@Router			/transactions/{id} [get]
func (h *handler) transactionStatus(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.sale.TransactionStatus(ctx, c.Param("id"), authMiddleware.UserID(c))
	if err != nil {
		return fail(c, ctx, "transactionStatus", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// setAddresses
//
//	@Summary		Set addresses
//	@Description	Buyer sets shipping and billing addresses before shipment
//	@Tags			transaction
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id	path		string	true	"transaction id"
//	@Param			params	body		transaction.AddressInput	true	"params"
//	@Success		200	{object}	object{data=transaction.Transaction}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		404
//	@Failure		422
//	@Failure		500
//	@Router			/transactions/{id}/address [put]
func (h *handler) setAddresses(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &transaction.AddressInput{}
	if err := bindAndValidate(c, ctx, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.SetAddresses(ctx, c.Param("id"), authMiddleware.UserID(c), *p)
	if err != nil {
		return fail(c, ctx, "setAddresses", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// cancelTransaction
//
//	@Summary		Cancel transaction
//	@Description	Only before shipment, held funds are refunded and the listing reopens
//	@Tags			transaction
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id	path		string	true	"transaction id"
//	@Param			params	body		sale.CancelInput	true	"params"
//	@Success		200	{object}	object{data=transaction.Transaction}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		404
//	@Failure		422
//	@Failure		500
//	@Router			/transactions/{id}/cancel [post]
func (h *handler) cancelTransaction(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &sale.CancelInput{}
	if err := bindAndValidate(c, ctx, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.CancelTransaction(ctx, c.Param("id"), authMiddleware.UserID(c), *p)
	if err != nil {
		return fail(c, ctx, "cancelTransaction", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// confirmReceipt
//
//	@Summary		Confirm receipt
//	@Tags			transaction
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id	path		string	true	"transaction id"
//	@Success		200	{object}	object{data=transaction.Transaction}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		404
//	@Failure		422
//	@Failure		500
//	@Router			/transactions/{id}/confirm [post]
func (h *handler) confirmReceipt(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.sale.ConfirmReceipt(ctx, c.Param("id"), authMiddleware.UserID(c))
	if err != nil {
		return fail(c, ctx, "confirmReceipt", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) verifyWebhook(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.webhookSecret == "" {
			return next(c)
		}
		got := c.Request().Header.Get(WebhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) != 1 {
			return delivery.MakeJsonResp(c, http.StatusUnauthorized, domain.ErrUnauthorized)
		}
		return next(c)
	}
}

// paymentWebhook
//
//	@Summary		Payment webhook
//	@Description	Requires X-Webhook-Secret when a secret is configured
//	@Tags			webhook
//	@Accept			json
//	@Produce		json
//	@Param			params	body		sale.PaymentWebhook	true	"params"
//	@Success		200	{object}	object{data=transaction.Transaction}
//	@Failure		400
//	@Failure		401
//	@Failure		404
//	@Failure		422
//	@Failure		500
//	@Router			/webhooks/payment [post]
func (h *handler) paymentWebhook(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &sale.PaymentWebhook{}
	if err := bindAndValidate(c, ctx, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.HandlePayment(ctx, *p)
	if err != nil {
		return fail(c, ctx, "paymentWebhook", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// logisticsWebhook
//
//	@Summary		Logistics webhook
//	@Description	Requires X-Webhook-Secret when a secret is configured
//	@Tags			webhook
//	@Accept			json
//	@Produce		json
//	@Param			params	body		sale.LogisticsWebhook	true	"params"
//	@Success		200	{object}	object{data=transaction.Transaction}
//	@Failure		400
//	@Failure		401
//	@Failure		404
//	@Failure		422
//	@Failure		500
//	@Router			/webhooks/logistics [post]
func (h *handler) logisticsWebhook(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &sale.LogisticsWebhook{}
	if err := bindAndValidate(c, ctx, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.HandleLogistics(ctx, *p)
	if err != nil {
		return fail(c, ctx, "logisticsWebhook", err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
