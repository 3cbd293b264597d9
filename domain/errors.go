package domain

import (
	"errors"
)

// ErrorKind classifies an Error by how the caller is expected to react
type ErrorKind string

const (
	// KindValidation is a bad input, surfaced to the caller
	KindValidation ErrorKind = "validation"
	// KindConflict is a stale view, recoverable by refetch and retry
	KindConflict ErrorKind = "conflict"
	// KindState is a command that is illegal for the current state, never retried
	KindState ErrorKind = "state"
	// KindExternal is a payment or logistics provider failure, retried with backoff
	KindExternal ErrorKind = "external"
	KindNotFound ErrorKind = "not_found"
	// KindUnauthorized is a request without valid credentials
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindInternal     ErrorKind = "internal"
)

type Error struct {
	Kind ErrorKind `json:"kind"`
	Code string    `json:"code"`
	Msg  string    `json:"message"`
}

func (e *Error) Error() string {
	return e.Msg
}

// Is matches any Error with the same code, so errors built with WithMsg
// still match their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMsg returns a copy carrying a more specific message
func (e *Error) WithMsg(msg string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Msg: msg}
}

func newError(kind ErrorKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

// KindOf returns the kind of the first Error in err's chain, KindInternal otherwise
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

var (
	ErrInternalServerError = newError(KindInternal, "InternalServerError", "internal server error")

	// ErrNotFound is returned by repositories when the requested item does not exist
	ErrNotFound            = newError(KindNotFound, "NotFound", "requested item is not found")
	ErrObjectNotFound      = newError(KindNotFound, "ObjectNotFound", "sale object not found")
	ErrBidNotFound         = newError(KindNotFound, "BidNotFound", "bid not found")
	ErrOfferNotFound       = newError(KindNotFound, "OfferNotFound", "offer not found")
	ErrTransactionNotFound = newError(KindNotFound, "TransactionNotFound", "transaction not found")

	ErrBadParamInput        = newError(KindValidation, "BadParamInput", "given param is not valid")
	ErrInvalidAmount        = newError(KindValidation, "InvalidAmount", "amount must be positive")
	ErrBidTooLow            = newError(KindValidation, "BidTooLow", "bid is below the minimum next bid")
	ErrPaymentMethodMissing = newError(KindValidation, "PaymentMethodMissing", "no verified payment method on file")

	ErrUnauthorized       = newError(KindUnauthorized, "Unauthorized", "missing or invalid credentials")
	ErrSelfBidForbidden   = newError(KindForbidden, "SelfBidForbidden", "seller cannot bid on own object")
	ErrRoleNotEligible    = newError(KindForbidden, "RoleNotEligible", "user is not eligible to bid")
	ErrNotSeller          = newError(KindForbidden, "NotSeller", "only the seller can do this")
	ErrNotParticipant     = newError(KindForbidden, "NotParticipant", "only the buyer or the seller can do this")
	ErrNotOfferOwner      = newError(KindForbidden, "NotOfferOwner", "only the buyer who made the offer can do this")
	ErrSelfOfferForbidden = newError(KindForbidden, "SelfOfferForbidden", "seller cannot make an offer on own object")

	ErrAuctionClosed     = newError(KindState, "AuctionClosed", "auction is closed")
	ErrAuctionNotEnded   = newError(KindState, "AuctionNotEnded", "auction has not reached its end time")
	ErrObjectNotActive   = newError(KindState, "ObjectNotActive", "sale object is not active")
	ErrWrongSaleMode     = newError(KindState, "WrongSaleMode", "command does not apply to this sale mode")
	ErrNotLeader         = newError(KindState, "NotLeader", "bid is not the current leader")
	ErrOfferNotPending   = newError(KindState, "OfferNotPending", "offer is not pending")
	ErrQuestionNotOffer  = newError(KindState, "QuestionNotOffer", "a question cannot be accepted or rejected")
	ErrLiveTransaction   = newError(KindState, "LiveTransaction", "sale object already has a live transaction")
	ErrInvalidTransition = newError(KindState, "InvalidTransition", "transition is illegal for the current status")
	ErrObjectHasBids     = newError(KindState, "ObjectHasBids", "sale object already has bids")
	ErrDispatcherClosed  = newError(KindState, "DispatcherClosed", "dispatcher is shutting down")

	ErrStaleLeader     = newError(KindConflict, "StaleLeader", "leader changed since it was read")
	ErrVersionConflict = newError(KindConflict, "VersionConflict", "record changed since it was read")
	ErrDuplicateID     = newError(KindConflict, "DuplicateID", "record already exists")

	ErrExternal = newError(KindExternal, "ExternalDependency", "external dependency failed")
)
