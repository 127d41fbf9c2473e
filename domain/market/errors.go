package market

import (
	"errors"
	"fmt"
)

// ErrorKind groups market failures by what the caller got wrong
type ErrorKind string

const (
	KindAuthorization ErrorKind = "authorization"
	KindState         ErrorKind = "state"
	KindValidation    ErrorKind = "validation"
	KindPayment       ErrorKind = "payment"
)

// Error is a typed market failure. Two errors match under errors.Is when their
// codes match; a target carrying a detail also requires the detail to match.
type Error struct {
	Kind   ErrorKind
	Code   string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s(%q)", e.Code, e.Detail)
	}
	return e.Code
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Detail != "" && t.Detail != e.Detail {
		return false
	}
	return t.Code == e.Code
}

// WithDetail returns a copy of e carrying detail
func (e *Error) WithDetail(detail string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Detail: detail}
}

func newError(kind ErrorKind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

// KindOf reports the kind of a market error anywhere in the chain of err
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// UnauthorizedOnNFT is returned when a signer is not allowed to act on an asset
func UnauthorizedOnNFT(role string) *Error {
	return &Error{Kind: KindAuthorization, Code: "UnauthorizedOnNFT", Detail: role}
}

const (
	RoleArtist   = "ARTIST"
	RolePlatform = "PLATFORM"
)

var (
	// authorization
	ErrNotOwner                = newError(KindAuthorization, "NotOwnerOrInsufficientBalance")
	ErrMarketNotApproved       = newError(KindAuthorization, "MarketNotApprovedForAll")
	ErrAuctionCreatorCannotBid = newError(KindAuthorization, "AuctionCreatorCannotBid")
	ErrInvalidSignature        = newError(KindAuthorization, "InvalidSignature")
	ErrUnauthorized            = newError(KindAuthorization, "Unauthorized")

	// state
	ErrItemIsNotListedBySeller      = newError(KindState, "ItemIsNotListedBySeller")
	ErrItemAlreadyListed            = newError(KindState, "ItemAlreadyListed")
	ErrAuctionTimeNotStartedYet     = newError(KindState, "AuctionTimeNotStartedYet")
	ErrAuctionCannotBeEndedYet      = newError(KindState, "AuctionCannotBeEndedYet")
	ErrAuctionMustBeEnded           = newError(KindState, "AuctionMustBeEnded")
	ErrLastBidderCannotPlaceNextBid = newError(KindState, "LastBidderCannotPlaceNextBid")
	ErrPrimarySaleAlreadyRecorded   = newError(KindState, "PrimarySaleAlreadyRecorded")
	ErrCollectorMintIdUsed          = newError(KindState, "CollectorMintIdAlreadyUsed")

	// validation
	ErrListPriceMustBeGreaterThanZero       = newError(KindValidation, "ListPriceMustBeGreaterThanZero")
	ErrInvalidQuantity                      = newError(KindValidation, "InvalidQuantity")
	ErrLessItemsListedThanTheRequiredAmount = newError(KindValidation, "LessItemsListedThanTheRequiredAmount")
	ErrPrimarySupplyExceeded                = newError(KindValidation, "ListedMoreThanPrimarySupply")
	ErrCollaboratorSharesMustSumTo100       = newError(KindValidation, "CollaboratorSharesMustSumTo100")
	ErrNullCollaboratorAddress              = newError(KindValidation, "NullCollaboratorAddress")
	ErrInvalidRoyalty                       = newError(KindValidation, "InvalidRoyalty")
	ErrCannotBuyOwnItem                     = newError(KindValidation, "CannotBuyOwnItem")
	ErrInvalidMintRequest                   = newError(KindValidation, "InvalidCollectorMintRequest")
	ErrUnsupportedAsset                     = newError(KindValidation, "UnsupportedAsset")
	ErrInvalidAddress                       = newError(KindValidation, "InvalidAddress")

	// payment
	ErrInvalidAmountForThisPurchase = newError(KindPayment, "InvalidAmountForThisPurchase")
	ErrBidTooLow                    = newError(KindPayment, "BidTooLow")
	ErrInsufficientFunds            = newError(KindPayment, "InsufficientFunds")
	ErrPaymentRejected              = newError(KindPayment, "PaymentRejectedByRecipient")
	ErrNothingToWithdraw            = newError(KindPayment, "NothingToWithdraw")
)
