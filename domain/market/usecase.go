package market

import (
	"math/big"
	"time"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/domain"
)

// PrimarySaleLedger is the one primary sale cursor both venues share
type PrimarySaleLedger interface {
	RecordMint(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId, totalSupply uint64, firstOwner domain.Address) (*PrimarySaleRecord, error)
	Consume(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId, amount uint64) (SaleKind, error)
	// Peek returns domain.ErrNotFound for a token the ledger never saw minted
	Peek(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId) (*PrimarySaleRecord, error)
	// KindOf classifies the next fill without consuming anything
	KindOf(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId) (SaleKind, error)
	// CheckListable rejects listing more than the remaining primary supply
	CheckListable(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId, quantity uint64) error
}

type ListRequest struct {
	Asset     domain.Address
	TokenId   domain.TokenId
	Seller    domain.Address
	Quantity  uint64
	UnitPrice *big.Int
}

// ListingRegistry holds the active listings of one venue
type ListingRegistry interface {
	Venue() Venue
	List(c ctx.Ctx, req ListRequest, now time.Time) (*Listing, error)
	UpdatePrice(c ctx.Ctx, id ListingId, unitPrice *big.Int) (*Listing, error)
	UpdateQuantity(c ctx.Ctx, id ListingId, quantity uint64) (*Listing, error)
	// Delist removes quantity units, 0 removes the whole listing. It returns the
	// remaining listing or nil once cleared.
	Delist(c ctx.Ctx, id ListingId, quantity uint64) (*Listing, error)
	// ReduceOnFill removes filled units and clears the listing at zero
	ReduceOnFill(c ctx.Ctx, id ListingId, filled uint64) (*Listing, error)
	SaveAuction(c ctx.Ctx, listing *Listing) error
	Get(c ctx.Ctx, id ListingId) (*Listing, error)
	Find(c ctx.Ctx, opts ...ListingFindAllOptionsFunc) ([]Listing, error)
}

type SettleRequest struct {
	Listing *Listing
	Buyer   domain.Address
	Amount  uint64
	Gross   *big.Int
	// Prepaid is set when the gross amount is already held, e.g. a winning bid
	Prepaid bool
	// ExpectedKind, when set, must match the kind the ledger consumes
	ExpectedKind SaleKind
}

// Settler is the settlement path shared by purchases, auction ends and collector mints
type Settler interface {
	Settle(c ctx.Ctx, req SettleRequest, now time.Time) (*SaleRecord, error)
}

type UpdateListingRequest struct {
	Asset     domain.Address
	TokenId   domain.TokenId
	Seller    domain.Address
	UnitPrice *big.Int
	Quantity  *uint64
}

type DelistRequest struct {
	Asset   domain.Address
	TokenId domain.TokenId
	Seller  domain.Address
	// Quantity 0 delists everything
	Quantity uint64
}

type PurchaseRequest struct {
	Asset   domain.Address
	TokenId domain.TokenId
	Seller  domain.Address
	Buyer   domain.Address
	Amount  uint64
	Payment *big.Int
}

type CollectorMintPurchaseRequest struct {
	Request           CollectorMintRequest
	Hash              string
	ArtistSignature   string
	PlatformSignature string
	PurchaseAmount    uint64
	Buyer             domain.Address
	Payment           *big.Int
}

type CollectorMintResult struct {
	TokenId domain.TokenId `json:"tokenId"`
	Sale    *SaleRecord    `json:"sale"`
	Listing *Listing       `json:"listing"`
}

type FixedPriceMarket interface {
	List(c ctx.Ctx, req ListRequest, now time.Time) (*Listing, error)
	UpdateListedNft(c ctx.Ctx, req UpdateListingRequest, now time.Time) (*Listing, error)
	DelistNft(c ctx.Ctx, req DelistRequest, now time.Time) (*Listing, error)
	// RequiredPayment is the exact payment PurchaseNft will accept right now
	RequiredPayment(c ctx.Ctx, id ListingId, amount uint64) (*big.Int, SaleKind, error)
	PurchaseNft(c ctx.Ctx, req PurchaseRequest, now time.Time) (*SaleRecord, error)
	CollectorMintPurchase(c ctx.Ctx, req CollectorMintPurchaseRequest, now time.Time) (*CollectorMintResult, error)
	Get(c ctx.Ctx, id ListingId) (*Listing, error)
	Find(c ctx.Ctx, opts ...ListingFindAllOptionsFunc) ([]Listing, error)
}

// CollectorMintGate mints, lists and sells in one step on two valid signatures
type CollectorMintGate interface {
	CollectorMintPurchase(c ctx.Ctx, req CollectorMintPurchaseRequest, now time.Time) (*CollectorMintResult, error)
}

type BidRequest struct {
	Asset   domain.Address
	TokenId domain.TokenId
	Seller  domain.Address
	Bidder  domain.Address
	Payment *big.Int
}

type EndAuctionRequest struct {
	Asset   domain.Address
	TokenId domain.TokenId
	Seller  domain.Address
	Caller  domain.Address
}

// RefundOutcome tells how an outbid or cancelled bid was returned
type RefundOutcome struct {
	To       domain.Address `json:"to"`
	Amount   *big.Int       `json:"amount"`
	Escrowed bool           `json:"escrowed"`
}

type BidResult struct {
	Listing  *Listing       `json:"listing"`
	Refund   *RefundOutcome `json:"refund,omitempty"`
	Extended bool           `json:"extended"`
}

type DelistAuctionResult struct {
	Refund *RefundOutcome `json:"refund,omitempty"`
}

type AuctionMarket interface {
	List(c ctx.Ctx, req ListRequest, now time.Time) (*Listing, error)
	Delist(c ctx.Ctx, req DelistRequest, now time.Time) (*DelistAuctionResult, error)
	PlaceBid(c ctx.Ctx, req BidRequest, now time.Time) (*BidResult, error)
	EndAuction(c ctx.Ctx, req EndAuctionRequest, now time.Time) (*SaleRecord, error)
	Get(c ctx.Ctx, id ListingId) (*Listing, error)
	Find(c ctx.Ctx, opts ...ListingFindAllOptionsFunc) ([]Listing, error)
}

// Refunder returns held bid funds, escrowing them when delivery fails
type Refunder interface {
	Refund(c ctx.Ctx, to domain.Address, amount *big.Int) (*RefundOutcome, error)
}

type SaleUseCase interface {
	Record(c ctx.Ctx, sale *SaleRecord) error
	FindAll(c ctx.Ctx, opts ...SaleFindAllOptionsFunc) ([]SaleRecord, error)
}
