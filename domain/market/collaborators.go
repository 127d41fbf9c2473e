package market

import (
	"math/big"
	"time"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/domain"
)

type MintRequest struct {
	Asset    domain.Address
	To       domain.Address
	Amount   uint64
	TokenURI string
	Royalty  RoyaltyInfo
}

// AssetService is the custody side of the market
type AssetService interface {
	// TokenType returns ErrUnsupportedAsset for contracts it does not know
	TokenType(c ctx.Ctx, asset domain.Address) (domain.TokenType, error)
	// OwnerOf returns domain.ErrNotFound for a unique token nobody holds
	OwnerOf(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId) (domain.Address, error)
	// BalanceOf is 0 or 1 for unique assets
	BalanceOf(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId, owner domain.Address) (uint64, error)
	IsApprovedForAll(c ctx.Ctx, asset domain.Address, owner, operator domain.Address) (bool, error)
	TransferUnique(c ctx.Ctx, asset domain.Address, from, to domain.Address, tokenId domain.TokenId) error
	TransferFungible(c ctx.Ctx, asset domain.Address, from, to domain.Address, tokenId domain.TokenId, amount uint64) error
	Mint(c ctx.Ctx, req MintRequest) (domain.TokenId, error)
	RoyaltyInfo(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId) (*RoyaltyInfo, error)
}

// ConfigService exposes platform settings
type ConfigService interface {
	IsWhitelistedArtist(c ctx.Ctx, artist domain.Address) (bool, error)
	PrimaryFeePercent() uint64
	SecondaryFeePercent() uint64
	CollectorFeePercent() uint64
	AuctionDuration() time.Duration
	AuctionExtensionWindow() time.Duration
	PlatformTreasury() domain.Address
	PlatformSigner() domain.Address
	// MarketOperator is the address sellers approve so a venue can move their assets
	MarketOperator(venue Venue) domain.Address
}

// SignatureService verifies collector mint authorizations
type SignatureService interface {
	RecoverSigner(hash []byte, signature string) (domain.Address, error)
	HashStruct(req *CollectorMintRequest) ([]byte, error)
}

// FundsService is the payment rail. Debit collects an attached payment, Credit
// pays out and fails with ErrPaymentRejected when the recipient refuses funds.
type FundsService interface {
	Debit(c ctx.Ctx, from domain.Address, amount *big.Int) error
	Credit(c ctx.Ctx, to domain.Address, amount *big.Int) error
	Escrow(c ctx.Ctx, to domain.Address, amount *big.Int) error
	Withdraw(c ctx.Ctx, to domain.Address) (*big.Int, error)
	Deposit(c ctx.Ctx, to domain.Address, amount *big.Int) error
	Account(c ctx.Ctx, address domain.Address) (*Account, error)
	SetRejectsPayments(c ctx.Ctx, address domain.Address, rejects bool) error
}

// Transactor runs fn atomically
type Transactor interface {
	RunWithTransaction(c ctx.Ctx, fn func(ctx.Ctx) error) error
}

// EventPublisher fans committed events out to downstream sinks
type EventPublisher interface {
	Publish(c ctx.Ctx, events ...Event)
}
