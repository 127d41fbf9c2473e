package market

import (
	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/domain"
)

// AssetContract is a token contract the market custodies
type AssetContract struct {
	Address   domain.Address   `json:"address" bson:"address"`
	Name      string           `json:"name" bson:"name"`
	TokenType domain.TokenType `json:"tokenType" bson:"tokenType"`
	// Minted counts token ids handed out by Mint, ids start at 1
	Minted uint64 `json:"minted" bson:"minted"`
}

// Holding is the balance of one owner for one token id
type Holding struct {
	Asset   domain.Address `json:"asset" bson:"asset"`
	TokenId domain.TokenId `json:"tokenId" bson:"tokenId"`
	Owner   domain.Address `json:"owner" bson:"owner"`
	Balance uint64         `json:"balance" bson:"balance"`
}

// AssetRepo is the custody ledger behind AssetService
type AssetRepo interface {
	// FindContract returns domain.ErrNotFound for unknown contracts
	FindContract(c ctx.Ctx, asset domain.Address) (*AssetContract, error)
	// InsertContract returns domain.ErrConflict when the contract exists
	InsertContract(c ctx.Ctx, contract *AssetContract) error
	// NextTokenId bumps the minted counter and returns the new id
	NextTokenId(c ctx.Ctx, asset domain.Address) (domain.TokenId, error)

	FindHoldings(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId) ([]Holding, error)
	Balance(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId, owner domain.Address) (uint64, error)
	// AddBalance applies delta, it fails with ErrNotOwner when the balance would go negative
	AddBalance(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId, owner domain.Address, delta int64) error

	IsApprovedForAll(c ctx.Ctx, asset domain.Address, owner, operator domain.Address) (bool, error)
	SetApprovalForAll(c ctx.Ctx, asset domain.Address, owner, operator domain.Address, approved bool) error

	SaveRoyalty(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId, royalty *RoyaltyInfo) error
	// FindRoyalty returns domain.ErrNotFound for tokens minted elsewhere
	FindRoyalty(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId) (*RoyaltyInfo, error)
}

// AssetUseCase is the custody service plus its management operations
type AssetUseCase interface {
	AssetService
	RegisterContract(c ctx.Ctx, contract *AssetContract) error
	SetApprovalForAll(c ctx.Ctx, asset domain.Address, owner, operator domain.Address, approved bool) error
	Holdings(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId) ([]Holding, error)
	// MintPrimary mints and opens the primary sale of the new token in one step
	MintPrimary(c ctx.Ctx, req MintRequest) (*PrimarySaleRecord, error)
}
