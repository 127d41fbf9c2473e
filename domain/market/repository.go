package market

import (
	"math/big"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/domain"
)

// ListingRepo stores active listings of every venue. FindOne returns domain.ErrNotFound
// for a missing listing and Insert returns domain.ErrConflict for a duplicate id.
type ListingRepo interface {
	FindAll(c ctx.Ctx, opts ...ListingFindAllOptionsFunc) ([]Listing, error)
	FindOne(c ctx.Ctx, id ListingId) (*Listing, error)
	Insert(c ctx.Ctx, listing *Listing) error
	Update(c ctx.Ctx, listing *Listing) error
	Remove(c ctx.Ctx, id ListingId) error
}

// PrimarySaleRepo persists primary sale cursors. Consume must be atomic per key.
type PrimarySaleRepo interface {
	// Create returns ErrPrimarySaleAlreadyRecorded when the key exists
	Create(c ctx.Ctx, record *PrimarySaleRecord) error
	FindOne(c ctx.Ctx, key TokenKey) (*PrimarySaleRecord, error)
	// Consume takes min(amount, remaining) units while the record is not sold out
	// and reports how many units it took. Unknown keys consume nothing.
	Consume(c ctx.Ctx, key TokenKey, amount uint64) (consumed uint64, err error)
}

type SaleRepo interface {
	Insert(c ctx.Ctx, sale *SaleRecord) error
	FindAll(c ctx.Ctx, opts ...SaleFindAllOptionsFunc) ([]SaleRecord, error)
}

// CollectorMintRepo remembers consumed (artistSigner, collectorMintId) pairs
type CollectorMintRepo interface {
	// MarkUsed returns ErrCollectorMintIdUsed when the pair was used before
	MarkUsed(c ctx.Ctx, artist domain.Address, collectorMintId string) error
	IsUsed(c ctx.Ctx, artist domain.Address, collectorMintId string) (bool, error)
}

// AccountRepo keeps spendable balances and escrowed refunds
type AccountRepo interface {
	FindOne(c ctx.Ctx, address domain.Address) (*Account, error)
	// AddBalance applies delta; a negative delta fails with ErrInsufficientFunds when it would overdraw
	AddBalance(c ctx.Ctx, address domain.Address, delta *big.Int) error
	AddPending(c ctx.Ctx, address domain.Address, delta *big.Int) error
	// TakePending zeroes the pending amount and returns what it was
	TakePending(c ctx.Ctx, address domain.Address) (*big.Int, error)
	SetRejectsPayments(c ctx.Ctx, address domain.Address, rejects bool) error
}

// ArtistWhitelistRepo is the backing store of the artist whitelist
type ArtistWhitelistRepo interface {
	Has(c ctx.Ctx, artist domain.Address) (bool, error)
	Add(c ctx.Ctx, artist domain.Address) error
	Remove(c ctx.Ctx, artist domain.Address) error
}
