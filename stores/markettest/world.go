// Package markettest wires every market store on in-memory backends for tests
package markettest

import (
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/keylock"
	"github.com/x-xyz/gomarket/base/txn"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	assetRepo "github.com/x-xyz/gomarket/stores/asset/repository"
	assetUsecase "github.com/x-xyz/gomarket/stores/asset/usecase"
	fundsRepo "github.com/x-xyz/gomarket/stores/funds/repository"
	fundsUsecase "github.com/x-xyz/gomarket/stores/funds/usecase"
	listingRepo "github.com/x-xyz/gomarket/stores/listing/repository"
	listingUsecase "github.com/x-xyz/gomarket/stores/listing/usecase"
	platformRepo "github.com/x-xyz/gomarket/stores/platform/repository"
	platformUsecase "github.com/x-xyz/gomarket/stores/platform/usecase"
	ledgerRepo "github.com/x-xyz/gomarket/stores/primarysale/repository"
	ledgerUsecase "github.com/x-xyz/gomarket/stores/primarysale/usecase"
	saleRepo "github.com/x-xyz/gomarket/stores/sale/repository"
	saleUsecase "github.com/x-xyz/gomarket/stores/sale/usecase"
	settlementUsecase "github.com/x-xyz/gomarket/stores/settlement/usecase"
)

var (
	Unique   = domain.Address("0x0000000000000000000000000000000000000721")
	Fungible = domain.Address("0x0000000000000000000000000000000000001155")

	Treasury        = domain.Address("0x00000000000000000000000000000000000000f1")
	PlatformSigner  = domain.Address("0x00000000000000000000000000000000000000f2")
	FixedOperator   = domain.Address("0x00000000000000000000000000000000000000f3")
	AuctionOperator = domain.Address("0x00000000000000000000000000000000000000f4")

	Artist = domain.Address("0x00000000000000000000000000000000000000a1")
	Alice  = domain.Address("0x00000000000000000000000000000000000000a2")
	Bob    = domain.Address("0x00000000000000000000000000000000000000b1")
	Carol  = domain.Address("0x00000000000000000000000000000000000000c1")
)

// DefaultSettings has a 15% primary fee, 5% secondary fee, no collector fee,
// a one day auction and a fifteen minute extension window
func DefaultSettings() market.Settings {
	return market.Settings{
		PrimaryFeePercent:      15,
		SecondaryFeePercent:    5,
		CollectorFeePercent:    0,
		AuctionDuration:        24 * time.Hour,
		AuctionExtensionWindow: 15 * time.Minute,
		Treasury:               Treasury,
		PlatformSigner:         PlatformSigner,
		FixedPriceOperator:     FixedOperator,
		AuctionOperator:        AuctionOperator,
	}
}

// Recorder is a synchronous EventPublisher
type Recorder struct {
	mu     sync.Mutex
	events []market.Event
}

func (r *Recorder) Publish(c ctx.Ctx, events ...market.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

// Types returns the recorded event types in order
func (r *Recorder) Types() []market.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]market.EventType, 0, len(r.events))
	for _, e := range r.events {
		res = append(res, e.Type)
	}
	return res
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type World struct {
	t *testing.T

	Ctx         ctx.Ctx
	Tx          *txn.Transactor
	Locks       *keylock.Locker
	Ledger      market.PrimarySaleLedger
	Asset       market.AssetUseCase
	Funds       fundsUsecase.Funds
	Sale        market.SaleUseCase
	Platform    market.PlatformUseCase
	Listings    market.ListingRepo
	Fixed       market.ListingRegistry
	Auction     market.ListingRegistry
	Settler     market.Settler
	Events      *Recorder
	WhitelistDB market.ArtistWhitelistRepo
}

func NewWorld(t *testing.T, settings market.Settings) *World {
	w := &World{
		t:           t,
		Ctx:         ctx.Background(),
		Tx:          txn.New(nil),
		Locks:       keylock.New(),
		Events:      &Recorder{},
		Listings:    listingRepo.NewMemoryRepo(),
		WhitelistDB: platformRepo.NewMemoryRepo(),
	}
	w.Ledger = ledgerUsecase.NewLedger(&ledgerUsecase.LedgerCfg{Repo: ledgerRepo.NewMemoryRepo()})
	w.Asset = assetUsecase.New(&assetUsecase.Cfg{Repo: assetRepo.NewMemoryRepo(), Ledger: w.Ledger, Transactor: w.Tx})
	w.Funds = fundsUsecase.New(&fundsUsecase.Cfg{Repo: fundsRepo.NewMemoryRepo(), Transactor: w.Tx})
	w.Sale = saleUsecase.New(&saleUsecase.Cfg{Repo: saleRepo.NewMemoryRepo()})
	w.Platform = platformUsecase.New(&platformUsecase.Cfg{Settings: settings, Repo: w.WhitelistDB})

	newRegistry := func(venue market.Venue) market.ListingRegistry {
		return listingUsecase.NewRegistry(&listingUsecase.RegistryCfg{
			Venue:  venue,
			Repo:   w.Listings,
			Asset:  w.Asset,
			Config: w.Platform,
			Ledger: w.Ledger,
		})
	}
	w.Fixed = newRegistry(market.VenueFixedPrice)
	w.Auction = newRegistry(market.VenueAuction)

	w.Settler = settlementUsecase.New(&settlementUsecase.Cfg{
		Registries: []market.ListingRegistry{w.Fixed, w.Auction},
		Ledger:     w.Ledger,
		Asset:      w.Asset,
		Config:     w.Platform,
		Funds:      w.Funds,
		Sale:       w.Sale,
		Transactor: w.Tx,
	})

	require.NoError(t, w.Asset.RegisterContract(w.Ctx, &market.AssetContract{Address: Unique, TokenType: domain.TokenType721}))
	require.NoError(t, w.Asset.RegisterContract(w.Ctx, &market.AssetContract{Address: Fungible, TokenType: domain.TokenType1155}))
	return w
}

// Mint mints a token on its primary sale and approves both venues for the owner
func (w *World) Mint(asset domain.Address, to domain.Address, amount uint64, royalty market.RoyaltyInfo) domain.TokenId {
	record, err := w.Asset.MintPrimary(w.Ctx, market.MintRequest{Asset: asset, To: to, Amount: amount, Royalty: royalty})
	require.NoError(w.t, err)
	w.Approve(asset, to)
	return record.TokenId
}

func (w *World) Approve(asset domain.Address, owner domain.Address) {
	require.NoError(w.t, w.Asset.SetApprovalForAll(w.Ctx, asset, owner, FixedOperator, true))
	require.NoError(w.t, w.Asset.SetApprovalForAll(w.Ctx, asset, owner, AuctionOperator, true))
}

func (w *World) Deposit(to domain.Address, amount int64) {
	require.NoError(w.t, w.Funds.Deposit(w.Ctx, to, big.NewInt(amount)))
}

func (w *World) BalanceOf(address domain.Address) int64 {
	account, err := w.Funds.Account(w.Ctx, address)
	require.NoError(w.t, err)
	return account.Balance.Int64()
}

func (w *World) PendingOf(address domain.Address) int64 {
	account, err := w.Funds.Account(w.Ctx, address)
	require.NoError(w.t, err)
	return account.Pending.Int64()
}

func (w *World) Holding(asset domain.Address, tokenId domain.TokenId, owner domain.Address) uint64 {
	balance, err := w.Asset.BalanceOf(w.Ctx, asset, tokenId, owner)
	require.NoError(w.t, err)
	return balance
}

func (w *World) Remaining(asset domain.Address, tokenId domain.TokenId) uint64 {
	record, err := w.Ledger.Peek(w.Ctx, asset, tokenId)
	require.NoError(w.t, err)
	return record.RemainingUnits
}
