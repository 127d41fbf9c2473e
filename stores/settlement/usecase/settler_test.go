package usecase_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/domain/market/mocks"
	mt "github.com/x-xyz/gomarket/stores/markettest"
	"github.com/x-xyz/gomarket/stores/settlement/usecase"
)

var now = time.Unix(1_700_000_000, 0)

type settlerSuite struct {
	suite.Suite
	w *mt.World
}

func TestSettlerSuite(t *testing.T) {
	suite.Run(t, new(settlerSuite))
}

func (s *settlerSuite) SetupTest() {
	s.w = mt.NewWorld(s.T(), mt.DefaultSettings())
}

func (s *settlerSuite) list(registry market.ListingRegistry, req market.ListRequest) *market.Listing {
	listing, err := registry.List(s.w.Ctx, req, now)
	s.Require().NoError(err)
	return listing
}

func (s *settlerSuite) TestPrimaryFill() {
	id := s.w.Mint(mt.Fungible, mt.Artist, 10, market.RoyaltyInfo{Percent: 10})
	listing := s.list(s.w.Fixed, market.ListRequest{Asset: mt.Fungible, TokenId: id, Seller: mt.Artist, Quantity: 5, UnitPrice: big.NewInt(20)})
	s.w.Deposit(mt.Alice, 100)

	sale, err := s.w.Settler.Settle(s.w.Ctx, market.SettleRequest{Listing: listing, Buyer: mt.Alice, Amount: 3, Gross: big.NewInt(60)}, now)
	s.Require().NoError(err)

	s.Equal(market.SaleKindPrimary, sale.Kind)
	s.NotEmpty(sale.SaleId)
	s.True(sale.IsFungible)
	s.Equal(big.NewInt(20), sale.UnitPrice)
	s.Equal(big.NewInt(9), sale.Split.PlatformAmount)
	s.Equal(big.NewInt(51), sale.Split.SellerNetAmount)
	s.Equal(big.NewInt(60), sale.Split.Total())

	s.Equal(int64(40), s.w.BalanceOf(mt.Alice))
	s.Equal(int64(51), s.w.BalanceOf(mt.Artist))
	s.Equal(int64(9), s.w.BalanceOf(mt.Treasury))
	s.Equal(uint64(3), s.w.Holding(mt.Fungible, id, mt.Alice))
	s.Equal(uint64(7), s.w.Holding(mt.Fungible, id, mt.Artist))
	s.Equal(uint64(7), s.w.Remaining(mt.Fungible, id))

	rest, err := s.w.Fixed.Get(s.w.Ctx, listing.ToId())
	s.Require().NoError(err)
	s.Equal(uint64(2), rest.Quantity)

	sales, err := s.w.Sale.FindAll(s.w.Ctx, market.SaleWithAccount(mt.Alice))
	s.NoError(err)
	s.Len(sales, 1)
}

func (s *settlerSuite) TestSecondaryFillPaysRoyalty() {
	id := s.w.Mint(mt.Unique, mt.Artist, 1, market.RoyaltyInfo{Percent: 10})
	listing := s.list(s.w.Fixed, market.ListRequest{Asset: mt.Unique, TokenId: id, Seller: mt.Artist, Quantity: 1, UnitPrice: big.NewInt(100)})
	s.w.Deposit(mt.Alice, 100)
	_, err := s.w.Settler.Settle(s.w.Ctx, market.SettleRequest{Listing: listing, Buyer: mt.Alice, Amount: 1, Gross: big.NewInt(100)}, now)
	s.Require().NoError(err)
	s.Equal(int64(85), s.w.BalanceOf(mt.Artist))

	s.w.Approve(mt.Unique, mt.Alice)
	listing = s.list(s.w.Fixed, market.ListRequest{Asset: mt.Unique, TokenId: id, Seller: mt.Alice, Quantity: 1, UnitPrice: big.NewInt(200)})
	s.True(listing.IsSecondarySale)
	s.w.Deposit(mt.Bob, 200)

	sale, err := s.w.Settler.Settle(s.w.Ctx, market.SettleRequest{Listing: listing, Buyer: mt.Bob, Amount: 1, Gross: big.NewInt(200)}, now)
	s.Require().NoError(err)
	s.Equal(market.SaleKindSecondary, sale.Kind)
	s.Equal(big.NewInt(20), sale.Split.RoyaltyAmount)

	s.Equal(int64(15+10), s.w.BalanceOf(mt.Treasury))
	s.Equal(int64(85+20), s.w.BalanceOf(mt.Artist))
	s.Equal(int64(170), s.w.BalanceOf(mt.Alice))
	s.Equal(uint64(1), s.w.Holding(mt.Unique, id, mt.Bob))

	_, err = s.w.Fixed.Get(s.w.Ctx, listing.ToId())
	s.ErrorIs(err, market.ErrItemIsNotListedBySeller)
}

func (s *settlerSuite) TestPrepaidUnitPrice() {
	id := s.w.Mint(mt.Fungible, mt.Artist, 4, market.RoyaltyInfo{})
	listing := s.list(s.w.Auction, market.ListRequest{Asset: mt.Fungible, TokenId: id, Seller: mt.Artist, Quantity: 4, UnitPrice: big.NewInt(1)})

	// a prepaid gross is already held, nothing is debited from the buyer
	sale, err := s.w.Settler.Settle(s.w.Ctx, market.SettleRequest{Listing: listing, Buyer: mt.Bob, Amount: 4, Gross: big.NewInt(100), Prepaid: true}, now)
	s.Require().NoError(err)
	s.Equal(big.NewInt(25), sale.UnitPrice)
	s.Equal(market.VenueAuction, sale.Venue)
	s.Equal(int64(0), s.w.BalanceOf(mt.Bob))
	s.Equal(int64(85), s.w.BalanceOf(mt.Artist))
}

func (s *settlerSuite) TestRejectsBadRequests() {
	id := s.w.Mint(mt.Fungible, mt.Artist, 10, market.RoyaltyInfo{})
	listing := s.list(s.w.Fixed, market.ListRequest{Asset: mt.Fungible, TokenId: id, Seller: mt.Artist, Quantity: 5, UnitPrice: big.NewInt(20)})

	for _, tc := range []struct {
		name string
		req  market.SettleRequest
		err  error
	}{
		{"nil listing", market.SettleRequest{Buyer: mt.Alice, Amount: 1}, market.ErrItemIsNotListedBySeller},
		{"zero amount", market.SettleRequest{Listing: listing, Buyer: mt.Alice}, market.ErrInvalidQuantity},
		{"over listed", market.SettleRequest{Listing: listing, Buyer: mt.Alice, Amount: 6}, market.ErrLessItemsListedThanTheRequiredAmount},
		{"zero buyer", market.SettleRequest{Listing: listing, Amount: 1}, market.ErrInvalidAddress},
		{"own item", market.SettleRequest{Listing: listing, Buyer: mt.Artist, Amount: 1}, market.ErrCannotBuyOwnItem},
		{"insufficient funds", market.SettleRequest{Listing: listing, Buyer: mt.Alice, Amount: 1, Gross: big.NewInt(20)}, market.ErrInsufficientFunds},
		{"wrong kind", market.SettleRequest{Listing: listing, Buyer: mt.Alice, Amount: 1, ExpectedKind: market.SaleKindSecondary}, market.ErrInvalidAmountForThisPurchase},
	} {
		s.Run(tc.name, func() {
			_, err := s.w.Settler.Settle(s.w.Ctx, tc.req, now)
			s.ErrorIs(err, tc.err)
		})
	}
	s.Equal(uint64(10), s.w.Remaining(mt.Fungible, id))
}

func (s *settlerSuite) TestRejectedPayoutRollsBack() {
	id := s.w.Mint(mt.Fungible, mt.Artist, 10, market.RoyaltyInfo{})
	listing := s.list(s.w.Fixed, market.ListRequest{Asset: mt.Fungible, TokenId: id, Seller: mt.Artist, Quantity: 5, UnitPrice: big.NewInt(20)})
	s.w.Deposit(mt.Alice, 100)
	s.Require().NoError(s.w.Funds.SetRejectsPayments(s.w.Ctx, mt.Artist, true))

	_, err := s.w.Settler.Settle(s.w.Ctx, market.SettleRequest{Listing: listing, Buyer: mt.Alice, Amount: 3, Gross: big.NewInt(60)}, now)
	s.ErrorIs(err, market.ErrPaymentRejected)

	s.Equal(int64(100), s.w.BalanceOf(mt.Alice))
	s.Equal(int64(0), s.w.BalanceOf(mt.Treasury))
	s.Equal(uint64(10), s.w.Remaining(mt.Fungible, id))
	s.Equal(uint64(0), s.w.Holding(mt.Fungible, id, mt.Alice))
}

func (s *settlerSuite) TestFailedTransferRollsBack() {
	id := s.w.Mint(mt.Fungible, mt.Artist, 10, market.RoyaltyInfo{})
	listing := s.list(s.w.Fixed, market.ListRequest{Asset: mt.Fungible, TokenId: id, Seller: mt.Artist, Quantity: 5, UnitPrice: big.NewInt(20)})
	s.w.Deposit(mt.Alice, 100)

	// the seller moves most of the units away, the listing goes stale
	s.Require().NoError(s.w.Asset.TransferFungible(s.w.Ctx, mt.Fungible, mt.Artist, mt.Carol, id, 8))

	_, err := s.w.Settler.Settle(s.w.Ctx, market.SettleRequest{Listing: listing, Buyer: mt.Alice, Amount: 3, Gross: big.NewInt(60)}, now)
	s.ErrorIs(err, market.ErrNotOwner)

	s.Equal(int64(100), s.w.BalanceOf(mt.Alice))
	s.Equal(int64(0), s.w.BalanceOf(mt.Artist))
	s.Equal(int64(0), s.w.BalanceOf(mt.Treasury))
	s.Equal(uint64(10), s.w.Remaining(mt.Fungible, id))

	rest, err := s.w.Fixed.Get(s.w.Ctx, listing.ToId())
	s.Require().NoError(err)
	s.Equal(uint64(5), rest.Quantity)

	sales, err := s.w.Sale.FindAll(s.w.Ctx)
	s.NoError(err)
	s.Empty(sales)
}

func (s *settlerSuite) TestFundsFailureRollsBack() {
	boom := errors.New("boom")
	funds := mocks.NewFundsService(s.T())
	settler := usecase.New(&usecase.Cfg{
		Registries: []market.ListingRegistry{s.w.Fixed},
		Ledger:     s.w.Ledger,
		Asset:      s.w.Asset,
		Config:     s.w.Platform,
		Funds:      funds,
		Sale:       s.w.Sale,
		Transactor: s.w.Tx,
	})

	id := s.w.Mint(mt.Fungible, mt.Artist, 10, market.RoyaltyInfo{})
	listing := s.list(s.w.Fixed, market.ListRequest{Asset: mt.Fungible, TokenId: id, Seller: mt.Artist, Quantity: 5, UnitPrice: big.NewInt(20)})

	funds.On("Debit", mock.Anything, mt.Alice, big.NewInt(60)).Return(nil).Once()
	funds.On("Credit", mock.Anything, mt.Treasury, big.NewInt(9)).Return(boom).Once()

	_, err := settler.Settle(s.w.Ctx, market.SettleRequest{Listing: listing, Buyer: mt.Alice, Amount: 3, Gross: big.NewInt(60)}, now)
	s.Equal(boom, err)
	s.Equal(uint64(10), s.w.Remaining(mt.Fungible, id))

	rest, err := s.w.Fixed.Get(s.w.Ctx, listing.ToId())
	s.Require().NoError(err)
	s.Equal(uint64(5), rest.Quantity)
}
