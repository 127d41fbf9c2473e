package usecase_test

import (
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/stores/fixedprice/usecase"
	mt "github.com/x-xyz/gomarket/stores/markettest"
)

var now = time.Unix(1_700_000_000, 0)

type fixedPriceSuite struct {
	suite.Suite
	w  *mt.World
	im market.FixedPriceMarket
}

func TestFixedPriceSuite(t *testing.T) {
	suite.Run(t, new(fixedPriceSuite))
}

func (s *fixedPriceSuite) SetupTest() {
	s.setup(mt.DefaultSettings())
}

func (s *fixedPriceSuite) setup(settings market.Settings) {
	s.w = mt.NewWorld(s.T(), settings)
	s.im = usecase.New(&usecase.Cfg{
		Registry:   s.w.Fixed,
		Settler:    s.w.Settler,
		Ledger:     s.w.Ledger,
		Config:     s.w.Platform,
		Transactor: s.w.Tx,
		Locks:      s.w.Locks,
		Publisher:  s.w.Events,
	})
}

func (s *fixedPriceSuite) list(asset domain.Address, tokenId domain.TokenId, seller domain.Address, quantity uint64, price int64) *market.Listing {
	listing, err := s.im.List(s.w.Ctx, market.ListRequest{Asset: asset, TokenId: tokenId, Seller: seller, Quantity: quantity, UnitPrice: big.NewInt(price)}, now)
	s.Require().NoError(err)
	return listing
}

func (s *fixedPriceSuite) purchase(tokenId domain.TokenId, buyer domain.Address, amount uint64, payment int64) (*market.SaleRecord, error) {
	return s.im.PurchaseNft(s.w.Ctx, market.PurchaseRequest{
		Asset:   mt.Fungible,
		TokenId: tokenId,
		Seller:  mt.Artist,
		Buyer:   buyer,
		Amount:  amount,
		Payment: big.NewInt(payment),
	}, now)
}

func (s *fixedPriceSuite) TestListRequiresPrice() {
	id := s.w.Mint(mt.Fungible, mt.Artist, 10, market.RoyaltyInfo{})
	for _, price := range []*big.Int{nil, big.NewInt(0), big.NewInt(-1)} {
		_, err := s.im.List(s.w.Ctx, market.ListRequest{Asset: mt.Fungible, TokenId: id, Seller: mt.Artist, Quantity: 1, UnitPrice: price}, now)
		s.ErrorIs(err, market.ErrListPriceMustBeGreaterThanZero)
	}
	s.Empty(s.w.Events.Types())
}

func (s *fixedPriceSuite) TestPurchasePrimary() {
	id := s.w.Mint(mt.Fungible, mt.Artist, 10, market.RoyaltyInfo{})
	s.list(mt.Fungible, id, mt.Artist, 5, 20)
	s.w.Deposit(mt.Alice, 100)

	required, kind, err := s.im.RequiredPayment(s.w.Ctx, market.NewListingId(market.VenueFixedPrice, mt.Fungible, id, mt.Artist), 3)
	s.Require().NoError(err)
	s.Equal(big.NewInt(60), required)
	s.Equal(market.SaleKindPrimary, kind)

	sale, err := s.purchase(id, mt.Alice, 3, 60)
	s.Require().NoError(err)
	s.Equal(market.SaleKindPrimary, sale.Kind)
	s.Equal(uint64(3), sale.Quantity)

	s.Equal(int64(51), s.w.BalanceOf(mt.Artist))
	s.Equal(int64(9), s.w.BalanceOf(mt.Treasury))
	s.Equal(int64(40), s.w.BalanceOf(mt.Alice))
	s.Equal(uint64(7), s.w.Remaining(mt.Fungible, id))
	s.Equal(uint64(3), s.w.Holding(mt.Fungible, id, mt.Alice))

	listing, err := s.im.Get(s.w.Ctx, market.NewListingId(market.VenueFixedPrice, mt.Fungible, id, mt.Artist))
	s.Require().NoError(err)
	s.Equal(uint64(2), listing.Quantity)

	s.Equal([]market.EventType{market.EventListed, market.EventSold}, s.w.Events.Types())
}

func (s *fixedPriceSuite) TestPurchaseRejections() {
	id := s.w.Mint(mt.Fungible, mt.Artist, 10, market.RoyaltyInfo{})
	s.list(mt.Fungible, id, mt.Artist, 5, 20)
	s.w.Deposit(mt.Alice, 1000)

	_, err := s.purchase(id, mt.Alice, 3, 59)
	s.ErrorIs(err, market.ErrInvalidAmountForThisPurchase)

	_, err = s.purchase(id, mt.Alice, 3, 61)
	s.ErrorIs(err, market.ErrInvalidAmountForThisPurchase)

	_, err = s.purchase(id, mt.Alice, 6, 120)
	s.ErrorIs(err, market.ErrLessItemsListedThanTheRequiredAmount)

	_, err = s.purchase(id, mt.Alice, 0, 0)
	s.ErrorIs(err, market.ErrInvalidQuantity)

	_, err = s.purchase(id, mt.Artist, 1, 20)
	s.ErrorIs(err, market.ErrCannotBuyOwnItem)

	_, err = s.im.PurchaseNft(s.w.Ctx, market.PurchaseRequest{Asset: mt.Fungible, TokenId: id, Seller: mt.Bob, Buyer: mt.Alice, Amount: 1, Payment: big.NewInt(20)}, now)
	s.ErrorIs(err, market.ErrItemIsNotListedBySeller)

	s.Equal(int64(1000), s.w.BalanceOf(mt.Alice))
	s.Equal(uint64(10), s.w.Remaining(mt.Fungible, id))
}

func (s *fixedPriceSuite) TestCollectorSurcharge() {
	settings := mt.DefaultSettings()
	settings.CollectorFeePercent = 10
	s.setup(settings)

	id := s.w.Mint(mt.Unique, mt.Artist, 1, market.RoyaltyInfo{Percent: 10})
	s.list(mt.Unique, id, mt.Artist, 1, 100)
	s.w.Deposit(mt.Alice, 1000)

	// primary: 100 plus a 10% surcharge, the platform keeps 15% + 10% of 110
	sale, err := s.im.PurchaseNft(s.w.Ctx, market.PurchaseRequest{Asset: mt.Unique, TokenId: id, Seller: mt.Artist, Buyer: mt.Alice, Amount: 1, Payment: big.NewInt(100)}, now)
	s.ErrorIs(err, market.ErrInvalidAmountForThisPurchase)
	s.Nil(sale)

	sale, err = s.im.PurchaseNft(s.w.Ctx, market.PurchaseRequest{Asset: mt.Unique, TokenId: id, Seller: mt.Artist, Buyer: mt.Alice, Amount: 1, Payment: big.NewInt(110)}, now)
	s.Require().NoError(err)
	s.Equal(big.NewInt(27), sale.Split.PlatformAmount)
	s.Equal(big.NewInt(11), sale.Split.CollectorFeeAmount)
	s.Equal(int64(83), s.w.BalanceOf(mt.Artist))

	// secondary: no surcharge
	s.w.Approve(mt.Unique, mt.Alice)
	_, err = s.im.List(s.w.Ctx, market.ListRequest{Asset: mt.Unique, TokenId: id, Seller: mt.Alice, Quantity: 1, UnitPrice: big.NewInt(100)}, now)
	s.Require().NoError(err)
	s.w.Deposit(mt.Bob, 100)

	sale, err = s.im.PurchaseNft(s.w.Ctx, market.PurchaseRequest{Asset: mt.Unique, TokenId: id, Seller: mt.Alice, Buyer: mt.Bob, Amount: 1, Payment: big.NewInt(100)}, now)
	s.Require().NoError(err)
	s.Equal(market.SaleKindSecondary, sale.Kind)
	s.Equal(int64(83+10), s.w.BalanceOf(mt.Artist))
	s.Equal(int64(890+85), s.w.BalanceOf(mt.Alice))
}

func (s *fixedPriceSuite) TestUpdateListedNft() {
	id := s.w.Mint(mt.Fungible, mt.Artist, 10, market.RoyaltyInfo{})
	s.list(mt.Fungible, id, mt.Artist, 5, 20)

	quantity := uint64(8)
	listing, err := s.im.UpdateListedNft(s.w.Ctx, market.UpdateListingRequest{Asset: mt.Fungible, TokenId: id, Seller: mt.Artist, UnitPrice: big.NewInt(30), Quantity: &quantity}, now)
	s.Require().NoError(err)
	s.Equal(uint64(8), listing.Quantity)
	s.Equal(big.NewInt(30), listing.UnitPrice)

	quantity = 11
	_, err = s.im.UpdateListedNft(s.w.Ctx, market.UpdateListingRequest{Asset: mt.Fungible, TokenId: id, Seller: mt.Artist, UnitPrice: big.NewInt(40), Quantity: &quantity}, now)
	s.ErrorIs(err, market.ErrNotOwner)

	_, err = s.im.UpdateListedNft(s.w.Ctx, market.UpdateListingRequest{Asset: mt.Fungible, TokenId: id, Seller: mt.Artist, UnitPrice: big.NewInt(0)}, now)
	s.ErrorIs(err, market.ErrListPriceMustBeGreaterThanZero)

	listing, err = s.im.Get(s.w.Ctx, listing.ToId())
	s.Require().NoError(err)
	s.Equal(big.NewInt(30), listing.UnitPrice)
	s.Equal(uint64(8), listing.Quantity)
}

func (s *fixedPriceSuite) TestDelistNft() {
	id := s.w.Mint(mt.Fungible, mt.Artist, 10, market.RoyaltyInfo{})
	s.list(mt.Fungible, id, mt.Artist, 5, 20)

	rest, err := s.im.DelistNft(s.w.Ctx, market.DelistRequest{Asset: mt.Fungible, TokenId: id, Seller: mt.Artist, Quantity: 2}, now)
	s.Require().NoError(err)
	s.Equal(uint64(3), rest.Quantity)

	rest, err = s.im.DelistNft(s.w.Ctx, market.DelistRequest{Asset: mt.Fungible, TokenId: id, Seller: mt.Artist}, now)
	s.Require().NoError(err)
	s.Nil(rest)

	_, err = s.im.DelistNft(s.w.Ctx, market.DelistRequest{Asset: mt.Fungible, TokenId: id, Seller: mt.Artist}, now)
	s.ErrorIs(err, market.ErrItemIsNotListedBySeller)

	s.Equal([]market.EventType{market.EventListed, market.EventDelisted, market.EventDelisted}, s.w.Events.Types())
}

func (s *fixedPriceSuite) TestConcurrentPurchases() {
	id := s.w.Mint(mt.Fungible, mt.Artist, 10, market.RoyaltyInfo{})
	s.list(mt.Fungible, id, mt.Artist, 5, 20)

	buyers := make([]domain.Address, 12)
	for i := range buyers {
		buyers[i] = domain.Address(fmt.Sprintf("0x%040x", 0x100+i))
		s.w.Deposit(buyers[i], 20)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	sold := 0
	for _, buyer := range buyers {
		wg.Add(1)
		go func(buyer domain.Address) {
			defer wg.Done()
			if _, err := s.purchase(id, buyer, 1, 20); err == nil {
				mu.Lock()
				sold++
				mu.Unlock()
			}
		}(buyer)
	}
	wg.Wait()

	s.Equal(5, sold)
	s.Equal(uint64(5), s.w.Remaining(mt.Fungible, id))
	s.Equal(uint64(5), s.w.Holding(mt.Fungible, id, mt.Artist))
	s.Equal(int64(85), s.w.BalanceOf(mt.Artist))
}

func (s *fixedPriceSuite) TestCollectorMintDisabled() {
	_, err := s.im.CollectorMintPurchase(s.w.Ctx, market.CollectorMintPurchaseRequest{}, now)
	s.ErrorIs(err, market.ErrInvalidMintRequest)
}
