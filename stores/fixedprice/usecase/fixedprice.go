package usecase

import (
	"math/big"
	"time"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/keylock"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/base/metrics"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
)

type Cfg struct {
	Registry   market.ListingRegistry
	Settler    market.Settler
	Ledger     market.PrimarySaleLedger
	Config     market.ConfigService
	Transactor market.Transactor
	// Gate serves CollectorMintPurchase, nil disables it
	Gate      market.CollectorMintGate
	Locks     *keylock.Locker
	Publisher market.EventPublisher
}

type impl struct {
	registry  market.ListingRegistry
	settler   market.Settler
	ledger    market.PrimarySaleLedger
	config    market.ConfigService
	tx        market.Transactor
	gate      market.CollectorMintGate
	locks     *keylock.Locker
	publisher market.EventPublisher
	met       metrics.Service
}

func New(cfg *Cfg) market.FixedPriceMarket {
	return &impl{
		registry:  cfg.Registry,
		settler:   cfg.Settler,
		ledger:    cfg.Ledger,
		config:    cfg.Config,
		tx:        cfg.Transactor,
		gate:      cfg.Gate,
		locks:     cfg.Locks,
		publisher: cfg.Publisher,
		met:       metrics.New("fixedprice"),
	}
}

func (im *impl) lock(asset domain.Address, tokenId domain.TokenId) func() {
	return im.locks.Lock(market.NewTokenKey(asset, tokenId).String())
}

func (im *impl) publish(c ctx.Ctx, events ...market.Event) {
	if im.publisher != nil {
		im.publisher.Publish(c, events...)
	}
}

func newEvent(t market.EventType, listing *market.Listing, now time.Time) market.Event {
	return market.Event{
		Type:     t,
		Venue:    market.VenueFixedPrice,
		Asset:    listing.Asset,
		TokenId:  listing.TokenId,
		Seller:   listing.Seller,
		Quantity: listing.Quantity,
		Amount:   domain.CloneBigInt(listing.UnitPrice),
		At:       now,
	}
}

func (im *impl) List(c ctx.Ctx, req market.ListRequest, now time.Time) (*market.Listing, error) {
	if req.UnitPrice == nil || req.UnitPrice.Sign() <= 0 {
		return nil, market.ErrListPriceMustBeGreaterThanZero
	}
	defer im.lock(req.Asset, req.TokenId)()

	listing, err := im.registry.List(c, req, now)
	if err != nil {
		return nil, err
	}
	im.publish(c, newEvent(market.EventListed, listing, now))
	return listing, nil
}

func (im *impl) UpdateListedNft(c ctx.Ctx, req market.UpdateListingRequest, now time.Time) (*market.Listing, error) {
	if req.UnitPrice == nil || req.UnitPrice.Sign() <= 0 {
		return nil, market.ErrListPriceMustBeGreaterThanZero
	}
	defer im.lock(req.Asset, req.TokenId)()

	id := market.NewListingId(market.VenueFixedPrice, req.Asset, req.TokenId, req.Seller)
	var listing *market.Listing
	err := im.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		var err error
		if req.Quantity != nil {
			if _, err = im.registry.UpdateQuantity(c, id, *req.Quantity); err != nil {
				return err
			}
		}
		listing, err = im.registry.UpdatePrice(c, id, req.UnitPrice)
		return err
	})
	if err != nil {
		return nil, err
	}
	im.publish(c, newEvent(market.EventListingUpdated, listing, now))
	return listing, nil
}

// DelistNft returns the listing left over, nil when it was removed
func (im *impl) DelistNft(c ctx.Ctx, req market.DelistRequest, now time.Time) (*market.Listing, error) {
	defer im.lock(req.Asset, req.TokenId)()

	id := market.NewListingId(market.VenueFixedPrice, req.Asset, req.TokenId, req.Seller)
	listing, err := im.registry.Get(c, id)
	if err != nil {
		return nil, err
	}
	rest, err := im.registry.Delist(c, id, req.Quantity)
	if err != nil {
		return nil, err
	}

	event := newEvent(market.EventDelisted, listing, now)
	if rest != nil {
		event.Quantity = listing.Quantity - rest.Quantity
	}
	im.publish(c, event)
	return rest, nil
}

func (im *impl) RequiredPayment(c ctx.Ctx, id market.ListingId, amount uint64) (*big.Int, market.SaleKind, error) {
	listing, err := im.registry.Get(c, id)
	if err != nil {
		return nil, "", err
	}
	return im.requiredPayment(c, listing, amount)
}

// requiredPayment is amount * unitPrice, plus the collector surcharge while the
// token is still on its primary sale
func (im *impl) requiredPayment(c ctx.Ctx, listing *market.Listing, amount uint64) (*big.Int, market.SaleKind, error) {
	if amount == 0 {
		return nil, "", market.ErrInvalidQuantity
	}
	if amount > listing.Quantity {
		return nil, "", market.ErrLessItemsListedThanTheRequiredAmount
	}
	kind, err := im.ledger.KindOf(c, listing.Asset, listing.TokenId)
	if err != nil {
		return nil, "", err
	}
	price := listing.PriceOf(amount)
	if kind == market.SaleKindPrimary {
		price.Add(price, market.CollectorSurcharge(price, im.config.CollectorFeePercent()))
	}
	return price, kind, nil
}

func (im *impl) PurchaseNft(c ctx.Ctx, req market.PurchaseRequest, now time.Time) (*market.SaleRecord, error) {
	defer im.lock(req.Asset, req.TokenId)()

	listing, err := im.registry.Get(c, market.NewListingId(market.VenueFixedPrice, req.Asset, req.TokenId, req.Seller))
	if err != nil {
		return nil, err
	}
	if req.Buyer.Equals(listing.Seller) {
		return nil, market.ErrCannotBuyOwnItem
	}
	required, kind, err := im.requiredPayment(c, listing, req.Amount)
	if err != nil {
		return nil, err
	}
	if req.Payment == nil || req.Payment.Cmp(required) != 0 {
		im.met.BumpSum("purchase.wrongPayment", 1)
		return nil, market.ErrInvalidAmountForThisPurchase.WithDetail("required " + required.String())
	}

	sale, err := im.settler.Settle(c, market.SettleRequest{
		Listing:      listing,
		Buyer:        req.Buyer,
		Amount:       req.Amount,
		Gross:        req.Payment,
		ExpectedKind: kind,
	}, now)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "id": listing.ToId().String(), "buyer": req.Buyer}).Warn("settler.Settle failed")
		return nil, err
	}

	event := newEvent(market.EventSold, listing, now)
	event.Actor = sale.Buyer
	event.Quantity = sale.Quantity
	event.Amount = domain.CloneBigInt(sale.Gross)
	event.Sale = sale
	im.publish(c, event)
	return sale, nil
}

func (im *impl) CollectorMintPurchase(c ctx.Ctx, req market.CollectorMintPurchaseRequest, now time.Time) (*market.CollectorMintResult, error) {
	if im.gate == nil {
		return nil, market.ErrInvalidMintRequest.WithDetail("collector mint disabled")
	}
	return im.gate.CollectorMintPurchase(c, req, now)
}

func (im *impl) Get(c ctx.Ctx, id market.ListingId) (*market.Listing, error) {
	return im.registry.Get(c, id)
}

func (im *impl) Find(c ctx.Ctx, opts ...market.ListingFindAllOptionsFunc) ([]market.Listing, error) {
	return im.registry.Find(c, opts...)
}
