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
	Config     market.ConfigService
	Funds      market.FundsService
	Refunder   market.Refunder
	Transactor market.Transactor
	Locks      *keylock.Locker
	Publisher  market.EventPublisher
}

type impl struct {
	registry  market.ListingRegistry
	settler   market.Settler
	config    market.ConfigService
	funds     market.FundsService
	refunder  market.Refunder
	tx        market.Transactor
	locks     *keylock.Locker
	publisher market.EventPublisher
	met       metrics.Service
}

func New(cfg *Cfg) market.AuctionMarket {
	return &impl{
		registry:  cfg.Registry,
		settler:   cfg.Settler,
		config:    cfg.Config,
		funds:     cfg.Funds,
		refunder:  cfg.Refunder,
		tx:        cfg.Transactor,
		locks:     cfg.Locks,
		publisher: cfg.Publisher,
		met:       metrics.New("auction"),
	}
}

func (im *impl) lock(asset domain.Address, tokenId domain.TokenId) func() {
	return im.locks.Lock(market.NewTokenKey(asset, tokenId).String())
}

func (im *impl) publish(c ctx.Ctx, events ...market.Event) {
	if im.publisher != nil && len(events) > 0 {
		im.publisher.Publish(c, events...)
	}
}

func newEvent(t market.EventType, listing *market.Listing, now time.Time) market.Event {
	e := market.Event{
		Type:     t,
		Venue:    market.VenueAuction,
		Asset:    listing.Asset,
		TokenId:  listing.TokenId,
		Seller:   listing.Seller,
		Quantity: listing.Quantity,
		Amount:   domain.CloneBigInt(listing.UnitPrice),
		At:       now,
	}
	if listing.Auction != nil {
		e.EndTime = listing.Auction.EndTime
	}
	return e
}

func refundEvent(refund *market.RefundOutcome, listing *market.Listing, now time.Time) market.Event {
	t := market.EventBidRefunded
	if refund.Escrowed {
		t = market.EventRefundEscrowed
	}
	e := newEvent(t, listing, now)
	e.Actor = refund.To
	e.Amount = domain.CloneBigInt(refund.Amount)
	return e
}

func (im *impl) get(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId, seller domain.Address) (*market.Listing, error) {
	listing, err := im.registry.Get(c, market.NewListingId(market.VenueAuction, asset, tokenId, seller))
	if err != nil {
		return nil, err
	}
	if listing.Auction == nil {
		listing.Auction = &market.AuctionState{HighestBid: new(big.Int)}
	}
	return listing, nil
}

// List opens an auction with a reserve price. The clock starts with the first bid.
func (im *impl) List(c ctx.Ctx, req market.ListRequest, now time.Time) (*market.Listing, error) {
	if req.UnitPrice == nil {
		req.UnitPrice = new(big.Int)
	}
	defer im.lock(req.Asset, req.TokenId)()

	listing, err := im.registry.List(c, req, now)
	if err != nil {
		return nil, err
	}
	im.publish(c, newEvent(market.EventListed, listing, now))
	return listing, nil
}

func (im *impl) PlaceBid(c ctx.Ctx, req market.BidRequest, now time.Time) (*market.BidResult, error) {
	defer im.lock(req.Asset, req.TokenId)()

	listing, err := im.get(c, req.Asset, req.TokenId, req.Seller)
	if err != nil {
		return nil, err
	}
	auction := listing.Auction

	if req.Bidder.Equals(listing.Seller) {
		return nil, market.ErrAuctionCreatorCannotBid
	}
	if auction.HasBid() && req.Bidder.Equals(auction.HighestBidder) {
		return nil, market.ErrLastBidderCannotPlaceNextBid
	}
	if auction.Ended || (auction.Started() && !now.Before(auction.EndTime)) {
		return nil, market.ErrAuctionMustBeEnded
	}
	floor := listing.UnitPrice
	if auction.HasBid() {
		floor = auction.HighestBid
	}
	if req.Payment == nil || req.Payment.Cmp(domain.CloneBigInt(floor)) <= 0 {
		return nil, market.ErrBidTooLow
	}

	res := &market.BidResult{}
	prevBidder, prevBid := auction.HighestBidder, domain.CloneBigInt(auction.HighestBid)
	hadBid := auction.HasBid()

	err = im.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		if err := im.funds.Debit(c, req.Bidder, req.Payment); err != nil {
			return err
		}
		if hadBid {
			refund, err := im.refunder.Refund(c, prevBidder, prevBid)
			if err != nil {
				c.WithFields(log.Fields{"err": err, "to": prevBidder}).Error("refunder.Refund failed")
				return err
			}
			res.Refund = refund
		}

		if !auction.Started() {
			auction.EndTime = now.Add(im.config.AuctionDuration())
		} else if window := im.config.AuctionExtensionWindow(); !now.Before(auction.EndTime.Add(-window)) {
			auction.EndTime = auction.EndTime.Add(window)
			auction.Extensions++
			res.Extended = true
		}
		auction.HighestBidder = req.Bidder.ToLower()
		auction.HighestBid = new(big.Int).Set(req.Payment)
		return im.registry.SaveAuction(c, listing)
	})
	if err != nil {
		return nil, err
	}
	res.Listing = listing
	im.met.BumpSum("bid", 1)

	bid := newEvent(market.EventBidPlaced, listing, now)
	bid.Actor = auction.HighestBidder
	bid.Amount = domain.CloneBigInt(auction.HighestBid)
	events := []market.Event{bid}
	if res.Refund != nil {
		events = append(events, refundEvent(res.Refund, listing, now))
	}
	if res.Extended {
		im.met.BumpSum("extended", 1)
		events = append(events, newEvent(market.EventAuctionExtended, listing, now))
	}
	im.publish(c, events...)
	return res, nil
}

// Delist cancels an auction, returning the highest bid first. A finished
// auction with a winner can only be ended.
func (im *impl) Delist(c ctx.Ctx, req market.DelistRequest, now time.Time) (*market.DelistAuctionResult, error) {
	defer im.lock(req.Asset, req.TokenId)()

	listing, err := im.get(c, req.Asset, req.TokenId, req.Seller)
	if err != nil {
		return nil, err
	}
	auction := listing.Auction
	if auction.HasBid() && !now.Before(auction.EndTime) {
		return nil, market.ErrAuctionMustBeEnded
	}

	res := &market.DelistAuctionResult{}
	err = im.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		if auction.HasBid() {
			refund, err := im.refunder.Refund(c, auction.HighestBidder, auction.HighestBid)
			if err != nil {
				c.WithFields(log.Fields{"err": err, "to": auction.HighestBidder}).Error("refunder.Refund failed")
				return err
			}
			res.Refund = refund
		}
		_, err := im.registry.Delist(c, listing.ToId(), 0)
		return err
	})
	if err != nil {
		return nil, err
	}

	events := []market.Event{newEvent(market.EventDelisted, listing, now)}
	if res.Refund != nil {
		events = append(events, refundEvent(res.Refund, listing, now))
	}
	im.publish(c, events...)
	return res, nil
}

// EndAuction settles the winning bid. Anyone may call it once the clock ran out.
func (im *impl) EndAuction(c ctx.Ctx, req market.EndAuctionRequest, now time.Time) (*market.SaleRecord, error) {
	defer im.lock(req.Asset, req.TokenId)()

	listing, err := im.get(c, req.Asset, req.TokenId, req.Seller)
	if err != nil {
		return nil, err
	}
	auction := listing.Auction
	if !auction.HasBid() {
		return nil, market.ErrAuctionTimeNotStartedYet
	}
	if now.Before(auction.EndTime) {
		return nil, market.ErrAuctionCannotBeEndedYet
	}

	sale, err := im.settler.Settle(c, market.SettleRequest{
		Listing: listing,
		Buyer:   auction.HighestBidder,
		Amount:  listing.Quantity,
		Gross:   auction.HighestBid,
		Prepaid: true,
	}, now)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "id": listing.ToId().String(), "winner": auction.HighestBidder}).Error("settler.Settle failed")
		return nil, err
	}
	auction.Ended = true
	im.met.BumpSum("ended", 1)

	ended := newEvent(market.EventAuctionEnded, listing, now)
	ended.Actor = req.Caller.ToLower()
	sold := newEvent(market.EventSold, listing, now)
	sold.Actor = sale.Buyer
	sold.Amount = domain.CloneBigInt(sale.Gross)
	sold.Sale = sale
	im.publish(c, ended, sold)
	return sale, nil
}

func (im *impl) Get(c ctx.Ctx, id market.ListingId) (*market.Listing, error) {
	return im.registry.Get(c, id)
}

func (im *impl) Find(c ctx.Ctx, opts ...market.ListingFindAllOptionsFunc) ([]market.Listing, error) {
	return im.registry.Find(c, opts...)
}
