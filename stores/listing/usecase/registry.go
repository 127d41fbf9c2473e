package usecase

import (
	"math/big"
	"time"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/base/metrics"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
)

type RegistryCfg struct {
	Venue  market.Venue
	Repo   market.ListingRepo
	Asset  market.AssetService
	Config market.ConfigService
	Ledger market.PrimarySaleLedger
}

type registry struct {
	venue  market.Venue
	repo   market.ListingRepo
	asset  market.AssetService
	config market.ConfigService
	ledger market.PrimarySaleLedger
	met    metrics.Service
}

// NewRegistry returns the listing registry of one venue. Both venues may share
// the repo, listings are keyed by venue.
func NewRegistry(cfg *RegistryCfg) market.ListingRegistry {
	return &registry{
		venue:  cfg.Venue,
		repo:   cfg.Repo,
		asset:  cfg.Asset,
		config: cfg.Config,
		ledger: cfg.Ledger,
		met:    metrics.New("listing"),
	}
}

func (im *registry) Venue() market.Venue {
	return im.venue
}

func (im *registry) List(c ctx.Ctx, req market.ListRequest, now time.Time) (*market.Listing, error) {
	if req.UnitPrice != nil && req.UnitPrice.Sign() < 0 {
		return nil, market.ErrListPriceMustBeGreaterThanZero
	}

	id := market.NewListingId(im.venue, req.Asset, req.TokenId, req.Seller)
	if _, err := im.repo.FindOne(c, id); err == nil {
		return nil, market.ErrItemAlreadyListed
	} else if err != domain.ErrNotFound {
		c.WithFields(log.Fields{"err": err, "id": id.String()}).Error("repo.FindOne failed")
		return nil, err
	}

	tokenType, err := im.checkListable(c, id, req.Quantity)
	if err != nil {
		return nil, err
	}

	kind, err := im.ledger.KindOf(c, req.Asset, req.TokenId)
	if err != nil {
		return nil, err
	}

	listing := &market.Listing{
		Venue:           im.venue,
		Asset:           id.Asset,
		TokenId:         id.TokenId,
		Seller:          id.Seller,
		TokenType:       tokenType,
		Quantity:        req.Quantity,
		UnitPrice:       domain.CloneBigInt(req.UnitPrice),
		IsSecondarySale: kind == market.SaleKindSecondary,
		ListedAt:        now,
	}
	if im.venue == market.VenueAuction {
		listing.Auction = &market.AuctionState{HighestBid: new(big.Int)}
	}

	if err := im.repo.Insert(c, listing); err == domain.ErrConflict {
		return nil, market.ErrItemAlreadyListed
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id.String()}).Error("repo.Insert failed")
		return nil, err
	}
	im.met.BumpSum("list", 1, "venue", string(im.venue))
	return listing.Clone(), nil
}

// checkListable validates that the seller can put quantity units of the token
// on this listing. Units the seller already listed elsewhere count as taken.
func (im *registry) checkListable(c ctx.Ctx, id market.ListingId, quantity uint64) (domain.TokenType, error) {
	if quantity == 0 {
		return 0, market.ErrInvalidQuantity
	}

	tokenType, err := im.asset.TokenType(c, id.Asset)
	if err != nil {
		return 0, err
	}
	if !tokenType.IsFungible() && quantity != 1 {
		return 0, market.ErrInvalidQuantity
	}

	elsewhere, err := im.listedElsewhere(c, id)
	if err != nil {
		return 0, err
	}

	balance, err := im.asset.BalanceOf(c, id.Asset, id.TokenId, id.Seller)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id.String()}).Error("asset.BalanceOf failed")
		return 0, err
	}
	if balance < quantity+elsewhere {
		return 0, market.ErrNotOwner
	}

	approved, err := im.asset.IsApprovedForAll(c, id.Asset, id.Seller, im.config.MarketOperator(im.venue))
	if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id.String()}).Error("asset.IsApprovedForAll failed")
		return 0, err
	}
	if !approved {
		return 0, market.ErrMarketNotApproved
	}

	if err := im.ledger.CheckListable(c, id.Asset, id.TokenId, quantity+elsewhere); err != nil {
		return 0, err
	}
	return tokenType, nil
}

// listedElsewhere sums what the seller lists for the same token in every other listing, both venues included
func (im *registry) listedElsewhere(c ctx.Ctx, id market.ListingId) (uint64, error) {
	listings, err := im.repo.FindAll(c, market.WithAsset(id.Asset), market.WithTokenId(id.TokenId), market.WithSeller(id.Seller))
	if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id.String()}).Error("repo.FindAll failed")
		return 0, err
	}
	sum := uint64(0)
	for _, l := range listings {
		if l.ToId() == id {
			continue
		}
		sum += l.Quantity
	}
	return sum, nil
}

func (im *registry) Get(c ctx.Ctx, id market.ListingId) (*market.Listing, error) {
	id = market.NewListingId(im.venue, id.Asset, id.TokenId, id.Seller)
	listing, err := im.repo.FindOne(c, id)
	if err == domain.ErrNotFound {
		return nil, market.ErrItemIsNotListedBySeller
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id.String()}).Error("repo.FindOne failed")
		return nil, err
	}
	return listing, nil
}

func (im *registry) Find(c ctx.Ctx, opts ...market.ListingFindAllOptionsFunc) ([]market.Listing, error) {
	opts = append(opts, market.WithVenue(im.venue))
	return im.repo.FindAll(c, opts...)
}

func (im *registry) update(c ctx.Ctx, listing *market.Listing) error {
	if err := im.repo.Update(c, listing); err != nil {
		c.WithFields(log.Fields{"err": err, "id": listing.ToId().String()}).Error("repo.Update failed")
		return err
	}
	return nil
}

func (im *registry) remove(c ctx.Ctx, id market.ListingId) error {
	if err := im.repo.Remove(c, id); err != nil {
		c.WithFields(log.Fields{"err": err, "id": id.String()}).Error("repo.Remove failed")
		return err
	}
	return nil
}

func (im *registry) UpdatePrice(c ctx.Ctx, id market.ListingId, unitPrice *big.Int) (*market.Listing, error) {
	if unitPrice == nil || unitPrice.Sign() <= 0 {
		return nil, market.ErrListPriceMustBeGreaterThanZero
	}
	listing, err := im.Get(c, id)
	if err != nil {
		return nil, err
	}
	listing.UnitPrice = new(big.Int).Set(unitPrice)
	if err := im.update(c, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (im *registry) UpdateQuantity(c ctx.Ctx, id market.ListingId, quantity uint64) (*market.Listing, error) {
	listing, err := im.Get(c, id)
	if err != nil {
		return nil, err
	}
	if _, err := im.checkListable(c, listing.ToId(), quantity); err != nil {
		return nil, err
	}
	listing.Quantity = quantity
	if err := im.update(c, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (im *registry) Delist(c ctx.Ctx, id market.ListingId, quantity uint64) (*market.Listing, error) {
	listing, err := im.Get(c, id)
	if err != nil {
		return nil, err
	}
	if quantity > listing.Quantity {
		return nil, market.ErrLessItemsListedThanTheRequiredAmount
	}
	if quantity == 0 || quantity == listing.Quantity {
		if err := im.remove(c, listing.ToId()); err != nil {
			return nil, err
		}
		im.met.BumpSum("delist", 1, "venue", string(im.venue))
		return nil, nil
	}

	listing.Quantity -= quantity
	if err := im.update(c, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (im *registry) ReduceOnFill(c ctx.Ctx, id market.ListingId, filled uint64) (*market.Listing, error) {
	if filled == 0 {
		return nil, market.ErrInvalidQuantity
	}
	listing, err := im.Get(c, id)
	if err != nil {
		return nil, err
	}
	if filled > listing.Quantity {
		return nil, market.ErrLessItemsListedThanTheRequiredAmount
	}

	listing.Quantity -= filled
	if listing.Quantity == 0 {
		if err := im.remove(c, listing.ToId()); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err := im.update(c, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (im *registry) SaveAuction(c ctx.Ctx, listing *market.Listing) error {
	if listing.Venue != im.venue || listing.Auction == nil {
		return domain.ErrBadParamInput
	}
	return im.update(c, listing)
}
