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

type Cfg struct {
	Registries []market.ListingRegistry
	Ledger     market.PrimarySaleLedger
	Asset      market.AssetService
	Config     market.ConfigService
	Funds      market.FundsService
	Sale       market.SaleUseCase
	Transactor market.Transactor
}

type settler struct {
	registries map[market.Venue]market.ListingRegistry
	ledger     market.PrimarySaleLedger
	asset      market.AssetService
	config     market.ConfigService
	funds      market.FundsService
	sale       market.SaleUseCase
	tx         market.Transactor
	met        metrics.Service
}

// New returns the settlement path shared by both venues. It needs the
// registry of every venue it settles for.
func New(cfg *Cfg) market.Settler {
	registries := make(map[market.Venue]market.ListingRegistry)
	for _, r := range cfg.Registries {
		registries[r.Venue()] = r
	}
	return &settler{
		registries: registries,
		ledger:     cfg.Ledger,
		asset:      cfg.Asset,
		config:     cfg.Config,
		funds:      cfg.Funds,
		sale:       cfg.Sale,
		tx:         cfg.Transactor,
		met:        metrics.New("settlement"),
	}
}

// Settle collects the payment, classifies the fill, pays every party, reduces
// the listing, moves the asset and records the sale. It either does all of it
// or nothing.
func (im *settler) Settle(c ctx.Ctx, req market.SettleRequest, now time.Time) (*market.SaleRecord, error) {
	listing := req.Listing
	if listing == nil {
		return nil, market.ErrItemIsNotListedBySeller
	}
	registry, ok := im.registries[listing.Venue]
	if !ok {
		return nil, domain.ErrBadParamInput
	}
	if req.Amount == 0 {
		return nil, market.ErrInvalidQuantity
	}
	if req.Amount > listing.Quantity {
		return nil, market.ErrLessItemsListedThanTheRequiredAmount
	}
	if req.Buyer.IsZero() {
		return nil, market.ErrInvalidAddress.WithDetail("buyer")
	}
	if req.Buyer.Equals(listing.Seller) {
		return nil, market.ErrCannotBuyOwnItem
	}
	gross := domain.CloneBigInt(req.Gross)
	if gross.Sign() < 0 {
		return nil, market.ErrInvalidAmountForThisPurchase
	}

	defer im.met.BumpTime("settle", "venue", string(listing.Venue)).End()

	var sale *market.SaleRecord
	err := im.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		if !req.Prepaid {
			if err := im.funds.Debit(c, req.Buyer, gross); err != nil {
				return err
			}
		}

		kind, err := im.ledger.Consume(c, listing.Asset, listing.TokenId, req.Amount)
		if err != nil {
			return err
		}
		if req.ExpectedKind != "" && req.ExpectedKind != kind {
			// the payment was priced for the other kind
			return market.ErrInvalidAmountForThisPurchase
		}

		royalty, err := im.asset.RoyaltyInfo(c, listing.Asset, listing.TokenId)
		if err != nil {
			return err
		}

		split := market.ComputeSplit(market.SplitInput{
			Gross:               gross,
			Kind:                kind,
			PrimaryFeePercent:   im.config.PrimaryFeePercent(),
			SecondaryFeePercent: im.config.SecondaryFeePercent(),
			CollectorFeePercent: im.config.CollectorFeePercent(),
			RoyaltyPercent:      royalty.Percent,
			Treasury:            im.config.PlatformTreasury(),
			Seller:              listing.Seller,
			Creator:             royalty.Creator,
			Collaborators:       royalty.Collaborators,
		})
		for _, p := range split.Payouts {
			if err := im.funds.Credit(c, p.Recipient, p.Amount); err != nil {
				c.WithFields(log.Fields{"err": err, "recipient": p.Recipient, "role": p.Role}).Warn("funds.Credit failed")
				return err
			}
		}

		if _, err := registry.ReduceOnFill(c, listing.ToId(), req.Amount); err != nil {
			return err
		}

		if listing.TokenType.IsFungible() {
			err = im.asset.TransferFungible(c, listing.Asset, listing.Seller, req.Buyer, listing.TokenId, req.Amount)
		} else {
			err = im.asset.TransferUnique(c, listing.Asset, listing.Seller, req.Buyer, listing.TokenId)
		}
		if err != nil {
			c.WithFields(log.Fields{"err": err, "id": listing.ToId().String()}).Error("asset transfer failed")
			return err
		}

		unitPrice := domain.CloneBigInt(listing.UnitPrice)
		if req.Prepaid {
			unitPrice = new(big.Int).Quo(gross, new(big.Int).SetUint64(req.Amount))
		}
		sale = &market.SaleRecord{
			Venue:            listing.Venue,
			Kind:             kind,
			HasCollaborators: royalty.HasCollaborators(),
			IsFungible:       listing.TokenType.IsFungible(),
			Asset:            listing.Asset,
			TokenId:          listing.TokenId,
			Seller:           listing.Seller,
			Buyer:            req.Buyer.ToLower(),
			Quantity:         req.Amount,
			UnitPrice:        unitPrice,
			Gross:            gross,
			Split:            split,
			SoldAt:           now,
		}
		return im.sale.Record(c, sale)
	})
	if err != nil {
		im.met.BumpSum("failed", 1, "venue", string(listing.Venue))
		return nil, err
	}
	im.met.BumpSum("settled", 1, "venue", string(listing.Venue), "kind", string(sale.Kind))
	return sale, nil
}
