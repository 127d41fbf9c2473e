package usecase

import (
	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/base/metrics"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
)

// MaxTotalSupply keeps supplies exact in every backend, redis scripts read
// the counters as doubles
const MaxTotalSupply = 1 << 53

type LedgerCfg struct {
	Repo market.PrimarySaleRepo
}

type ledger struct {
	repo market.PrimarySaleRepo
	met  metrics.Service
}

// NewLedger returns the primary sale ledger. Build it once and hand the same
// instance to every venue.
func NewLedger(cfg *LedgerCfg) market.PrimarySaleLedger {
	return &ledger{
		repo: cfg.Repo,
		met:  metrics.New("primarysale"),
	}
}

func (im *ledger) RecordMint(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId, totalSupply uint64, firstOwner domain.Address) (*market.PrimarySaleRecord, error) {
	if totalSupply == 0 {
		return nil, market.ErrInvalidQuantity
	}
	if totalSupply > MaxTotalSupply {
		return nil, market.ErrInvalidQuantity.WithDetail("totalSupply")
	}
	if firstOwner.IsZero() {
		return nil, market.ErrInvalidAddress.WithDetail("firstOwner")
	}

	record := &market.PrimarySaleRecord{
		Asset:          asset.ToLower(),
		TokenId:        tokenId,
		TotalSupply:    totalSupply,
		RemainingUnits: totalSupply,
		FirstOwner:     firstOwner.ToLower(),
	}
	if err := im.repo.Create(c, record); err != nil {
		if err != market.ErrPrimarySaleAlreadyRecorded {
			c.WithFields(log.Fields{"err": err, "key": record.ToKey()}).Error("repo.Create failed")
		}
		return nil, err
	}
	im.met.BumpSum("mint", 1)
	return record, nil
}

func (im *ledger) Consume(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId, amount uint64) (market.SaleKind, error) {
	if amount == 0 {
		return "", market.ErrInvalidQuantity
	}
	key := market.NewTokenKey(asset, tokenId)
	taken, err := im.repo.Consume(c, key, amount)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key, "amount": amount}).Error("repo.Consume failed")
		return "", err
	}
	if taken == 0 {
		return market.SaleKindSecondary, nil
	}
	im.met.BumpSum("consume", float64(taken))
	return market.SaleKindPrimary, nil
}

func (im *ledger) Peek(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId) (*market.PrimarySaleRecord, error) {
	key := market.NewTokenKey(asset, tokenId)
	record, err := im.repo.FindOne(c, key)
	if err != nil {
		if err != domain.ErrNotFound {
			c.WithFields(log.Fields{"err": err, "key": key}).Error("repo.FindOne failed")
		}
		return nil, err
	}
	return record, nil
}

func (im *ledger) KindOf(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId) (market.SaleKind, error) {
	record, err := im.Peek(c, asset, tokenId)
	if err == domain.ErrNotFound {
		// never minted here, e.g. imported assets
		return market.SaleKindSecondary, nil
	} else if err != nil {
		return "", err
	}
	if record.SoldOut || record.RemainingUnits == 0 {
		return market.SaleKindSecondary, nil
	}
	return market.SaleKindPrimary, nil
}

func (im *ledger) CheckListable(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId, quantity uint64) error {
	record, err := im.Peek(c, asset, tokenId)
	if err == domain.ErrNotFound {
		return nil
	} else if err != nil {
		return err
	}
	if !record.SoldOut && quantity > record.RemainingUnits {
		return market.ErrPrimarySupplyExceeded
	}
	return nil
}
