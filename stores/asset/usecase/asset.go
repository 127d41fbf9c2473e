package usecase

import (
	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/base/metrics"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
)

type Cfg struct {
	Repo       market.AssetRepo
	Ledger     market.PrimarySaleLedger
	Transactor market.Transactor
}

type impl struct {
	repo   market.AssetRepo
	ledger market.PrimarySaleLedger
	tx     market.Transactor
	met    metrics.Service
}

func New(cfg *Cfg) market.AssetUseCase {
	return &impl{
		repo:   cfg.Repo,
		ledger: cfg.Ledger,
		tx:     cfg.Transactor,
		met:    metrics.New("asset"),
	}
}

func (im *impl) RegisterContract(c ctx.Ctx, contract *market.AssetContract) error {
	if contract.Address.IsZero() {
		return market.ErrInvalidAddress.WithDetail("address")
	}
	if !contract.TokenType.IsValid() {
		return market.ErrUnsupportedAsset.WithDetail("tokenType")
	}
	contract.Minted = 0
	if err := im.repo.InsertContract(c, contract); err != nil {
		if err != domain.ErrConflict {
			c.WithFields(log.Fields{"err": err, "asset": contract.Address}).Error("repo.InsertContract failed")
		}
		return err
	}
	return nil
}

func (im *impl) TokenType(c ctx.Ctx, asset domain.Address) (domain.TokenType, error) {
	contract, err := im.repo.FindContract(c, asset)
	if err == domain.ErrNotFound {
		return 0, market.ErrUnsupportedAsset
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "asset": asset}).Error("repo.FindContract failed")
		return 0, err
	}
	return contract.TokenType, nil
}

func (im *impl) OwnerOf(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId) (domain.Address, error) {
	holdings, err := im.Holdings(c, asset, tokenId)
	if err != nil {
		return "", err
	}
	if len(holdings) == 0 {
		return "", domain.ErrNotFound
	}
	return holdings[0].Owner, nil
}

func (im *impl) Holdings(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId) ([]market.Holding, error) {
	holdings, err := im.repo.FindHoldings(c, asset, tokenId)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "asset": asset, "tokenId": tokenId}).Error("repo.FindHoldings failed")
		return nil, err
	}
	return holdings, nil
}

func (im *impl) BalanceOf(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId, owner domain.Address) (uint64, error) {
	return im.repo.Balance(c, asset, tokenId, owner)
}

func (im *impl) IsApprovedForAll(c ctx.Ctx, asset domain.Address, owner, operator domain.Address) (bool, error) {
	return im.repo.IsApprovedForAll(c, asset, owner, operator)
}

func (im *impl) SetApprovalForAll(c ctx.Ctx, asset domain.Address, owner, operator domain.Address, approved bool) error {
	if operator.IsZero() {
		return market.ErrInvalidAddress.WithDetail("operator")
	}
	if _, err := im.TokenType(c, asset); err != nil {
		return err
	}
	return im.repo.SetApprovalForAll(c, asset, owner, operator, approved)
}

func (im *impl) move(c ctx.Ctx, asset domain.Address, from, to domain.Address, tokenId domain.TokenId, amount uint64) error {
	if to.IsZero() {
		return market.ErrInvalidAddress.WithDetail("to")
	}
	return im.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		if err := im.repo.AddBalance(c, asset, tokenId, from, -int64(amount)); err != nil {
			return err
		}
		if err := im.repo.AddBalance(c, asset, tokenId, to, int64(amount)); err != nil {
			c.WithFields(log.Fields{"err": err, "asset": asset, "tokenId": tokenId, "to": to}).Error("repo.AddBalance failed")
			return err
		}
		im.met.BumpSum("transfer", float64(amount))
		return nil
	})
}

func (im *impl) TransferUnique(c ctx.Ctx, asset domain.Address, from, to domain.Address, tokenId domain.TokenId) error {
	tokenType, err := im.TokenType(c, asset)
	if err != nil {
		return err
	}
	if tokenType.IsFungible() {
		return market.ErrUnsupportedAsset.WithDetail("not unique")
	}
	return im.move(c, asset, from, to, tokenId, 1)
}

func (im *impl) TransferFungible(c ctx.Ctx, asset domain.Address, from, to domain.Address, tokenId domain.TokenId, amount uint64) error {
	tokenType, err := im.TokenType(c, asset)
	if err != nil {
		return err
	}
	if !tokenType.IsFungible() {
		return market.ErrUnsupportedAsset.WithDetail("not fungible")
	}
	if amount == 0 {
		return market.ErrInvalidQuantity
	}
	return im.move(c, asset, from, to, tokenId, amount)
}

func (im *impl) Mint(c ctx.Ctx, req market.MintRequest) (domain.TokenId, error) {
	if req.To.IsZero() {
		return "", market.ErrInvalidAddress.WithDetail("to")
	}
	if req.Amount == 0 {
		return "", market.ErrInvalidQuantity
	}
	if req.Royalty.Percent > 100 {
		return "", market.ErrInvalidRoyalty
	}
	if err := market.ValidateCollaborators(req.Royalty.Collaborators); err != nil {
		return "", err
	}
	tokenType, err := im.TokenType(c, req.Asset)
	if err != nil {
		return "", err
	}
	if !tokenType.IsFungible() && req.Amount != 1 {
		return "", market.ErrInvalidQuantity
	}

	royalty := req.Royalty
	if royalty.Creator.IsZero() {
		royalty.Creator = req.To
	}
	royalty.Creator = royalty.Creator.ToLower()

	var tokenId domain.TokenId
	err = im.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		id, err := im.repo.NextTokenId(c, req.Asset)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "asset": req.Asset}).Error("repo.NextTokenId failed")
			return err
		}
		if err := im.repo.AddBalance(c, req.Asset, id, req.To, int64(req.Amount)); err != nil {
			c.WithFields(log.Fields{"err": err, "asset": req.Asset, "tokenId": id}).Error("repo.AddBalance failed")
			return err
		}
		if err := im.repo.SaveRoyalty(c, req.Asset, id, &royalty); err != nil {
			c.WithFields(log.Fields{"err": err, "asset": req.Asset, "tokenId": id}).Error("repo.SaveRoyalty failed")
			return err
		}
		tokenId = id
		return nil
	})
	if err != nil {
		return "", err
	}
	im.met.BumpSum("mint", float64(req.Amount))
	return tokenId, nil
}

func (im *impl) MintPrimary(c ctx.Ctx, req market.MintRequest) (*market.PrimarySaleRecord, error) {
	var record *market.PrimarySaleRecord
	err := im.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		tokenId, err := im.Mint(c, req)
		if err != nil {
			return err
		}
		record, err = im.ledger.RecordMint(c, req.Asset, tokenId, req.Amount, req.To)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (im *impl) RoyaltyInfo(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId) (*market.RoyaltyInfo, error) {
	royalty, err := im.repo.FindRoyalty(c, asset, tokenId)
	if err == domain.ErrNotFound {
		return &market.RoyaltyInfo{}, nil
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "asset": asset, "tokenId": tokenId}).Error("repo.FindRoyalty failed")
		return nil, err
	}
	return royalty, nil
}
