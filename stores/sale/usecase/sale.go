package usecase

import (
	"github.com/google/uuid"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/base/metrics"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
)

type Cfg struct {
	Repo market.SaleRepo
}

type impl struct {
	repo market.SaleRepo
	met  metrics.Service
}

func New(cfg *Cfg) market.SaleUseCase {
	return &impl{
		repo: cfg.Repo,
		met:  metrics.New("sale"),
	}
}

// Record persists a settled fill, a missing sale id is generated
func (im *impl) Record(c ctx.Ctx, sale *market.SaleRecord) error {
	if sale.SaleId == "" {
		id, err := uuid.NewRandom()
		if err != nil {
			c.WithField("err", err).Error("uuid.NewRandom failed")
			return err
		}
		sale.SaleId = id.String()
	}
	sale.Asset = sale.Asset.ToLower()
	sale.Seller = sale.Seller.ToLower()
	sale.Buyer = sale.Buyer.ToLower()

	if err := im.repo.Insert(c, sale); err != nil {
		c.WithFields(log.Fields{"err": err, "saleId": sale.SaleId}).Error("repo.Insert failed")
		return err
	}
	im.met.BumpSum("record", 1, "venue", string(sale.Venue), "kind", string(sale.Kind))
	return nil
}

func (im *impl) FindAll(c ctx.Ctx, opts ...market.SaleFindAllOptionsFunc) ([]market.SaleRecord, error) {
	res, err := im.repo.FindAll(c, opts...)
	if err != nil && err != domain.ErrBadParamInput {
		c.WithFields(log.Fields{"err": err}).Error("repo.FindAll failed")
	}
	return res, err
}
