package repository

import (
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/database/mongoclient"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/service/query"
)

var Indexes = []query.Index{
	{Table: domain.TableSales, Keys: []string{"saleId"}},
}

type payoutDoc struct {
	Recipient domain.Address       `bson:"recipient"`
	Amount    primitive.Decimal128 `bson:"amount"`
	Role      market.PayoutRole    `bson:"role"`
}

type saleDoc struct {
	SaleId           string               `bson:"saleId"`
	Venue            market.Venue         `bson:"venue"`
	Kind             market.SaleKind      `bson:"kind"`
	HasCollaborators bool                 `bson:"hasCollaborators"`
	IsFungible       bool                 `bson:"isFungible"`
	Asset            domain.Address       `bson:"asset"`
	TokenId          domain.TokenId       `bson:"tokenId"`
	Seller           domain.Address       `bson:"seller"`
	Buyer            domain.Address       `bson:"buyer"`
	Quantity         uint64               `bson:"quantity"`
	UnitPrice        primitive.Decimal128 `bson:"unitPrice"`
	Gross            primitive.Decimal128 `bson:"gross"`
	// Amounts holds platform, collectorFee, royalty and sellerNet in that order
	Amounts             []primitive.Decimal128 `bson:"amounts"`
	CollaboratorAmounts []primitive.Decimal128 `bson:"collaboratorAmounts"`
	Payouts             []payoutDoc            `bson:"payouts"`
	SoldAt              time.Time              `bson:"soldAt"`
}

func toDecimals(values ...*big.Int) ([]primitive.Decimal128, error) {
	res := make([]primitive.Decimal128, 0, len(values))
	for _, v := range values {
		d, err := mongoclient.ToDecimal128(domain.CloneBigInt(v))
		if err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, nil
}

func fromDecimals(values []primitive.Decimal128) ([]*big.Int, error) {
	res := make([]*big.Int, 0, len(values))
	for _, d := range values {
		v, err := mongoclient.FromDecimal128(d)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}

func toDoc(s *market.SaleRecord) (*saleDoc, error) {
	head, err := toDecimals(s.UnitPrice, s.Gross, s.Split.PlatformAmount, s.Split.CollectorFeeAmount, s.Split.RoyaltyAmount, s.Split.SellerNetAmount)
	if err != nil {
		return nil, err
	}
	collaborators, err := toDecimals(s.Split.CollaboratorAmounts...)
	if err != nil {
		return nil, err
	}
	payouts := make([]payoutDoc, 0, len(s.Split.Payouts))
	for _, p := range s.Split.Payouts {
		amount, err := mongoclient.ToDecimal128(p.Amount)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, payoutDoc{Recipient: p.Recipient, Amount: amount, Role: p.Role})
	}
	return &saleDoc{
		SaleId:              s.SaleId,
		Venue:               s.Venue,
		Kind:                s.Kind,
		HasCollaborators:    s.HasCollaborators,
		IsFungible:          s.IsFungible,
		Asset:               s.Asset.ToLower(),
		TokenId:             s.TokenId,
		Seller:              s.Seller.ToLower(),
		Buyer:               s.Buyer.ToLower(),
		Quantity:            s.Quantity,
		UnitPrice:           head[0],
		Gross:               head[1],
		Amounts:             head[2:],
		CollaboratorAmounts: collaborators,
		Payouts:             payouts,
		SoldAt:              s.SoldAt,
	}, nil
}

func (d *saleDoc) toSale() (*market.SaleRecord, error) {
	head, err := fromDecimals(append([]primitive.Decimal128{d.UnitPrice, d.Gross}, d.Amounts...))
	if err != nil {
		return nil, err
	}
	if len(head) != 6 {
		return nil, domain.ErrInvalidNumberFormat
	}
	collaborators, err := fromDecimals(d.CollaboratorAmounts)
	if err != nil {
		return nil, err
	}
	split := market.Split{
		Gross:              head[1],
		PlatformAmount:     head[2],
		CollectorFeeAmount: head[3],
		RoyaltyAmount:      head[4],
		SellerNetAmount:    head[5],
	}
	if len(collaborators) > 0 {
		split.CollaboratorAmounts = collaborators
	}
	for _, p := range d.Payouts {
		amount, err := mongoclient.FromDecimal128(p.Amount)
		if err != nil {
			return nil, err
		}
		split.Payouts = append(split.Payouts, market.Payout{Recipient: p.Recipient, Amount: amount, Role: p.Role})
	}
	return &market.SaleRecord{
		SaleId:           d.SaleId,
		Venue:            d.Venue,
		Kind:             d.Kind,
		HasCollaborators: d.HasCollaborators,
		IsFungible:       d.IsFungible,
		Asset:            d.Asset,
		TokenId:          d.TokenId,
		Seller:           d.Seller,
		Buyer:            d.Buyer,
		Quantity:         d.Quantity,
		UnitPrice:        head[0],
		Gross:            head[1],
		Split:            split,
		SoldAt:           d.SoldAt,
	}, nil
}

type mongoRepo struct {
	q query.Mongo
}

func NewMongoRepo(q query.Mongo) market.SaleRepo {
	return &mongoRepo{q}
}

func (im *mongoRepo) Insert(ctx ctx.Ctx, sale *market.SaleRecord) error {
	doc, err := toDoc(sale)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "saleId": sale.SaleId}).Error("toDoc failed")
		return err
	}
	if err := im.q.Insert(ctx, domain.TableSales, doc); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "saleId": sale.SaleId}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *mongoRepo) FindAll(ctx ctx.Ctx, opts ...market.SaleFindAllOptionsFunc) ([]market.SaleRecord, error) {
	options, err := market.GetSaleFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}
	query := bson.M{}
	if options.Asset != nil {
		query["asset"] = options.Asset.ToLower()
	}
	if options.TokenId != nil {
		query["tokenId"] = *options.TokenId
	}
	if options.Account != nil {
		a := options.Account.ToLower()
		query["$or"] = bson.A{bson.M{"buyer": a}, bson.M{"seller": a}}
	}
	offset, limit := 0, 0
	if options.Offset != nil && options.Limit != nil {
		offset, limit = *options.Offset, *options.Limit
	}

	docs := []saleDoc{}
	if err := im.q.Search(ctx, domain.TableSales, offset, limit, "-soldAt", query, &docs); err != nil {
		ctx.WithFields(log.Fields{"err": err, "query": query}).Error("q.Search failed")
		return nil, err
	}
	res := make([]market.SaleRecord, 0, len(docs))
	for i := range docs {
		s, err := docs[i].toSale()
		if err != nil {
			ctx.WithFields(log.Fields{"err": err, "saleId": docs[i].SaleId}).Error("toSale failed")
			return nil, err
		}
		res = append(res, *s)
	}
	return res, nil
}
