package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/xerrors"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/service/query"
)

// consumeRetries bounds how often Consume re-reads a cursor another writer moved
const consumeRetries = 5

var Indexes = []query.Index{
	{Table: domain.TablePrimarySales, Keys: []string{"asset", "tokenId"}},
}

type recordDoc struct {
	Asset          domain.Address `bson:"asset"`
	TokenId        domain.TokenId `bson:"tokenId"`
	TotalSupply    int64          `bson:"totalSupply"`
	RemainingUnits int64          `bson:"remainingUnits"`
	FirstOwner     domain.Address `bson:"firstOwner"`
	SoldOut        bool           `bson:"soldOut"`
}

func (d *recordDoc) toRecord() *market.PrimarySaleRecord {
	return &market.PrimarySaleRecord{
		Asset:          d.Asset,
		TokenId:        d.TokenId,
		TotalSupply:    uint64(d.TotalSupply),
		RemainingUnits: uint64(d.RemainingUnits),
		FirstOwner:     d.FirstOwner,
		SoldOut:        d.SoldOut,
	}
}

type mongoRepo struct {
	q query.Mongo
}

// NewMongoRepo keeps primary sale cursors next to the listings. Writes join
// the mongo session transaction carried by the ctx, so a failed settlement
// rolls them back natively.
func NewMongoRepo(q query.Mongo) market.PrimarySaleRepo {
	return &mongoRepo{q}
}

func recordSelector(key market.TokenKey) bson.M {
	return bson.M{"asset": key.Asset.ToLower(), "tokenId": key.TokenId}
}

func (im *mongoRepo) Create(ctx ctx.Ctx, record *market.PrimarySaleRecord) error {
	doc := &recordDoc{
		Asset:          record.Asset.ToLower(),
		TokenId:        record.TokenId,
		TotalSupply:    int64(record.TotalSupply),
		RemainingUnits: int64(record.TotalSupply),
		FirstOwner:     record.FirstOwner.ToLower(),
	}
	if err := im.q.Insert(ctx, domain.TablePrimarySales, doc); err == query.ErrDuplicateKey {
		return market.ErrPrimarySaleAlreadyRecorded
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": record.Asset, "tokenId": record.TokenId}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *mongoRepo) FindOne(ctx ctx.Ctx, key market.TokenKey) (*market.PrimarySaleRecord, error) {
	doc := recordDoc{}
	if err := im.q.FindOne(ctx, domain.TablePrimarySales, recordSelector(key), &doc); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "key": key.String()}).Error("q.FindOne failed")
		return nil, err
	}
	return doc.toRecord(), nil
}

// Consume moves the cursor with a compare-and-set on the remaining units it read
func (im *mongoRepo) Consume(ctx ctx.Ctx, key market.TokenKey, amount uint64) (uint64, error) {
	for i := 0; i < consumeRetries; i++ {
		record, err := im.FindOne(ctx, key)
		if err == domain.ErrNotFound {
			return 0, nil
		} else if err != nil {
			return 0, err
		}
		if record.SoldOut || record.RemainingUnits == 0 {
			return 0, nil
		}

		taken := amount
		if taken > record.RemainingUnits {
			taken = record.RemainingUnits
		}
		left := record.RemainingUnits - taken

		sel := recordSelector(key)
		sel["remainingUnits"] = int64(record.RemainingUnits)
		sel["soldOut"] = false
		updater := bson.M{"$set": bson.M{"remainingUnits": int64(left), "soldOut": left == 0}}

		doc := recordDoc{}
		err = im.q.FindOneAndUpdate(ctx, domain.TablePrimarySales, sel, updater, false, &doc)
		if err == query.ErrNotFound {
			continue
		} else if err != nil {
			ctx.WithFields(log.Fields{"err": err, "key": key.String()}).Error("q.FindOneAndUpdate failed")
			return 0, err
		}
		return taken, nil
	}
	return 0, xerrors.Errorf("primary sale cursor %s kept moving", key.String())
}
