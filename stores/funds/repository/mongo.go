package repository

import (
	"math/big"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/database/mongoclient"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/service/query"
)

// accountDoc keeps amounts as decimal128 so $inc stays exact for wei sized values
type accountDoc struct {
	Address         domain.Address       `bson:"address"`
	Balance         primitive.Decimal128 `bson:"balance"`
	Pending         primitive.Decimal128 `bson:"pending"`
	RejectsPayments bool                 `bson:"rejectsPayments"`
}

func (d *accountDoc) toAccount() (*market.Account, error) {
	balance, err := mongoclient.FromDecimal128(d.Balance)
	if err != nil {
		return nil, err
	}
	pending, err := mongoclient.FromDecimal128(d.Pending)
	if err != nil {
		return nil, err
	}
	return &market.Account{
		Address:         d.Address,
		Balance:         balance,
		Pending:         pending,
		RejectsPayments: d.RejectsPayments,
	}, nil
}

type mongoRepo struct {
	q query.Mongo
}

func NewMongoRepo(q query.Mongo) market.AccountRepo {
	return &mongoRepo{q}
}

func selector(address domain.Address) bson.M {
	return bson.M{"address": address.ToLower()}
}

func (im *mongoRepo) FindOne(ctx ctx.Ctx, address domain.Address) (*market.Account, error) {
	doc := accountDoc{}
	if err := im.q.FindOne(ctx, domain.TableBalances, selector(address), &doc); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": address}).Error("q.FindOne failed")
		return nil, err
	}
	return doc.toAccount()
}

func (im *mongoRepo) inc(ctx ctx.Ctx, address domain.Address, field string, delta *big.Int) error {
	if delta.Sign() == 0 {
		return nil
	}
	d, err := mongoclient.ToDecimal128(delta)
	if err != nil {
		return err
	}

	if delta.Sign() > 0 {
		zero, _ := primitive.ParseDecimal128("0")
		other := "pending"
		if field == "pending" {
			other = "balance"
		}
		updater := bson.M{
			"$inc":         bson.M{field: d},
			"$setOnInsert": bson.M{other: zero, "rejectsPayments": false},
		}
		if err := im.q.CustomPatch(ctx, domain.TableBalances, selector(address), updater, true); err != nil {
			ctx.WithFields(log.Fields{"err": err, "address": address, "field": field}).Error("q.CustomPatch failed")
			return err
		}
		return nil
	}

	// only take what is there
	abs, err := mongoclient.ToDecimal128(new(big.Int).Neg(delta))
	if err != nil {
		return err
	}
	sel := selector(address)
	sel[field] = bson.M{"$gte": abs}
	doc := accountDoc{}
	if err := im.q.FindOneAndUpdate(ctx, domain.TableBalances, sel, bson.M{"$inc": bson.M{field: d}}, false, &doc); err == query.ErrNotFound {
		return market.ErrInsufficientFunds
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": address, "field": field}).Error("q.FindOneAndUpdate failed")
		return err
	}
	return nil
}

func (im *mongoRepo) AddBalance(ctx ctx.Ctx, address domain.Address, delta *big.Int) error {
	return im.inc(ctx, address, "balance", delta)
}

func (im *mongoRepo) AddPending(ctx ctx.Ctx, address domain.Address, delta *big.Int) error {
	return im.inc(ctx, address, "pending", delta)
}

func (im *mongoRepo) TakePending(ctx ctx.Ctx, address domain.Address) (*big.Int, error) {
	account, err := im.FindOne(ctx, address)
	if err == domain.ErrNotFound {
		return new(big.Int), nil
	} else if err != nil {
		return nil, err
	}
	if account.Pending.Sign() == 0 {
		return account.Pending, nil
	}
	if err := im.AddPending(ctx, address, new(big.Int).Neg(account.Pending)); err != nil {
		return nil, err
	}
	return account.Pending, nil
}

func (im *mongoRepo) SetRejectsPayments(ctx ctx.Ctx, address domain.Address, rejects bool) error {
	zero, _ := primitive.ParseDecimal128("0")
	updater := bson.M{
		"$set":         bson.M{"rejectsPayments": rejects},
		"$setOnInsert": bson.M{"balance": zero, "pending": zero},
	}
	if err := im.q.CustomPatch(ctx, domain.TableBalances, selector(address), updater, true); err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": address}).Error("q.CustomPatch failed")
		return err
	}
	return nil
}
