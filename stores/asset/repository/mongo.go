package repository

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/service/query"
)

// Indexes of the custody tables
var Indexes = []query.Index{
	{Table: domain.TableAssetContracts, Keys: []string{"address"}},
	{Table: domain.TableHoldings, Keys: []string{"asset", "tokenId", "owner"}},
	{Table: domain.TableApprovals, Keys: []string{"asset", "owner", "operator"}},
	{Table: domain.TableTokenRoyalties, Keys: []string{"asset", "tokenId"}},
}

type holdingDoc struct {
	Asset   domain.Address `bson:"asset"`
	TokenId domain.TokenId `bson:"tokenId"`
	Owner   domain.Address `bson:"owner"`
	Balance int64          `bson:"balance"`
}

type royaltyDoc struct {
	Asset   domain.Address     `bson:"asset"`
	TokenId domain.TokenId     `bson:"tokenId"`
	Royalty market.RoyaltyInfo `bson:"royalty"`
}

type mongoRepo struct {
	q query.Mongo
}

func NewMongoRepo(q query.Mongo) market.AssetRepo {
	return &mongoRepo{q}
}

func (im *mongoRepo) FindContract(ctx ctx.Ctx, asset domain.Address) (*market.AssetContract, error) {
	res := &market.AssetContract{}
	if err := im.q.FindOne(ctx, domain.TableAssetContracts, bson.M{"address": asset.ToLower()}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": asset}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *mongoRepo) InsertContract(ctx ctx.Ctx, contract *market.AssetContract) error {
	doc := *contract
	doc.Address = doc.Address.ToLower()
	if err := im.q.Insert(ctx, domain.TableAssetContracts, &doc); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": contract.Address}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *mongoRepo) NextTokenId(ctx ctx.Ctx, asset domain.Address) (domain.TokenId, error) {
	res := &market.AssetContract{}
	err := im.q.FindOneAndUpdate(ctx, domain.TableAssetContracts, bson.M{"address": asset.ToLower()}, bson.M{"$inc": bson.M{"minted": 1}}, false, res)
	if err == query.ErrNotFound {
		return "", domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": asset}).Error("q.FindOneAndUpdate failed")
		return "", err
	}
	return domain.TokenId(strconv.FormatUint(res.Minted, 10)), nil
}

func holdingSelector(asset domain.Address, tokenId domain.TokenId, owner domain.Address) bson.M {
	return bson.M{"asset": asset.ToLower(), "tokenId": tokenId, "owner": owner.ToLower()}
}

func (im *mongoRepo) FindHoldings(ctx ctx.Ctx, asset domain.Address, tokenId domain.TokenId) ([]market.Holding, error) {
	docs := []holdingDoc{}
	query := bson.M{"asset": asset.ToLower(), "tokenId": tokenId, "balance": bson.M{"$gt": 0}}
	if err := im.q.Search(ctx, domain.TableHoldings, 0, 0, "owner", query, &docs); err != nil {
		ctx.WithFields(log.Fields{"err": err, "query": query}).Error("q.Search failed")
		return nil, err
	}
	res := make([]market.Holding, 0, len(docs))
	for _, d := range docs {
		res = append(res, market.Holding{Asset: d.Asset, TokenId: d.TokenId, Owner: d.Owner, Balance: uint64(d.Balance)})
	}
	return res, nil
}

func (im *mongoRepo) Balance(ctx ctx.Ctx, asset domain.Address, tokenId domain.TokenId, owner domain.Address) (uint64, error) {
	doc := holdingDoc{}
	if err := im.q.FindOne(ctx, domain.TableHoldings, holdingSelector(asset, tokenId, owner), &doc); err == query.ErrNotFound {
		return 0, nil
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": asset, "tokenId": tokenId, "owner": owner}).Error("q.FindOne failed")
		return 0, err
	}
	return uint64(doc.Balance), nil
}

func (im *mongoRepo) AddBalance(ctx ctx.Ctx, asset domain.Address, tokenId domain.TokenId, owner domain.Address, delta int64) error {
	if delta == 0 {
		return nil
	}
	sel := holdingSelector(asset, tokenId, owner)
	if delta > 0 {
		if err := im.q.CustomPatch(ctx, domain.TableHoldings, sel, bson.M{"$inc": bson.M{"balance": delta}}, true); err != nil {
			ctx.WithFields(log.Fields{"err": err, "selector": sel}).Error("q.CustomPatch failed")
			return err
		}
		return nil
	}

	sel["balance"] = bson.M{"$gte": -delta}
	doc := holdingDoc{}
	if err := im.q.FindOneAndUpdate(ctx, domain.TableHoldings, sel, bson.M{"$inc": bson.M{"balance": delta}}, false, &doc); err == query.ErrNotFound {
		return market.ErrNotOwner
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "selector": sel}).Error("q.FindOneAndUpdate failed")
		return err
	}
	return nil
}

func approvalSelector(asset domain.Address, owner, operator domain.Address) bson.M {
	return bson.M{"asset": asset.ToLower(), "owner": owner.ToLower(), "operator": operator.ToLower()}
}

func (im *mongoRepo) IsApprovedForAll(ctx ctx.Ctx, asset domain.Address, owner, operator domain.Address) (bool, error) {
	doc := struct {
		Approved bool `bson:"approved"`
	}{}
	if err := im.q.FindOne(ctx, domain.TableApprovals, approvalSelector(asset, owner, operator), &doc); err == query.ErrNotFound {
		return false, nil
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": asset, "owner": owner}).Error("q.FindOne failed")
		return false, err
	}
	return doc.Approved, nil
}

func (im *mongoRepo) SetApprovalForAll(ctx ctx.Ctx, asset domain.Address, owner, operator domain.Address, approved bool) error {
	sel := approvalSelector(asset, owner, operator)
	if err := im.q.CustomPatch(ctx, domain.TableApprovals, sel, bson.M{"$set": bson.M{"approved": approved}}, true); err != nil {
		ctx.WithFields(log.Fields{"err": err, "selector": sel}).Error("q.CustomPatch failed")
		return err
	}
	return nil
}

func (im *mongoRepo) SaveRoyalty(ctx ctx.Ctx, asset domain.Address, tokenId domain.TokenId, royalty *market.RoyaltyInfo) error {
	sel := bson.M{"asset": asset.ToLower(), "tokenId": tokenId}
	doc := royaltyDoc{Asset: asset.ToLower(), TokenId: tokenId, Royalty: *royalty}
	if err := im.q.Upsert(ctx, domain.TableTokenRoyalties, sel, &doc); err != nil {
		ctx.WithFields(log.Fields{"err": err, "selector": sel}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (im *mongoRepo) FindRoyalty(ctx ctx.Ctx, asset domain.Address, tokenId domain.TokenId) (*market.RoyaltyInfo, error) {
	doc := royaltyDoc{}
	if err := im.q.FindOne(ctx, domain.TableTokenRoyalties, bson.M{"asset": asset.ToLower(), "tokenId": tokenId}, &doc); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": asset, "tokenId": tokenId}).Error("q.FindOne failed")
		return nil, err
	}
	return &doc.Royalty, nil
}
