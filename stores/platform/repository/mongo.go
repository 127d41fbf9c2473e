package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/service/query"
)

var Indexes = []query.Index{
	{Table: domain.TableArtistWhitelist, Keys: []string{"artist"}},
}

type mongoRepo struct {
	q query.Mongo
}

func NewMongoRepo(q query.Mongo) market.ArtistWhitelistRepo {
	return &mongoRepo{q}
}

func (im *mongoRepo) Has(ctx ctx.Ctx, artist domain.Address) (bool, error) {
	n, err := im.q.Count(ctx, domain.TableArtistWhitelist, bson.M{"artist": artist.ToLower()})
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "artist": artist}).Error("q.Count failed")
		return false, err
	}
	return n > 0, nil
}

func (im *mongoRepo) Add(ctx ctx.Ctx, artist domain.Address) error {
	sel := bson.M{"artist": artist.ToLower()}
	if err := im.q.Upsert(ctx, domain.TableArtistWhitelist, sel, sel); err != nil {
		ctx.WithFields(log.Fields{"err": err, "artist": artist}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (im *mongoRepo) Remove(ctx ctx.Ctx, artist domain.Address) error {
	if err := im.q.Remove(ctx, domain.TableArtistWhitelist, bson.M{"artist": artist.ToLower()}); err != nil && err != query.ErrNotFound {
		ctx.WithFields(log.Fields{"err": err, "artist": artist}).Error("q.Remove failed")
		return err
	}
	return nil
}
