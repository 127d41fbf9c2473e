package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/service/query"
)

var Indexes = []query.Index{
	{Table: domain.TableCollectorMints, Keys: []string{"artist", "collectorMintId"}},
}

type usedDoc struct {
	Artist          domain.Address `bson:"artist"`
	CollectorMintId string         `bson:"collectorMintId"`
	UsedAt          time.Time      `bson:"usedAt"`
}

type mongoRepo struct {
	q query.Mongo
}

// NewMongoRepo relies on the unique index of Indexes to reject a reused id
func NewMongoRepo(q query.Mongo) market.CollectorMintRepo {
	return &mongoRepo{q}
}

func (im *mongoRepo) MarkUsed(ctx ctx.Ctx, artist domain.Address, collectorMintId string) error {
	doc := &usedDoc{Artist: artist.ToLower(), CollectorMintId: collectorMintId, UsedAt: time.Now()}
	if err := im.q.Insert(ctx, domain.TableCollectorMints, doc); err == query.ErrDuplicateKey {
		return market.ErrCollectorMintIdUsed
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "artist": artist, "collectorMintId": collectorMintId}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *mongoRepo) IsUsed(ctx ctx.Ctx, artist domain.Address, collectorMintId string) (bool, error) {
	n, err := im.q.Count(ctx, domain.TableCollectorMints, bson.M{"artist": artist.ToLower(), "collectorMintId": collectorMintId})
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "artist": artist}).Error("q.Count failed")
		return false, err
	}
	return n > 0, nil
}
