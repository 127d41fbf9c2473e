package repository

import (
	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/base/txn"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/keys"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/service/redis"
)

type redisRepo struct {
	redis redis.Service
}

// NewRedisRepo keeps the replay set in redis so every instance sees consumed ids
func NewRedisRepo(r redis.Service) market.CollectorMintRepo {
	return &redisRepo{redis: r}
}

func usedRedisKey(artist domain.Address, collectorMintId string) string {
	return keys.RedisKey(keys.PfxCollectorMint, artist.ToLowerStr(), collectorMintId)
}

func (im *redisRepo) MarkUsed(ctx ctx.Ctx, artist domain.Address, collectorMintId string) error {
	key := usedRedisKey(artist, collectorMintId)
	ok, err := im.redis.SetNX(ctx, key, []byte("1"), redis.Forever)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "key": key}).Error("redis.SetNX failed")
		return err
	}
	if !ok {
		return market.ErrCollectorMintIdUsed
	}

	txn.OnRollback(ctx, func() {
		if _, err := im.redis.Del(ctx, key); err != nil {
			ctx.WithFields(log.Fields{"err": err, "key": key}).Error("collector mint id compensation failed")
		}
	})
	return nil
}

func (im *redisRepo) IsUsed(ctx ctx.Ctx, artist domain.Address, collectorMintId string) (bool, error) {
	key := usedRedisKey(artist, collectorMintId)
	ok, err := im.redis.Exists(ctx, key)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "key": key}).Error("redis.Exists failed")
		return false, err
	}
	return ok, nil
}
