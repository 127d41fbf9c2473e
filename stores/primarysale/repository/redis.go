package repository

import (
	"strconv"

	"golang.org/x/xerrors"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/base/txn"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/keys"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/service/redis"
)

const (
	fieldAsset      = "asset"
	fieldTokenId    = "tokenId"
	fieldTotal      = "totalSupply"
	fieldRemaining  = "remaining"
	fieldFirstOwner = "firstOwner"
	fieldSoldOut    = "soldOut"
)

var (
	// KEYS[1] record, ARGV asset, tokenId, totalSupply, firstOwner
	createScript = redis.NewScriptHdl("primarysale.create", 1, `
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'asset', ARGV[1], 'tokenId', ARGV[2], 'totalSupply', ARGV[3], 'remaining', ARGV[3], 'firstOwner', ARGV[4], 'soldOut', '0')
return 1
`)

	// KEYS[1] record, ARGV amount. Returns the units taken. Lua numbers are
	// doubles, so supplies stay at or below 2^53.
	consumeScript = redis.NewScriptHdl("primarysale.consume", 1, `
local remaining = tonumber(redis.call('HGET', KEYS[1], 'remaining'))
if remaining == nil or remaining == 0 then
	return 0
end
local take = tonumber(ARGV[1])
if take > remaining then
	take = remaining
end
remaining = remaining - take
redis.call('HSET', KEYS[1], 'remaining', remaining)
if remaining == 0 then
	redis.call('HSET', KEYS[1], 'soldOut', '1')
end
return take
`)

	// KEYS[1] record, ARGV units to give back
	restoreScript = redis.NewScriptHdl("primarysale.restore", 1, `
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HINCRBY', KEYS[1], 'remaining', ARGV[1])
redis.call('HSET', KEYS[1], 'soldOut', '0')
return 1
`)
)

type redisRepo struct {
	redis redis.Service
}

// NewRedisRepo shares primary sale cursors between every market instance
func NewRedisRepo(r redis.Service) market.PrimarySaleRepo {
	return &redisRepo{redis: r}
}

func recordKey(key market.TokenKey) string {
	return keys.RedisLuaKey(keys.PfxPrimarySale, key.Asset.ToLowerStr(), key.TokenId.String())
}

func toInt64(reply interface{}) (int64, error) {
	switch v := reply.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, xerrors.Errorf("unexpected script reply %T", reply)
	}
}

func (im *redisRepo) Create(ctx ctx.Ctx, record *market.PrimarySaleRecord) error {
	key := record.ToKey()
	rk := recordKey(key)

	reply, err := im.redis.ScriptDo(ctx, createScript, rk, key.Asset.ToLowerStr(), key.TokenId.String(), strconv.FormatUint(record.TotalSupply, 10), record.FirstOwner.ToLowerStr())
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "key": rk}).Error("redis.ScriptDo create failed")
		return err
	}
	created, err := toInt64(reply)
	if err != nil {
		return err
	}
	if created == 0 {
		return market.ErrPrimarySaleAlreadyRecorded
	}

	txn.OnRollback(ctx, func() {
		if _, err := im.redis.Del(ctx, rk); err != nil {
			ctx.WithFields(log.Fields{"err": err, "key": rk}).Error("primary sale create compensation failed")
		}
	})
	return nil
}

func (im *redisRepo) FindOne(ctx ctx.Ctx, key market.TokenKey) (*market.PrimarySaleRecord, error) {
	rk := recordKey(key)
	vals, err := im.redis.HGetAll(ctx, rk)
	if err == redis.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "key": rk}).Error("redis.HGetAll failed")
		return nil, err
	}

	total, err := strconv.ParseUint(string(vals[fieldTotal]), 10, 64)
	if err != nil {
		return nil, xerrors.Errorf("bad %s of %s: %w", fieldTotal, rk, err)
	}
	remaining, err := strconv.ParseUint(string(vals[fieldRemaining]), 10, 64)
	if err != nil {
		return nil, xerrors.Errorf("bad %s of %s: %w", fieldRemaining, rk, err)
	}
	return &market.PrimarySaleRecord{
		Asset:          domain.Address(vals[fieldAsset]),
		TokenId:        domain.TokenId(vals[fieldTokenId]),
		TotalSupply:    total,
		RemainingUnits: remaining,
		FirstOwner:     domain.Address(vals[fieldFirstOwner]),
		SoldOut:        string(vals[fieldSoldOut]) == "1",
	}, nil
}

func (im *redisRepo) Consume(ctx ctx.Ctx, key market.TokenKey, amount uint64) (uint64, error) {
	rk := recordKey(key)
	reply, err := im.redis.ScriptDo(ctx, consumeScript, rk, strconv.FormatUint(amount, 10))
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "key": rk}).Error("redis.ScriptDo consume failed")
		return 0, err
	}
	taken, err := toInt64(reply)
	if err != nil {
		return 0, err
	}
	if taken == 0 {
		return 0, nil
	}

	txn.OnRollback(ctx, func() {
		if _, err := im.redis.ScriptDo(ctx, restoreScript, rk, strconv.FormatInt(taken, 10)); err != nil {
			ctx.WithFields(log.Fields{"err": err, "key": rk, "units": taken}).Error("primary sale consume compensation failed")
		}
	})
	return uint64(taken), nil
}
