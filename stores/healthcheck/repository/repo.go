package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/xerrors"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/database/mongoclient"
	hcdomain "github.com/x-xyz/gomarket/domain/healthcheck"
	"github.com/x-xyz/gomarket/domain/keys"
	"github.com/x-xyz/gomarket/service/redis"
)

const pingTimeout = 2 * time.Second

type impl struct {
	mgoClient *mongoclient.Client
	redis     redis.Service
}

// New pings mongo and redis when they are configured, nil backends are skipped
func New(
	mgoClient *mongoclient.Client,
	redis redis.Service,
) hcdomain.HealthCheckRepo {
	return &impl{
		mgoClient: mgoClient,
		redis:     redis,
	}
}

func (im *impl) PingDB(context ctx.Ctx) error {
	c, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if im.mgoClient != nil {
		if err := im.mgoClient.Ping(c, readpref.Primary()); err != nil {
			context.WithField("err", err).Error("ping mongo error")
			return xerrors.Errorf("mongo: %w", err)
		}
	}

	if im.redis != nil {
		if err := im.redis.Set(c, keys.RedisKey(keys.PfxHealthCheck, "testset"), []byte("1"), 30*time.Second); err != nil {
			context.WithField("err", err).Error("test redis set failed")
			return xerrors.Errorf("redis: %w", err)
		}
	}
	return nil
}
