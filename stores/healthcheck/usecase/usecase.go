package usecase

import (
	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/metrics"
	hcdomain "github.com/x-xyz/gomarket/domain/healthcheck"
)

type impl struct {
	repo hcdomain.HealthCheckRepo
	met  metrics.Service
}

func New(repo hcdomain.HealthCheckRepo) hcdomain.HealthCheckUsecase {
	return &impl{
		repo: repo,
		met:  metrics.New("healthcheck"),
	}
}

func (im *impl) Check(context ctx.Ctx) error {
	if err := im.repo.PingDB(context); err != nil {
		im.met.BumpSum("unhealthy", 1)
		return err
	}
	return nil
}
