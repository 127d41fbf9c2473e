package healthcheck

import (
	"github.com/x-xyz/gomarket/base/ctx"
)

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	Check(context ctx.Ctx) error
}

// HealthCheckRepo pings the configured backends
type HealthCheckRepo interface {
	PingDB(context ctx.Ctx) error
}
