package redis

import (
	"errors"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/gomarket/base/ctx"
)

const (
	// Forever means the key never expires
	Forever = time.Duration(-1)
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis: key not found")
	// ErrNoPool is returned when the service has no pool to serve a command
	ErrNoPool = errors.New("redis: no pool")
)

// Service is the subset of redis commands the market needs
type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	// SetNX reports whether the key was set
	SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) (bool, error)
	Del(context ctx.Ctx, keys ...string) (int, error)
	Exists(context ctx.Ctx, key string) (bool, error)
	// TTL returns the remaining time to live in seconds
	TTL(context ctx.Ctx, key string) (int, error)
	Incrby(context ctx.Ctx, key string, val int) (int64, error)
	HGetAll(context ctx.Ctx, key string) (map[string][]byte, error)
	ScriptDo(context ctx.Ctx, hdl *ScriptHdl, keysAndArgs ...interface{}) (interface{}, error)
	Ping(context ctx.Ctx) error
	Name() string
}

// ScriptHdl is a named lua script, the name is used as metric prefix
type ScriptHdl struct {
	name   string
	script *redis.Script
}

// NewScriptHdl loads src as a lua script taking keyCount keys
func NewScriptHdl(name string, keyCount int, src string) *ScriptHdl {
	return &ScriptHdl{
		name:   name,
		script: redis.NewScript(keyCount, src),
	}
}

func (h *ScriptHdl) Name() string {
	return h.name
}

// Do runs the script with EVALSHA and falls back to EVAL
func (h *ScriptHdl) Do(conn redis.Conn, keysAndArgs ...interface{}) (interface{}, error) {
	reply, err := h.script.Do(conn, keysAndArgs...)
	if err == redis.ErrNil {
		return nil, ErrNotFound
	}
	return reply, err
}
