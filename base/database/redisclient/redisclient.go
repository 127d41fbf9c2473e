package redisclient

import (
	"math/rand"
	"runtime"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/gomarket/base/log"
)

const (
	dialTimeout  = 2 * time.Second
	readTimeout  = 1500 * time.Millisecond
	writeTimeout = 1500 * time.Millisecond
	dialRetries  = 3
)

// Config of a redis pool, loaded from the redis section of the config file
type Config struct {
	URI            string  `mapstructure:"uri"`
	Password       string  `mapstructure:"password"`
	PoolMultiplier float64 `mapstructure:"pool_multiplier"`
	Retry          bool    `mapstructure:"retry"`
}

// MustConnect panics if the connection fails
func MustConnect(cfg Config) *redis.Pool {
	p, err := Connect(cfg)
	if err != nil {
		log.Log().WithFields(log.Fields{"redisURI": cfg.URI, "err": err}).Panic("fail to dial Redis")
	}
	return p
}

// Connect builds a pool and checks one connection with PING
func Connect(cfg Config) (*redis.Pool, error) {
	maxIdle, maxActive := 200, 1024
	if cfg.PoolMultiplier > 0 {
		cpu := float64(runtime.NumCPU())
		maxIdle = int(cpu * cfg.PoolMultiplier / 4)
		maxActive = int(cpu * cfg.PoolMultiplier)
	}

	opts := []redis.DialOption{
		redis.DialConnectTimeout(dialTimeout),
		redis.DialReadTimeout(readTimeout),
		redis.DialWriteTimeout(writeTimeout),
	}
	if cfg.Password != "" {
		opts = append(opts, redis.DialPassword(cfg.Password))
	}
	p := &redis.Pool{
		MaxIdle:     maxIdle,
		MaxActive:   maxActive,
		Wait:        true,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", cfg.URI, opts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Second {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}

	var err error
	for i := 0; i <= dialRetries; i++ {
		if i > 0 {
			if !cfg.Retry {
				break
			}
			time.Sleep(time.Second + time.Duration(rand.Intn(1000))*time.Millisecond)
		}
		if err = ping(p); err == nil {
			break
		}
		log.Log().WithFields(log.Fields{"redisURI": cfg.URI, "err": err, "retry": i}).Error("fail to dial Redis")
	}
	if err != nil {
		return nil, err
	}

	log.Log().WithField("redisURI", cfg.URI).Info("redis connected")
	return p, nil
}

func ping(p *redis.Pool) error {
	c, err := p.Dial()
	if err != nil {
		return err
	}
	defer c.Close()
	_, err = c.Do("PING")
	return err
}
