package cache

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/base/metrics"
	"github.com/x-xyz/gomarket/domain/keys"
	"github.com/x-xyz/gomarket/service/cache/provider"
)

var met = metrics.New("cache")

type impl struct {
	ttl         time.Duration
	pfx         string
	cache       provider.Provider
	serialize   Serializer
	deserialize Deserializer
}

func New(config ServiceConfig) Service {
	if config.Serialize == nil {
		config.Serialize = json.Marshal
	}
	if config.Deserialize == nil {
		config.Deserialize = json.Unmarshal
	}
	return &impl{
		ttl:         config.Ttl,
		pfx:         config.Pfx,
		cache:       config.Cache,
		serialize:   config.Serialize,
		deserialize: config.Deserialize,
	}
}

func (im *impl) GetByFunc(c ctx.Ctx, key string, container interface{}, getter OneTimeGetter) error {
	err := im.Get(c, key, container)
	if err == nil {
		met.BumpSum("hit", 1, "pfx", im.pfx)
		return nil
	} else if err != ErrNotFound {
		return err
	}
	met.BumpSum("miss", 1, "pfx", im.pfx)

	val, err := getter()
	if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("GetByFunc getter failed")
		return err
	}

	if err := im.Set(c, key, val); err != nil {
		// serve the fresh value anyway
		c.WithFields(log.Fields{"err": err, "key": key}).Warn("GetByFunc fill failed")
	}

	dst := reflect.ValueOf(container).Elem()
	src := reflect.ValueOf(val)
	if src.Kind() == reflect.Ptr && src.Type() != dst.Type() {
		src = src.Elem()
	}
	dst.Set(src)
	return nil
}

func (im *impl) Get(c ctx.Ctx, key string, container interface{}) error {
	key = keys.RedisKey(im.pfx, key)

	val, _, err := im.cache.Get(c, key)
	if err == provider.ErrNotFound {
		return ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("cache.Get failed")
		return err
	}
	if err := im.deserialize(val, container); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("deserialize failed")
		return err
	}
	return nil
}

func (im *impl) Set(c ctx.Ctx, key string, value interface{}) error {
	key = keys.RedisKey(im.pfx, key)

	val, err := im.serialize(value)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("serialize failed")
		return err
	}
	return im.cache.Set(c, key, val, im.ttl)
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	return im.cache.Del(c, keys.RedisKey(im.pfx, key))
}
