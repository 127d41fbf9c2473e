package cache

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/domain/keys"
	"github.com/x-xyz/gomarket/service/cache/provider"
	"github.com/x-xyz/gomarket/service/cache/provider/primitive"
)

var (
	mockCtx = ctx.Background()
)

type value struct {
	Value string `json:"value"`
}

type testsuite struct {
	suite.Suite
	im    *impl
	cache provider.Provider
}

func (ts *testsuite) SetupTest() {
	ts.cache = primitive.NewPrimitive("test", 1)
	ts.im = New(ServiceConfig{
		Ttl:   time.Minute,
		Pfx:   "testing",
		Cache: ts.cache,
	}).(*impl)
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestGet() {
	k := "key"
	v := value{"value"}
	c := &value{}

	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, k, c))

	sv, err := json.Marshal(v)
	ts.Require().NoError(err)
	ts.Require().NoError(ts.cache.Set(mockCtx, keys.RedisKey(ts.im.pfx, k), sv, time.Minute))
	ts.NoError(ts.im.Get(mockCtx, k, c))
	ts.Equal(v, *c)
}

func (ts *testsuite) TestSetDel() {
	k := "key"
	v := value{"value"}
	c := &value{}

	ts.NoError(ts.im.Set(mockCtx, k, v))
	ts.NoError(ts.im.Get(mockCtx, k, c))
	ts.Equal(v, *c)

	ts.NoError(ts.im.Del(mockCtx, k))
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, k, c))
}

func (ts *testsuite) TestGetByFunc() {
	calls := 0
	getter := func() (interface{}, error) {
		calls++
		res := true
		return &res, nil
	}

	var got bool
	ts.NoError(ts.im.GetByFunc(mockCtx, "artist", &got, getter))
	ts.True(got)
	got = false
	ts.NoError(ts.im.GetByFunc(mockCtx, "artist", &got, getter))
	ts.True(got)
	ts.Equal(1, calls)

	var plain value
	ts.NoError(ts.im.GetByFunc(mockCtx, "plain", &plain, func() (interface{}, error) {
		return value{"v"}, nil
	}))
	ts.Equal(value{"v"}, plain)

	boom := errors.New("boom")
	ts.Equal(boom, ts.im.GetByFunc(mockCtx, "fail", &plain, func() (interface{}, error) {
		return nil, boom
	}))
}
