package primitive

import (
	"testing"
	"time"

	"github.com/coocood/freecache"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/service/cache/provider"
)

var (
	mockCtx = ctx.Background()
)

type testsuite struct {
	suite.Suite
	im *impl
}

func (ts *testsuite) SetupTest() {
	ts.im = NewPrimitive("test", 1).(*impl)
}

func (ts *testsuite) TearDownTest() {
	ts.im.cache.Clear()
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestSetGet() {
	k := "whitelist:0xabc"
	v := []byte("true")

	ts.NoError(ts.im.Set(mockCtx, k, v, time.Minute))
	r, ttl, err := ts.im.Get(mockCtx, k)
	ts.NoError(err)
	ts.Equal(v, r)
	ts.True(ttl > 0 && ttl <= time.Minute+time.Second)
}

func (ts *testsuite) TestNoExpiry() {
	ts.NoError(ts.im.Set(mockCtx, "k", []byte("v"), 0))
	_, ttl, err := ts.im.Get(mockCtx, "k")
	ts.NoError(err)
	ts.Equal(time.Duration(0), ttl)
}

func (ts *testsuite) TestMissAndDel() {
	_, _, err := ts.im.Get(mockCtx, "missing")
	ts.Equal(provider.ErrNotFound, err)

	ts.NoError(ts.im.Set(mockCtx, "k", []byte("v"), time.Minute))
	ts.NoError(ts.im.Del(mockCtx, "k"))
	_, err = ts.im.cache.Get([]byte("k"))
	ts.Equal(freecache.ErrNotFound, err)
}
