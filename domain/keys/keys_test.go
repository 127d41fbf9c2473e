package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedisKey(t *testing.T) {
	req := require.New(t)
	req.Equal("primarySale:0xabc:1", RedisKey(PfxPrimarySale, "0xabc", "1"))
	req.Equal("{primarySale:0xabc:1}", RedisLuaKey(PfxPrimarySale, "0xabc", "1"))
}

func TestGetPrefix(t *testing.T) {
	req := require.New(t)
	req.Equal("", GetPrefix("plain"))
	req.Equal("nonce", GetPrefix("nonce:0xabc"))
	req.Equal("primarySale:0xabc", GetPrefix("{primarySale:0xabc:1}"))
	req.Equal("collectorMint:0xabc", GetPrefix("collectorMint:0xabc:9"))
}
