package keys

import (
	"strings"
)

const (
	// PfxHealthCheck is used for prefixing health check redis key
	PfxHealthCheck = "healthcheck"
	// PfxNonce is used for prefixing login nonce redis key
	PfxNonce = "nonce"
	// PfxPrimarySale is used for prefixing the shared primary sale cursor
	PfxPrimarySale = "primarySale"
	// PfxCollectorMint is used for prefixing consumed collector mint ids
	PfxCollectorMint = "collectorMint"
	// PfxArtistWhitelist is used for prefixing cached whitelist lookups
	PfxArtistWhitelist = "artistWhitelist"
)

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}

// RedisLuaKey is used to join the redis key by componets for redis lua
// If a key created by RedisLuaKey prefix to a set of keys
// then the set of keys will be forced in the same shard for doing lua
func RedisLuaKey(components ...string) string {
	return "{" + CustomKey(":", components...) + "}"
}

// GetPrefix extracts the metric prefix of a key, at most two components
func GetPrefix(key string) string {
	key = strings.TrimPrefix(key, "{")
	s := strings.Split(key, ":")
	if len(s) > 2 {
		return strings.TrimSuffix(strings.Join([]string{s[0], s[1]}, ":"), "}")
	} else if len(s) > 1 {
		return strings.TrimSuffix(s[0], "}")
	}
	return ""
}
