package cache

import "fmt"

// KeyPrefix はRedisキーのプレフィックスを定義します
type KeyPrefix string

const (
	PrefixJWTBlacklist KeyPrefix = "jwt:blacklist" // jwt:blacklist:{jti}
	PrefixRateLimit    KeyPrefix = "ratelimit"     // ratelimit:{type}:{identifier}
	PrefixCache        KeyPrefix = "cache"         // cache:{namespace}:{key}
)

// キャッシュの名前空間
const (
	NamespaceGeo = "geo" // cache:geo:{ip}
)

// JWTBlacklistKey はJWTブラックリストキーを生成します
func JWTBlacklistKey(jti string) string {
	return fmt.Sprintf("%s:%s", PrefixJWTBlacklist, jti)
}

// RateLimitKey はレート制限キーを生成します
func RateLimitKey(limitType, identifier string) string {
	return fmt.Sprintf("%s:%s:%s", PrefixRateLimit, limitType, identifier)
}

// CacheKey は汎用キャッシュキーを生成します
func CacheKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", PrefixCache, namespace, key)
}
