package geo

import (
	"context"
	"errors"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/cache"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

// LocationCache は解決済みの地域を保持するキャッシュです
type LocationCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CachedResolver は別のResolverの結果をキャッシュします
// 空の結果はキャッシュしません
type CachedResolver struct {
	inner service.GeoResolver
	cache LocationCache
	ttl   time.Duration
}

// NewCachedResolver は新しいCachedResolverを作成します
func NewCachedResolver(inner service.GeoResolver, c LocationCache, ttl time.Duration) *CachedResolver {
	return &CachedResolver{inner: inner, cache: c, ttl: ttl}
}

type cachedLocation struct {
	Country string `json:"country"`
	State   string `json:"state"`
}

// Resolve はキャッシュを参照し、無ければ内側のResolverで解決します
func (r *CachedResolver) Resolve(ctx context.Context, ip string) service.Location {
	if ip == "" || IsLocal(ip) {
		return r.inner.Resolve(ctx, ip)
	}

	var hit cachedLocation
	err := r.cache.Get(ctx, ip, &hit)
	if err == nil {
		return service.Location{Country: hit.Country, State: hit.State}
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warn(ctx, "geo cache read failed", "error", err)
	}

	loc := r.inner.Resolve(ctx, ip)
	if loc.Country == "" && loc.State == "" {
		return loc
	}
	if err := r.cache.Set(ctx, ip, cachedLocation{Country: loc.Country, State: loc.State}, r.ttl); err != nil {
		logger.Warn(ctx, "geo cache write failed", "error", err)
	}
	return loc
}

var (
	_ service.GeoResolver = (*CachedResolver)(nil)
	_ LocationCache       = (*cache.Cache)(nil)
)
