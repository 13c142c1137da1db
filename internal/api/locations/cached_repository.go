package locations

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

const (
	defaultCatalogCacheTTL     = 10 * time.Minute
	defaultCatalogCacheCleanup = 20 * time.Minute
)

var _ Repository = (*CachedRepository)(nil)

// CachedRepository memoizes catalog reads in front of a slower backend.
// Only successful results are cached.
type CachedRepository struct {
	next   Repository
	cache  *cache.Cache
	logger *slog.Logger
}

func NewCachedRepository(next Repository, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = defaultCatalogCacheTTL
	}
	return &CachedRepository{
		next:   next,
		cache:  cache.New(ttl, defaultCatalogCacheCleanup),
		logger: logger,
	}
}

// Flush drops every cached entry, e.g. after the backing table was reseeded.
func (r *CachedRepository) Flush() {
	r.cache.Flush()
	r.logger.Info("Location cache flushed")
}

func cached[T any](r *CachedRepository, key string, load func() (T, error)) (T, error) {
	if v, found := r.cache.Get(key); found {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	r.cache.Set(key, v, cache.DefaultExpiration)
	return v, nil
}

func cacheKey(parts ...string) string {
	return strings.ToLower(strings.Join(parts, ":"))
}

func (r *CachedRepository) All(ctx context.Context) ([]types.Location, error) {
	return cached(r, "all", func() ([]types.Location, error) { return r.next.All(ctx) })
}

func (r *CachedRepository) ByID(ctx context.Context, id string) (types.Location, error) {
	return cached(r, "id:"+id, func() (types.Location, error) { return r.next.ByID(ctx, id) })
}

func (r *CachedRepository) ByCategory(ctx context.Context, category string) ([]types.Location, error) {
	return cached(r, cacheKey("category", category), func() ([]types.Location, error) { return r.next.ByCategory(ctx, category) })
}

func (r *CachedRepository) ByPeriod(ctx context.Context, period string) ([]types.Location, error) {
	return cached(r, cacheKey("period", period), func() ([]types.Location, error) { return r.next.ByPeriod(ctx, period) })
}

func (r *CachedRepository) ByDynasty(ctx context.Context, dynasty string) ([]types.Location, error) {
	return cached(r, cacheKey("dynasty", dynasty), func() ([]types.Location, error) { return r.next.ByDynasty(ctx, dynasty) })
}

func (r *CachedRepository) Search(ctx context.Context, text string) ([]types.Location, error) {
	return cached(r, cacheKey("search", strings.TrimSpace(text)), func() ([]types.Location, error) { return r.next.Search(ctx, text) })
}

func (r *CachedRepository) Related(ctx context.Context, id string, limit int) ([]types.RelatedLocation, error) {
	return cached(r, fmt.Sprintf("related:%s:%d", id, limit), func() ([]types.RelatedLocation, error) { return r.next.Related(ctx, id, limit) })
}

func (r *CachedRepository) Themes(ctx context.Context) ([]string, error) {
	return cached(r, "themes", func() ([]string, error) { return r.next.Themes(ctx) })
}

func (r *CachedRepository) Dynasties(ctx context.Context) ([]string, error) {
	return cached(r, "dynasties", func() ([]string, error) { return r.next.Dynasties(ctx) })
}

func (r *CachedRepository) Statistics(ctx context.Context) (types.CatalogStatistics, error) {
	return cached(r, "statistics", func() (types.CatalogStatistics, error) { return r.next.Statistics(ctx) })
}
