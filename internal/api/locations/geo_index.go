package locations

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/go-redis/redis/v8"

	"github.com/FACorreiaa/go-heritage-routes/internal/geo"
	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

// GeoHit is one result of a radius query, closest first.
type GeoHit struct {
	ID         string
	DistanceKm float64
}

// GeoIndex answers "what is near this point" over the catalog.
type GeoIndex interface {
	Index(ctx context.Context, locs []types.Location) error
	Nearby(ctx context.Context, center types.Coordinate, radiusKm float64) ([]GeoHit, error)
}

var _ GeoIndex = (*MemoryGeoIndex)(nil)

// MemoryGeoIndex scans every indexed point. Good enough for a catalog of a few hundred sites.
type MemoryGeoIndex struct {
	mu     sync.RWMutex
	points map[string]types.Coordinate
}

func NewMemoryGeoIndex() *MemoryGeoIndex {
	return &MemoryGeoIndex{points: make(map[string]types.Coordinate)}
}

func (g *MemoryGeoIndex) Index(_ context.Context, locs []types.Location) error {
	points := make(map[string]types.Coordinate, len(locs))
	for _, loc := range locs {
		points[loc.ID] = loc.Coordinates
	}
	g.mu.Lock()
	g.points = points
	g.mu.Unlock()
	return nil
}

func (g *MemoryGeoIndex) Nearby(_ context.Context, center types.Coordinate, radiusKm float64) ([]GeoHit, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	hits := make([]GeoHit, 0)
	for id, c := range g.points {
		if d := geo.Distance(center, c); d <= radiusKm {
			hits = append(hits, GeoHit{ID: id, DistanceKm: d})
		}
	}
	sortHits(hits)
	return hits, nil
}

// RedisGeoClient is the subset of *redis.Client used by RedisGeoIndex.
type RedisGeoClient interface {
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	GeoAdd(ctx context.Context, key string, geoLocation ...*redis.GeoLocation) *redis.IntCmd
	GeoRadius(ctx context.Context, key string, longitude, latitude float64, query *redis.GeoRadiusQuery) *redis.GeoLocationCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

var _ GeoIndex = (*RedisGeoIndex)(nil)

// radiusSlack widens the Redis query slightly; Redis uses a larger earth radius than
// geo.Distance so its distances run a little long. Hits are re-checked locally.
const radiusSlack = 1.001

// RedisGeoIndex keeps the catalog in a Redis GEO set. Redis returns candidates and the
// reported distance is recomputed with geo.Distance so both backends agree.
type RedisGeoIndex struct {
	client RedisGeoClient
	key    string
	logger *slog.Logger

	mu     sync.RWMutex
	points map[string]types.Coordinate
}

func NewRedisGeoIndex(client RedisGeoClient, key string, logger *slog.Logger) *RedisGeoIndex {
	return &RedisGeoIndex{
		client: client,
		key:    key,
		logger: logger,
		points: make(map[string]types.Coordinate),
	}
}

// Ping checks the Redis connection.
func (g *RedisGeoIndex) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

func (g *RedisGeoIndex) Index(ctx context.Context, locs []types.Location) error {
	if err := g.client.Del(ctx, g.key).Err(); err != nil {
		return fmt.Errorf("failed to reset geo key %s: %w", g.key, err)
	}
	points := make(map[string]types.Coordinate, len(locs))
	if len(locs) > 0 {
		members := make([]*redis.GeoLocation, 0, len(locs))
		for _, loc := range locs {
			members = append(members, &redis.GeoLocation{
				Name:      loc.ID,
				Longitude: loc.Coordinates.Lng,
				Latitude:  loc.Coordinates.Lat,
			})
			points[loc.ID] = loc.Coordinates
		}
		if err := g.client.GeoAdd(ctx, g.key, members...).Err(); err != nil {
			return fmt.Errorf("failed to index locations in %s: %w", g.key, err)
		}
	}

	g.mu.Lock()
	g.points = points
	g.mu.Unlock()
	g.logger.InfoContext(ctx, "Geo index rebuilt", slog.String("key", g.key), slog.Int("locations", len(locs)))
	return nil
}

func (g *RedisGeoIndex) Nearby(ctx context.Context, center types.Coordinate, radiusKm float64) ([]GeoHit, error) {
	res, err := g.client.GeoRadius(ctx, g.key, center.Lng, center.Lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm * radiusSlack,
		Unit:      "km",
		WithCoord: true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geo radius query on %s failed: %w", g.key, err)
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	hits := make([]GeoHit, 0, len(res))
	for _, r := range res {
		c, ok := g.points[r.Name]
		if !ok {
			c = types.Coordinate{Lat: r.Latitude, Lng: r.Longitude}
		}
		if d := geo.Distance(center, c); d <= radiusKm {
			hits = append(hits, GeoHit{ID: r.Name, DistanceKm: d})
		}
	}
	sortHits(hits)
	return hits, nil
}

func sortHits(hits []GeoHit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].DistanceKm != hits[j].DistanceKm {
			return hits[i].DistanceKm < hits[j].DistanceKm
		}
		return hits[i].ID < hits[j].ID
	})
}
