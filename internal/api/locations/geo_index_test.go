package locations

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

type MockRedisGeoClient struct {
	mock.Mock
}

func (m *MockRedisGeoClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return redis.NewIntResult(int64(args.Int(0)), args.Error(1))
}

func (m *MockRedisGeoClient) GeoAdd(ctx context.Context, key string, geoLocation ...*redis.GeoLocation) *redis.IntCmd {
	args := m.Called(ctx, key, geoLocation)
	return redis.NewIntResult(int64(len(geoLocation)), args.Error(0))
}

func (m *MockRedisGeoClient) GeoRadius(ctx context.Context, key string, longitude, latitude float64, query *redis.GeoRadiusQuery) *redis.GeoLocationCmd {
	args := m.Called(ctx, key, longitude, latitude, query)
	var res []redis.GeoLocation
	if v := args.Get(0); v != nil {
		res = v.([]redis.GeoLocation)
	}
	return redis.NewGeoLocationCmdResult(res, args.Error(1))
}

func (m *MockRedisGeoClient) Ping(ctx context.Context) *redis.StatusCmd {
	args := m.Called(ctx)
	return redis.NewStatusResult("PONG", args.Error(0))
}

func geoFixture() []types.Location {
	return []types.Location{
		{ID: "golden-temple", Name: "Golden Temple", Coordinates: types.Coordinate{Lat: 31.62, Lng: 74.8765}},
		{ID: "amritsar", Name: "Amritsar", Coordinates: types.Coordinate{Lat: 31.634, Lng: 74.8723}},
		{ID: "taj-mahal", Name: "Taj Mahal", Coordinates: types.Coordinate{Lat: 27.1751, Lng: 78.0421}},
	}
}

func hitIDs(hits []GeoHit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.ID
	}
	return out
}

func TestMemoryGeoIndex(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryGeoIndex()
	require.NoError(t, idx.Index(ctx, geoFixture()))

	t.Run("returns hits within radius closest first", func(t *testing.T) {
		hits, err := idx.Nearby(ctx, types.Coordinate{Lat: 31.62, Lng: 74.8765}, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"golden-temple", "amritsar"}, hitIDs(hits))
		assert.Zero(t, hits[0].DistanceKm)
		assert.InDelta(t, 1.6, hits[1].DistanceKm, 0.2)
	})

	t.Run("large radius includes everything", func(t *testing.T) {
		hits, err := idx.Nearby(ctx, types.Coordinate{Lat: 31.62, Lng: 74.8765}, 1000)
		require.NoError(t, err)
		assert.Len(t, hits, 3)
		assert.Equal(t, "taj-mahal", hits[2].ID)
	})

	t.Run("reindex replaces previous points", func(t *testing.T) {
		other := NewMemoryGeoIndex()
		require.NoError(t, other.Index(ctx, geoFixture()))
		require.NoError(t, other.Index(ctx, geoFixture()[2:]))

		hits, err := other.Nearby(ctx, types.Coordinate{Lat: 31.62, Lng: 74.8765}, 5)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

func TestRedisGeoIndex(t *testing.T) {
	ctx := context.Background()
	center := types.Coordinate{Lat: 31.62, Lng: 74.8765}

	t.Run("Index resets the key and adds every location", func(t *testing.T) {
		client := new(MockRedisGeoClient)
		client.On("Del", ctx, []string{"heritage:locations"}).Return(1, nil).Once()
		client.On("GeoAdd", ctx, "heritage:locations", mock.MatchedBy(func(members []*redis.GeoLocation) bool {
			return len(members) == 3 && members[0].Name == "golden-temple" && members[0].Longitude == 74.8765
		})).Return(nil).Once()

		idx := NewRedisGeoIndex(client, "heritage:locations", testLogger())
		require.NoError(t, idx.Index(ctx, geoFixture()))
		client.AssertExpectations(t)
	})

	t.Run("Nearby recomputes distances and drops hits outside the radius", func(t *testing.T) {
		client := new(MockRedisGeoClient)
		client.On("Del", ctx, []string{"k"}).Return(0, nil)
		client.On("GeoAdd", ctx, "k", mock.Anything).Return(nil)
		client.On("GeoRadius", ctx, "k", 74.8765, 31.62, mock.MatchedBy(func(q *redis.GeoRadiusQuery) bool {
			return q.Unit == "km" && q.Radius > 5 && q.Radius < 5.01
		})).Return([]redis.GeoLocation{
			{Name: "amritsar", Latitude: 31.634, Longitude: 74.8723, Dist: 1.6},
			{Name: "golden-temple", Latitude: 31.62, Longitude: 74.8765},
			{Name: "taj-mahal", Latitude: 27.1751, Longitude: 78.0421},
		}, nil)

		idx := NewRedisGeoIndex(client, "k", testLogger())
		require.NoError(t, idx.Index(ctx, geoFixture()))

		hits, err := idx.Nearby(ctx, center, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"golden-temple", "amritsar"}, hitIDs(hits))
	})

	t.Run("propagates redis errors", func(t *testing.T) {
		client := new(MockRedisGeoClient)
		client.On("GeoRadius", ctx, "k", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		idx := NewRedisGeoIndex(client, "k", testLogger())
		_, err := idx.Nearby(ctx, center, 5)
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("Index fails when reset fails", func(t *testing.T) {
		client := new(MockRedisGeoClient)
		client.On("Del", ctx, []string{"k"}).Return(0, errors.New("READONLY"))

		idx := NewRedisGeoIndex(client, "k", testLogger())
		assert.Error(t, idx.Index(ctx, geoFixture()))
		client.AssertNotCalled(t, "GeoAdd", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Ping", func(t *testing.T) {
		client := new(MockRedisGeoClient)
		client.On("Ping", ctx).Return(nil)
		idx := NewRedisGeoIndex(client, "k", testLogger())
		assert.NoError(t, idx.Ping(ctx))
	})
}
