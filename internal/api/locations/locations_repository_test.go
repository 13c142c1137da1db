package locations

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func setupMemoryRepositoryTest(t *testing.T) *MemoryRepository {
	t.Helper()
	locs, err := EmbeddedDataset()
	require.NoError(t, err)
	repo, err := NewMemoryRepository(locs, testLogger())
	require.NoError(t, err)
	return repo
}

func idsOf(locs []types.Location) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.ID
	}
	return out
}

func TestEmbeddedDataset(t *testing.T) {
	locs, err := EmbeddedDataset()
	require.NoError(t, err)
	assert.Len(t, locs, 35)

	for _, loc := range locs {
		assert.NoError(t, loc.Validate(), loc.ID)
		assert.NotEmpty(t, loc.Category, loc.ID)
	}
}

func TestLoadDataset(t *testing.T) {
	t.Run("accepts array coordinates", func(t *testing.T) {
		locs, err := LoadDataset(strings.NewReader(`[{"id":"a","name":"A","coordinates":[12.5,77.1]}]`))
		require.NoError(t, err)
		require.Len(t, locs, 1)
		assert.Equal(t, types.Coordinate{Lat: 12.5, Lng: 77.1}, locs[0].Coordinates)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := LoadDataset(strings.NewReader(`[
			{"id":"a","name":"A","coordinates":{"lat":1,"lng":1}},
			{"id":"a","name":"B","coordinates":{"lat":2,"lng":2}}]`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate id")
	})

	t.Run("rejects out of range coordinates", func(t *testing.T) {
		_, err := LoadDataset(strings.NewReader(`[{"id":"a","name":"A","coordinates":{"lat":91,"lng":1}}]`))
		assert.Error(t, err)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		_, err := LoadDataset(strings.NewReader(`[{"id":"a","name":"A","rating":5,"coordinates":{"lat":1,"lng":1}}]`))
		assert.Error(t, err)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		_, err := LoadDataset(strings.NewReader(`[{"id":"a","coordinates":{"lat":1,"lng":1}}]`))
		assert.Error(t, err)
	})
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := setupMemoryRepositoryTest(t)

	t.Run("ByID", func(t *testing.T) {
		loc, err := repo.ByID(ctx, "taj-mahal")
		require.NoError(t, err)
		assert.Equal(t, "Mughal Empire", loc.Dynasty)

		_, err = repo.ByID(ctx, "atlantis")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("All returns a copy", func(t *testing.T) {
		all, err := repo.All(ctx)
		require.NoError(t, err)
		all[0].Name = "changed"

		again, err := repo.All(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, "changed", again[0].Name)
	})

	t.Run("ByCategory is case insensitive and exact", func(t *testing.T) {
		locs, err := repo.ByCategory(ctx, "Natural")
		require.NoError(t, err)
		assert.Equal(t, []string{"sundarbans"}, idsOf(locs))

		locs, err = repo.ByCategory(ctx, "nat")
		require.NoError(t, err)
		assert.Empty(t, locs)
	})

	t.Run("ByDynasty matches substrings", func(t *testing.T) {
		locs, err := repo.ByDynasty(ctx, "mughal")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"taj-mahal", "varanasi", "sundarbans"}, idsOf(locs))
	})

	t.Run("ByPeriod matches substrings", func(t *testing.T) {
		locs, err := repo.ByPeriod(ctx, "1786")
		require.NoError(t, err)
		assert.Equal(t, []string{"patna-golghar"}, idsOf(locs))
	})

	t.Run("Search looks at tags and text", func(t *testing.T) {
		locs, err := repo.Search(ctx, "hanging pillar")
		require.NoError(t, err)
		assert.Contains(t, idsOf(locs), "lepakshi")

		locs, err = repo.Search(ctx, "   ")
		require.NoError(t, err)
		assert.Empty(t, locs)
	})

	t.Run("Related prefers same dynasty", func(t *testing.T) {
		related, err := repo.Related(ctx, "badami", 3)
		require.NoError(t, err)
		require.NotEmpty(t, related)
		assert.LessOrEqual(t, len(related), 3)
		assert.Equal(t, "pattadakal", related[0].Location.ID)
		assert.Equal(t, types.RelationSameDynasty, related[0].Relationship)
		assert.Equal(t, 3, related[0].Strength)

		for i := 1; i < len(related); i++ {
			assert.GreaterOrEqual(t, related[i-1].Strength, related[i].Strength)
		}
		for _, r := range related {
			assert.NotEqual(t, "badami", r.Location.ID)
		}
	})

	t.Run("Related unknown id", func(t *testing.T) {
		_, err := repo.Related(ctx, "atlantis", 5)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("Themes and dynasties are sorted and distinct", func(t *testing.T) {
		themes, err := repo.Themes(ctx)
		require.NoError(t, err)
		assert.True(t, sort.StringsAreSorted(themes))
		assert.Contains(t, themes, "UNESCO Heritage")

		dynasties, err := repo.Dynasties(ctx)
		require.NoError(t, err)
		assert.True(t, sort.StringsAreSorted(dynasties))
		assert.Contains(t, dynasties, "Chalukya Dynasty")
	})

	t.Run("Statistics", func(t *testing.T) {
		stats, err := repo.Statistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 35, stats.TotalLocations)
		assert.Equal(t, 1, stats.Categories["natural"])
		assert.Equal(t, 1, stats.Categories["educational"])
		assert.Equal(t, BackendMemory, stats.Backend)

		sum := 0
		for _, n := range stats.Categories {
			sum += n
		}
		assert.Equal(t, stats.TotalLocations, sum)
	})
}

func TestNewMemoryRepositoryRejectsDuplicates(t *testing.T) {
	loc := types.Location{ID: "a", Name: "A", Coordinates: types.Coordinate{Lat: 1, Lng: 1}}
	_, err := NewMemoryRepository([]types.Location{loc, loc}, testLogger())
	assert.Error(t, err)
}

func TestMatchesQuery(t *testing.T) {
	loc := types.Location{
		ID:       "x",
		Name:     "Shore Temple",
		Category: "historical",
		Period:   "7th-8th century CE",
		Dynasty:  "Pallava Dynasty",
		Tags:     []string{"UNESCO Heritage", "Coastal Heritage"},
	}

	tests := []struct {
		name string
		q    types.LocationQuery
		want bool
	}{
		{"empty query matches", types.LocationQuery{}, true},
		{"text and category", types.LocationQuery{Query: "shore", Category: "Historical"}, true},
		{"wrong category", types.LocationQuery{Query: "shore", Category: "religious"}, false},
		{"period substring", types.LocationQuery{Period: "8th"}, true},
		{"dynasty substring", types.LocationQuery{Dynasty: "pallava"}, true},
		{"all tags required", types.LocationQuery{Tags: []string{"unesco heritage", "coastal heritage"}}, true},
		{"missing tag", types.LocationQuery{Tags: []string{"unesco heritage", "Buddhist"}}, false},
		{"tag needs exact match", types.LocationQuery{Tags: []string{"Coastal"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesQuery(loc, tt.q))
		})
	}
}
