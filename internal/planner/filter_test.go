package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

func TestPreferenceFilter_Filter(t *testing.T) {
	f := NewPreferenceFilter(NewInterestMatcher(), 0)
	catalog := heritageCatalog()

	t.Run("no interests returns the full catalog in order", func(t *testing.T) {
		got := f.Filter(catalog, types.UserPreferences{})
		assert.Equal(t, locationIDs(catalog), locationIDs(got))
	})

	t.Run("interests combine with OR", func(t *testing.T) {
		got := f.Filter(catalog, types.UserPreferences{Interests: []string{"buddhist", "mughal"}})
		assert.Equal(t, []string{"taj-mahal", "bodh-gaya"}, locationIDs(got))
	})

	t.Run("adding interests never shrinks the result", func(t *testing.T) {
		interests := []string{"buddhist", "fort", "religious", "unesco", "beach"}
		prev := 0
		for i := 1; i <= len(interests); i++ {
			got := f.Filter(catalog, types.UserPreferences{Interests: interests[:i]})
			assert.GreaterOrEqual(t, len(got), prev, "interests %v", interests[:i])
			prev = len(got)
		}
	})

	t.Run("period and dynasty are AND post-filters with substring semantics", func(t *testing.T) {
		got := f.Filter(catalog, types.UserPreferences{
			Interests:          []string{"historical"},
			PreferredDynasties: []string{"mughal"},
		})
		assert.Equal(t, []string{"taj-mahal"}, locationIDs(got))

		got = f.Filter(catalog, types.UserPreferences{PreferredPeriods: []string{"1336"}})
		assert.Equal(t, []string{"hampi"}, locationIDs(got))
	})

	t.Run("regions by coordinate bucket or text", func(t *testing.T) {
		got := f.Filter(catalog, types.UserPreferences{PreferredRegions: []string{"South"}})
		assert.Equal(t, []string{"hampi", "meenakshi"}, locationIDs(got))

		got = f.Filter(catalog, types.UserPreferences{PreferredRegions: []string{"thar"}})
		assert.Equal(t, []string{"jaisalmer"}, locationIDs(got))
	})

	t.Run("distance applies only with a start location", func(t *testing.T) {
		limit := 300.0
		got := f.Filter(catalog, types.UserPreferences{MaxDistanceKm: &limit})
		assert.Len(t, got, len(catalog))

		got = f.Filter(catalog, types.UserPreferences{MaxDistanceKm: &limit, StartLocation: coord(28.7041, 77.1025)})
		assert.Equal(t, []string{"taj-mahal"}, locationIDs(got))
	})
}

func TestPreferenceFilter_Relax(t *testing.T) {
	f := NewPreferenceFilter(NewInterestMatcher(), 0)
	limit := 50.0
	prefs := types.UserPreferences{
		Interests:          []string{"religious"},
		PreferredPeriods:   []string{"21st century"},
		PreferredDynasties: []string{"Unknown"},
		MaxDistanceKm:      &limit,
		StartLocation:      coord(0, 0),
	}

	relaxed := f.Relax(prefs)

	assert.Empty(t, relaxed.PreferredPeriods)
	assert.Empty(t, relaxed.PreferredDynasties)
	require.NotNil(t, relaxed.MaxDistanceKm)
	assert.Equal(t, DefaultRelaxedMaxDistanceKm, *relaxed.MaxDistanceKm, "small limits are raised to the relaxed floor")
	assert.Equal(t, prefs.Interests, relaxed.Interests)

	// the original is untouched
	assert.Equal(t, []string{"21st century"}, prefs.PreferredPeriods)
	assert.Equal(t, 50.0, *prefs.MaxDistanceKm)
}

func TestPreferenceFilter_RelaxationRecoversCandidates(t *testing.T) {
	f := NewPreferenceFilter(NewInterestMatcher(), 0)
	catalog := heritageCatalog()
	prefs := types.UserPreferences{
		Interests:          []string{"buddhist"},
		PreferredDynasties: []string{"Chola"},
		PreferredPeriods:   []string{"20th century"},
	}

	require.Empty(t, f.Filter(catalog, prefs))
	assert.Equal(t, []string{"bodh-gaya"}, locationIDs(f.Filter(catalog, f.Relax(prefs))))
}

func TestPreferenceFilter_RelaxDistanceLimit(t *testing.T) {
	f := NewPreferenceFilter(NewInterestMatcher(), 0)

	t.Run("no limit stays unlimited", func(t *testing.T) {
		relaxed := f.Relax(types.UserPreferences{Interests: []string{"religious"}, StartLocation: coord(48.8, 2.3)})
		assert.Nil(t, relaxed.MaxDistanceKm)
	})

	t.Run("large limit is kept", func(t *testing.T) {
		limit := 8000.0
		relaxed := f.Relax(types.UserPreferences{Interests: []string{"religious"}, MaxDistanceKm: &limit})
		require.NotNil(t, relaxed.MaxDistanceKm)
		assert.Equal(t, 8000.0, *relaxed.MaxDistanceKm)
	})
}

// Whatever the interests alone select under the original distance settings must survive relaxation.
func TestPreferenceFilter_RelaxationKeepsInterestCandidates(t *testing.T) {
	f := NewPreferenceFilter(NewInterestMatcher(), 0)
	catalog := heritageCatalog()
	limit50, limit8000 := 50.0, 8000.0

	tests := []struct {
		name  string
		prefs types.UserPreferences
	}{
		{"distant start without limit", types.UserPreferences{
			Interests: []string{"religious"}, StartLocation: coord(48.8, 2.3), PreferredPeriods: []string{"zzz"},
		}},
		{"distant start with large limit", types.UserPreferences{
			Interests: []string{"religious"}, StartLocation: coord(48.8, 2.3), MaxDistanceKm: &limit8000, PreferredDynasties: []string{"zzz"},
		}},
		{"nearby start with small limit", types.UserPreferences{
			Interests: []string{"religious"}, StartLocation: coord(9.93, 78.12), MaxDistanceKm: &limit50, PreferredPeriods: []string{"zzz"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interestsOnly := types.UserPreferences{
				Interests:     tt.prefs.Interests,
				StartLocation: tt.prefs.StartLocation,
				MaxDistanceKm: tt.prefs.MaxDistanceKm,
			}
			want := locationIDs(f.Filter(catalog, interestsOnly))
			require.NotEmpty(t, want)
			require.Empty(t, f.Filter(catalog, tt.prefs))

			got := locationIDs(f.Filter(catalog, f.Relax(tt.prefs)))
			assert.Subset(t, got, want)
		})
	}
}

func TestRegionOf(t *testing.T) {
	assert.Equal(t, "north", RegionOf(types.Coordinate{Lat: 28.7, Lng: 77.1}))
	assert.Equal(t, "south", RegionOf(types.Coordinate{Lat: 9.9, Lng: 78.1}))
	assert.Equal(t, "east", RegionOf(types.Coordinate{Lat: 20.2, Lng: 85.8}))
	assert.Equal(t, "west", RegionOf(types.Coordinate{Lat: 20.0, Lng: 75.7}))
	assert.Equal(t, "central", RegionOf(types.Coordinate{Lat: 23.2, Lng: 77.4}))
	assert.Equal(t, "northeast", RegionOf(types.Coordinate{Lat: 26.1, Lng: 91.7}))
}
