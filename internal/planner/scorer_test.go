package planner

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

func TestLocationScorer_Breakdown(t *testing.T) {
	s := NewLocationScorer(NewInterestMatcher(), 0)
	hampi := heritageCatalog()[0]

	t.Run("neutral defaults", func(t *testing.T) {
		b := s.Breakdown(hampi, types.UserPreferences{})
		assert.Equal(t, 0.5, b.Interest)
		assert.Equal(t, 0.5, b.Historical)
		assert.Equal(t, 0.7, b.Accessibility)
		assert.Equal(t, 0.5, b.Proximity)
		assert.InDelta(t, 0.4*0.5+0.2*0.5+0.2*0.7+0.2*0.5, b.Total, 1e-9)
	})

	t.Run("interest fraction", func(t *testing.T) {
		b := s.Breakdown(hampi, types.UserPreferences{Interests: []string{"historical", "beach"}})
		assert.Equal(t, 0.5, b.Interest)
	})

	t.Run("historical bonuses stack to exactly one", func(t *testing.T) {
		b := s.Breakdown(hampi, types.UserPreferences{
			PreferredPeriods:   []string{"1336"},
			PreferredDynasties: []string{"vijayanagara"},
		})
		assert.Equal(t, 1.0, b.Historical)
	})

	t.Run("period bonus alone", func(t *testing.T) {
		b := s.Breakdown(hampi, types.UserPreferences{PreferredPeriods: []string{"1646"}})
		assert.InDelta(t, 0.8, b.Historical, 1e-9)
	})

	t.Run("accessibility constraint lowers the component", func(t *testing.T) {
		b := s.Breakdown(hampi, types.UserPreferences{AccessibilityRequired: true})
		assert.Equal(t, 0.3, b.Accessibility)
	})

	t.Run("proximity decays with distance and floors at zero", func(t *testing.T) {
		atSite := s.Breakdown(hampi, types.UserPreferences{StartLocation: &hampi.Coordinates})
		assert.Equal(t, 1.0, atSite.Proximity)

		far := s.Breakdown(hampi, types.UserPreferences{StartLocation: coord(28.7041, 77.1025)})
		assert.Equal(t, 0.0, far.Proximity)

		limit := 2000.0
		wide := s.Breakdown(hampi, types.UserPreferences{StartLocation: coord(28.7041, 77.1025), MaxDistanceKm: &limit})
		assert.Greater(t, wide.Proximity, 0.0)
		assert.Less(t, wide.Proximity, 1.0)
	})
}

func TestLocationScorer_ScoreStaysWithinBounds(t *testing.T) {
	s := NewLocationScorer(NewInterestMatcher(), 0)
	r := rand.New(rand.NewSource(7))
	catalog := heritageCatalog()
	interests := []string{"historical", "religious", "fort", "unesco", "buddhist", "temple"}

	for i := 0; i < 200; i++ {
		prefs := types.UserPreferences{
			Interests:             interests[:r.Intn(len(interests)+1)],
			PreferredPeriods:      []string{"CE"},
			PreferredDynasties:    []string{"Empire"},
			AccessibilityRequired: r.Intn(2) == 0,
			StartLocation:         coord(r.Float64()*180-90, r.Float64()*360-180),
		}
		for _, loc := range catalog {
			score := s.Score(loc, prefs)
			require.GreaterOrEqual(t, score, 0.0)
			require.LessOrEqual(t, score, 1.0)
		}
	}
}

func TestLocationScorer_RankIsStableForTies(t *testing.T) {
	s := NewLocationScorer(NewInterestMatcher(), 0)
	catalog := []types.Location{
		site("first", 0, 0, "religious"),
		site("second", 5, 5, "religious"),
		site("third", 1, 1, "historical"),
	}

	ranked := s.Rank(catalog, types.UserPreferences{Interests: []string{"religious"}})

	assert.Equal(t, []string{"first", "second", "third"}, ids(ranked))
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
	assert.Greater(t, ranked[1].Score, ranked[2].Score)
}
