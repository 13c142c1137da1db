package planner

import (
	"math"
	"sort"

	"github.com/FACorreiaa/go-heritage-routes/internal/geo"
	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

const (
	interestWeight      = 0.4
	historicalWeight    = 0.2
	accessibilityWeight = 0.2
	proximityWeight     = 0.2

	neutralSubScore = 0.5

	// Accessibility data is not in the catalog yet, so every site gets the same baseline.
	accessibilityBaseline   = 0.7
	accessibilityConstraint = 0.3

	DefaultPreferredDistanceKm = 500.0
)

// ScoreBreakdown exposes the weighted components of a location's score.
type ScoreBreakdown struct {
	Interest      float64 `json:"interest"`
	Historical    float64 `json:"historical"`
	Accessibility float64 `json:"accessibility"`
	Proximity     float64 `json:"proximity"`
	Total         float64 `json:"total"`
}

// LocationScorer ranks candidates against a preference set. Scores are in [0, 1].
type LocationScorer struct {
	matcher                    *InterestMatcher
	defaultPreferredDistanceKm float64
}

func NewLocationScorer(matcher *InterestMatcher, defaultPreferredDistanceKm float64) *LocationScorer {
	if defaultPreferredDistanceKm <= 0 {
		defaultPreferredDistanceKm = DefaultPreferredDistanceKm
	}
	return &LocationScorer{matcher: matcher, defaultPreferredDistanceKm: defaultPreferredDistanceKm}
}

func (s *LocationScorer) Score(loc types.Location, prefs types.UserPreferences) float64 {
	return s.Breakdown(loc, prefs).Total
}

func (s *LocationScorer) Breakdown(loc types.Location, prefs types.UserPreferences) ScoreBreakdown {
	b := ScoreBreakdown{
		Interest:      s.interestScore(loc, prefs),
		Historical:    historicalScore(loc, prefs),
		Accessibility: accessibilityScore(prefs),
		Proximity:     s.proximityScore(loc, prefs),
	}
	total := interestWeight*b.Interest +
		historicalWeight*b.Historical +
		accessibilityWeight*b.Accessibility +
		proximityWeight*b.Proximity
	b.Total = clamp01(total)
	return b
}

// Rank scores every location and sorts descending. Equal scores keep their input order.
func (s *LocationScorer) Rank(locations []types.Location, prefs types.UserPreferences) []types.ScoredLocation {
	ranked := make([]types.ScoredLocation, len(locations))
	for i, loc := range locations {
		ranked[i] = types.ScoredLocation{Location: loc, Score: s.Score(loc, prefs)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func (s *LocationScorer) interestScore(loc types.Location, prefs types.UserPreferences) float64 {
	if len(prefs.Interests) == 0 {
		return neutralSubScore
	}
	return float64(s.matcher.MatchCount(loc, prefs.Interests)) / float64(len(prefs.Interests))
}

func historicalScore(loc types.Location, prefs types.UserPreferences) float64 {
	score := neutralSubScore
	if len(prefs.PreferredPeriods) > 0 && containsAnyFold(loc.Period, prefs.PreferredPeriods) {
		score += 0.3
	}
	if len(prefs.PreferredDynasties) > 0 && containsAnyFold(loc.Dynasty, prefs.PreferredDynasties) {
		score += 0.2
	}
	return math.Min(score, 1.0)
}

func accessibilityScore(prefs types.UserPreferences) float64 {
	if prefs.AccessibilityRequired {
		return accessibilityConstraint
	}
	return accessibilityBaseline
}

func (s *LocationScorer) proximityScore(loc types.Location, prefs types.UserPreferences) float64 {
	if prefs.StartLocation == nil {
		return neutralSubScore
	}
	maxDist := s.defaultPreferredDistanceKm
	if prefs.MaxDistanceKm != nil && *prefs.MaxDistanceKm > 0 {
		maxDist = *prefs.MaxDistanceKm
	}
	d := geo.Distance(*prefs.StartLocation, loc.Coordinates)
	return math.Max(0, 1-d/maxDist)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
