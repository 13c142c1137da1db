package planner

import (
	"strings"

	"github.com/FACorreiaa/go-heritage-routes/internal/geo"
	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

// DefaultRelaxedMaxDistanceKm is the floor the relaxed retry raises a distance limit to.
const DefaultRelaxedMaxDistanceKm = 2000.0

// PreferenceFilter narrows the catalog to candidates for a preference set.
type PreferenceFilter struct {
	matcher              *InterestMatcher
	relaxedMaxDistanceKm float64
}

func NewPreferenceFilter(matcher *InterestMatcher, relaxedMaxDistanceKm float64) *PreferenceFilter {
	if relaxedMaxDistanceKm <= 0 {
		relaxedMaxDistanceKm = DefaultRelaxedMaxDistanceKm
	}
	return &PreferenceFilter{matcher: matcher, relaxedMaxDistanceKm: relaxedMaxDistanceKm}
}

// Filter keeps locations matching any interest, then applies the optional period, dynasty,
// region and distance refinements with AND semantics. Catalog order is preserved.
// The result may be empty; relaxing and retrying is the caller's decision.
func (f *PreferenceFilter) Filter(locations []types.Location, prefs types.UserPreferences) []types.Location {
	out := make([]types.Location, 0, len(locations))
	for _, loc := range locations {
		if !f.matcher.MatchesAny(loc, prefs.Interests) {
			continue
		}
		if !matchesPeriods(loc, prefs.PreferredPeriods) || !matchesDynasties(loc, prefs.PreferredDynasties) {
			continue
		}
		if !matchesRegions(loc, prefs.PreferredRegions) || !withinDistance(loc, prefs) {
			continue
		}
		out = append(out, loc)
	}
	return out
}

// Relax returns a copy of prefs without period and dynasty constraints and with the
// distance limit widened. A missing limit stays missing and a limit is never lowered,
// so every candidate of prefs is still a candidate of the result.
func (f *PreferenceFilter) Relax(prefs types.UserPreferences) types.UserPreferences {
	relaxed := prefs.Clone()
	relaxed.PreferredPeriods = nil
	relaxed.PreferredDynasties = nil
	if prefs.MaxDistanceKm != nil {
		d := max(*prefs.MaxDistanceKm, f.relaxedMaxDistanceKm)
		relaxed.MaxDistanceKm = &d
	}
	return relaxed
}

func matchesPeriods(loc types.Location, periods []string) bool {
	if len(periods) == 0 {
		return true
	}
	return containsAnyFold(loc.Period, periods)
}

func matchesDynasties(loc types.Location, dynasties []string) bool {
	if len(dynasties) == 0 {
		return true
	}
	return containsAnyFold(loc.Dynasty, dynasties)
}

// containsAnyFold reports whether field contains any non-blank needle, case-insensitively.
func containsAnyFold(field string, needles []string) bool {
	f := strings.ToLower(field)
	for _, n := range needles {
		n = normalize(n)
		if n != "" && strings.Contains(f, n) {
			return true
		}
	}
	return false
}

func matchesRegions(loc types.Location, regions []string) bool {
	if len(regions) == 0 {
		return true
	}
	region := RegionOf(loc.Coordinates)
	text := searchableText(loc)
	for _, r := range regions {
		r = normalize(r)
		if r == "" {
			continue
		}
		if r == region || strings.Contains(text, r) {
			return true
		}
	}
	return false
}

func withinDistance(loc types.Location, prefs types.UserPreferences) bool {
	if prefs.StartLocation == nil || prefs.MaxDistanceKm == nil {
		return true
	}
	return geo.Distance(*prefs.StartLocation, loc.Coordinates) <= *prefs.MaxDistanceKm
}

// RegionOf buckets a coordinate into a coarse Indian macro-region.
func RegionOf(c types.Coordinate) string {
	switch {
	case c.Lng >= 88.5 && c.Lat >= 21.5:
		return "northeast"
	case c.Lat < 16:
		return "south"
	case c.Lat >= 26 && c.Lng < 84:
		return "north"
	case c.Lng >= 84:
		return "east"
	case c.Lng < 77:
		return "west"
	default:
		return "central"
	}
}
