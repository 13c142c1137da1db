package locations

import (
	"sort"
	"strings"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

const (
	defaultRelatedLimit = 5
	sameDynastyStrength = 3
)

// Query helpers shared by every backend so that both serve identical semantics.

func containsFold(field, needle string) bool {
	return strings.Contains(strings.ToLower(field), strings.ToLower(needle))
}

func matchesCategory(loc types.Location, category string) bool {
	return strings.EqualFold(strings.TrimSpace(loc.Category), strings.TrimSpace(category))
}

func matchesSearch(loc types.Location, text string) bool {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return false
	}
	if containsFold(loc.Name, q) || containsFold(loc.Description, q) ||
		containsFold(loc.History, q) || containsFold(loc.Dynasty, q) {
		return true
	}
	for _, tag := range loc.Tags {
		if containsFold(tag, q) {
			return true
		}
	}
	for _, fact := range loc.CulturalFacts {
		if containsFold(fact, q) {
			return true
		}
	}
	return false
}

func matchesQuery(loc types.Location, q types.LocationQuery) bool {
	if q.Query != "" && !matchesSearch(loc, q.Query) {
		return false
	}
	if q.Category != "" && !matchesCategory(loc, q.Category) {
		return false
	}
	if q.Period != "" && !containsFold(loc.Period, q.Period) {
		return false
	}
	if q.Dynasty != "" && !containsFold(loc.Dynasty, q.Dynasty) {
		return false
	}
	for _, want := range q.Tags {
		if !hasTag(loc, want) {
			return false
		}
	}
	return true
}

func hasTag(loc types.Location, tag string) bool {
	for _, t := range loc.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func filter(all []types.Location, keep func(types.Location) bool) []types.Location {
	out := make([]types.Location, 0)
	for _, loc := range all {
		if keep(loc) {
			out = append(out, loc)
		}
	}
	return out
}

// relate finds locations connected to target by shared tags or the same dynasty.
// Strength is the number of shared tags, or 3 for a shared dynasty, whichever is larger.
func relate(target types.Location, all []types.Location, limit int) []types.RelatedLocation {
	if limit <= 0 {
		limit = defaultRelatedLimit
	}
	tags := make(map[string]struct{}, len(target.Tags))
	for _, t := range target.Tags {
		tags[strings.ToLower(t)] = struct{}{}
	}

	var related []types.RelatedLocation
	for _, loc := range all {
		if loc.ID == target.ID {
			continue
		}
		shared := 0
		for _, t := range loc.Tags {
			if _, ok := tags[strings.ToLower(t)]; ok {
				shared++
			}
		}
		sameDynasty := target.Dynasty != "" && strings.EqualFold(loc.Dynasty, target.Dynasty)

		switch {
		case sameDynasty && sameDynastyStrength >= shared:
			related = append(related, types.RelatedLocation{Location: loc, Relationship: types.RelationSameDynasty, Strength: sameDynastyStrength})
		case shared > 0:
			related = append(related, types.RelatedLocation{Location: loc, Relationship: types.RelationSharesTheme, Strength: shared})
		}
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].Strength > related[j].Strength
	})
	if len(related) > limit {
		related = related[:limit]
	}
	return related
}

func themes(all []types.Location) []string {
	set := make(map[string]struct{})
	for _, loc := range all {
		for _, t := range loc.Tags {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func dynasties(all []types.Location) []string {
	set := make(map[string]struct{})
	for _, loc := range all {
		if loc.Dynasty != "" {
			set[loc.Dynasty] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func statistics(all []types.Location, backend string) types.CatalogStatistics {
	stats := types.CatalogStatistics{
		TotalLocations: len(all),
		Categories:     make(map[string]int),
		TotalThemes:    len(themes(all)),
		TotalDynasties: len(dynasties(all)),
		Backend:        backend,
	}
	for _, loc := range all {
		stats.Categories[loc.Category]++
	}
	return stats
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
