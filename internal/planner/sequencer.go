package planner

import (
	"github.com/FACorreiaa/go-heritage-routes/internal/geo"
	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

const DefaultStopsPerDay = 2

// Anchors pin the first and/or last stop of a route regardless of proximity.
type Anchors struct {
	Start *types.ScoredLocation
	End   *types.ScoredLocation
}

func (a Anchors) count() int {
	n := 0
	if a.Start != nil {
		n++
	}
	if a.End != nil {
		n++
	}
	return n
}

func (a Anchors) ids() map[string]struct{} {
	ids := make(map[string]struct{}, 2)
	if a.Start != nil {
		ids[a.Start.Location.ID] = struct{}{}
	}
	if a.End != nil {
		ids[a.End.Location.ID] = struct{}{}
	}
	return ids
}

// RouteSequencer picks the top candidates for the day budget and orders them with a
// greedy nearest-neighbour walk. The order is a heuristic approximation, not an
// optimal tour.
type RouteSequencer struct {
	stopsPerDay int
}

func NewRouteSequencer(stopsPerDay int) *RouteSequencer {
	if stopsPerDay <= 0 {
		stopsPerDay = DefaultStopsPerDay
	}
	return &RouteSequencer{stopsPerDay: stopsPerDay}
}

// StopBudget is the maximum number of stops for a trip of days days.
func (s *RouteSequencer) StopBudget(days int) int {
	return days * s.stopsPerDay
}

// Select returns min(budget, available) stops: required stops first, then the ranked
// candidates in order, skipping duplicates and anchor ids. ranked must be sorted by score.
func (s *RouteSequencer) Select(ranked []types.ScoredLocation, days int, required []types.ScoredLocation, anchors Anchors) []types.ScoredLocation {
	limit := s.StopBudget(days) - anchors.count()
	if limit <= 0 {
		return nil
	}

	seen := anchors.ids()
	selected := make([]types.ScoredLocation, 0, limit)
	add := func(c types.ScoredLocation) {
		if len(selected) >= limit {
			return
		}
		if _, dup := seen[c.Location.ID]; dup {
			return
		}
		seen[c.Location.ID] = struct{}{}
		selected = append(selected, c)
	}

	for _, c := range required {
		add(c)
	}
	for _, c := range ranked {
		if len(selected) >= limit {
			break
		}
		add(c)
	}
	return selected
}

// Order sequences the selected stops. Without a start anchor the walk begins at the stop
// nearest to start, or at the first selected stop when start is nil. An end anchor is
// appended last whatever its distance.
func (s *RouteSequencer) Order(selected []types.ScoredLocation, start *types.Coordinate, anchors Anchors) []types.ScoredLocation {
	route := make([]types.ScoredLocation, 0, len(selected)+anchors.count())
	remaining := append([]types.ScoredLocation(nil), selected...)

	var current *types.Coordinate
	switch {
	case anchors.Start != nil:
		route = append(route, *anchors.Start)
		c := anchors.Start.Location.Coordinates
		current = &c
	case start != nil:
		c := *start
		current = &c
	case len(remaining) > 0:
		route = append(route, remaining[0])
		c := remaining[0].Location.Coordinates
		current = &c
		remaining = remaining[1:]
	}

	for len(remaining) > 0 {
		coords := make([]types.Coordinate, len(remaining))
		for i, r := range remaining {
			coords[i] = r.Location.Coordinates
		}
		next := geo.Nearest(*current, coords)
		route = append(route, remaining[next])
		c := remaining[next].Location.Coordinates
		current = &c
		remaining = append(remaining[:next], remaining[next+1:]...)
	}

	if anchors.End != nil {
		route = append(route, *anchors.End)
	}
	return route
}
