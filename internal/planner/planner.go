// Package planner builds personalized heritage itineraries: it filters the catalog by the
// traveller's preferences, scores the candidates, sequences the best of them with a
// nearest-neighbour heuristic and assembles the resulting route.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

// Catalog is the read side of the location catalog the planner needs.
type Catalog interface {
	All(ctx context.Context) ([]types.Location, error)
	ByID(ctx context.Context, id string) (types.Location, error)
}

type Config struct {
	StopsPerDay                int
	RelaxedMaxDistanceKm       float64
	DefaultPreferredDistanceKm float64
	DefaultMaxTravelDays       int
}

type Planner struct {
	cfg       Config
	filter    *PreferenceFilter
	scorer    *LocationScorer
	sequencer *RouteSequencer
	builder   *RouteBuilder
	logger    *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Planner {
	if cfg.DefaultMaxTravelDays <= 0 {
		cfg.DefaultMaxTravelDays = DefaultMaxTravelDays
	}
	matcher := NewInterestMatcher()
	return &Planner{
		cfg:       cfg,
		filter:    NewPreferenceFilter(matcher, cfg.RelaxedMaxDistanceKm),
		scorer:    NewLocationScorer(matcher, cfg.DefaultPreferredDistanceKm),
		sequencer: NewRouteSequencer(cfg.StopsPerDay),
		builder:   NewRouteBuilder(),
		logger:    logger,
	}
}

// Normalize turns a raw request into canonical preferences using the configured defaults.
func (p *Planner) Normalize(req types.PreferencesRequest) (types.UserPreferences, error) {
	return NormalizePreferences(req, p.cfg.DefaultMaxTravelDays)
}

// Candidates filters locations for prefs, relaxing period, dynasty and distance once when
// nothing matches. It returns the preferences that produced the candidates.
func (p *Planner) Candidates(locations []types.Location, prefs types.UserPreferences) ([]types.Location, types.UserPreferences, error) {
	candidates := p.filter.Filter(locations, prefs)
	if len(candidates) > 0 {
		return candidates, prefs, nil
	}

	relaxed := p.filter.Relax(prefs)
	p.logger.Debug("No candidates for preferences, retrying relaxed",
		slog.Any("interests", prefs.Interests),
		slog.Any("periods", prefs.PreferredPeriods),
		slog.Any("dynasties", prefs.PreferredDynasties))

	candidates = p.filter.Filter(locations, relaxed)
	if len(candidates) == 0 {
		return nil, relaxed, &types.NoSuitableLocationsError{Original: prefs, Relaxed: relaxed}
	}
	return candidates, relaxed, nil
}

// BuildPersonalizedRoute runs filter, score, sequence and build against catalog.
func (p *Planner) BuildPersonalizedRoute(ctx context.Context, catalog Catalog, prefs types.UserPreferences) (types.Route, error) {
	if prefs.MaxTravelDays <= 0 {
		return types.Route{}, &types.InvalidPreferenceError{Field: "maxTravelDays", Reason: "must be a positive integer"}
	}

	all, err := catalog.All(ctx)
	if err != nil {
		return types.Route{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	effective := prefs.Clone()
	anchors, err := p.resolveAnchors(ctx, catalog, &effective)
	if err != nil {
		return types.Route{}, err
	}

	required, err := p.resolveRequired(ctx, catalog, effective, anchors)
	if err != nil {
		return types.Route{}, err
	}

	candidates, used, err := p.Candidates(all, effective)
	if err != nil {
		return types.Route{}, err
	}
	used.MustVisit = effective.MustVisit

	ranked := p.scorer.Rank(candidates, used)
	for i := range required {
		required[i].Score = p.scorer.Score(required[i].Location, used)
	}
	p.rescoreAnchors(anchors, used)

	selected := p.sequencer.Select(ranked, used.MaxTravelDays, required, anchors)
	var start *types.Coordinate
	if anchors.Start == nil {
		start = used.StartLocation
	}
	ordered := p.sequencer.Order(selected, start, anchors)

	p.logger.DebugContext(ctx, "Personalized route sequenced",
		slog.Int("catalog", len(all)),
		slog.Int("candidates", len(candidates)),
		slog.Int("stops", len(ordered)))

	return p.builder.Build(ordered, used), nil
}

// Recommend returns the top limit scored candidates without sequencing them.
func (p *Planner) Recommend(ctx context.Context, catalog Catalog, prefs types.UserPreferences, limit int) ([]types.ScoredLocation, error) {
	all, err := catalog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	candidates, used, err := p.Candidates(all, prefs)
	if err != nil {
		return nil, err
	}
	ranked := p.scorer.Rank(candidates, used)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (p *Planner) resolveAnchors(ctx context.Context, catalog Catalog, prefs *types.UserPreferences) (Anchors, error) {
	var anchors Anchors
	if prefs.StartLocationID != "" {
		loc, err := lookup(ctx, catalog, prefs.StartLocationID, "startLocation")
		if err != nil {
			return Anchors{}, err
		}
		anchors.Start = &types.ScoredLocation{Location: loc}
		if prefs.StartLocation == nil {
			c := loc.Coordinates
			prefs.StartLocation = &c
		}
	}
	if prefs.EndLocationID != "" {
		loc, err := lookup(ctx, catalog, prefs.EndLocationID, "endLocation")
		if err != nil {
			return Anchors{}, err
		}
		anchors.End = &types.ScoredLocation{Location: loc}
	}
	return anchors, nil
}

func (p *Planner) resolveRequired(ctx context.Context, catalog Catalog, prefs types.UserPreferences, anchors Anchors) ([]types.ScoredLocation, error) {
	if len(prefs.MustVisit) == 0 {
		return nil, nil
	}
	budget := p.sequencer.StopBudget(prefs.MaxTravelDays) - anchors.count()
	anchorIDs := anchors.ids()

	required := make([]types.ScoredLocation, 0, len(prefs.MustVisit))
	for _, id := range prefs.MustVisit {
		if _, isAnchor := anchorIDs[id]; isAnchor {
			continue
		}
		loc, err := lookup(ctx, catalog, id, "mustVisit")
		if err != nil {
			return nil, err
		}
		required = append(required, types.ScoredLocation{Location: loc})
	}
	if len(required) > budget {
		return nil, &types.InvalidPreferenceError{
			Field:  "mustVisit",
			Reason: fmt.Sprintf("%d locations do not fit a %d-day trip of at most %d stops", len(required), prefs.MaxTravelDays, budget),
		}
	}
	return required, nil
}

func (p *Planner) rescoreAnchors(anchors Anchors, prefs types.UserPreferences) {
	if anchors.Start != nil {
		anchors.Start.Score = p.scorer.Score(anchors.Start.Location, prefs)
	}
	if anchors.End != nil {
		anchors.End.Score = p.scorer.Score(anchors.End.Location, prefs)
	}
}

func lookup(ctx context.Context, catalog Catalog, id, field string) (types.Location, error) {
	loc, err := catalog.ByID(ctx, id)
	if errors.Is(err, types.ErrNotFound) {
		return types.Location{}, &types.InvalidPreferenceError{Field: field, Reason: fmt.Sprintf("unknown location %q", id)}
	}
	if err != nil {
		return types.Location{}, fmt.Errorf("failed to look up location %q: %w", id, err)
	}
	return loc, nil
}
