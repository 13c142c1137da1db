package locations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

const (
	DefaultNearbyRadiusKm = 100.0
	MaxNearbyRadiusKm     = 5000.0
)

// Translator localizes the human readable fields of a location.
type Translator interface {
	TranslateLocation(ctx context.Context, loc types.Location, lang string) (types.Location, error)
}

type flusher interface {
	Flush()
}

var _ Service = (*ServiceImpl)(nil)

// Service is the catalog API used by the HTTP layer, the chatbot and the route planner.
type Service interface {
	All(ctx context.Context, lang string) ([]types.Location, error)
	ByID(ctx context.Context, id, lang string) (types.Location, error)
	ByCategory(ctx context.Context, category, lang string) ([]types.Location, error)
	ByPeriod(ctx context.Context, period, lang string) ([]types.Location, error)
	ByDynasty(ctx context.Context, dynasty, lang string) ([]types.Location, error)
	Search(ctx context.Context, text, lang string) ([]types.Location, error)
	AdvancedSearch(ctx context.Context, q types.LocationQuery, lang string) ([]types.Location, error)
	Related(ctx context.Context, id string, limit int) ([]types.RelatedLocation, error)
	Nearby(ctx context.Context, center types.Coordinate, radiusKm float64) ([]types.NearbyLocation, error)
	PlaceInfo(ctx context.Context, id, lang string) (types.PlaceInfo, error)
	Themes(ctx context.Context) ([]string, error)
	Dynasties(ctx context.Context) ([]string, error)
	Statistics(ctx context.Context) (types.CatalogStatistics, error)
	Reindex(ctx context.Context) (int, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	repo       Repository
	geoIndex   GeoIndex
	translator Translator
}

// NewServiceImpl wires the catalog service. translator may be nil, in which case lang is ignored.
func NewServiceImpl(repo Repository, geoIndex GeoIndex, translator Translator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repo:       repo,
		geoIndex:   geoIndex,
		translator: translator,
	}
}

func (s *ServiceImpl) All(ctx context.Context, lang string) ([]types.Location, error) {
	ctx, span := otel.Tracer("LocationsService").Start(ctx, "All")
	defer span.End()

	locs, err := s.repo.All(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "All", "failed to list locations", err)
	}
	return s.localizeAll(ctx, span, locs, lang)
}

func (s *ServiceImpl) ByID(ctx context.Context, id, lang string) (types.Location, error) {
	ctx, span := otel.Tracer("LocationsService").Start(ctx, "ByID", trace.WithAttributes(
		attribute.String("location.id", id),
	))
	defer span.End()

	loc, err := s.repo.ByID(ctx, id)
	if err != nil {
		return types.Location{}, s.fail(ctx, span, "ByID", "failed to get location", err)
	}
	loc, err = s.localize(ctx, loc, lang)
	if err != nil {
		return types.Location{}, s.fail(ctx, span, "ByID", "failed to translate location", err)
	}
	span.SetStatus(codes.Ok, "")
	return loc, nil
}

func (s *ServiceImpl) ByCategory(ctx context.Context, category, lang string) ([]types.Location, error) {
	ctx, span := otel.Tracer("LocationsService").Start(ctx, "ByCategory", trace.WithAttributes(
		attribute.String("location.category", category),
	))
	defer span.End()

	locs, err := s.repo.ByCategory(ctx, category)
	if err != nil {
		return nil, s.fail(ctx, span, "ByCategory", "failed to filter by category", err)
	}
	return s.localizeAll(ctx, span, locs, lang)
}

func (s *ServiceImpl) ByPeriod(ctx context.Context, period, lang string) ([]types.Location, error) {
	ctx, span := otel.Tracer("LocationsService").Start(ctx, "ByPeriod", trace.WithAttributes(
		attribute.String("location.period", period),
	))
	defer span.End()

	locs, err := s.repo.ByPeriod(ctx, period)
	if err != nil {
		return nil, s.fail(ctx, span, "ByPeriod", "failed to filter by period", err)
	}
	return s.localizeAll(ctx, span, locs, lang)
}

func (s *ServiceImpl) ByDynasty(ctx context.Context, dynasty, lang string) ([]types.Location, error) {
	ctx, span := otel.Tracer("LocationsService").Start(ctx, "ByDynasty", trace.WithAttributes(
		attribute.String("location.dynasty", dynasty),
	))
	defer span.End()

	locs, err := s.repo.ByDynasty(ctx, dynasty)
	if err != nil {
		return nil, s.fail(ctx, span, "ByDynasty", "failed to filter by dynasty", err)
	}
	return s.localizeAll(ctx, span, locs, lang)
}

func (s *ServiceImpl) Search(ctx context.Context, text, lang string) ([]types.Location, error) {
	ctx, span := otel.Tracer("LocationsService").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("search.query", text),
	))
	defer span.End()

	locs, err := s.repo.Search(ctx, text)
	if err != nil {
		return nil, s.fail(ctx, span, "Search", "failed to search locations", err)
	}
	span.SetAttributes(attribute.Int("search.results", len(locs)))
	return s.localizeAll(ctx, span, locs, lang)
}

// AdvancedSearch combines every non-empty field of q with AND. An empty query returns the
// whole catalog.
func (s *ServiceImpl) AdvancedSearch(ctx context.Context, q types.LocationQuery, lang string) ([]types.Location, error) {
	ctx, span := otel.Tracer("LocationsService").Start(ctx, "AdvancedSearch", trace.WithAttributes(
		attribute.String("search.query", q.Query),
		attribute.String("search.category", q.Category),
		attribute.StringSlice("search.tags", q.Tags),
	))
	defer span.End()

	q.Query = strings.TrimSpace(q.Query)
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "AdvancedSearch", "failed to load catalog", err)
	}
	locs := filter(all, func(l types.Location) bool { return matchesQuery(l, q) })
	span.SetAttributes(attribute.Int("search.results", len(locs)))
	return s.localizeAll(ctx, span, locs, lang)
}

func (s *ServiceImpl) Related(ctx context.Context, id string, limit int) ([]types.RelatedLocation, error) {
	ctx, span := otel.Tracer("LocationsService").Start(ctx, "Related", trace.WithAttributes(
		attribute.String("location.id", id),
		attribute.Int("limit", limit),
	))
	defer span.End()

	related, err := s.repo.Related(ctx, id, limit)
	if err != nil {
		return nil, s.fail(ctx, span, "Related", "failed to find related locations", err)
	}
	if related == nil {
		related = []types.RelatedLocation{}
	}
	span.SetStatus(codes.Ok, "")
	return related, nil
}

// Nearby returns catalog locations within radiusKm of center, closest first.
func (s *ServiceImpl) Nearby(ctx context.Context, center types.Coordinate, radiusKm float64) ([]types.NearbyLocation, error) {
	ctx, span := otel.Tracer("LocationsService").Start(ctx, "Nearby", trace.WithAttributes(
		attribute.Float64("geo.lat", center.Lat),
		attribute.Float64("geo.lng", center.Lng),
		attribute.Float64("geo.radius_km", radiusKm),
	))
	defer span.End()

	if err := center.Validate(); err != nil {
		return nil, &types.InvalidPreferenceError{Field: "coordinates", Reason: err.Error()}
	}
	if radiusKm <= 0 || radiusKm > MaxNearbyRadiusKm {
		return nil, &types.InvalidPreferenceError{
			Field:  "radius",
			Reason: fmt.Sprintf("must be greater than 0 and at most %.0f km", MaxNearbyRadiusKm),
		}
	}

	hits, err := s.geoIndex.Nearby(ctx, center, radiusKm)
	if err != nil {
		return nil, s.fail(ctx, span, "Nearby", "geo index query failed", err)
	}
	out := make([]types.NearbyLocation, 0, len(hits))
	for _, hit := range hits {
		loc, err := s.repo.ByID(ctx, hit.ID)
		if err != nil {
			// The index can briefly outlive a removed row until the next reindex.
			s.logger.WarnContext(ctx, "Geo index references unknown location",
				slog.String("method", "Nearby"), slog.String("id", hit.ID), slog.Any("error", err))
			continue
		}
		out = append(out, types.NearbyLocation{Location: loc, DistanceKm: hit.DistanceKm})
	}
	span.SetAttributes(attribute.Int("geo.results", len(out)))
	span.SetStatus(codes.Ok, "")
	return out, nil
}

// PlaceInfo gathers a location with its related and nearby sites concurrently.
func (s *ServiceImpl) PlaceInfo(ctx context.Context, id, lang string) (types.PlaceInfo, error) {
	ctx, span := otel.Tracer("LocationsService").Start(ctx, "PlaceInfo", trace.WithAttributes(
		attribute.String("location.id", id),
	))
	defer span.End()

	loc, err := s.repo.ByID(ctx, id)
	if err != nil {
		return types.PlaceInfo{}, s.fail(ctx, span, "PlaceInfo", "failed to get location", err)
	}

	info := types.PlaceInfo{Location: loc}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		related, err := s.repo.Related(gctx, id, defaultRelatedLimit)
		if err != nil {
			return fmt.Errorf("related: %w", err)
		}
		info.Related = related
		return nil
	})
	g.Go(func() error {
		nearby, err := s.Nearby(gctx, loc.Coordinates, DefaultNearbyRadiusKm)
		if err != nil {
			return fmt.Errorf("nearby: %w", err)
		}
		info.Nearby = make([]types.NearbyLocation, 0, len(nearby))
		for _, n := range nearby {
			if n.Location.ID != id {
				info.Nearby = append(info.Nearby, n)
			}
		}
		return nil
	})
	g.Go(func() error {
		translated, err := s.localize(gctx, loc, lang)
		if err != nil {
			return fmt.Errorf("translate: %w", err)
		}
		info.Location = translated
		return nil
	})
	if err := g.Wait(); err != nil {
		return types.PlaceInfo{}, s.fail(ctx, span, "PlaceInfo", "failed to assemble place info", err)
	}
	if info.Related == nil {
		info.Related = []types.RelatedLocation{}
	}

	span.SetStatus(codes.Ok, "")
	return info, nil
}

func (s *ServiceImpl) Themes(ctx context.Context) ([]string, error) {
	return s.repo.Themes(ctx)
}

func (s *ServiceImpl) Dynasties(ctx context.Context) ([]string, error) {
	return s.repo.Dynasties(ctx)
}

func (s *ServiceImpl) Statistics(ctx context.Context) (types.CatalogStatistics, error) {
	return s.repo.Statistics(ctx)
}

// Reindex drops cached catalog reads and rebuilds the geo index from the repository.
func (s *ServiceImpl) Reindex(ctx context.Context) (int, error) {
	ctx, span := otel.Tracer("LocationsService").Start(ctx, "Reindex")
	defer span.End()

	if f, ok := s.repo.(flusher); ok {
		f.Flush()
	}
	locs, err := s.repo.All(ctx)
	if err != nil {
		return 0, s.fail(ctx, span, "Reindex", "failed to load catalog", err)
	}
	if err := s.geoIndex.Index(ctx, locs); err != nil {
		return 0, s.fail(ctx, span, "Reindex", "failed to rebuild geo index", err)
	}
	s.logger.InfoContext(ctx, "Catalog reindexed", slog.Int("locations", len(locs)))
	span.SetStatus(codes.Ok, "")
	return len(locs), nil
}

func (s *ServiceImpl) localize(ctx context.Context, loc types.Location, lang string) (types.Location, error) {
	if s.translator == nil || lang == "" || strings.EqualFold(lang, "en") {
		return loc, nil
	}
	return s.translator.TranslateLocation(ctx, loc, lang)
}

func (s *ServiceImpl) localizeAll(ctx context.Context, span trace.Span, locs []types.Location, lang string) ([]types.Location, error) {
	out := make([]types.Location, 0, len(locs))
	for _, loc := range locs {
		translated, err := s.localize(ctx, loc, lang)
		if err != nil {
			return nil, s.fail(ctx, span, "localize", "failed to translate locations", err)
		}
		out = append(out, translated)
	}
	span.SetStatus(codes.Ok, "")
	return out, nil
}

func (s *ServiceImpl) fail(ctx context.Context, span trace.Span, method, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	level := slog.LevelError
	if errors.Is(err, types.ErrNotFound) {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, msg, slog.String("method", method), slog.Any("error", err))
	return fmt.Errorf("%s: %w", msg, err)
}
