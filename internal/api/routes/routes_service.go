package routes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-heritage-routes/app/observability/metrics"
	"github.com/FACorreiaa/go-heritage-routes/internal/planner"
	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	All(ctx context.Context) ([]types.Route, error)
	ByID(ctx context.Context, id string) (types.Route, error)
	ByTheme(ctx context.Context, theme string) ([]types.Route, error)
	CreatePersonalized(ctx context.Context, req types.PreferencesRequest) (types.Route, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	repo    Repository
	catalog planner.Catalog
	planner *planner.Planner
}

func NewServiceImpl(repo Repository, catalog planner.Catalog, p *planner.Planner, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		repo:    repo,
		catalog: catalog,
		planner: p,
	}
}

func (s *ServiceImpl) All(ctx context.Context) ([]types.Route, error) {
	return s.repo.All(ctx)
}

func (s *ServiceImpl) ByID(ctx context.Context, id string) (types.Route, error) {
	route, err := s.repo.ByID(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "Route lookup failed", slog.String("method", "ByID"), slog.String("id", id), slog.Any("error", err))
		return types.Route{}, err
	}
	return route, nil
}

func (s *ServiceImpl) ByTheme(ctx context.Context, theme string) ([]types.Route, error) {
	return s.repo.ByTheme(ctx, theme)
}

// CreatePersonalized validates the raw preferences and builds a route from the catalog.
func (s *ServiceImpl) CreatePersonalized(ctx context.Context, req types.PreferencesRequest) (types.Route, error) {
	ctx, span := otel.Tracer("RoutesService").Start(ctx, "CreatePersonalized", trace.WithAttributes(
		attribute.StringSlice("preferences.interests", req.Interests),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "CreatePersonalized"))
	m := metrics.Get()
	start := time.Now()

	route, err := s.build(ctx, req)
	m.RouteBuildDurationSeconds.Record(ctx, time.Since(start).Seconds())

	outcome := "ok"
	var invalid *types.InvalidPreferenceError
	var noSuitable *types.NoSuitableLocationsError
	switch {
	case err == nil:
	case errors.As(err, &invalid):
		outcome = "invalid"
		l.WarnContext(ctx, "Rejected route preferences", slog.String("field", invalid.Field), slog.String("reason", invalid.Reason))
	case errors.As(err, &noSuitable):
		outcome = "no_suitable"
		m.NoSuitableLocationsTotal.Add(ctx, 1)
		l.WarnContext(ctx, "No suitable locations for preferences", slog.Any("interests", noSuitable.Original.Interests))
	default:
		outcome = "error"
		l.ErrorContext(ctx, "Failed to build personalized route", slog.Any("error", err))
	}
	m.RouteRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return types.Route{}, err
	}

	m.RouteStops.Record(ctx, int64(len(route.Locations)))
	span.SetAttributes(attribute.String("route.id", route.ID), attribute.Int("route.stops", len(route.Locations)))
	span.SetStatus(codes.Ok, "")
	l.InfoContext(ctx, "Personalized route built", slog.String("route_id", route.ID), slog.Int("stops", len(route.Locations)))
	return route, nil
}

func (s *ServiceImpl) build(ctx context.Context, req types.PreferencesRequest) (types.Route, error) {
	prefs, err := s.planner.Normalize(req)
	if err != nil {
		return types.Route{}, err
	}
	route, err := s.planner.BuildPersonalizedRoute(ctx, s.catalog, prefs)
	if err != nil {
		return types.Route{}, fmt.Errorf("personalized route: %w", err)
	}
	return route, nil
}
