package locations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-heritage-routes/app/observability/metrics"
	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

// DB is the subset of pgxpool.Pool used by the repository.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

const locationColumns = `id, name, description, category, latitude, longitude, history, period, dynasty, cultural_facts, legends, tags`

var _ Repository = (*PostgresRepository)(nil)

// PostgresRepository serves the catalog from the heritage_locations table with the same
// query semantics as MemoryRepository.
type PostgresRepository struct {
	logger *slog.Logger
	pgpool DB
}

func NewPostgresRepository(pgpool DB, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresRepository) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, semconv.DBSystemPostgreSQL, attribute.String("db.sql.table", "heritage_locations"))
	return otel.Tracer("LocationsRepository").Start(ctx, op, trace.WithAttributes(attrs...))
}

func (r *PostgresRepository) observe(ctx context.Context, span trace.Span, op string, start time.Time, err error) {
	m := metrics.Get()
	opAttr := metric.WithAttributes(attribute.String("operation", op))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), opAttr)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		m.DbQueryErrorsTotal.Add(ctx, 1, opAttr)
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		r.logger.ErrorContext(ctx, "Location query failed", slog.String("method", op), slog.Any("error", err))
		return
	}
	span.SetStatus(codes.Ok, "")
}

func (r *PostgresRepository) All(ctx context.Context) (locs []types.Location, err error) {
	ctx, span := r.startSpan(ctx, "All")
	defer span.End()
	defer func(start time.Time) { r.observe(ctx, span, "All", start, err) }(time.Now())

	return r.queryLocations(ctx, `SELECT `+locationColumns+` FROM heritage_locations ORDER BY position, id`)
}

func (r *PostgresRepository) ByID(ctx context.Context, id string) (loc types.Location, err error) {
	ctx, span := r.startSpan(ctx, "ByID", attribute.String("location.id", id))
	defer span.End()
	defer func(start time.Time) { r.observe(ctx, span, "ByID", start, err) }(time.Now())

	row := r.pgpool.QueryRow(ctx, `SELECT `+locationColumns+` FROM heritage_locations WHERE id = $1`, id)
	loc, err = scanLocation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Location{}, fmt.Errorf("location %q: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return types.Location{}, fmt.Errorf("database error fetching location %q: %w", id, err)
	}
	return loc, nil
}

func (r *PostgresRepository) ByCategory(ctx context.Context, category string) (locs []types.Location, err error) {
	ctx, span := r.startSpan(ctx, "ByCategory", attribute.String("location.category", category))
	defer span.End()
	defer func(start time.Time) { r.observe(ctx, span, "ByCategory", start, err) }(time.Now())

	return r.queryLocations(ctx, `SELECT `+locationColumns+` FROM heritage_locations
		WHERE LOWER(category) = LOWER($1) ORDER BY position, id`, strings.TrimSpace(category))
}

func (r *PostgresRepository) ByPeriod(ctx context.Context, period string) (locs []types.Location, err error) {
	ctx, span := r.startSpan(ctx, "ByPeriod", attribute.String("location.period", period))
	defer span.End()
	defer func(start time.Time) { r.observe(ctx, span, "ByPeriod", start, err) }(time.Now())

	return r.queryLocations(ctx, `SELECT `+locationColumns+` FROM heritage_locations
		WHERE period ILIKE $1 ORDER BY position, id`, likePattern(period))
}

func (r *PostgresRepository) ByDynasty(ctx context.Context, dynasty string) (locs []types.Location, err error) {
	ctx, span := r.startSpan(ctx, "ByDynasty", attribute.String("location.dynasty", dynasty))
	defer span.End()
	defer func(start time.Time) { r.observe(ctx, span, "ByDynasty", start, err) }(time.Now())

	return r.queryLocations(ctx, `SELECT `+locationColumns+` FROM heritage_locations
		WHERE dynasty ILIKE $1 ORDER BY position, id`, likePattern(dynasty))
}

func (r *PostgresRepository) Search(ctx context.Context, text string) (locs []types.Location, err error) {
	ctx, span := r.startSpan(ctx, "Search", attribute.String("search.query", text))
	defer span.End()
	defer func(start time.Time) { r.observe(ctx, span, "Search", start, err) }(time.Now())

	if strings.TrimSpace(text) == "" {
		return []types.Location{}, nil
	}
	return r.queryLocations(ctx, `SELECT `+locationColumns+` FROM heritage_locations
		WHERE name ILIKE $1 OR description ILIKE $1 OR history ILIKE $1 OR dynasty ILIKE $1
		   OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE $1)
		   OR EXISTS (SELECT 1 FROM unnest(cultural_facts) AS f WHERE f ILIKE $1)
		ORDER BY position, id`, likePattern(strings.TrimSpace(text)))
}

// Related is computed from the full catalog so that strengths match the memory backend.
func (r *PostgresRepository) Related(ctx context.Context, id string, limit int) ([]types.RelatedLocation, error) {
	target, err := r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	return relate(target, all, limit), nil
}

func (r *PostgresRepository) Themes(ctx context.Context) (out []string, err error) {
	ctx, span := r.startSpan(ctx, "Themes")
	defer span.End()
	defer func(start time.Time) { r.observe(ctx, span, "Themes", start, err) }(time.Now())

	return r.queryStrings(ctx, `SELECT DISTINCT t FROM heritage_locations, unnest(tags) AS t ORDER BY t`)
}

func (r *PostgresRepository) Dynasties(ctx context.Context) (out []string, err error) {
	ctx, span := r.startSpan(ctx, "Dynasties")
	defer span.End()
	defer func(start time.Time) { r.observe(ctx, span, "Dynasties", start, err) }(time.Now())

	return r.queryStrings(ctx, `SELECT DISTINCT dynasty FROM heritage_locations WHERE dynasty <> '' ORDER BY dynasty`)
}

func (r *PostgresRepository) Statistics(ctx context.Context) (stats types.CatalogStatistics, err error) {
	ctx, span := r.startSpan(ctx, "Statistics")
	defer span.End()
	defer func(start time.Time) { r.observe(ctx, span, "Statistics", start, err) }(time.Now())

	stats = types.CatalogStatistics{Categories: make(map[string]int), Backend: BackendPostgres}

	rows, err := r.pgpool.Query(ctx, `SELECT category, COUNT(*) FROM heritage_locations GROUP BY category ORDER BY category`)
	if err != nil {
		return types.CatalogStatistics{}, fmt.Errorf("database error counting categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return types.CatalogStatistics{}, fmt.Errorf("database error scanning category count: %w", err)
		}
		stats.Categories[category] = count
		stats.TotalLocations += count
	}
	if err := rows.Err(); err != nil {
		return types.CatalogStatistics{}, fmt.Errorf("database error iterating category counts: %w", err)
	}

	err = r.pgpool.QueryRow(ctx, `SELECT
		(SELECT COUNT(DISTINCT t) FROM heritage_locations, unnest(tags) AS t),
		(SELECT COUNT(DISTINCT dynasty) FROM heritage_locations WHERE dynasty <> '')`).
		Scan(&stats.TotalThemes, &stats.TotalDynasties)
	if err != nil {
		return types.CatalogStatistics{}, fmt.Errorf("database error counting themes and dynasties: %w", err)
	}
	return stats, nil
}

// Seed upserts locations in one transaction, keeping dataset order in position, and
// records the run in catalog_seed_runs.
func (r *PostgresRepository) Seed(ctx context.Context, locs []types.Location, source string) (runID uuid.UUID, err error) {
	ctx, span := r.startSpan(ctx, "Seed", attribute.Int("locations.count", len(locs)))
	defer span.End()
	defer func(start time.Time) { r.observe(ctx, span, "Seed", start, err) }(time.Now())

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.logger.WarnContext(ctx, "Seed rollback failed", slog.Any("error", rbErr))
			}
		}
	}()

	for i, loc := range locs {
		legends, mErr := json.Marshal(nonNilLegends(loc.Legends))
		if mErr != nil {
			return uuid.Nil, fmt.Errorf("failed to encode legends for %q: %w", loc.ID, mErr)
		}
		_, err = tx.Exec(ctx, `INSERT INTO heritage_locations
			(id, name, description, category, latitude, longitude, history, period, dynasty, cultural_facts, legends, tags, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, description = EXCLUDED.description, category = EXCLUDED.category,
				latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, history = EXCLUDED.history,
				period = EXCLUDED.period, dynasty = EXCLUDED.dynasty, cultural_facts = EXCLUDED.cultural_facts,
				legends = EXCLUDED.legends, tags = EXCLUDED.tags, position = EXCLUDED.position, updated_at = NOW()`,
			loc.ID, loc.Name, loc.Description, loc.Category, loc.Coordinates.Lat, loc.Coordinates.Lng,
			loc.History, loc.Period, loc.Dynasty, nonNil(loc.CulturalFacts), legends, nonNil(loc.Tags), i)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to upsert location %q: %w", loc.ID, err)
		}
	}

	runID = uuid.New()
	if _, err = tx.Exec(ctx, `INSERT INTO catalog_seed_runs (id, source, locations) VALUES ($1, $2, $3)`,
		runID, source, len(locs)); err != nil {
		return uuid.Nil, fmt.Errorf("failed to record seed run: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "Location catalog seeded", slog.Int("locations", len(locs)), slog.String("run_id", runID.String()))
	return runID, nil
}

func (r *PostgresRepository) queryLocations(ctx context.Context, sql string, args ...any) ([]types.Location, error) {
	rows, err := r.pgpool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("database error querying locations: %w", err)
	}
	defer rows.Close()

	locs := make([]types.Location, 0)
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("database error scanning location: %w", err)
		}
		locs = append(locs, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error iterating locations: %w", err)
	}
	return locs, nil
}

func (r *PostgresRepository) queryStrings(ctx context.Context, sql string) ([]string, error) {
	rows, err := r.pgpool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("database error scanning value: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanLocation(row pgx.Row) (types.Location, error) {
	var loc types.Location
	var legends []byte
	err := row.Scan(&loc.ID, &loc.Name, &loc.Description, &loc.Category,
		&loc.Coordinates.Lat, &loc.Coordinates.Lng, &loc.History, &loc.Period, &loc.Dynasty,
		&loc.CulturalFacts, &legends, &loc.Tags)
	if err != nil {
		return types.Location{}, err
	}
	if len(legends) > 0 {
		if err := json.Unmarshal(legends, &loc.Legends); err != nil {
			return types.Location{}, fmt.Errorf("invalid legends for %q: %w", loc.ID, err)
		}
	}
	if err := loc.Coordinates.Validate(); err != nil {
		return types.Location{}, fmt.Errorf("location %q: %w", loc.ID, err)
	}
	return loc, nil
}

// likePattern wraps s for a case-insensitive containment match, escaping LIKE wildcards.
func likePattern(s string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(s) + "%"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilLegends(l []types.Legend) []types.Legend {
	if l == nil {
		return []types.Legend{}
	}
	return l
}
