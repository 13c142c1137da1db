package locations

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

//go:embed data/locations.json
var embeddedDataset []byte

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Repository is the read-only heritage catalog. Filters use case-insensitive matching:
// category is compared exactly, period and dynasty by substring. Callers must not rely
// on the iteration order being identical across backends.
type Repository interface {
	All(ctx context.Context) ([]types.Location, error)
	ByID(ctx context.Context, id string) (types.Location, error)
	ByCategory(ctx context.Context, category string) ([]types.Location, error)
	ByPeriod(ctx context.Context, period string) ([]types.Location, error)
	ByDynasty(ctx context.Context, dynasty string) ([]types.Location, error)
	Search(ctx context.Context, text string) ([]types.Location, error)
	Related(ctx context.Context, id string, limit int) ([]types.RelatedLocation, error)
	Themes(ctx context.Context) ([]string, error)
	Dynasties(ctx context.Context) ([]string, error)
	Statistics(ctx context.Context) (types.CatalogStatistics, error)
}

// LoadDataset decodes and validates a JSON array of locations. Coordinates are normalized
// on decode and ids must be unique.
func LoadDataset(r io.Reader) ([]types.Location, error) {
	var locs []types.Location
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&locs); err != nil {
		return nil, fmt.Errorf("failed to decode location dataset: %w", err)
	}

	seen := make(map[string]struct{}, len(locs))
	for _, loc := range locs {
		if err := loc.Validate(); err != nil {
			return nil, fmt.Errorf("invalid location dataset: %w", err)
		}
		if _, dup := seen[loc.ID]; dup {
			return nil, fmt.Errorf("invalid location dataset: duplicate id %q", loc.ID)
		}
		seen[loc.ID] = struct{}{}
	}
	return locs, nil
}

// EmbeddedDataset returns the catalog shipped with the binary.
func EmbeddedDataset() ([]types.Location, error) {
	return LoadDataset(bytes.NewReader(embeddedDataset))
}

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository serves an immutable, in-process catalog. Safe for concurrent reads.
type MemoryRepository struct {
	logger    *slog.Logger
	locations []types.Location
	byID      map[string]int
}

func NewMemoryRepository(locations []types.Location, logger *slog.Logger) (*MemoryRepository, error) {
	byID := make(map[string]int, len(locations))
	for i, loc := range locations {
		if err := loc.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byID[loc.ID]; dup {
			return nil, fmt.Errorf("duplicate location id %q", loc.ID)
		}
		byID[loc.ID] = i
	}
	logger.Info("Loaded in-memory location catalog", slog.Int("locations", len(locations)))
	return &MemoryRepository{
		logger:    logger,
		locations: slices.Clone(locations),
		byID:      byID,
	}, nil
}

func (r *MemoryRepository) All(_ context.Context) ([]types.Location, error) {
	return slices.Clone(r.locations), nil
}

func (r *MemoryRepository) ByID(_ context.Context, id string) (types.Location, error) {
	i, ok := r.byID[id]
	if !ok {
		return types.Location{}, fmt.Errorf("location %q: %w", id, types.ErrNotFound)
	}
	return r.locations[i], nil
}

func (r *MemoryRepository) ByCategory(_ context.Context, category string) ([]types.Location, error) {
	return filter(r.locations, func(l types.Location) bool { return matchesCategory(l, category) }), nil
}

func (r *MemoryRepository) ByPeriod(_ context.Context, period string) ([]types.Location, error) {
	return filter(r.locations, func(l types.Location) bool { return containsFold(l.Period, period) }), nil
}

func (r *MemoryRepository) ByDynasty(_ context.Context, dynasty string) ([]types.Location, error) {
	return filter(r.locations, func(l types.Location) bool { return containsFold(l.Dynasty, dynasty) }), nil
}

func (r *MemoryRepository) Search(_ context.Context, text string) ([]types.Location, error) {
	return filter(r.locations, func(l types.Location) bool { return matchesSearch(l, text) }), nil
}

func (r *MemoryRepository) Related(ctx context.Context, id string, limit int) ([]types.RelatedLocation, error) {
	target, err := r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return relate(target, r.locations, limit), nil
}

func (r *MemoryRepository) Themes(_ context.Context) ([]string, error) {
	return themes(r.locations), nil
}

func (r *MemoryRepository) Dynasties(_ context.Context) ([]string, error) {
	return dynasties(r.locations), nil
}

func (r *MemoryRepository) Statistics(_ context.Context) (types.CatalogStatistics, error) {
	return statistics(r.locations, BackendMemory), nil
}
