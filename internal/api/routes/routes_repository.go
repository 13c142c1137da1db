package routes

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

//go:embed data/routes.json
var embeddedRoutes []byte

// Repository serves the curated route set.
type Repository interface {
	All(ctx context.Context) ([]types.Route, error)
	ByID(ctx context.Context, id string) (types.Route, error)
	ByTheme(ctx context.Context, theme string) ([]types.Route, error)
}

// LoadRoutes decodes a JSON array of routes, rejecting duplicate ids and invalid stop
// coordinates.
func LoadRoutes(r io.Reader) ([]types.Route, error) {
	var routes []types.Route
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&routes); err != nil {
		return nil, fmt.Errorf("failed to decode route set: %w", err)
	}

	seen := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		if route.ID == "" || route.Name == "" {
			return nil, fmt.Errorf("invalid route set: route id and name are required")
		}
		if _, dup := seen[route.ID]; dup {
			return nil, fmt.Errorf("invalid route set: duplicate id %q", route.ID)
		}
		seen[route.ID] = struct{}{}
		for _, stop := range route.Locations {
			c := types.Coordinate{Lat: stop.Coordinates[0], Lng: stop.Coordinates[1]}
			if err := c.Validate(); err != nil {
				return nil, fmt.Errorf("invalid route %q stop %q: %w", route.ID, stop.Name, err)
			}
		}
	}
	return routes, nil
}

// EmbeddedRoutes returns the route set shipped with the binary.
func EmbeddedRoutes() ([]types.Route, error) {
	return LoadRoutes(bytes.NewReader(embeddedRoutes))
}

var _ Repository = (*MemoryRepository)(nil)

type MemoryRepository struct {
	routes []types.Route
}

func NewMemoryRepository(routes []types.Route, logger *slog.Logger) *MemoryRepository {
	logger.Info("Loaded predefined routes", slog.Int("routes", len(routes)))
	return &MemoryRepository{routes: slices.Clone(routes)}
}

func (r *MemoryRepository) All(_ context.Context) ([]types.Route, error) {
	return slices.Clone(r.routes), nil
}

func (r *MemoryRepository) ByID(_ context.Context, id string) (types.Route, error) {
	for _, route := range r.routes {
		if route.ID == id {
			return route, nil
		}
	}
	return types.Route{}, fmt.Errorf("route %q: %w", id, types.ErrNotFound)
}

// ByTheme matches theme as a case-insensitive substring of the id, name or description.
func (r *MemoryRepository) ByTheme(_ context.Context, theme string) ([]types.Route, error) {
	needle := strings.ToLower(strings.TrimSpace(theme))
	out := make([]types.Route, 0)
	if needle == "" {
		return out, nil
	}
	for _, route := range r.routes {
		if strings.Contains(strings.ToLower(route.ID), needle) ||
			strings.Contains(strings.ToLower(route.Name), needle) ||
			strings.Contains(strings.ToLower(route.Description), needle) {
			out = append(out, route)
		}
	}
	return out, nil
}
