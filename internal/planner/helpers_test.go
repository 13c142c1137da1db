package planner

import (
	"context"
	"log/slog"
	"os"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

type sliceCatalog []types.Location

func (c sliceCatalog) All(_ context.Context) ([]types.Location, error) {
	return c, nil
}

func (c sliceCatalog) ByID(_ context.Context, id string) (types.Location, error) {
	for _, l := range c {
		if l.ID == id {
			return l, nil
		}
	}
	return types.Location{}, types.ErrNotFound
}

func setupPlannerTest() *Planner {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(Config{}, logger)
}

func site(id string, lat, lng float64, category string) types.Location {
	return types.Location{
		ID:          id,
		Name:        "Site " + id,
		Category:    category,
		Coordinates: types.Coordinate{Lat: lat, Lng: lng},
	}
}

func coord(lat, lng float64) *types.Coordinate {
	return &types.Coordinate{Lat: lat, Lng: lng}
}

func ids(stops []types.ScoredLocation) []string {
	out := make([]string, len(stops))
	for i, s := range stops {
		out[i] = s.Location.ID
	}
	return out
}

func locationIDs(locs []types.Location) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.ID
	}
	return out
}

// scenarioCatalog is the three-site catalog used by the end-to-end scenarios.
func scenarioCatalog() sliceCatalog {
	return sliceCatalog{
		site("A", 0, 0, "religious"),
		site("B", 0, 1, "historical"),
		site("C", 10, 10, "religious"),
	}
}

func heritageCatalog() sliceCatalog {
	return sliceCatalog{
		{
			ID: "hampi", Name: "Hampi", Category: "historical",
			Description: "Ruins of the Vijayanagara capital with temples and royal enclosures",
			Coordinates: types.Coordinate{Lat: 15.335, Lng: 76.46},
			Period:      "1336 CE - 1646 CE", Dynasty: "Vijayanagara Empire",
			Tags: []string{"unesco", "ruins", "temples"},
		},
		{
			ID: "taj-mahal", Name: "Taj Mahal", Category: "historical",
			Description: "Ivory-white marble mausoleum on the bank of the Yamuna",
			Coordinates: types.Coordinate{Lat: 27.1751, Lng: 78.0421},
			Period:      "1632 CE - 1653 CE", Dynasty: "Mughal Empire",
			Tags: []string{"unesco", "mughal", "architecture"},
		},
		{
			ID: "bodh-gaya", Name: "Bodh Gaya", Category: "religious",
			Description: "Where the Buddha attained enlightenment",
			Coordinates: types.Coordinate{Lat: 24.6959, Lng: 84.992},
			Period:      "3rd century BCE", Dynasty: "Maurya Empire",
			Tags: []string{"buddhist", "pilgrimage"},
		},
		{
			ID: "meenakshi", Name: "Meenakshi Amman Temple", Category: "religious",
			Description: "Historic Hindu temple on the southern bank of the Vaigai",
			Coordinates: types.Coordinate{Lat: 9.9195, Lng: 78.1193},
			Period:      "17th century CE", Dynasty: "Nayak",
			Tags: []string{"dravidian", "ancient_temples"},
		},
		{
			ID: "jaisalmer", Name: "Jaisalmer Fort", Category: "historical",
			Description: "Living sandstone citadel in the Thar desert",
			Coordinates: types.Coordinate{Lat: 26.9124, Lng: 70.9128},
			Period:      "1156 CE", Dynasty: "Bhati Rajput",
			Tags: []string{"fort", "desert"},
		},
	}
}
