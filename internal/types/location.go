package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Coordinate is a WGS84 position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" example:"15.335"`
	Lng float64 `json:"lng" example:"76.46"`
}

// Point is the [lat, lng] pair used on the wire for route paths.
type Point [2]float64

func (c Coordinate) Point() Point {
	return Point{c.Lat, c.Lng}
}

// Validate reports whether the coordinate lies within the valid latitude and longitude ranges.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return fmt.Errorf("coordinate contains NaN")
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.Lng)
	}
	return nil
}

// UnmarshalJSON accepts {"lat":..,"lng":..}, {"latitude":..,"longitude":..} or [lat, lng].
// Anything else is rejected so that a malformed payload never degrades into (0,0).
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("coordinate must not be null")
	}

	switch data[0] {
	case '[':
		var pair []float64
		if err := json.Unmarshal(data, &pair); err != nil {
			return fmt.Errorf("invalid coordinate pair: %w", err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("coordinate pair must have exactly 2 elements, got %d", len(pair))
		}
		c.Lat, c.Lng = pair[0], pair[1]
	case '{':
		var obj struct {
			Lat       *float64 `json:"lat"`
			Lng       *float64 `json:"lng"`
			Lon       *float64 `json:"lon"`
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("invalid coordinate object: %w", err)
		}
		lat := firstNonNil(obj.Lat, obj.Latitude)
		lng := firstNonNil(obj.Lng, obj.Lon, obj.Longitude)
		if lat == nil || lng == nil {
			return fmt.Errorf("coordinate object requires lat and lng")
		}
		c.Lat, c.Lng = *lat, *lng
	default:
		return fmt.Errorf("coordinate must be an object or a [lat, lng] array")
	}

	return c.Validate()
}

func firstNonNil(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

type Legend struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Location is a heritage site from the catalog. Values are immutable once loaded.
type Location struct {
	ID            string     `json:"id" example:"hampi"`
	Name          string     `json:"name" example:"Hampi"`
	Description   string     `json:"description"`
	Category      string     `json:"category" example:"historical"`
	Coordinates   Coordinate `json:"coordinates"`
	History       string     `json:"history,omitempty"`
	Period        string     `json:"period,omitempty" example:"1336 CE - 1646 CE"`
	Dynasty       string     `json:"dynasty,omitempty" example:"Vijayanagara Empire"`
	CulturalFacts []string   `json:"culturalFacts,omitempty"`
	Legends       []Legend   `json:"legends,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
}

// Validate checks the catalog invariants for a single record.
func (l Location) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("location id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("location %q: name is required", l.ID)
	}
	if err := l.Coordinates.Validate(); err != nil {
		return fmt.Errorf("location %q: %w", l.ID, err)
	}
	return nil
}

// RelatedLocation is a catalog neighbour connected by a shared theme or dynasty.
type RelatedLocation struct {
	Location     Location `json:"location"`
	Relationship string   `json:"relationship" example:"SHARES_THEME"`
	Strength     int      `json:"strength" example:"2"`
}

const (
	RelationSharesTheme = "SHARES_THEME"
	RelationSameDynasty = "SAME_DYNASTY"
)

// NearbyLocation pairs a location with its distance from a query point.
type NearbyLocation struct {
	Location   Location `json:"location"`
	DistanceKm float64  `json:"distanceKm"`
}

type CatalogStatistics struct {
	TotalLocations int            `json:"totalLocations"`
	Categories     map[string]int `json:"categories"`
	TotalThemes    int            `json:"totalThemes"`
	TotalDynasties int            `json:"totalDynasties"`
	Backend        string         `json:"backend"`
}

// LocationQuery is the advanced search payload. All non-empty fields are combined with AND.
type LocationQuery struct {
	Query    string   `json:"query,omitempty"`
	Category string   `json:"category,omitempty"`
	Period   string   `json:"period,omitempty"`
	Dynasty  string   `json:"dynasty,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// PlaceInfo aggregates everything the UI shows for a single site.
type PlaceInfo struct {
	Location Location          `json:"location"`
	Related  []RelatedLocation `json:"related"`
	Nearby   []NearbyLocation  `json:"nearby"`
}
