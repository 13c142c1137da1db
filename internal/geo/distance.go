// Package geo holds great-circle helpers shared by the catalog and the planner.
package geo

import (
	"math"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between a and b.
// Identical points yield exactly 0.
func Distance(a, b types.Coordinate) float64 {
	if a == b {
		return 0
	}
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// rounding can push h marginally outside [0,1] for antipodal points
	h = math.Min(1, math.Max(0, h))

	d := 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
	if math.IsNaN(d) {
		return 0
	}
	return d
}

// PathLength sums the distances between consecutive coordinates.
func PathLength(path []types.Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += Distance(path[i-1], path[i])
	}
	return total
}

// Nearest returns the index of the candidate closest to from, or -1 when candidates is empty.
// Ties keep the lowest index.
func Nearest(from types.Coordinate, candidates []types.Coordinate) int {
	best, bestDist := -1, math.Inf(1)
	for i, c := range candidates {
		if d := Distance(from, c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
