package planner

import (
	"math"

	"github.com/FACorreiaa/go-heritage-routes/internal/geo"
	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

// Rough INR cost model for trip estimates.
var (
	transportCostPerKm = map[types.TransportMode]float64{
		types.TransportFlight: 3.5,
		types.TransportTrain:  0.75,
		types.TransportBus:    0.45,
		types.TransportCar:    12,
	}
	accommodationPerNight = map[types.Level]float64{
		types.LevelLow:    800,
		types.LevelMedium: 2500,
		types.LevelHigh:   6000,
	}
	foodPerDay = map[types.BudgetRange]float64{
		types.BudgetLow:    800,
		types.BudgetMedium: 1500,
		types.BudgetHigh:   3000,
	}
)

const (
	minLegCost           = 200.0
	localTransportPerDay = 500.0
	currencyINR          = "INR"
)

// legMode resolves the mixed transport mode by leg length.
func legMode(mode types.TransportMode, distanceKm float64) types.TransportMode {
	if mode != types.TransportMixed && mode != "" {
		return mode
	}
	switch {
	case distanceKm > 800:
		return types.TransportFlight
	case distanceKm > 400:
		return types.TransportTrain
	default:
		return types.TransportCar
	}
}

func legCost(mode types.TransportMode, distanceKm float64) float64 {
	perKm, ok := transportCostPerKm[mode]
	if !ok {
		perKm = transportCostPerKm[types.TransportTrain]
	}
	return math.Max(math.Round(distanceKm*perKm), minLegCost)
}

// EstimateTrip computes leg distances and a cost estimate for an ordered list of stops.
func EstimateTrip(stops []types.Location, prefs types.UserPreferences) types.TripMetrics {
	m := types.TripMetrics{
		Days:     prefs.MaxTravelDays,
		Stops:    len(stops),
		Legs:     make([]types.Leg, 0, max(len(stops)-1, 0)),
		Currency: currencyINR,
	}

	for i := 1; i < len(stops); i++ {
		d := geo.Distance(stops[i-1].Coordinates, stops[i].Coordinates)
		mode := legMode(prefs.TransportMode, d)
		cost := legCost(mode, d)
		m.Legs = append(m.Legs, types.Leg{
			From:          stops[i-1].ID,
			To:            stops[i].ID,
			DistanceKm:    math.Round(d*10) / 10,
			TransportMode: mode,
			TransportCost: cost,
		})
		m.TotalDistanceKm += d
		m.TransportCost += cost
	}
	m.TotalDistanceKm = math.Round(m.TotalDistanceKm*10) / 10

	days := float64(prefs.MaxTravelDays)
	m.AccommodationCost = accommodationPerNight[levelOrMedium(prefs.AccommodationPreference)] * days
	m.FoodCost = foodPerDay[budgetOrMedium(prefs.BudgetRange)] * days
	m.LocalTransportCost = localTransportPerDay * days
	m.EstimatedTotalCost = m.TransportCost + m.AccommodationCost + m.FoodCost + m.LocalTransportCost
	return m
}

func levelOrMedium(l types.Level) types.Level {
	if _, ok := accommodationPerNight[l]; ok {
		return l
	}
	return types.LevelMedium
}

func budgetOrMedium(b types.BudgetRange) types.BudgetRange {
	if _, ok := foodPerDay[b]; ok {
		return b
	}
	return types.BudgetMedium
}
