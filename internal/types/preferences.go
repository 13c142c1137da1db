package types

import "encoding/json"

type BudgetRange string

const (
	BudgetLow    BudgetRange = "low"
	BudgetMedium BudgetRange = "medium"
	BudgetHigh   BudgetRange = "high"
)

type TransportMode string

const (
	TransportCar    TransportMode = "car"
	TransportTrain  TransportMode = "train"
	TransportBus    TransportMode = "bus"
	TransportFlight TransportMode = "flight"
	TransportMixed  TransportMode = "mixed"
)

// Level is the shared low/medium/high scale used by crowd, accommodation and difficulty preferences.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Canonical interest vocabulary recommended to clients. Free-form interests are still accepted.
const (
	InterestHistorical     = "historical"
	InterestReligious      = "religious"
	InterestArchitectural  = "architectural"
	InterestCultural       = "cultural"
	InterestArchaeological = "archaeological"
	InterestRoyalHeritage  = "royal_heritage"
	InterestAncientTemples = "ancient_temples"
	InterestFortsPalaces   = "forts_palaces"
	InterestUnescoSites    = "unesco_sites"
)

// UserPreferences is the canonical, fully defaulted preference value consumed by the planner.
type UserPreferences struct {
	Interests               []string      `json:"interests"`
	MaxTravelDays           int           `json:"maxTravelDays"`
	BudgetRange             BudgetRange   `json:"budgetRange"`
	TransportMode           TransportMode `json:"transportMode"`
	StartLocation           *Coordinate   `json:"startLocation,omitempty"`
	PreferredRegions        []string      `json:"preferredRegions,omitempty"`
	MaxDistanceKm           *float64      `json:"maxDistanceKm,omitempty"`
	PreferredPeriods        []string      `json:"preferredPeriods,omitempty"`
	PreferredDynasties      []string      `json:"preferredDynasties,omitempty"`
	CrowdPreference         Level         `json:"crowdPreference"`
	AccommodationPreference Level         `json:"accommodationPreference"`
	AccessibilityRequired   bool          `json:"accessibilityRequired"`
	PhysicalDifficulty      Level         `json:"physicalDifficulty"`
	MustVisit               []string      `json:"mustVisit,omitempty"`

	// Fixed anchors for the legacy start+end routing mode, as catalog ids.
	StartLocationID string `json:"startLocationId,omitempty"`
	EndLocationID   string `json:"endLocationId,omitempty"`
}

// Clone returns a deep copy so relaxation never mutates the caller's value.
func (p UserPreferences) Clone() UserPreferences {
	c := p
	c.Interests = append([]string(nil), p.Interests...)
	c.PreferredRegions = append([]string(nil), p.PreferredRegions...)
	c.PreferredPeriods = append([]string(nil), p.PreferredPeriods...)
	c.PreferredDynasties = append([]string(nil), p.PreferredDynasties...)
	c.MustVisit = append([]string(nil), p.MustVisit...)
	if p.StartLocation != nil {
		s := *p.StartLocation
		c.StartLocation = &s
	}
	if p.MaxDistanceKm != nil {
		d := *p.MaxDistanceKm
		c.MaxDistanceKm = &d
	}
	return c
}

// PreferencesRequest is the loosely typed payload accepted over HTTP. Numeric fields are kept
// raw so that non-numeric input is reported as an invalid preference instead of being coerced.
// maxDays, startLocation-as-id and endLocation are accepted for older clients.
type PreferencesRequest struct {
	Interests               []string        `json:"interests,omitempty" example:"religious,historical"`
	MaxTravelDays           json.RawMessage `json:"maxTravelDays,omitempty" swaggertype:"integer" example:"3"`
	MaxDays                 json.RawMessage `json:"maxDays,omitempty" swaggertype:"integer"`
	BudgetRange             string          `json:"budgetRange,omitempty" example:"medium"`
	TransportMode           string          `json:"transportMode,omitempty" example:"car"`
	StartLocation           json.RawMessage `json:"startLocation,omitempty" swaggertype:"object"`
	EndLocation             string          `json:"endLocation,omitempty"`
	PreferredRegions        []string        `json:"preferredRegions,omitempty"`
	MaxDistanceKm           json.RawMessage `json:"maxDistanceKm,omitempty" swaggertype:"number"`
	PreferredPeriods        []string        `json:"preferredPeriods,omitempty"`
	PreferredDynasties      []string        `json:"preferredDynasties,omitempty"`
	CrowdPreference         string          `json:"crowdPreference,omitempty"`
	AccommodationPreference string          `json:"accommodationPreference,omitempty"`
	AccessibilityRequired   *bool           `json:"accessibilityRequired,omitempty"`
	PhysicalDifficulty      string          `json:"physicalDifficulty,omitempty"`
	MustVisit               []string        `json:"mustVisit,omitempty"`
}
