package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

const (
	DefaultMaxTravelDays = 7
	MaxTripDays          = 30
)

// NormalizePreferences validates a raw request and fills every default, producing the
// single canonical value the rest of the planner works with.
func NormalizePreferences(req types.PreferencesRequest, defaultDays int) (types.UserPreferences, error) {
	if defaultDays <= 0 {
		defaultDays = DefaultMaxTravelDays
	}
	prefs := types.UserPreferences{
		Interests:               cleanList(req.Interests),
		MaxTravelDays:           defaultDays,
		BudgetRange:             types.BudgetMedium,
		TransportMode:           types.TransportCar,
		PreferredRegions:        cleanList(req.PreferredRegions),
		PreferredPeriods:        cleanList(req.PreferredPeriods),
		PreferredDynasties:      cleanList(req.PreferredDynasties),
		CrowdPreference:         types.LevelMedium,
		AccommodationPreference: types.LevelMedium,
		PhysicalDifficulty:      types.LevelMedium,
		MustVisit:               cleanList(req.MustVisit),
		EndLocationID:           strings.TrimSpace(req.EndLocation),
	}

	daysRaw, daysField := req.MaxTravelDays, "maxTravelDays"
	if !present(daysRaw) {
		daysRaw, daysField = req.MaxDays, "maxDays"
	}
	if present(daysRaw) {
		days, err := parsePositiveInt(daysRaw)
		if err != nil {
			return types.UserPreferences{}, &types.InvalidPreferenceError{Field: daysField, Reason: err.Error()}
		}
		prefs.MaxTravelDays = days
	}

	if present(req.MaxDistanceKm) {
		d, err := parsePositiveFloat(req.MaxDistanceKm)
		if err != nil {
			return types.UserPreferences{}, &types.InvalidPreferenceError{Field: "maxDistanceKm", Reason: err.Error()}
		}
		prefs.MaxDistanceKm = &d
	}

	if present(req.StartLocation) {
		if err := parseStart(req.StartLocation, &prefs); err != nil {
			return types.UserPreferences{}, &types.InvalidPreferenceError{Field: "startLocation", Reason: err.Error()}
		}
	}

	var err error
	if prefs.BudgetRange, err = parseEnum("budgetRange", req.BudgetRange, prefs.BudgetRange,
		types.BudgetLow, types.BudgetMedium, types.BudgetHigh); err != nil {
		return types.UserPreferences{}, err
	}
	if prefs.TransportMode, err = parseEnum("transportMode", req.TransportMode, prefs.TransportMode,
		types.TransportCar, types.TransportTrain, types.TransportBus, types.TransportFlight, types.TransportMixed); err != nil {
		return types.UserPreferences{}, err
	}
	if prefs.CrowdPreference, err = parseLevel("crowdPreference", req.CrowdPreference); err != nil {
		return types.UserPreferences{}, err
	}
	if prefs.AccommodationPreference, err = parseLevel("accommodationPreference", req.AccommodationPreference); err != nil {
		return types.UserPreferences{}, err
	}
	if prefs.PhysicalDifficulty, err = parseLevel("physicalDifficulty", req.PhysicalDifficulty); err != nil {
		return types.UserPreferences{}, err
	}
	if req.AccessibilityRequired != nil {
		prefs.AccessibilityRequired = *req.AccessibilityRequired
	}

	if prefs.StartLocationID != "" && prefs.StartLocationID == prefs.EndLocationID {
		return types.UserPreferences{}, &types.InvalidPreferenceError{Field: "endLocation", Reason: "must differ from startLocation"}
	}
	return prefs, nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// parseNumber only accepts JSON numbers; quoted numbers are rejected rather than coerced.
func parseNumber(raw json.RawMessage) (float64, error) {
	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] == '"' || trimmed[0] == '{' || trimmed[0] == '[' || trimmed[0] == 't' || trimmed[0] == 'f' {
		return 0, fmt.Errorf("must be a number")
	}
	var n float64
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return 0, fmt.Errorf("must be a number")
	}
	return n, nil
}

func parsePositiveInt(raw json.RawMessage) (int, error) {
	n, err := parseNumber(raw)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) {
		return 0, fmt.Errorf("must be a whole number")
	}
	if n < 1 {
		return 0, fmt.Errorf("must be a positive integer")
	}
	// compare before converting, int(n) wraps for huge values
	if n > MaxTripDays {
		return 0, fmt.Errorf("must be at most %d", MaxTripDays)
	}
	return int(n), nil
}

func parsePositiveFloat(raw json.RawMessage) (float64, error) {
	n, err := parseNumber(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 || math.IsInf(n, 0) {
		return 0, fmt.Errorf("must be greater than zero")
	}
	return n, nil
}

// parseStart accepts a coordinate (object or pair) or, for older clients, a location id.
func parseStart(raw json.RawMessage, prefs *types.UserPreferences) error {
	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		prefs.StartLocationID = strings.TrimSpace(id)
		return nil
	}
	var c types.Coordinate
	if err := json.Unmarshal(trimmed, &c); err != nil {
		return err
	}
	prefs.StartLocation = &c
	return nil
}

func parseEnum[T ~string](field, raw string, def T, allowed ...T) (T, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return def, nil
	}
	for _, a := range allowed {
		if T(v) == a {
			return a, nil
		}
	}
	return def, &types.InvalidPreferenceError{Field: field, Reason: fmt.Sprintf("unsupported value %q", raw)}
}

func parseLevel(field, raw string) (types.Level, error) {
	return parseEnum(field, raw, types.LevelMedium, types.LevelLow, types.LevelMedium, types.LevelHigh)
}

// cleanList trims entries, drops blanks and removes case-insensitive duplicates.
func cleanList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
