package types

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// NoSuitableLocationsError is returned when neither the requested nor the relaxed
// preferences leave any candidate location.
type NoSuitableLocationsError struct {
	Original UserPreferences
	Relaxed  UserPreferences
}

func (e *NoSuitableLocationsError) Error() string {
	return fmt.Sprintf("no suitable locations for interests %v, even after relaxing period, dynasty and distance constraints", e.Original.Interests)
}

// InvalidPreferenceError rejects a malformed preference payload before any filtering runs.
type InvalidPreferenceError struct {
	Field  string
	Reason string
}

func (e *InvalidPreferenceError) Error() string {
	return fmt.Sprintf("invalid preference %q: %s", e.Field, e.Reason)
}
