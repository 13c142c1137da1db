package planner

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

const (
	stopDescriptionLimit = 100
	defaultRouteColor    = "#3f51b5"
)

// themeColors is checked in order; the first keyword contained in an interest wins.
var themeColors = []struct {
	keywords []string
	color    string
}{
	{[]string{"temple", "religious", "hindu", "jain"}, "#9C27B0"},
	{[]string{"buddhist"}, "#FF9800"},
	{[]string{"mughal", "islamic"}, "#4CAF50"},
	{[]string{"architecture", "heritage"}, "#3F51B5"},
	{[]string{"history", "ancient", "medieval"}, "#795548"},
	{[]string{"nature", "mountain"}, "#009688"},
	{[]string{"beach"}, "#03A9F4"},
	{[]string{"wildlife"}, "#8BC34A"},
	{[]string{"food", "cuisine"}, "#FF5722"},
	{[]string{"art", "craft", "sculpture"}, "#E91E63"},
}

// RouteBuilder turns an ordered stop list into the itinerary value returned to callers.
type RouteBuilder struct {
	newID func() string
	title cases.Caser
}

func NewRouteBuilder() *RouteBuilder {
	return &RouteBuilder{
		newID: uuid.NewString,
		title: cases.Title(language.English),
	}
}

func (b *RouteBuilder) Build(stops []types.ScoredLocation, prefs types.UserPreferences) types.Route {
	route := types.Route{
		ID:          "personalized-" + b.newID(),
		Name:        b.routeName(prefs.Interests),
		Description: routeDescription(prefs),
		Color:       ThemeColor(prefs.Interests),
		Path:        make([]types.Point, 0, len(stops)),
		Locations:   make([]types.RouteStop, 0, len(stops)),
	}

	ordered := make([]types.Location, 0, len(stops))
	for _, s := range stops {
		score := s.Score
		route.Path = append(route.Path, s.Location.Coordinates.Point())
		route.Locations = append(route.Locations, types.RouteStop{
			ID:          s.Location.ID,
			Name:        s.Location.Name,
			Coordinates: s.Location.Coordinates.Point(),
			Description: Truncate(s.Location.Description, stopDescriptionLimit),
			Score:       &score,
		})
		ordered = append(ordered, s.Location)
	}

	metrics := EstimateTrip(ordered, prefs)
	route.Metrics = &metrics
	return route
}

func (b *RouteBuilder) routeName(interests []string) string {
	if len(interests) == 0 {
		return "Personalized Heritage Route"
	}
	top := interests
	if len(top) > 2 {
		top = top[:2]
	}
	labels := make([]string, len(top))
	for i, interest := range top {
		labels[i] = b.title.String(strings.ReplaceAll(interest, "_", " "))
	}
	return fmt.Sprintf("Personalized %s Route", strings.Join(labels, " & "))
}

func routeDescription(prefs types.UserPreferences) string {
	subject := "heritage sites"
	if len(prefs.Interests) > 0 {
		subject = strings.Join(prefs.Interests, ", ")
	}
	days := "days"
	if prefs.MaxTravelDays == 1 {
		days = "day"
	}
	return fmt.Sprintf("A customized route based on your interests in %s over %d %s", subject, prefs.MaxTravelDays, days)
}

// ThemeColor picks a display color from the first interest that hits a known theme.
func ThemeColor(interests []string) string {
	for _, interest := range interests {
		i := strings.ToLower(interest)
		for _, theme := range themeColors {
			for _, kw := range theme.keywords {
				if strings.Contains(i, kw) {
					return theme.color
				}
			}
		}
	}
	return defaultRouteColor
}

// Truncate shortens s to limit runes and appends "..." when it was cut.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
