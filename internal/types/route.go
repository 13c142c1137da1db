package types

// RouteStop is a single stop of a predefined or personalized route.
type RouteStop struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Coordinates Point    `json:"coordinates" swaggertype:"array,number"`
	Description string   `json:"description"`
	Score       *float64 `json:"score,omitempty"`
}

// Route is an itinerary. Predefined routes come from the embedded route set; personalized
// routes are built per request and never stored.
type Route struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Color       string       `json:"color"`
	DashArray   string       `json:"dashArray,omitempty"`
	Path        []Point      `json:"path" swaggertype:"array,number"`
	Locations   []RouteStop  `json:"locations"`
	Metrics     *TripMetrics `json:"metrics,omitempty"`
}

// Leg is the hop between two consecutive stops.
type Leg struct {
	From          string        `json:"from"`
	To            string        `json:"to"`
	DistanceKm    float64       `json:"distanceKm"`
	TransportMode TransportMode `json:"transportMode"`
	TransportCost float64       `json:"transportCost"`
}

// TripMetrics is the rough distance and cost estimate attached to a personalized route.
type TripMetrics struct {
	TotalDistanceKm    float64 `json:"totalDistanceKm"`
	Days               int     `json:"days"`
	Stops              int     `json:"stops"`
	Legs               []Leg   `json:"legs"`
	TransportCost      float64 `json:"transportCost"`
	AccommodationCost  float64 `json:"accommodationCost"`
	FoodCost           float64 `json:"foodCost"`
	LocalTransportCost float64 `json:"localTransportCost"`
	EstimatedTotalCost float64 `json:"estimatedTotalCost"`
	Currency           string  `json:"currency"`
}
