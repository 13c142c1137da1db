package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "heritage-routes"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	RouteRequestsTotal        metric.Int64Counter
	RouteBuildDurationSeconds metric.Float64Histogram
	RouteStops                metric.Int64Histogram
	NoSuitableLocationsTotal  metric.Int64Counter
	ChatQueriesTotal          metric.Int64Counter
	TranslationCacheHits      metric.Int64Counter
	TranslationCacheMisses    metric.Int64Counter
	TranslationFailuresTotal  metric.Int64Counter
	DbQueryDurationSeconds    metric.Float64Histogram
	DbQueryErrorsTotal        metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments on the global MeterProvider. Only the first call
// has an effect, so the provider must be installed before it.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter(meterName)
		m := &AppMetrics{}

		m.RouteRequestsTotal = must(meter.Int64Counter("route_requests_total",
			metric.WithDescription("Personalized route requests by outcome"),
			metric.WithUnit("{request}")))
		m.RouteBuildDurationSeconds = must(meter.Float64Histogram("route_build_duration_seconds",
			metric.WithDescription("Time spent building a personalized route"),
			metric.WithUnit("s")))
		m.RouteStops = must(meter.Int64Histogram("route_stops",
			metric.WithDescription("Number of stops in built routes"),
			metric.WithUnit("{stop}")))
		m.NoSuitableLocationsTotal = must(meter.Int64Counter("no_suitable_locations_total",
			metric.WithDescription("Route requests that matched nothing even after relaxing"),
			metric.WithUnit("{request}")))
		m.ChatQueriesTotal = must(meter.Int64Counter("chat_queries_total",
			metric.WithDescription("Chatbot queries by answer type"),
			metric.WithUnit("{query}")))
		m.TranslationCacheHits = must(meter.Int64Counter("translation_cache_hits_total",
			metric.WithDescription("Translations served from cache")))
		m.TranslationCacheMisses = must(meter.Int64Counter("translation_cache_misses_total",
			metric.WithDescription("Translations requested from the backend")))
		m.TranslationFailuresTotal = must(meter.Int64Counter("translation_failures_total",
			metric.WithDescription("Translation backend failures that fell back to the source text")))
		m.DbQueryDurationSeconds = must(meter.Float64Histogram("db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s")))
		m.DbQueryErrorsTotal = must(meter.Int64Counter("db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}")))

		appMetrics = m
	})
}

// Get returns the instruments, initializing them against the current global provider
// (a no-op provider in tests) on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

func must[T any](instrument T, err error) T {
	if err != nil {
		log.Fatalf("Metrics: failed to create instrument: %v", err)
	}
	return instrument
}
