package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	appLogger "github.com/FACorreiaa/go-heritage-routes/app/logger"
	appMiddleware "github.com/FACorreiaa/go-heritage-routes/app/middleware"
	"github.com/FACorreiaa/go-heritage-routes/config"
	"github.com/FACorreiaa/go-heritage-routes/internal/container"
	"github.com/FACorreiaa/go-heritage-routes/internal/router"
	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

// E2ETestSuite drives the full HTTP stack over the embedded catalog.
type E2ETestSuite struct {
	suite.Suite
	server    *httptest.Server
	client    *http.Client
	baseURL   string
	logger    *slog.Logger
	cfg       config.Config
	container *container.Container
}

func testConfig() config.Config {
	var cfg config.Config
	cfg.Catalog.Backend = "memory"
	cfg.JWT = config.JWTConfig{SecretKey: "e2e-secret", Issuer: "heritage-routes", Audience: "heritage-routes-admin"}
	cfg.Planner = config.PlannerConfig{StopsPerDay: 2, DefaultMaxTravelDays: 7, RelaxedMaxDistanceKm: 2000, DefaultPreferredDistanceKm: 500}
	cfg.Chatbot = config.ChatbotConfig{SessionTTL: time.Hour, HistorySize: 8, RateLimitPerMinute: 1000}
	cfg.Translation = config.TranslationConfig{Enabled: false, CacheTTL: time.Hour}
	return cfg
}

func (suite *E2ETestSuite) SetupSuite() {
	suite.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	suite.cfg = testConfig()

	c, err := container.NewContainer(context.Background(), &suite.cfg, suite.logger)
	suite.Require().NoError(err)
	suite.container = c

	mainRouter := router.SetupRouter(&router.Config{
		LocationsHandler:       c.LocationsHandler,
		RoutesHandler:          c.RoutesHandler,
		ChatbotHandler:         c.ChatbotHandler,
		TranslationHandler:     c.TranslationHandler,
		AuthenticateMiddleware: appMiddleware.Authenticate(suite.logger, suite.cfg.JWT),
		ChatRateLimitPerMinute: suite.cfg.Chatbot.RateLimitPerMinute,
	})

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(appLogger.StructuredLogger(suite.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Mount("/", mainRouter)

	suite.server = httptest.NewServer(r)
	suite.baseURL = suite.server.URL + "/api/v1"
	suite.client = &http.Client{Timeout: 10 * time.Second}
}

func (suite *E2ETestSuite) TearDownSuite() {
	if suite.server != nil {
		suite.server.Close()
	}
	if suite.container != nil {
		suite.container.Close()
	}
}

func (suite *E2ETestSuite) do(method, path string, body any, headers map[string]string) (*http.Response, []byte) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, suite.baseURL+path, reader)
	suite.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := suite.client.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	return resp, data
}

func (suite *E2ETestSuite) TestCatalogBrowsing() {
	resp, body := suite.do(http.MethodGet, "/locations", nil, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var all []types.Location
	suite.Require().NoError(json.Unmarshal(body, &all))
	suite.Len(all, 35)
	suite.Equal("taj-mahal", all[0].ID)

	resp, body = suite.do(http.MethodGet, "/locations/hampi", nil, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var hampi types.Location
	suite.Require().NoError(json.Unmarshal(body, &hampi))
	suite.Equal("Hampi", hampi.Name)

	resp, _ = suite.do(http.MethodGet, "/locations/atlantis", nil, nil)
	suite.Equal(http.StatusNotFound, resp.StatusCode)

	resp, body = suite.do(http.MethodGet, "/locations/search?q=temple", nil, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var found []types.Location
	suite.Require().NoError(json.Unmarshal(body, &found))
	suite.NotEmpty(found)

	resp, _ = suite.do(http.MethodGet, "/locations/search", nil, nil)
	suite.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, body = suite.do(http.MethodGet, "/statistics", nil, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var stats types.CatalogStatistics
	suite.Require().NoError(json.Unmarshal(body, &stats))
	suite.Equal(35, stats.TotalLocations)
}

func (suite *E2ETestSuite) TestNearbyAndPlaceInfo() {
	resp, body := suite.do(http.MethodGet, "/locations/nearby?lat=15.335&lng=76.46&radius=200", nil, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var nearby []types.NearbyLocation
	suite.Require().NoError(json.Unmarshal(body, &nearby))
	suite.Require().NotEmpty(nearby)
	suite.Equal("hampi", nearby[0].Location.ID)
	for i := 1; i < len(nearby); i++ {
		suite.LessOrEqual(nearby[i-1].DistanceKm, nearby[i].DistanceKm)
		suite.LessOrEqual(nearby[i].DistanceKm, 200.0)
	}

	resp, _ = suite.do(http.MethodGet, "/locations/nearby?lat=north&lng=76.46", nil, nil)
	suite.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, body = suite.do(http.MethodGet, "/locations/badami/info", nil, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var info types.PlaceInfo
	suite.Require().NoError(json.Unmarshal(body, &info))
	suite.Equal("badami", info.Location.ID)
	for _, n := range info.Nearby {
		suite.NotEqual("badami", n.Location.ID)
	}
}

func (suite *E2ETestSuite) TestPredefinedRoutes() {
	resp, body := suite.do(http.MethodGet, "/routes", nil, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var routes []types.Route
	suite.Require().NoError(json.Unmarshal(body, &routes))
	suite.Len(routes, 4)

	resp, _ = suite.do(http.MethodGet, "/routes/mughal", nil, nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	resp, _ = suite.do(http.MethodGet, "/routes/silk-road", nil, nil)
	suite.Equal(http.StatusNotFound, resp.StatusCode)
}

func (suite *E2ETestSuite) TestPersonalizedRoute() {
	prefs := map[string]any{
		"interests":     []string{"religious", "architectural"},
		"maxTravelDays": 3,
		"budgetRange":   "medium",
		"transportMode": "car",
		"startLocation": map[string]float64{"lat": 15.335, "lng": 76.46},
	}
	resp, body := suite.do(http.MethodPost, "/routes/personalized", prefs, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var route types.Route
	suite.Require().NoError(json.Unmarshal(body, &route))
	suite.True(strings.HasPrefix(route.ID, "personalized-"))
	suite.NotEmpty(route.Locations)
	suite.LessOrEqual(len(route.Locations), 6)
	suite.Len(route.Path, len(route.Locations))
	suite.Require().NotNil(route.Metrics)
	suite.Equal(len(route.Locations), route.Metrics.Stops)

	seen := map[string]bool{}
	for _, stop := range route.Locations {
		suite.False(seen[stop.ID], "duplicate stop %s", stop.ID)
		seen[stop.ID] = true
	}

	resp, _ = suite.do(http.MethodPost, "/routes/personalized", map[string]any{"interests": []string{"religious"}, "maxTravelDays": "three"}, nil)
	suite.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = suite.do(http.MethodPost, "/routes/personalized", map[string]any{"interests": []string{"quantum physics"}}, nil)
	suite.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (suite *E2ETestSuite) TestChatConversation() {
	resp, body := suite.do(http.MethodPost, "/chat", types.ChatRequest{Message: "Tell me about Hampi"}, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var first types.ChatResponse
	suite.Require().NoError(json.Unmarshal(body, &first))
	suite.NotEmpty(first.SessionID)
	suite.Contains(first.Response, "Hampi")
	suite.NotEmpty(first.Suggestions)

	resp, body = suite.do(http.MethodPost, "/chat", types.ChatRequest{Message: "hello", SessionID: first.SessionID}, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var second types.ChatResponse
	suite.Require().NoError(json.Unmarshal(body, &second))
	suite.Equal(first.SessionID, second.SessionID)

	resp, body = suite.do(http.MethodGet, "/chat/history/"+first.SessionID, nil, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var history []types.ChatMessage
	suite.Require().NoError(json.Unmarshal(body, &history))
	suite.Len(history, 4)
	suite.Equal("user", history[0].Role)

	resp, _ = suite.do(http.MethodDelete, "/chat/history/"+first.SessionID, nil, nil)
	suite.Equal(http.StatusNoContent, resp.StatusCode)
	resp, _ = suite.do(http.MethodGet, "/chat/history/"+first.SessionID, nil, nil)
	suite.Equal(http.StatusNotFound, resp.StatusCode)

	resp, _ = suite.do(http.MethodPost, "/chat", types.ChatRequest{Message: "   "}, nil)
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (suite *E2ETestSuite) TestTranslation() {
	resp, body := suite.do(http.MethodGet, "/translate/languages", nil, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var langs []types.Language
	suite.Require().NoError(json.Unmarshal(body, &langs))
	suite.Len(langs, 10)

	// identity backend when translation is disabled
	resp, body = suite.do(http.MethodPost, "/translate", types.TranslateRequest{Text: "Temple", Target: "hi"}, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var out types.TranslateResponse
	suite.Require().NoError(json.Unmarshal(body, &out))
	suite.Equal("Temple", out.Translated)

	resp, _ = suite.do(http.MethodPost, "/translate", types.TranslateRequest{Text: "Temple", Target: "fr"}, nil)
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (suite *E2ETestSuite) TestAdminEndpoints() {
	resp, _ := suite.do(http.MethodPost, "/admin/catalog/reindex", nil, nil)
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)

	viewer, err := appMiddleware.IssueToken(suite.cfg.JWT, "e2e", "viewer", time.Minute)
	suite.Require().NoError(err)
	resp, _ = suite.do(http.MethodPost, "/admin/catalog/reindex", nil, map[string]string{"Authorization": "Bearer " + viewer})
	suite.Equal(http.StatusForbidden, resp.StatusCode)

	admin, err := appMiddleware.IssueToken(suite.cfg.JWT, "e2e", appMiddleware.RoleAdmin, time.Minute)
	suite.Require().NoError(err)
	auth := map[string]string{"Authorization": "Bearer " + admin}

	resp, body := suite.do(http.MethodPost, "/admin/catalog/reindex", nil, auth)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var indexed map[string]int
	suite.Require().NoError(json.Unmarshal(body, &indexed))
	suite.Equal(35, indexed["indexed"])

	resp, _ = suite.do(http.MethodDelete, "/translate/cache", nil, auth)
	suite.Equal(http.StatusNoContent, resp.StatusCode)
}

func TestE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e suite in short mode")
	}
	suite.Run(t, new(E2ETestSuite))
}

func TestSetupLogger(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	logger := setupLogger()
	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))

	t.Setenv("APP_ENV", "development")
	assert.True(t, setupLogger().Enabled(context.Background(), slog.LevelDebug))
}
