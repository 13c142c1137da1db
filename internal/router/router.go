package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	appMiddleware "github.com/FACorreiaa/go-heritage-routes/app/middleware"
	_ "github.com/FACorreiaa/go-heritage-routes/docs"
	"github.com/FACorreiaa/go-heritage-routes/internal/api/chatbot"
	"github.com/FACorreiaa/go-heritage-routes/internal/api/locations"
	"github.com/FACorreiaa/go-heritage-routes/internal/api/routes"
	"github.com/FACorreiaa/go-heritage-routes/internal/api/translation"
)

const defaultChatRateLimit = 60

// Config contains dependencies needed for the router setup
type Config struct {
	LocationsHandler   *locations.Handler
	RoutesHandler      *routes.Handler
	ChatbotHandler     *chatbot.Handler
	TranslationHandler *translation.Handler

	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
	ChatRateLimitPerMinute int
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (like logger, requestID, recoverer) are expected
// to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", ping)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	chatLimit := cfg.ChatRateLimitPerMinute
	if chatLimit <= 0 {
		chatLimit = defaultChatRateLimit
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", ping)

		l := cfg.LocationsHandler
		r.Route("/locations", func(r chi.Router) {
			r.Get("/", l.GetLocations)
			r.Get("/search", l.Search)
			r.Post("/search", l.AdvancedSearch)
			r.Get("/nearby", l.Nearby)
			r.Get("/category/{category}", l.GetByCategory)
			r.Get("/period/{period}", l.GetByPeriod)
			r.Get("/dynasty/{dynasty}", l.GetByDynasty)
			r.Get("/{id}", l.GetLocation)
			r.Get("/{id}/info", l.GetPlaceInfo)
			r.Get("/{id}/related", l.GetRelated)
		})
		r.Get("/themes", l.GetThemes)
		r.Get("/dynasties", l.GetDynasties)
		r.Get("/statistics", l.GetStatistics)

		rt := cfg.RoutesHandler
		r.Route("/routes", func(r chi.Router) {
			r.Get("/", rt.GetRoutes)
			r.Post("/personalized", rt.CreatePersonalizedRoute)
			r.Get("/theme/{theme}", rt.GetRoutesByTheme)
			r.Get("/{id}", rt.GetRoute)
		})

		c := cfg.ChatbotHandler
		r.Route("/chat", func(r chi.Router) {
			r.Use(httprate.LimitByIP(chatLimit, time.Minute))
			r.Post("/", c.Chat)
			r.Post("/recommend", c.Recommend)
			r.Get("/history/{sessionID}", c.GetHistory)
			r.Delete("/history/{sessionID}", c.ClearHistory)
		})

		t := cfg.TranslationHandler
		r.Get("/translate/languages", t.GetLanguages)
		r.Post("/translate", t.Translate)
		r.Get("/translate/stats", t.GetStats)

		// --- Admin Routes ---
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)
			r.Use(appMiddleware.RequireRole(appMiddleware.RoleAdmin))
			r.Delete("/translate/cache", t.ClearCache)
			r.Post("/admin/catalog/reindex", l.Reindex)
		})
	})

	return r
}

func ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}
