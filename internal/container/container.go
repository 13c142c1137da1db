package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-heritage-routes/app/db"
	"github.com/FACorreiaa/go-heritage-routes/config"
	"github.com/FACorreiaa/go-heritage-routes/internal/api/chatbot"
	"github.com/FACorreiaa/go-heritage-routes/internal/api/locations"
	"github.com/FACorreiaa/go-heritage-routes/internal/api/routes"
	"github.com/FACorreiaa/go-heritage-routes/internal/api/translation"
	"github.com/FACorreiaa/go-heritage-routes/internal/planner"
	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

const seedSource = "embedded"

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool
	Redis  *redis.Client

	Planner            *planner.Planner
	LocationsService   locations.Service
	TranslationService translation.Service

	LocationsHandler   *locations.Handler
	RoutesHandler      *routes.Handler
	ChatbotHandler     *chatbot.Handler
	TranslationHandler *translation.Handler
}

// NewContainer wires repositories, services and handlers according to cfg.
// With catalog.backend=memory and redis disabled it needs no external service.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	translationService := translation.NewServiceImpl(c.translationBackend(ctx), cfg.Translation.CacheTTL, logger)

	dataset, err := locations.EmbeddedDataset()
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded dataset: %w", err)
	}

	repo, err := c.catalogRepository(ctx, dataset)
	if err != nil {
		c.Close()
		return nil, err
	}

	locationsService := locations.NewServiceImpl(repo, c.geoIndex(ctx), translationService, logger)
	indexed, err := locationsService.Reindex(ctx)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to build geo index: %w", err)
	}
	logger.Info("Geo index built", slog.Int("locations", indexed))

	p := planner.New(planner.Config{
		StopsPerDay:                cfg.Planner.StopsPerDay,
		RelaxedMaxDistanceKm:       cfg.Planner.RelaxedMaxDistanceKm,
		DefaultPreferredDistanceKm: cfg.Planner.DefaultPreferredDistanceKm,
		DefaultMaxTravelDays:       cfg.Planner.DefaultMaxTravelDays,
	}, logger)

	predefined, err := routes.EmbeddedRoutes()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load predefined routes: %w", err)
	}
	routesService := routes.NewServiceImpl(routes.NewMemoryRepository(predefined, logger), repo, p, logger)

	sessions := chatbot.NewSessionStore(cfg.Chatbot.SessionTTL, cfg.Chatbot.HistorySize)
	chatbotService := chatbot.NewServiceImpl(repo, p, sessions, translationService, logger)

	c.Planner = p
	c.LocationsService = locationsService
	c.TranslationService = translationService
	c.LocationsHandler = locations.NewHandler(locationsService, logger)
	c.RoutesHandler = routes.NewHandler(routesService, logger)
	c.ChatbotHandler = chatbot.NewHandler(chatbotService, logger)
	c.TranslationHandler = translation.NewHandler(translationService, logger)
	return c, nil
}

func (c *Container) translationBackend(ctx context.Context) translation.Backend {
	if !c.Config.Translation.Enabled {
		c.Logger.Info("Translation disabled, using identity translator")
		return translation.IdentityBackend{}
	}
	backend, err := translation.NewGeminiBackend(ctx, c.Config.Translation.Model)
	if err != nil {
		c.Logger.Warn("Gemini translator unavailable, using identity translator", slog.Any("error", err))
		return translation.IdentityBackend{}
	}
	c.Logger.Info("Gemini translator ready", slog.String("model", c.Config.Translation.Model))
	return backend
}

func (c *Container) catalogRepository(ctx context.Context, dataset []types.Location) (locations.Repository, error) {
	if !c.Config.UsePostgres() {
		repo, err := locations.NewMemoryRepository(dataset, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("invalid embedded dataset: %w", err)
		}
		c.Logger.Info("Serving catalog from embedded dataset", slog.Int("locations", len(dataset)))
		return repo, nil
	}

	dbConfig, err := database.NewDatabaseConfig(c.Config, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to generate database config: %w", err)
	}
	if err = database.RunMigrations(dbConfig.ConnectionURL, c.Logger); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	pool, err := database.Init(ctx, dbConfig.ConnectionURL, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	c.Pool = pool
	if !database.WaitForDB(ctx, pool, c.Logger) {
		return nil, errors.New("database not ready")
	}

	pgRepo := locations.NewPostgresRepository(pool, c.Logger)
	if c.Config.Catalog.SeedOnStart {
		runID, err := pgRepo.Seed(ctx, dataset, seedSource)
		if err != nil {
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
		c.Logger.Info("Catalog seeded", slog.String("run_id", runID.String()), slog.Int("locations", len(dataset)))
	}
	return locations.NewCachedRepository(pgRepo, 0, c.Logger), nil
}

func (c *Container) geoIndex(ctx context.Context) locations.GeoIndex {
	rc := c.Config.Repositories.Redis
	if !rc.Enabled {
		return locations.NewMemoryGeoIndex()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})
	idx := locations.NewRedisGeoIndex(client, rc.GeoKey, c.Logger)
	if err := idx.Ping(ctx); err != nil {
		c.Logger.Warn("Redis unavailable, using in-memory geo index", slog.String("addr", rc.Addr), slog.Any("error", err))
		_ = client.Close()
		return locations.NewMemoryGeoIndex()
	}
	c.Redis = client
	c.Logger.Info("Using Redis geo index", slog.String("addr", rc.Addr), slog.String("key", rc.GeoKey))
	return idx
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("Failed to close redis client", slog.Any("error", err))
		}
	}
}
