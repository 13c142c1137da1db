package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	database "github.com/FACorreiaa/go-heritage-routes/app/db"
	"github.com/FACorreiaa/go-heritage-routes/config"
	"github.com/FACorreiaa/go-heritage-routes/internal/api/locations"
	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

var datasetPath = flag.String("file", "", "path to a locations JSON file; the embedded dataset is used when empty")

func main() {
	ctx := context.Background()
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dataset, source, err := loadDataset(*datasetPath)
	if err != nil {
		logger.Error("Failed to load dataset", slog.Any("error", err))
		os.Exit(1)
	}

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}
	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		log.Fatal("Database not ready")
	}

	repo := locations.NewPostgresRepository(pool, logger)
	runID, err := repo.Seed(ctx, dataset, source)
	if err != nil {
		logger.Error("Failed to seed catalog", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Catalog seeded",
		slog.String("run_id", runID.String()),
		slog.String("source", source),
		slog.Int("locations", len(dataset)))
}

func loadDataset(path string) ([]types.Location, string, error) {
	if path == "" {
		locs, err := locations.EmbeddedDataset()
		return locs, "embedded", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	locs, err := locations.LoadDataset(f)
	if err != nil {
		return nil, "", fmt.Errorf("invalid dataset %s: %w", path, err)
	}
	return locs, path, nil
}
