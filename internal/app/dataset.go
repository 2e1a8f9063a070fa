// server/internal/app/dataset.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"food-facilities-api-server/config"
	"food-facilities-api-server/internal/database"
	"food-facilities-api-server/internal/dataset"
	"food-facilities-api-server/internal/models"
	"food-facilities-api-server/internal/s3"
	"food-facilities-api-server/internal/search"
)

// OpenSource resolves the configured seed location. An S3 client is only
// built for s3:// locations.
func OpenSource(ctx context.Context, cfg config.Config) (dataset.Source, error) {
	var opener dataset.ObjectOpener
	if strings.HasPrefix(strings.TrimSpace(cfg.Seed.Source), "s3://") {
		fetcher, err := s3.NewFetcher(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		opener = fetcher
	}
	return dataset.NewSource(cfg.Seed.Source, opener)
}

// LoadFacilities returns the facility snapshot to serve. Without a Mongo URI
// the CSV is parsed directly; otherwise the collection is seeded when empty
// and then read back in full.
func LoadFacilities(ctx context.Context, cfg config.Config, logger *slog.Logger) ([]models.FoodFacility, error) {
	src, err := OpenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.InMemory() {
		logger.Info("loading facilities in memory", slog.String("source", src.String()))
		return dataset.Load(ctx, src)
	}

	client, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("mongo disconnect failed", slog.Any("error", err))
		}
	}()

	repo := database.NewFacilityRepository(client.Database(cfg.Mongo.DBName), cfg.Mongo.Collection)
	if _, err := database.SeedFacilities(ctx, repo, src, logger); err != nil {
		return nil, err
	}
	facilities, err := repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load facilities from mongo: %w", err)
	}
	logger.Info("facilities loaded from mongo", slog.Int("count", len(facilities)))
	return facilities, nil
}

// Seed imports the CSV into Mongo unless the collection is already populated.
func Seed(ctx context.Context, cfg config.Config, logger *slog.Logger) (int, error) {
	if cfg.InMemory() {
		return 0, fmt.Errorf("seed: mongo.uri (MONGO_URI) is not configured")
	}
	src, err := OpenSource(ctx, cfg)
	if err != nil {
		return 0, err
	}

	client, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		return 0, err
	}
	defer client.Disconnect(context.Background())

	repo := database.NewFacilityRepository(client.Database(cfg.Mongo.DBName), cfg.Mongo.Collection)
	return database.SeedFacilities(ctx, repo, src, logger)
}

// NewSearcher builds the engine over facilities and, when a cache size is
// configured, wraps it in an LRU cache. The engine is returned as well for
// callers that need the snapshot size.
func NewSearcher(facilities []models.FoodFacility, cfg config.SearchConfig, logger *slog.Logger) (search.Searcher, *search.Engine, error) {
	engine := search.NewEngine(facilities, search.WithLogger(logger))
	if cfg.CacheSize <= 0 {
		return engine, engine, nil
	}
	cached, err := search.NewCachedSearcher(engine, cfg.CacheSize)
	if err != nil {
		return nil, nil, err
	}
	return cached, engine, nil
}
