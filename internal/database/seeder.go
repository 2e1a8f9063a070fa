// server/internal/database/seeder.go
package database

import (
	"context"
	"fmt"
	"log/slog"

	"food-facilities-api-server/internal/dataset"
	"food-facilities-api-server/internal/models"
)

const seedBatchSize = 500

// FacilityStore is the subset of FacilityRepository the seeder needs.
type FacilityStore interface {
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, facilities []models.FoodFacility) error
}

// SeedFacilities imports the permit CSV from src into store unless the store
// already holds facilities. It returns the number of facilities inserted.
func SeedFacilities(ctx context.Context, store FacilityStore, src dataset.Source, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	count, err := store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info("facilities already present, seeding skipped", slog.Int64("count", count))
		return 0, nil
	}

	logger.Info("facility store empty, seeding", slog.String("source", src.String()))
	facilities, err := dataset.Load(ctx, src)
	if err != nil {
		return 0, fmt.Errorf("seed facilities: %w", err)
	}

	inserted := 0
	for start := 0; start < len(facilities); start += seedBatchSize {
		end := min(start+seedBatchSize, len(facilities))
		if err := store.InsertMany(ctx, facilities[start:end]); err != nil {
			return inserted, fmt.Errorf("seed facilities: %w", err)
		}
		inserted = end
	}

	logger.Info("facilities seeded", slog.Int("count", inserted))
	return inserted, nil
}
