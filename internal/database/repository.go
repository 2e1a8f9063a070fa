// server/internal/database/repository.go
package database

import (
	"context"
	"fmt"

	"food-facilities-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FacilityRepository is the Mongo-backed facility store. The search engine
// reads it once at startup; only the seeder writes.
type FacilityRepository struct {
	collection *mongo.Collection
}

func NewFacilityRepository(db *mongo.Database, collection string) *FacilityRepository {
	return &FacilityRepository{collection: db.Collection(collection)}
}

// Count returns the number of stored facilities.
func (r *FacilityRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count facilities: %w", err)
	}
	return n, nil
}

// InsertMany stores facilities in one unordered batch.
func (r *FacilityRepository) InsertMany(ctx context.Context, facilities []models.FoodFacility) error {
	if len(facilities) == 0 {
		return nil
	}
	docs := make([]interface{}, len(facilities))
	for i := range facilities {
		docs[i] = facilities[i]
	}
	if _, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("insert facilities: %w", err)
	}
	return nil
}

// FindAll returns every facility ordered by id, which is CSV row order.
func (r *FacilityRepository) FindAll(ctx context.Context) ([]models.FoodFacility, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query facilities: %w", err)
	}
	defer cursor.Close(ctx)

	var facilities []models.FoodFacility
	if err := cursor.All(ctx, &facilities); err != nil {
		return nil, fmt.Errorf("decode facilities: %w", err)
	}
	if facilities == nil {
		facilities = []models.FoodFacility{}
	}
	return facilities, nil
}
