package search

import (
	"context"
	"fmt"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"food-facilities-api-server/internal/models"
)

// DefaultCacheSize is the number of distinct queries kept when no size is configured.
const DefaultCacheSize = 256

// CachedSearcher memoizes successful results of an inner Searcher. It is only
// correct over an immutable dataset, which is the only kind this service serves.
// Errors are never cached.
type CachedSearcher struct {
	inner Searcher
	cache *lru.Cache[string, []models.FoodFacility]
}

var _ Searcher = (*CachedSearcher)(nil)

// NewCachedSearcher wraps inner with an LRU of cacheSize entries.
func NewCachedSearcher(inner Searcher, cacheSize int) (*CachedSearcher, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []models.FoodFacility](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create search cache: %w", err)
	}
	return &CachedSearcher{inner: inner, cache: cache}, nil
}

func (c *CachedSearcher) SearchByApplicantName(ctx context.Context, name, status string) ([]models.FoodFacility, error) {
	key := "name\x00" + strings.ToLower(name) + "\x00" + normalizeStatusKey(status)
	return c.lookup(key, func() ([]models.FoodFacility, error) {
		return c.inner.SearchByApplicantName(ctx, name, status)
	})
}

func (c *CachedSearcher) SearchByStreetName(ctx context.Context, street string) ([]models.FoodFacility, error) {
	key := "street\x00" + strings.ToLower(street)
	return c.lookup(key, func() ([]models.FoodFacility, error) {
		return c.inner.SearchByStreetName(ctx, street)
	})
}

func (c *CachedSearcher) SearchByGeoLocation(ctx context.Context, latitude, longitude float64, status string) ([]models.FoodFacility, error) {
	key := fmt.Sprintf("geo\x00%v\x00%v\x00%s", latitude, longitude, normalizeStatusKey(status))
	return c.lookup(key, func() ([]models.FoodFacility, error) {
		return c.inner.SearchByGeoLocation(ctx, latitude, longitude, status)
	})
}

// Len returns the number of cached queries.
func (c *CachedSearcher) Len() int {
	return c.cache.Len()
}

// lookup hands out copies of the result slice so callers cannot reorder or
// replace cached entries. Pointer fields inside the records are shared.
func (c *CachedSearcher) lookup(key string, load func() ([]models.FoodFacility, error)) ([]models.FoodFacility, error) {
	if cached, ok := c.cache.Get(key); ok {
		return slices.Clone(cached), nil
	}
	result, err := load()
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, slices.Clone(result))
	return result, nil
}

func normalizeStatusKey(status string) string {
	return strings.ToUpper(strings.TrimSpace(status))
}
