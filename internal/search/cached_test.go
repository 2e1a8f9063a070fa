package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-facilities-api-server/internal/models"
)

type countingSearcher struct {
	Searcher
	calls int
}

func (c *countingSearcher) SearchByApplicantName(ctx context.Context, name, status string) ([]models.FoodFacility, error) {
	c.calls++
	return c.Searcher.SearchByApplicantName(ctx, name, status)
}

func (c *countingSearcher) SearchByStreetName(ctx context.Context, street string) ([]models.FoodFacility, error) {
	c.calls++
	return c.Searcher.SearchByStreetName(ctx, street)
}

func (c *countingSearcher) SearchByGeoLocation(ctx context.Context, latitude, longitude float64, status string) ([]models.FoodFacility, error) {
	c.calls++
	return c.Searcher.SearchByGeoLocation(ctx, latitude, longitude, status)
}

func TestCachedSearcher_ReusesResults(t *testing.T) {
	inner := &countingSearcher{Searcher: NewEngine(sampleFacilities())}
	cached, err := NewCachedSearcher(inner, 8)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := cached.SearchByApplicantName(ctx, "Taco", "APPROVED")
	require.NoError(t, err)
	second, err := cached.SearchByApplicantName(ctx, "taco", " approved ")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)

	_, err = cached.SearchByStreetName(ctx, "Post")
	require.NoError(t, err)
	_, err = cached.SearchByStreetName(ctx, "POST")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)

	_, err = cached.SearchByGeoLocation(ctx, 37.775, -122.4194, "")
	require.NoError(t, err)
	_, err = cached.SearchByGeoLocation(ctx, 37.775, -122.4194, "")
	require.NoError(t, err)
	_, err = cached.SearchByGeoLocation(ctx, 37.775, -122.4194, "REQUESTED")
	require.NoError(t, err)
	assert.Equal(t, 4, inner.calls)
	assert.Equal(t, 3, cached.Len())
}

func TestCachedSearcher_ErrorsAreNotCached(t *testing.T) {
	inner := &countingSearcher{Searcher: NewEngine(sampleFacilities())}
	cached, err := NewCachedSearcher(inner, 8)
	require.NoError(t, err)
	ctx := context.Background()

	for range 2 {
		_, err := cached.SearchByApplicantName(ctx, "Taco", "REJECTED")
		require.ErrorIs(t, err, ErrInvalidArgument)
	}
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, cached.Len())
}

func TestCachedSearcher_ReturnsCopies(t *testing.T) {
	cached, err := NewCachedSearcher(NewEngine(sampleFacilities()), 0)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := cached.SearchByApplicantName(ctx, "Joe", "")
	require.NoError(t, err)
	first[0].Applicant = "Changed"

	second, err := cached.SearchByApplicantName(ctx, "Joe", "")
	require.NoError(t, err)
	assert.Equal(t, "Joe's Tacos", second[0].Applicant)
}
