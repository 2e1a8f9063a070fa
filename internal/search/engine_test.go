package search

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-facilities-api-server/internal/models"
)

func ptr[T any](v T) *T { return &v }

func facility(applicant, status, address string, lat, lon float64) models.FoodFacility {
	return models.FoodFacility{
		Applicant: applicant,
		Status:    status,
		Address:   address,
		Latitude:  ptr(lat),
		Longitude: ptr(lon),
	}
}

func sampleFacilities() []models.FoodFacility {
	return []models.FoodFacility{
		facility("Joe's Tacos", "APPROVED", "123 California St", 37.7749, -122.4194),
		facility("Patty's Burgers", "APPROVED", "357 Sansome St", 37.7755, -122.4187),
		facility("Top's Donuts", "REQUESTED", "753 Post Ave", 40.7128, -74.0060),
		facility("Jim's Sliders", "EXPIRED", "123 Thorne St", 37.7758, -122.4179),
		facility("Jake's Pizza", "APPROVED", "888 Marion St", 37.7742, -122.4185),
		facility("Bing's Icecreams", "REQUESTED", "456 Post Ave", 37.7751, -122.4199),
		facility("Pacha's Coffee", "REQUESTED", "111 Queen Ave", 54.7128, -64.0060),
	}
}

func applicants(facilities []models.FoodFacility) []string {
	names := make([]string, 0, len(facilities))
	for _, f := range facilities {
		names = append(names, f.Applicant)
	}
	return names
}

func TestEngine_SearchByApplicantName(t *testing.T) {
	t.Parallel()

	engine := NewEngine(sampleFacilities())
	ctx := context.Background()

	t.Run("substring with status", func(t *testing.T) {
		got, err := engine.SearchByApplicantName(ctx, "Taco", "APPROVED")
		require.NoError(t, err)
		assert.Equal(t, []string{"Joe's Tacos"}, applicants(got))
	})

	t.Run("case insensitive name and status", func(t *testing.T) {
		got, err := engine.SearchByApplicantName(ctx, "taco", "approved")
		require.NoError(t, err)
		assert.Equal(t, []string{"Joe's Tacos"}, applicants(got))
	})

	t.Run("no status filter returns every match", func(t *testing.T) {
		got, err := engine.SearchByApplicantName(ctx, "'s", "")
		require.NoError(t, err)
		assert.Len(t, got, 7)
	})

	t.Run("every result satisfies the predicates", func(t *testing.T) {
		got, err := engine.SearchByApplicantName(ctx, "P", "requested")
		require.NoError(t, err)
		require.NotEmpty(t, got)
		for _, f := range got {
			assert.True(t, strings.EqualFold(f.Status, "REQUESTED"))
			assert.Contains(t, strings.ToLower(f.Applicant), "p")
		}
	})

	t.Run("no match with status is empty, not an error", func(t *testing.T) {
		got, err := engine.SearchByApplicantName(ctx, "Jim's", "APPROVED")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := engine.SearchByApplicantName(ctx, "Taco", "REJECTED")
		require.ErrorIs(t, err, ErrInvalidArgument)
		require.ErrorIs(t, err, models.ErrInvalidStatus)
		assert.Equal(t, InvalidStatusMessage, err.Error())
	})

	t.Run("invalid status is rejected even without matches", func(t *testing.T) {
		_, err := engine.SearchByApplicantName(ctx, "NONEXISTENT", "REJECTED")
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestEngine_SearchByApplicantName_StoredStatusOutsideEnum(t *testing.T) {
	t.Parallel()

	engine := NewEngine([]models.FoodFacility{
		{Applicant: "Odd Truck", Status: "SUSPEND"},
		{Applicant: "Odd Cart", Status: "APPROVED"},
	})

	got, err := engine.SearchByApplicantName(context.Background(), "odd", "APPROVED")
	require.NoError(t, err)
	assert.Equal(t, []string{"Odd Cart"}, applicants(got))

	got, err = engine.SearchByApplicantName(context.Background(), "odd", "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestEngine_TooManyResults(t *testing.T) {
	t.Parallel()

	build := func(n int) []models.FoodFacility {
		out := make([]models.FoodFacility, 0, n)
		for i := range n {
			out = append(out, models.FoodFacility{
				Applicant: fmt.Sprintf("Truck %d", i),
				Address:   fmt.Sprintf("%d Mission St", i),
				Status:    "APPROVED",
			})
		}
		return out
	}
	ctx := context.Background()

	t.Run("exactly the cap is allowed", func(t *testing.T) {
		engine := NewEngine(build(MaxResults))
		got, err := engine.SearchByApplicantName(ctx, "truck", "")
		require.NoError(t, err)
		assert.Len(t, got, MaxResults)

		got, err = engine.SearchByStreetName(ctx, "mission")
		require.NoError(t, err)
		assert.Len(t, got, MaxResults)
	})

	t.Run("one over the cap fails", func(t *testing.T) {
		engine := NewEngine(build(MaxResults + 1))
		got, err := engine.SearchByApplicantName(ctx, "truck", "approved")
		require.ErrorIs(t, err, ErrTooManyResults)
		assert.Nil(t, got)
		assert.Equal(t, TooManyResultsMessage, Message(err))

		_, err = engine.SearchByStreetName(ctx, "Mission")
		require.ErrorIs(t, err, ErrTooManyResults)
	})

	t.Run("geo search is capped instead", func(t *testing.T) {
		facilities := build(MaxResults + 10)
		for i := range facilities {
			facilities[i].Latitude = ptr(37.0 + float64(i)/1000)
			facilities[i].Longitude = ptr(-122.0)
		}
		engine := NewEngine(facilities)
		got, err := engine.SearchByGeoLocation(ctx, 37.0, -122.0, "")
		require.NoError(t, err)
		assert.Len(t, got, NearestLimit)
	})
}

func TestEngine_SearchByStreetName(t *testing.T) {
	t.Parallel()

	engine := NewEngine(sampleFacilities())
	ctx := context.Background()

	t.Run("substring match ignoring case", func(t *testing.T) {
		got, err := engine.SearchByStreetName(ctx, "post ave")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Top's Donuts", "Bing's Icecreams"}, applicants(got))
		for _, f := range got {
			assert.Contains(t, strings.ToLower(f.Address), "post ave")
		}
	})

	t.Run("not found", func(t *testing.T) {
		got, err := engine.SearchByStreetName(ctx, "Invalid Street")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	for _, street := range []string{"", "   ", "\t"} {
		t.Run(fmt.Sprintf("blank %q", street), func(t *testing.T) {
			_, err := engine.SearchByStreetName(ctx, street)
			require.ErrorIs(t, err, ErrInvalidArgument)
			assert.Equal(t, StreetRequiredMessage, err.Error())

			var argErr *ArgumentError
			require.ErrorAs(t, err, &argErr)
			assert.Equal(t, "streetName", argErr.Field)
		})
	}

	t.Run("facility without address never matches", func(t *testing.T) {
		e := NewEngine([]models.FoodFacility{{Applicant: "Nowhere"}})
		got, err := e.SearchByStreetName(ctx, "st")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestEngine_SearchByGeoLocation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("defaults to approved and orders by distance", func(t *testing.T) {
		engine := NewEngine(sampleFacilities())
		got, err := engine.SearchByGeoLocation(ctx, 37.7750, -122.4194, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"Joe's Tacos", "Patty's Burgers", "Jake's Pizza"}, applicants(got))
		for _, f := range got {
			assert.Equal(t, "APPROVED", f.Status)
		}
		assertSortedByDistance(t, got, 37.7750, -122.4194)
	})

	t.Run("explicit status", func(t *testing.T) {
		engine := NewEngine(sampleFacilities())
		got, err := engine.SearchByGeoLocation(ctx, 37.7750, -122.4194, "requested")
		require.NoError(t, err)
		assert.Equal(t, []string{"Bing's Icecreams", "Top's Donuts", "Pacha's Coffee"}, applicants(got))
		assertSortedByDistance(t, got, 37.7750, -122.4194)
	})

	t.Run("invalid status", func(t *testing.T) {
		engine := NewEngine(sampleFacilities())
		_, err := engine.SearchByGeoLocation(ctx, 37.7750, -122.4194, "REJECTED")
		require.ErrorIs(t, err, ErrInvalidArgument)
		assert.Equal(t, InvalidStatusMessage, Message(err))
	})

	t.Run("only one approved located record", func(t *testing.T) {
		engine := NewEngine([]models.FoodFacility{
			facility("Joe's Tacos", "APPROVED", "123 California St", 37.7749, -122.4194),
			facility("Top's Donuts", "REQUESTED", "753 Post Ave", 40.7128, -74.0060),
			{Applicant: "No Coords", Status: "APPROVED"},
			{Applicant: "Half Coords", Status: "APPROVED", Latitude: ptr(37.7750)},
			facility("Null Island", "APPROVED", "", 0, 0),
		})
		got, err := engine.SearchByGeoLocation(ctx, 37.7750, -122.4194, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"Joe's Tacos"}, applicants(got))
	})

	t.Run("non-finite stored coordinates are skipped", func(t *testing.T) {
		engine := NewEngine([]models.FoodFacility{
			{Applicant: "Bad Row", Status: "APPROVED", Latitude: ptr(math.NaN()), Longitude: ptr(-122.4194)},
			facility("Near Truck", "APPROVED", "", 37.7750, -122.4194),
			{Applicant: "Far Away", Status: "APPROVED", Latitude: ptr(math.Inf(1)), Longitude: ptr(0.0)},
		})
		got, err := engine.SearchByGeoLocation(ctx, 37.7750, -122.4194, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"Near Truck"}, applicants(got))
	})

	t.Run("non-finite query coordinates", func(t *testing.T) {
		engine := NewEngine(sampleFacilities())
		for _, point := range [][2]float64{
			{math.NaN(), -122.4194},
			{37.7750, math.NaN()},
			{math.Inf(1), 0},
			{0, math.Inf(-1)},
		} {
			_, err := engine.SearchByGeoLocation(ctx, point[0], point[1], "")
			require.ErrorIs(t, err, ErrInvalidArgument, "%v", point)
			assert.Equal(t, CoordinatesMessage, Message(err))
		}
	})

	t.Run("ties keep snapshot order", func(t *testing.T) {
		engine := NewEngine([]models.FoodFacility{
			facility("First", "APPROVED", "", 1, 1),
			facility("Second", "APPROVED", "", -1, -1),
			facility("Third", "APPROVED", "", 1, -1),
		})
		got, err := engine.SearchByGeoLocation(ctx, 0, 0, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"First", "Second", "Third"}, applicants(got))
	})

	t.Run("empty when nothing is located", func(t *testing.T) {
		engine := NewEngine([]models.FoodFacility{{Applicant: "A", Status: "APPROVED"}})
		got, err := engine.SearchByGeoLocation(ctx, 1, 1, "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestEngine_Cancelled(t *testing.T) {
	t.Parallel()

	engine := NewEngine(sampleFacilities())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.SearchByApplicantName(ctx, "Taco", "")
	require.ErrorIs(t, err, context.Canceled)
	_, err = engine.SearchByStreetName(ctx, "Post")
	require.ErrorIs(t, err, context.Canceled)
	_, err = engine.SearchByGeoLocation(ctx, 0, 0, "")
	require.ErrorIs(t, err, context.Canceled)
}

func TestEngine_SnapshotIsolation(t *testing.T) {
	t.Parallel()

	source := sampleFacilities()
	engine := NewEngine(source)
	source[0].Applicant = "Mutated"

	got, err := engine.SearchByApplicantName(context.Background(), "Joe", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Joe's Tacos"}, applicants(got))
	assert.Equal(t, 7, engine.Len())
}

func TestEngine_SnapshotIsShallow(t *testing.T) {
	t.Parallel()

	source := sampleFacilities()
	engine := NewEngine(source)

	got, err := engine.SearchByApplicantName(context.Background(), "Joe", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	// Top-level fields are copied, pointer fields are shared with the loaded record.
	assert.Same(t, source[0].Latitude, got[0].Latitude)
	got[0].Applicant = "Changed"
	assert.Equal(t, "Joe's Tacos", source[0].Applicant)
}

func TestSquaredDistance(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 25.0, SquaredDistance(3, 4, 0, 0), 1e-12)
	assert.InDelta(t, 0.0, SquaredDistance(37.7749, -122.4194, 37.7749, -122.4194), 1e-12)
}

func assertSortedByDistance(t *testing.T, got []models.FoodFacility, lat, lon float64) {
	t.Helper()
	for i := 1; i < len(got); i++ {
		prev := SquaredDistance(*got[i-1].Latitude, *got[i-1].Longitude, lat, lon)
		cur := SquaredDistance(*got[i].Latitude, *got[i].Longitude, lat, lon)
		assert.LessOrEqual(t, prev, cur)
	}
}
