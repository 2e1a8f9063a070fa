// Package search implements the read-only facility query engine: applicant
// name, street name and nearest-location lookups over an immutable snapshot.
package search

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"food-facilities-api-server/internal/models"
)

const (
	// MaxResults is the cap above which name and street searches refuse to answer.
	MaxResults = 50
	// NearestLimit is the number of facilities a geo search returns at most.
	NearestLimit = 5

	cancelCheckInterval = 1024
)

// Searcher is the query surface consumed by the HTTP, websocket and CLI layers.
type Searcher interface {
	SearchByApplicantName(ctx context.Context, name, status string) ([]models.FoodFacility, error)
	SearchByStreetName(ctx context.Context, street string) ([]models.FoodFacility, error)
	SearchByGeoLocation(ctx context.Context, latitude, longitude float64, status string) ([]models.FoodFacility, error)
}

// Engine answers searches with a linear scan over a snapshot taken at
// construction. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	facilities []models.FoodFacility
	logger     *slog.Logger
}

var _ Searcher = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-query debug output. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine copies facilities into a private snapshot. The copy is shallow:
// pointer fields (coordinates, dates, districts) stay shared with the caller
// and with every result, so records must be treated as read-only once loaded.
func NewEngine(facilities []models.FoodFacility, opts ...Option) *Engine {
	e := &Engine{
		facilities: slices.Clone(facilities),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Len returns the number of facilities in the snapshot.
func (e *Engine) Len() int {
	return len(e.facilities)
}

// SearchByApplicantName returns facilities whose applicant contains name,
// ignoring case, optionally restricted to one status. An empty status means
// no status filter. The caller is responsible for rejecting an empty name.
func (e *Engine) SearchByApplicantName(ctx context.Context, name, status string) ([]models.FoodFacility, error) {
	filter, hasFilter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)
	result, err := e.scan(ctx, func(f *models.FoodFacility) bool {
		if !strings.Contains(strings.ToLower(f.Applicant), needle) {
			return false
		}
		return !hasFilter || filter.Matches(f.Status)
	})
	if err != nil {
		return nil, err
	}

	e.logger.DebugContext(ctx, "search by applicant name",
		slog.String("name", name), slog.String("status", status), slog.Int("matches", len(result)))

	if len(result) > MaxResults {
		return nil, ErrTooManyResults
	}
	return result, nil
}

// SearchByStreetName returns facilities whose address contains street, ignoring case.
func (e *Engine) SearchByStreetName(ctx context.Context, street string) ([]models.FoodFacility, error) {
	if strings.TrimSpace(street) == "" {
		return nil, newArgumentError("streetName", StreetRequiredMessage, nil)
	}

	needle := strings.ToLower(street)
	result, err := e.scan(ctx, func(f *models.FoodFacility) bool {
		return strings.Contains(strings.ToLower(f.Address), needle)
	})
	if err != nil {
		return nil, err
	}

	e.logger.DebugContext(ctx, "search by street name",
		slog.String("street", street), slog.Int("matches", len(result)))

	if len(result) > MaxResults {
		return nil, ErrTooManyResults
	}
	return result, nil
}

// SearchByGeoLocation returns up to NearestLimit located facilities ordered by
// squared distance in degree space from (latitude, longitude). Without a
// status only APPROVED facilities are considered. NaN or infinite query
// coordinates are rejected.
func (e *Engine) SearchByGeoLocation(ctx context.Context, latitude, longitude float64, status string) ([]models.FoodFacility, error) {
	filter, hasFilter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	if !hasFilter {
		filter = models.StatusApproved
	}
	if !models.IsFinite(latitude) || !models.IsFinite(longitude) {
		return nil, newArgumentError("latitude", CoordinatesMessage, nil)
	}

	candidates, err := e.scan(ctx, func(f *models.FoodFacility) bool {
		return f.HasLocation() && filter.Matches(f.Status)
	})
	if err != nil {
		return nil, err
	}

	ranked := make([]rankedFacility, len(candidates))
	for i := range candidates {
		ranked[i] = rankedFacility{
			index:    i,
			distance: SquaredDistance(*candidates[i].Latitude, *candidates[i].Longitude, latitude, longitude),
		}
	}
	slices.SortStableFunc(ranked, func(a, b rankedFacility) int {
		return cmp.Compare(a.distance, b.distance)
	})

	n := min(len(ranked), NearestLimit)
	result := make([]models.FoodFacility, 0, n)
	for _, r := range ranked[:n] {
		result = append(result, candidates[r.index])
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.logger.DebugContext(ctx, "search by location",
		slog.Float64("latitude", latitude), slog.Float64("longitude", longitude),
		slog.String("status", filter.String()), slog.Int("candidates", len(candidates)), slog.Int("returned", n))

	return result, nil
}

type rankedFacility struct {
	index    int
	distance float64
}

// SquaredDistance is the squared Euclidean distance between two points in raw
// latitude/longitude degrees. No geodesic correction is applied.
func SquaredDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat1 - lat2
	dLon := lon1 - lon2
	return dLat*dLat + dLon*dLon
}

// scan copies every facility accepted by keep, preserving snapshot order.
func (e *Engine) scan(ctx context.Context, keep func(*models.FoodFacility) bool) ([]models.FoodFacility, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make([]models.FoodFacility, 0)
	for i := range e.facilities {
		if i%cancelCheckInterval == 0 && i > 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if keep(&e.facilities[i]) {
			result = append(result, e.facilities[i])
		}
	}
	return result, nil
}

// parseStatusFilter treats a blank status as "no filter".
func parseStatusFilter(raw string) (models.Status, bool, error) {
	if strings.TrimSpace(raw) == "" {
		return "", false, nil
	}
	status, err := models.ParseStatus(raw)
	if err != nil {
		return "", false, newArgumentError("status", InvalidStatusMessage, err)
	}
	return status, true, nil
}
