// server/internal/api/handlers/facility_handler.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"food-facilities-api-server/internal/models"
	"food-facilities-api-server/internal/search"

	"github.com/gin-gonic/gin"
)

const (
	modeApplicantName = "name"
	modeStreetName    = "street"
	modeLocation      = "location"
)

// Messages for requests rejected before they reach the search engine.
const (
	applicantNameRequiredMessage = "applicantName is required"
	coordinatesRequiredMessage   = "latitude and longitude must be provided as numbers"
	invalidQueryMessage          = "invalid query parameters"
)

type FacilityHandler struct {
	Searcher search.Searcher
	Logger   *slog.Logger
}

type SearchByApplicantNameQuery struct {
	ApplicantName string `form:"applicantName" binding:"required"`
	Status        string `form:"status"`
}

type SearchByStreetNameQuery struct {
	StreetName string `form:"streetName"`
}

type SearchByLocationQuery struct {
	Latitude  *float64 `form:"latitude" binding:"required"`
	Longitude *float64 `form:"longitude" binding:"required"`
	Status    string   `form:"status"`
}

// searchQuery is the transport-neutral form of one request, shared by the
// HTTP endpoints and the websocket channel.
type searchQuery struct {
	Mode          string
	ApplicantName string
	StreetName    string
	Latitude      float64
	Longitude     float64
	Status        string
}

type searchOutcome struct {
	Code       int
	Facilities []models.FoodFacility
	Message    string
}

// SearchByApplicantName handles GET /api/FoodFacilities/searchbyapplicantname.
func (h *FacilityHandler) SearchByApplicantName(c *gin.Context) {
	var q SearchByApplicantNameQuery
	if err := c.ShouldBindQuery(&q); err != nil || strings.TrimSpace(q.ApplicantName) == "" {
		h.rejectQuery(c, applicantNameRequiredMessage, err)
		return
	}
	h.write(c, h.execute(c.Request.Context(), searchQuery{
		Mode:          modeApplicantName,
		ApplicantName: q.ApplicantName,
		Status:        q.Status,
	}))
}

// SearchByStreetName handles GET /api/FoodFacilities/searchbystreetname.
func (h *FacilityHandler) SearchByStreetName(c *gin.Context) {
	var q SearchByStreetNameQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.rejectQuery(c, invalidQueryMessage, err)
		return
	}
	h.write(c, h.execute(c.Request.Context(), searchQuery{
		Mode:       modeStreetName,
		StreetName: q.StreetName,
	}))
}

// SearchByLocation handles GET /api/FoodFacilities/searchbylocation.
func (h *FacilityHandler) SearchByLocation(c *gin.Context) {
	var q SearchByLocationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.rejectQuery(c, coordinatesRequiredMessage, err)
		return
	}
	h.write(c, h.execute(c.Request.Context(), searchQuery{
		Mode:      modeLocation,
		Latitude:  *q.Latitude,
		Longitude: *q.Longitude,
		Status:    q.Status,
	}))
}

// rejectQuery answers 400 with a fixed message. Binding errors are only logged.
func (h *FacilityHandler) rejectQuery(c *gin.Context, message string, err error) {
	if err != nil {
		h.logger().Debug("query binding failed", slog.String("path", c.FullPath()), slog.Any("error", err))
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func (h *FacilityHandler) write(c *gin.Context, out searchOutcome) {
	if out.Code != http.StatusOK {
		c.JSON(out.Code, gin.H{"error": out.Message})
		return
	}
	c.JSON(http.StatusOK, out.Facilities)
}

// execute runs one search and maps the result onto an HTTP status:
// 400 for rejected input or too many matches, 404 for an empty result.
func (h *FacilityHandler) execute(ctx context.Context, q searchQuery) searchOutcome {
	var (
		facilities []models.FoodFacility
		err        error
		notFound   string
	)

	switch q.Mode {
	case modeApplicantName:
		facilities, err = h.Searcher.SearchByApplicantName(ctx, q.ApplicantName, q.Status)
		notFound = "No food facilities found for the applicant name: " + q.ApplicantName
	case modeStreetName:
		facilities, err = h.Searcher.SearchByStreetName(ctx, q.StreetName)
		notFound = "No food facilities found with: " + q.StreetName
	case modeLocation:
		facilities, err = h.Searcher.SearchByGeoLocation(ctx, q.Latitude, q.Longitude, q.Status)
		notFound = "No food facilities found near the specified location"
	default:
		return searchOutcome{Code: http.StatusBadRequest, Message: fmt.Sprintf("unknown search mode %q", q.Mode)}
	}

	if err != nil {
		if msg := search.Message(err); msg != "" {
			return searchOutcome{Code: http.StatusBadRequest, Message: msg}
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return searchOutcome{Code: http.StatusServiceUnavailable, Message: "Search cancelled"}
		}
		h.logger().Error("facility search failed", slog.String("mode", q.Mode), slog.Any("error", err))
		return searchOutcome{Code: http.StatusInternalServerError, Message: "Failed to search facilities"}
	}

	if len(facilities) == 0 {
		return searchOutcome{Code: http.StatusNotFound, Message: notFound}
	}
	return searchOutcome{Code: http.StatusOK, Facilities: facilities}
}

func (h *FacilityHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
