// Package dataset reads the Mobile Food Facility Permit CSV export into
// FoodFacility records. Headers are matched loosely so exports with renamed
// or missing columns still load; unparseable cells become absent values.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"food-facilities-api-server/internal/models"
)

type fieldSetter func(f *models.FoodFacility, value string)

var columns = map[string]fieldSetter{
	"locationid":              func(f *models.FoodFacility, v string) { f.LocationID = v },
	"applicant":               func(f *models.FoodFacility, v string) { f.Applicant = v },
	"facilitytype":            func(f *models.FoodFacility, v string) { f.FacilityType = v },
	"cnn":                     func(f *models.FoodFacility, v string) { f.Cnn = v },
	"locationdescription":     func(f *models.FoodFacility, v string) { f.LocationDescription = v },
	"address":                 func(f *models.FoodFacility, v string) { f.Address = v },
	"blocklot":                func(f *models.FoodFacility, v string) { f.BlockLot = v },
	"block":                   func(f *models.FoodFacility, v string) { f.Block = v },
	"lot":                     func(f *models.FoodFacility, v string) { f.Lot = v },
	"permit":                  func(f *models.FoodFacility, v string) { f.Permit = v },
	"status":                  func(f *models.FoodFacility, v string) { f.Status = v },
	"fooditems":               func(f *models.FoodFacility, v string) { f.FoodItems = v },
	"x":                       func(f *models.FoodFacility, v string) { f.X = parseFloat(v) },
	"y":                       func(f *models.FoodFacility, v string) { f.Y = parseFloat(v) },
	"latitude":                func(f *models.FoodFacility, v string) { f.Latitude = parseFloat(v) },
	"longitude":               func(f *models.FoodFacility, v string) { f.Longitude = parseFloat(v) },
	"schedule":                func(f *models.FoodFacility, v string) { f.Schedule = v },
	"dayshours":               func(f *models.FoodFacility, v string) { f.DaysHours = v },
	"noisent":                 func(f *models.FoodFacility, v string) { f.NOISent = parseTime(v) },
	"approved":                func(f *models.FoodFacility, v string) { f.Approved = parseTime(v) },
	"received":                func(f *models.FoodFacility, v string) { f.Received = v },
	"priorpermit":             func(f *models.FoodFacility, v string) { f.PriorPermit = parseBool(v) },
	"expirationdate":          func(f *models.FoodFacility, v string) { f.ExpirationDate = parseTime(v) },
	"location":                func(f *models.FoodFacility, v string) { f.Location = v },
	"firepreventiondistricts": func(f *models.FoodFacility, v string) { f.FirePreventionDistricts = parseInt(v) },
	"policedistricts":         func(f *models.FoodFacility, v string) { f.PoliceDistricts = parseInt(v) },
	"supervisordistricts":     func(f *models.FoodFacility, v string) { f.SupervisorDistricts = parseInt(v) },
	"zipcodes":                func(f *models.FoodFacility, v string) { f.ZipCodes = parseInt(v) },
	"neighborhoods":           func(f *models.FoodFacility, v string) { f.Neighborhoods = parseInt(v) },
	"neighborhoodsold":        func(f *models.FoodFacility, v string) { f.Neighborhoods = parseInt(v) },
}

var timeLayouts = []string{
	"01/02/2006 03:04:05 PM",
	"1/2/2006 3:04:05 PM",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"20060102",
}

// ErrNoHeader is returned for an input without a header row.
var ErrNoHeader = errors.New("dataset: csv has no header row")

// ParseCSV reads every data row of r. IDs are assigned from 1 in row order.
func ParseCSV(r io.Reader) ([]models.FoodFacility, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	setters := make([]fieldSetter, len(header))
	for i, name := range header {
		setters[i] = columns[normalizeHeader(name)]
	}

	var facilities []models.FoodFacility
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(facilities)+2, err)
		}
		if isBlank(record) {
			continue
		}

		f := models.FoodFacility{ID: len(facilities) + 1}
		for i, value := range record {
			if i >= len(setters) || setters[i] == nil {
				continue
			}
			setters[i](&f, strings.TrimSpace(value))
		}
		facilities = append(facilities, f)
	}

	return facilities, nil
}

// normalizeHeader lowercases and drops everything but letters and digits,
// so "Fire Prevention Districts" and "FirePreventionDistricts" both match.
func normalizeHeader(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimPrefix(name, "\ufeff") {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseFloat(v string) *float64 {
	if v == "" {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

func parseInt(v string) *int {
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func parseBool(v string) *bool {
	var b bool
	switch strings.ToLower(v) {
	case "1", "true", "y", "yes":
		b = true
	case "0", "false", "n", "no":
		b = false
	default:
		return nil
	}
	return &b
}

func parseTime(v string) *time.Time {
	if v == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}
