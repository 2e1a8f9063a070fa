// server/internal/models/facility.go
package models

import (
	"math"
	"time"
)

// FoodFacility is one permitted mobile food vendor from the city permit dataset.
// Only Applicant, Address, Status and the coordinates take part in search; the
// remaining fields are carried through to the response untouched. Records
// are read-only once loaded; search results share their pointer fields.
type FoodFacility struct {
	ID                      int        `bson:"_id" json:"id"`
	LocationID              string     `bson:"locationId,omitempty" json:"locationId"`
	Applicant               string     `bson:"applicant" json:"applicant"`
	FacilityType            string     `bson:"facilityType,omitempty" json:"facilityType"`
	Cnn                     string     `bson:"cnn,omitempty" json:"cnn"`
	LocationDescription     string     `bson:"locationDescription,omitempty" json:"locationDescription"`
	Address                 string     `bson:"address,omitempty" json:"address"`
	BlockLot                string     `bson:"blockLot,omitempty" json:"blockLot"`
	Block                   string     `bson:"block,omitempty" json:"block"`
	Lot                     string     `bson:"lot,omitempty" json:"lot"`
	Permit                  string     `bson:"permit,omitempty" json:"permit"`
	Status                  string     `bson:"status,omitempty" json:"status"` // APPROVED, REQUESTED, EXPIRED (not enforced)
	FoodItems               string     `bson:"foodItems,omitempty" json:"foodItems"`
	X                       *float64   `bson:"x,omitempty" json:"x"`
	Y                       *float64   `bson:"y,omitempty" json:"y"`
	Latitude                *float64   `bson:"latitude,omitempty" json:"latitude"`
	Longitude               *float64   `bson:"longitude,omitempty" json:"longitude"`
	Schedule                string     `bson:"schedule,omitempty" json:"schedule"`
	DaysHours               string     `bson:"daysHours,omitempty" json:"daysHours"`
	NOISent                 *time.Time `bson:"noiSent,omitempty" json:"noiSent"`
	Approved                *time.Time `bson:"approved,omitempty" json:"approved"`
	Received                string     `bson:"received,omitempty" json:"received"`
	PriorPermit             *bool      `bson:"priorPermit,omitempty" json:"priorPermit"`
	ExpirationDate          *time.Time `bson:"expirationDate,omitempty" json:"expirationDate"`
	Location                string     `bson:"location,omitempty" json:"location"`
	FirePreventionDistricts *int       `bson:"firePreventionDistricts,omitempty" json:"firePreventionDistricts"`
	PoliceDistricts         *int       `bson:"policeDistricts,omitempty" json:"policeDistricts"`
	SupervisorDistricts     *int       `bson:"supervisorDistricts,omitempty" json:"supervisorDistricts"`
	ZipCodes                *int       `bson:"zipCodes,omitempty" json:"zipCodes"`
	Neighborhoods           *int       `bson:"neighborhoods,omitempty" json:"neighborhoods"`
}

// HasLocation reports whether the facility can take part in a geo search.
// A facility missing either coordinate, holding a NaN or infinite one, or
// sitting at (0,0), has no location.
func (f *FoodFacility) HasLocation() bool {
	if f.Latitude == nil || f.Longitude == nil {
		return false
	}
	lat, lon := *f.Latitude, *f.Longitude
	if !IsFinite(lat) || !IsFinite(lon) {
		return false
	}
	return !(lat == 0 && lon == 0)
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
