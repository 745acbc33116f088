package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	latitudeMin  = -90.0
	latitudeMax  = 90.0
	longitudeMin = -180.0
	longitudeMax = 180.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly
// initialized GeoPoint. Points must be created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a WGS84 coordinate pair. It is an immutable value
// object; the zero value is invalid and fails validation.
//
// An order whose destination was never geocoded carries no GeoPoint at all
// (a nil pointer at the aggregate level), never a zero-value one.
//
// Example:
//
//	depot, err := kernel.NewGeoPoint(55.7558, 37.6173)
//	if err != nil {
//	    // out-of-range coordinates
//	}
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint, validating that latitude is within
// [-90, 90] and longitude within [-180, 180].
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if lat < latitudeMin || lat > latitudeMax {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("latitude", lat, latitudeMin, latitudeMax)
	}
	if lon < longitudeMin || lon > longitudeMax {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("longitude", lon, longitudeMin, longitudeMax)
	}

	p.lat = lat
	p.lon = lon
	return p, nil
}

// Latitude returns the latitude in decimal degrees.
func (p GeoPoint) Latitude() float64 {
	return p.lat
}

// Longitude returns the longitude in decimal degrees.
func (p GeoPoint) Longitude() float64 {
	return p.lon
}

// IsEqual compares two points by coordinates.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.lat == other.lat && p.lon == other.lon
}

// Validate rejects zero-value points that bypassed the constructor.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// String renders the point as "lat,lon" with six decimal places.
func (p GeoPoint) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.lat, p.lon)
}
