package areacodes

import (
	"errors"
	"fmt"
	"math"
)

const (
	// AreaCodeJSONFile is the default GeoJSON source for area code polygons
	AreaCodeJSONFile = "area_codes.geojson"

	// AreaCodeGOBFile is the prepared snapshot, as generated by cmd/prepare
	AreaCodeGOBFile = "area_codes.gob.gz"

	// DefaultCacheSize is the number of distinct lookups memoized by a Service
	DefaultCacheSize = 100_000

	// DataSourceEnv overrides the data file used by Default
	DataSourceEnv = "AREACODES_DATA"
)

var (
	// ErrDataNotFound is returned when the backing dataset is missing.
	// Errors wrapping it also match fs.ErrNotExist.
	ErrDataNotFound = errors.New("area code data file not found")

	// ErrInvalidCoordinate is returned for NaN, infinite or out of range input
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrNoAreaCode is returned when no area code polygon contains the point
	ErrNoAreaCode = errors.New("no area code found")
)

// Point is a polygon vertex in GeoJSON order: Lon,Lat
type Point [2]float64

// Points is a ring of vertices
type Points []Point

// Polygon is a list of rings, the first is the outer boundary
// and any others are holes
type Polygon []Points

// Rect is the min and max verticies of a bounding box
type Rect [2]Point

// AreaCodeGeo is ready for consumption
type AreaCodeGeo struct {
	Code     string    `json:"code"`
	State    string    `json:"state"`
	BBox     Rect      `json:"bbox"`
	Polygons []Polygon `json:"polygons"`
}

// Coordinate is a query location
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%5f,%5f)", c.Lat, c.Lon)
}

// Valid reports whether the coordinate is a finite WGS84 position
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Result holds the area codes found at a location, in locator order.
// When only the first code was requested it has exactly one element.
// Results may be shared through the cache and must not be modified.
type Result []string

// First returns the leading area code, or "" for an empty result
func (r Result) First() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// Locator finds the area codes containing a location
type Locator interface {
	Lookup(lat, lon float64, returnAll bool) (Result, error)
}
