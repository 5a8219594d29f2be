package areacodes

import (
	"fmt"
	"sync"

	geo "github.com/kellydunn/golang-geo"
	"github.com/tidwall/rtree"
	"golang.org/x/exp/slices"
)

/*
	Area code lookup strategy

	To find which area codes serve a point, the bounding boxes of every area code
	polygon are queried for those containing that point.

	Overlay plans share a boundary with the code they overlay (212/646/332 in
	Manhattan), so a point routinely lies in several polygons. Each candidate
	polygon is examined to confirm the point is inside the outer ring and
	outside its holes. Every confirmed code is reported, sorted ascending.
*/

// areaPoly is a single polygon of an area code, ready for containment tests
type areaPoly struct {
	code  string
	outer *geo.Polygon
	holes []*geo.Polygon
}

func (p areaPoly) contains(pt *geo.Point) bool {
	if !p.outer.Contains(pt) {
		return false
	}
	for _, hole := range p.holes {
		if hole.Contains(pt) {
			return false
		}
	}
	return true
}

// AreaCodeLocator answers point in polygon queries over area code boundaries.
// It is read-only once built and safe for concurrent use.
type AreaCodeLocator struct {
	mu     sync.RWMutex
	polys  []areaPoly
	bboxen rtree.RTree
	codes  map[string]string // area code -> state
}

// NewLocator loads area code boundaries from dataSource, a GeoJSON file or
// a GOB snapshot. An empty dataSource uses AreaCodeGOBFile.
// A missing file yields an error matching ErrDataNotFound.
func NewLocator(dataSource string) (*AreaCodeLocator, error) {
	if dataSource == "" {
		dataSource = AreaCodeGOBFile
	}
	codes, err := LoadAreaCodes(dataSource)
	if err != nil {
		return nil, err
	}
	return NewLocatorFromGeo(codes), nil
}

// NewLocatorFromGeo prepares already loaded area codes for searching
func NewLocatorFromGeo(codes []AreaCodeGeo) *AreaCodeLocator {
	l := &AreaCodeLocator{codes: make(map[string]string, len(codes))}
	for _, ac := range codes {
		l.codes[ac.Code] = ac.State
		for _, poly := range ac.Polygons {
			if len(poly) == 0 {
				continue
			}
			ap := areaPoly{code: ac.Code, outer: toGeoPoly(poly[0])}
			for _, hole := range poly[1:] {
				ap.holes = append(ap.holes, toGeoPoly(hole))
			}
			// recalculate per polygon so multipolygon parts index separately
			bbox := boundingBox([]Polygon{poly})
			l.bboxen.Insert(bbox[0], bbox[1], len(l.polys))
			l.polys = append(l.polys, ap)
		}
	}
	return l
}

func toGeoPoly(ring Points) *geo.Polygon {
	points := make([]*geo.Point, len(ring))
	for i, pt := range ring {
		points[i] = geo.NewPoint(pt[1], pt[0])
	}
	return geo.NewPolygon(points)
}

// Lookup returns the area codes whose boundaries contain lat,lon.
// With returnAll false only the first code is returned.
func (l *AreaCodeLocator) Lookup(lat, lon float64, returnAll bool) (Result, error) {
	loc := Coordinate{Lat: lat, Lon: lon}
	if !loc.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCoordinate, loc)
	}

	// NOTE: the index is in form of lon,lat
	pt := Point{lon, lat}
	in := geo.NewPoint(lat, lon)
	var found []string

	l.mu.RLock()
	l.bboxen.Search(pt, pt,
		func(min, max [2]float64, value interface{}) bool {
			ap := l.polys[value.(int)]
			if ap.contains(in) {
				found = append(found, ap.code)
			}
			return true
		})
	l.mu.RUnlock()

	if len(found) == 0 {
		return nil, fmt.Errorf("%w at %s", ErrNoAreaCode, loc)
	}
	slices.Sort(found)
	found = slices.Compact(found)
	if !returnAll {
		return Result{found[0]}, nil
	}
	return Result(found), nil
}

// State returns the state or province served by an area code
func (l *AreaCodeLocator) State(code string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	state, ok := l.codes[code]
	return state, ok
}

// Len is the number of distinct area codes loaded
func (l *AreaCodeLocator) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.codes)
}
