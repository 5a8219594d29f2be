package areacodes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// featureCollection represents GeoJSON as published for NANP area code boundaries
type featureCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Type       string        `json:"type"`
	Properties rawProperties `json:"properties"`
	Geometry   rawGeometry   `json:"geometry"`
}

type rawProperties struct {
	AreaCode codeString `json:"area_code"`
	NPA      codeString `json:"npa"`
	State    string     `json:"state"`
}

type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// codeString accepts area codes published as either strings or numbers
type codeString string

func (c *codeString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = codeString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("area code %s: %w", b, err)
	}
	*c = codeString(n.String())
	return nil
}

func (p rawProperties) code() string {
	if p.AreaCode != "" {
		return string(p.AreaCode)
	}
	return string(p.NPA)
}

// LoadAreaCodeJSON loads a GeoJSON FeatureCollection of area code boundaries
func LoadAreaCodeJSON(filename string) ([]AreaCodeGeo, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, notFound(filename, err)
	}
	defer f.Close()

	var fc featureCollection
	dec := json.NewDecoder(f)
	if err := dec.Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode %q: %w", filename, err)
	}
	if !strings.EqualFold(fc.Type, "FeatureCollection") {
		return nil, fmt.Errorf("%q: expected FeatureCollection, got %q", filename, fc.Type)
	}
	loaded := make([]AreaCodeGeo, 0, len(fc.Features))
	for i, src := range fc.Features {
		load, err := src.Load()
		if err != nil {
			return nil, fmt.Errorf("failed for (%d/%d): %w", i+1, len(fc.Features), err)
		}
		loaded = append(loaded, load)
	}
	return loaded, nil
}

// Load converts a GeoJSON feature into usable data
func (f rawFeature) Load() (AreaCodeGeo, error) {
	load := AreaCodeGeo{
		Code:  f.Properties.code(),
		State: f.Properties.State,
	}
	if load.Code == "" {
		return load, errors.New("feature has no area code")
	}

	switch strings.ToLower(f.Geometry.Type) {
	case "polygon":
		var poly Polygon
		if err := json.Unmarshal(f.Geometry.Coordinates, &poly); err != nil {
			return load, fmt.Errorf("polygon area code: %s -- %w", load.Code, err)
		}
		load.Polygons = []Polygon{poly}
	case "multipolygon":
		if err := json.Unmarshal(f.Geometry.Coordinates, &load.Polygons); err != nil {
			return load, fmt.Errorf("multipolygon area code: %s -- %w", load.Code, err)
		}
	default:
		return load, fmt.Errorf("area code %q has unsupported geometry %q", load.Code, f.Geometry.Type)
	}

	for _, poly := range load.Polygons {
		if len(poly) == 0 {
			return load, fmt.Errorf("area code %q has empty polygon", load.Code)
		}
		for _, ring := range poly {
			if len(ring) < 3 {
				return load, fmt.Errorf("area code %q has incomplete ring (%d)", load.Code, len(ring))
			}
		}
	}

	load.BBox = boundingBox(load.Polygons)
	return load, nil
}

// boundingBox covers the outer rings of all polygons
func boundingBox(polys []Polygon) Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, poly := range polys {
		if len(poly) == 0 {
			continue
		}
		for _, pt := range poly[0] {
			minX = math.Min(minX, pt[0])
			minY = math.Min(minY, pt[1])
			maxX = math.Max(maxX, pt[0])
			maxY = math.Max(maxY, pt[1])
		}
	}

	return Rect{
		{minX, minY},
		{maxX, maxY},
	}
}

// LoadAreaCodes reads either a GeoJSON file or a prepared GOB snapshot,
// chosen by file extension
func LoadAreaCodes(filename string) ([]AreaCodeGeo, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".geojson":
		return LoadAreaCodeJSON(filename)
	}
	var codes []AreaCodeGeo
	if err := GobLoad(filename, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// ProcessJSONData loads GeoJSON area code boundaries
// and saves them as a GOB datafile for faster loading
func ProcessJSONData(source, saved string) error {
	loaded, err := LoadAreaCodeJSON(source)
	if err != nil {
		return fmt.Errorf("failed to process %q -- %w", source, err)
	}
	return GobDump(saved, loaded)
}

// notFound marks a missing data file with ErrDataNotFound
func notFound(filename string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q: %w", ErrDataNotFound, filename, err)
	}
	return err
}
