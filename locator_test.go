package areacodes

import (
	"errors"
	"io/fs"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simplified boundaries around the example cities
const testGeoJSON = "testdata/area_codes.geojson"

const (
	// City Hall, New York NY
	NYCLat, NYCLon = 40.7128, -74.0060
)

func loadTestLocator(t *testing.T) *AreaCodeLocator {
	t.Helper()
	loc, err := NewLocator(testGeoJSON)
	require.NoError(t, err)
	return loc
}

type lookupValid struct {
	lat, lon float64
	name     string
	codes    []string
}

var validLookups = []lookupValid{
	{NYCLat, NYCLon, "New York City, NY", []string{"212", "332", "646", "917"}},
	{40.6782, -73.9442, "Brooklyn, NY", []string{"347", "718", "917", "929"}},
	{34.0522, -118.2437, "Los Angeles, CA", []string{"213"}},
	{34.1000, -118.3000, "Hollywood, CA", []string{"323"}},
	{41.8781, -87.6298, "Chicago, IL", []string{"312", "872"}},
	{29.7604, -95.3698, "Houston, TX", []string{"346", "713", "832"}},
	{33.4484, -112.0740, "Phoenix, AZ", []string{"602"}},
}

func TestLookup(t *testing.T) {
	loc := loadTestLocator(t)
	for _, look := range validLookups {
		now := time.Now()
		res, err := loc.Lookup(look.lat, look.lon, true)
		since := time.Since(now)
		require.NoError(t, err, look.name)
		assert.Equal(t, Result(look.codes), res, look.name)
		t.Logf("%s: %v, Elapsed: %s", look.name, res, since)
	}
}

func TestLookupFirst(t *testing.T) {
	loc := loadTestLocator(t)
	for _, look := range validLookups {
		res, err := loc.Lookup(look.lat, look.lon, false)
		require.NoError(t, err, look.name)
		assert.Equal(t, Result{look.codes[0]}, res, look.name)
		assert.Equal(t, look.codes[0], res.First())
	}
}

func TestLookupHole(t *testing.T) {
	loc := loadTestLocator(t)
	// downtown LA sits in the hole cut out of 323
	res, err := loc.Lookup(34.0522, -118.2437, true)
	require.NoError(t, err)
	assert.NotContains(t, res, "323")
}

func TestLookupNotFound(t *testing.T) {
	loc := loadTestLocator(t)
	_, err := loc.Lookup(0, 0, true)
	assert.ErrorIs(t, err, ErrNoAreaCode)
}

func TestLookupInvalid(t *testing.T) {
	loc := loadTestLocator(t)
	bad := []Coordinate{
		{math.NaN(), NYCLon},
		{NYCLat, math.Inf(1)},
		{91, 0},
		{0, -180.5},
	}
	for _, c := range bad {
		_, err := loc.Lookup(c.Lat, c.Lon, true)
		assert.ErrorIs(t, err, ErrInvalidCoordinate, c.String())
	}
}

func TestLocatorMeta(t *testing.T) {
	loc := loadTestLocator(t)
	assert.Equal(t, 15, loc.Len())
	state, ok := loc.State("312")
	assert.True(t, ok)
	assert.Equal(t, "IL", state)
	_, ok = loc.State("999")
	assert.False(t, ok)
}

func TestLocatorConcurrent(t *testing.T) {
	loc := loadTestLocator(t)
	var wg sync.WaitGroup
	errs := make(chan error, 8*len(validLookups))
	for i := 0; i < 8; i++ {
		for _, look := range validLookups {
			wg.Add(1)
			go func(look lookupValid) {
				defer wg.Done()
				res, err := loc.Lookup(look.lat, look.lon, true)
				if err == nil && len(res) != len(look.codes) {
					err = errors.New(look.name + ": wrong result")
				}
				errs <- err
			}(look)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestNewLocatorMissing(t *testing.T) {
	for _, name := range []string{"testdata/missing.gob.gz", "testdata/missing.geojson"} {
		_, err := NewLocator(name)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDataNotFound, name)
		assert.ErrorIs(t, err, fs.ErrNotExist, name)
	}
}
