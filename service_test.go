package areacodes

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLocator answers every finite point and counts its calls
type countingLocator struct {
	calls   atomic.Int64
	release chan struct{}
}

func (c *countingLocator) Lookup(lat, lon float64, returnAll bool) (Result, error) {
	c.calls.Add(1)
	if c.release != nil {
		<-c.release
	}
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return nil, fmt.Errorf("%w: NaN", ErrInvalidCoordinate)
	}
	res := Result{fmt.Sprint(lat), fmt.Sprint(lon)}
	if !returnAll {
		return res[:1], nil
	}
	return res, nil
}

func TestServiceLookupMemoized(t *testing.T) {
	fake := &countingLocator{}
	svc := NewService(fake, 0)

	first, err := svc.Lookup(NYCLat, NYCLon, true)
	require.NoError(t, err)
	second, err := svc.Lookup(NYCLat, NYCLon, true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, fake.calls.Load())

	// returnAll is part of the key
	only, err := svc.Lookup(NYCLat, NYCLon, false)
	require.NoError(t, err)
	assert.Len(t, only, 1)
	assert.EqualValues(t, 2, fake.calls.Load())
	assert.Equal(t, 2, svc.Cache().Len())
	assert.Same(t, fake, svc.Locator())
}

func TestServiceLookupErrorNotCached(t *testing.T) {
	fake := &countingLocator{}
	svc := NewService(fake, 0)

	for i := 0; i < 2; i++ {
		_, err := svc.Lookup(math.NaN(), 0, true)
		assert.ErrorIs(t, err, ErrInvalidCoordinate)
	}
	assert.EqualValues(t, 2, fake.calls.Load())
	assert.Equal(t, 0, svc.Cache().Len())
}

func TestServiceCacheEviction(t *testing.T) {
	fake := &countingLocator{}
	svc := NewService(fake, DefaultCacheSize)

	for i := 0; i <= DefaultCacheSize; i++ {
		_, err := svc.Lookup(float64(i), 0, true)
		require.NoError(t, err)
	}
	assert.EqualValues(t, DefaultCacheSize+1, fake.calls.Load())
	assert.Equal(t, DefaultCacheSize, svc.Cache().Len())

	// the most recent key is still cached
	_, err := svc.Lookup(float64(DefaultCacheSize), 0, true)
	require.NoError(t, err)
	assert.EqualValues(t, DefaultCacheSize+1, fake.calls.Load())

	// the first key was least recently used and is gone
	_, err = svc.Lookup(0, 0, true)
	require.NoError(t, err)
	assert.EqualValues(t, DefaultCacheSize+2, fake.calls.Load())
}

func TestServiceCacheEvictionRecency(t *testing.T) {
	fake := &countingLocator{}
	svc := NewService(fake, 3)

	for _, lat := range []float64{1, 2, 3, 1, 4} {
		_, err := svc.Lookup(lat, 0, true)
		require.NoError(t, err)
	}
	// 1 was refreshed before 4 arrived, so 2 was evicted
	assert.EqualValues(t, 4, fake.calls.Load())
	assert.True(t, svc.Cache().Contains(CacheKey{Lat: 1, ReturnAll: true}))
	assert.False(t, svc.Cache().Contains(CacheKey{Lat: 2, ReturnAll: true}))
}

func TestServiceConcurrentMiss(t *testing.T) {
	fake := &countingLocator{release: make(chan struct{})}
	svc := NewService(fake, 0)

	const workers = 32
	var wg sync.WaitGroup
	results := make([]Result, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Lookup(NYCLat, NYCLon, true)
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(fake.release)
	wg.Wait()

	assert.EqualValues(t, 1, fake.calls.Load())
	for _, res := range results {
		assert.Equal(t, results[0], res)
	}
}

func TestServiceBatchLookup(t *testing.T) {
	fake := &countingLocator{}
	svc := NewService(fake, 0)
	points := []Coordinate{
		{NYCLat, NYCLon},
		{34.0522, -118.2437},
		{NYCLat, NYCLon},
	}

	for _, all := range []bool{true, false} {
		results, err := svc.BatchLookup(points, all)
		require.NoError(t, err)
		require.Len(t, results, len(points))
		for i, pt := range points {
			want, err := svc.Lookup(pt.Lat, pt.Lon, all)
			require.NoError(t, err)
			assert.Equal(t, want, results[i])
		}
	}
}

func TestServiceBatchBypassesCache(t *testing.T) {
	fake := &countingLocator{}
	svc := NewService(fake, 0)
	_, err := svc.Lookup(NYCLat, NYCLon, true)
	require.NoError(t, err)

	points := []Coordinate{{NYCLat, NYCLon}, {NYCLat, NYCLon}}
	_, err = svc.BatchLookup(points, true)
	require.NoError(t, err)

	// cached and repeated points are each looked up again
	assert.EqualValues(t, 3, fake.calls.Load())
	assert.Equal(t, 1, svc.Cache().Len())
}

func TestServiceBatchAborts(t *testing.T) {
	fake := &countingLocator{}
	svc := NewService(fake, 0)
	points := []Coordinate{{1, 1}, {math.NaN(), 0}, {2, 2}}

	results, err := svc.BatchLookup(points, true)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
	assert.Nil(t, results)
	assert.EqualValues(t, 2, fake.calls.Load())
}

func TestServiceBatchEmpty(t *testing.T) {
	svc := NewService(&countingLocator{}, 0)
	results, err := svc.BatchLookup(nil, true)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestServiceWithLocator(t *testing.T) {
	svc := NewService(loadTestLocator(t), 0)
	res, err := svc.Lookup(NYCLat, NYCLon, true)
	require.NoError(t, err)
	assert.Contains(t, res, "212")
}
