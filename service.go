package areacodes

import (
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/paulstuart/go-areacodes/internal/metrics"
)

// Service owns a locator and the cache memoizing its single point lookups.
// Construct one at startup and share it; the package level Lookup and
// BatchLookup use a lazily built process-wide Service (see Default).
type Service struct {
	locator Locator
	cache   *Cache
	group   singleflight.Group
}

// NewService wraps loc with a cache of cacheSize entries.
// A cacheSize <= 0 uses DefaultCacheSize.
func NewService(loc Locator, cacheSize int) *Service {
	return &Service{
		locator: loc,
		cache:   NewCache(cacheSize),
	}
}

// Locator returns the underlying locator
func (s *Service) Locator() Locator {
	return s.locator
}

// Cache returns the lookup cache
func (s *Service) Cache() *Cache {
	return s.cache
}

func (k CacheKey) String() string {
	return strconv.FormatFloat(k.Lat, 'g', -1, 64) + "," +
		strconv.FormatFloat(k.Lon, 'g', -1, 64) + "," +
		strconv.FormatBool(k.ReturnAll)
}

// Lookup returns the area codes at lat,lon, consulting the cache first.
// Only successful results are cached; locator errors are returned as is.
func (s *Service) Lookup(lat, lon float64, returnAll bool) (Result, error) {
	metrics.LookupsTotal.Inc()
	key := CacheKey{Lat: lat, Lon: lon, ReturnAll: returnAll}
	if r, ok := s.cache.Get(key); ok {
		metrics.CacheHitsTotal.Inc()
		return r, nil
	}
	metrics.CacheMissesTotal.Inc()

	// concurrent misses for the same key share one locator call
	v, err, _ := s.group.Do(key.String(), func() (interface{}, error) {
		if r, ok := s.cache.Get(key); ok {
			return r, nil
		}
		r, err := s.lookup(lat, lon, returnAll)
		if err != nil {
			return nil, err
		}
		s.cache.Put(key, r)
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Result), nil
}

// BatchLookup looks up each point in order, bypassing the cache.
// Repeated points are looked up again. The first error aborts the batch.
func (s *Service) BatchLookup(points []Coordinate, returnAll bool) ([]Result, error) {
	metrics.BatchSize.Observe(float64(len(points)))
	out := make([]Result, len(points))
	for i, pt := range points {
		r, err := s.lookup(pt.Lat, pt.Lon, returnAll)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func (s *Service) lookup(lat, lon float64, returnAll bool) (Result, error) {
	start := time.Now()
	r, err := s.locator.Lookup(lat, lon, returnAll)
	metrics.LocatorDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.LookupErrorsTotal.Inc()
		return nil, err
	}
	return r, nil
}
