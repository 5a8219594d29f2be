package areacodes

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/paulstuart/go-areacodes/internal/logger"
)

var (
	_initMu     sync.Mutex
	_initSvc    atomic.Pointer[Service]
	_dataSource string

	// newLocator builds the locator behind Default; replaced in tests
	newLocator = func(dataSource string) (Locator, error) {
		return NewLocator(dataSource)
	}
)

// SetDataSource selects the data file used by Default.
// It has no effect once Default has succeeded.
func SetDataSource(filename string) {
	_initMu.Lock()
	_dataSource = filename
	_initMu.Unlock()
}

// dataSource resolves the file for Default: SetDataSource,
// then $AREACODES_DATA, then AreaCodeGOBFile
func dataSource() string {
	if _dataSource != "" {
		return _dataSource
	}
	if env := os.Getenv(DataSourceEnv); env != "" {
		return env
	}
	return AreaCodeGOBFile
}

// Default returns the process-wide Service, loading the locator on first use.
// Concurrent first callers wait for a single load. A failed load is
// reported to the caller and retried on the next call.
func Default() (*Service, error) {
	if svc := _initSvc.Load(); svc != nil {
		return svc, nil
	}

	_initMu.Lock()
	defer _initMu.Unlock()
	if svc := _initSvc.Load(); svc != nil {
		return svc, nil
	}

	src := dataSource()
	now := time.Now()
	loc, err := newLocator(src)
	if err != nil {
		logger.L().Error("locator_load_error", "source", src, "err", err)
		return nil, err
	}
	logger.L().Debug("locator_load_ok", "source", src, "elapsed", time.Since(now))

	svc := NewService(loc, DefaultCacheSize)
	_initSvc.Store(svc)
	return svc, nil
}

// Lookup returns the area codes at lat,lon using the process-wide Service.
// Results are memoized; see Service.Lookup.
func Lookup(lat, lon float64, returnAll bool) (Result, error) {
	svc, err := Default()
	if err != nil {
		return nil, err
	}
	return svc.Lookup(lat, lon, returnAll)
}

// BatchLookup returns the area codes for each point using the process-wide
// Service. Results are not memoized; see Service.BatchLookup.
func BatchLookup(points []Coordinate, returnAll bool) ([]Result, error) {
	svc, err := Default()
	if err != nil {
		return nil, err
	}
	return svc.BatchLookup(points, returnAll)
}
