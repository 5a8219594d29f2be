package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LookupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "areacodes_lookups_total",
		Help: "Total number of memoized single point lookups",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "areacodes_cache_hits_total",
		Help: "Total lookup cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "areacodes_cache_misses_total",
		Help: "Total lookup cache misses",
	})
	CacheEvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "areacodes_cache_evictions_total",
		Help: "Total least recently used entries evicted from the lookup cache",
	})
	LookupErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "areacodes_lookup_errors_total",
		Help: "Total locator lookups that returned an error",
	})
	LocatorDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "areacodes_locator_duration_ms",
		Help:    "Locator lookup duration in milliseconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50},
	})
	BatchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "areacodes_batch_size",
		Help:    "Number of points per batch lookup",
		Buckets: []float64{1, 10, 100, 1000, 10000},
	})
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "areacodes_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})
)

func init() {
	prometheus.MustRegister(LookupsTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(CacheEvictionsTotal)
	prometheus.MustRegister(LookupErrorsTotal)
	prometheus.MustRegister(LocatorDurationMs)
	prometheus.MustRegister(BatchSize)
	prometheus.MustRegister(RequestsTotal)
}

// Handler exposes the registered metrics for scraping
func Handler() http.Handler { return promhttp.Handler() }
