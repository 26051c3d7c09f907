package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total number of HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dartviewer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "code"},
	)

	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dartviewer_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// ActiveRequests tracks currently active requests
	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dartviewer_http_active_requests",
			Help: "Number of active HTTP requests",
		},
	)

	// UpstreamDuration tracks OpenDART and Gemini call latency
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dartviewer_upstream_duration_seconds",
			Help:    "Upstream call duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"service", "endpoint", "outcome"},
	)

	// CacheLookups counts in-memory cache hits and misses
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dartviewer_cache_lookups_total",
			Help: "Cache lookups by cache name and result",
		},
		[]string{"cache", "result"},
	)

	// CompaniesLoaded reports the size of the company lookup table
	CompaniesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dartviewer_companies_loaded",
			Help: "Number of companies in the lookup table",
		},
	)
)

// ObserveCache records a cache hit or miss for name.
func ObserveCache(name string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(name, result).Inc()
}

// ObserveUpstream records the duration of one upstream call started at start.
func ObserveUpstream(service, endpoint string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamDuration.WithLabelValues(service, endpoint, outcome).Observe(time.Since(start).Seconds())
}

// Middleware collects Prometheus metrics per chi route pattern so path
// parameters do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ActiveRequests.Inc()
		defer ActiveRequests.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	})
}
