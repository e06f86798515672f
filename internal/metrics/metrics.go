// Package metrics provides Prometheus metrics for the resource browser.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	cacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pycontw_cache_hits_total",
			Help: "Cache lookups that returned a fresh entry",
		},
		[]string{"store"},
	)

	cacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pycontw_cache_misses_total",
			Help: "Cache lookups that found nothing or an expired entry",
		},
		[]string{"store"},
	)

	manifestFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pycontw_manifest_fetches_total",
			Help: "Manifest reads by outcome",
		},
		[]string{"outcome"},
	)

	contentFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pycontw_content_fetches_total",
			Help: "Content reads by outcome",
		},
		[]string{"outcome"},
	)

	treeBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pycontw_tree_build_duration_seconds",
			Help:    "Time to build the virtual tree from the manifest",
			Buckets: prometheus.DefBuckets,
		},
	)

	treeSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pycontw_tree_size",
			Help: "Number of nodes in the most recently built tree",
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pycontw_http_requests_total",
			Help: "Total HTTP requests served by the dev server",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pycontw_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordCacheHit records a fresh cache read for the named store.
func RecordCacheHit(store string) {
	cacheHitsTotal.WithLabelValues(store).Inc()
}

// RecordCacheMiss records an absent or expired cache read.
func RecordCacheMiss(store string) {
	cacheMissesTotal.WithLabelValues(store).Inc()
}

// RecordManifestFetch records a manifest read outcome: "ok", "degraded".
func RecordManifestFetch(outcome string) {
	manifestFetchesTotal.WithLabelValues(outcome).Inc()
}

// RecordContentFetch records a content read outcome: "ok", "error".
func RecordContentFetch(outcome string) {
	contentFetchesTotal.WithLabelValues(outcome).Inc()
}

// RecordTreeBuild records a tree rebuild and its resulting size.
func RecordTreeBuild(duration time.Duration, nodes int) {
	treeBuildDuration.Observe(duration.Seconds())
	treeSize.Set(float64(nodes))
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the underlying writer so SSE streams keep working
// through the middleware chain.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware returns HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		RecordHTTPRequest(r.Method, r.URL.Path, rw.statusCode, time.Since(start))
	})
}
