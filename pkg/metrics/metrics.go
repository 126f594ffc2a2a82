// Package metrics exposes the Prometheus registry used by the menu proxy.
// Collectors are defined in their owning packages (cache, upstream, service,
// server) and registered through promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the Prometheus registerer all collectors are registered with.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the source scraped by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler returns the /metrics exposition handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - menu_cache_hits_total (Counter): Cache hits
//   - menu_cache_misses_total (Counter): Cache misses
//   - menu_cache_written_bytes_total (Counter): Bytes written to Redis
//   - menu_cache_errors_total{operation} (Counter): Cache operation errors
//
// Upstream Metrics (pkg/upstream):
//   - menu_upstream_requests_total{resource, status} (Counter): Upstream list requests
//   - menu_upstream_request_duration_seconds{resource} (Histogram): Upstream latency
//
// Service Metrics (pkg/service):
//   - menu_requests_total{source} (Counter): Menu lookups by cache, upstream or error
//   - menu_assembly_truncated_total (Counter): Subtrees dropped by the depth bound
//
// HTTP Metrics (internal/server):
//   - menu_http_requests_total{route, code} (Counter): Served HTTP requests
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(menu_cache_hits_total[5m])) /
//   (sum(rate(menu_cache_hits_total[5m])) + sum(rate(menu_cache_misses_total[5m])))
//
//   # Upstream Error Rate
//   sum(rate(menu_upstream_requests_total{status!="200"}[5m]))
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(menu_upstream_request_duration_seconds_bucket[5m]))
