package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks menu cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "menu_cache_hits_total",
			Help: "Total number of menu cache hits",
		},
	)

	// CacheMisses tracks menu cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "menu_cache_misses_total",
			Help: "Total number of menu cache misses",
		},
	)

	// CacheWrittenBytes tracks bytes written to the cache
	CacheWrittenBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "menu_cache_written_bytes_total",
			Help: "Total bytes of assembled menus written to the cache",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "ping"
	)
)
