package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CartMutations tracks remote cart commits per operation and result
	CartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_mutations_total",
			Help: "Total number of remote cart mutations",
		},
		[]string{"op", "result"},
	)

	// CartReverts tracks optimistic rollbacks per operation
	CartReverts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_reverts_total",
			Help: "Total number of optimistic cart rollbacks",
		},
		[]string{"op"},
	)

	// CacheFetches tracks data cache fetches per key and result
	CacheFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_fetches_total",
			Help: "Total number of data cache fetches",
		},
		[]string{"key", "result"},
	)

	// CacheStaleRefreshes tracks background refetches of stale entries
	CacheStaleRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_stale_refreshes_total",
			Help: "Total number of background stale-entry refreshes",
		},
		[]string{"key"},
	)

	// CacheSharedHits tracks snapshot reads served by the shared tier
	CacheSharedHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_shared_hits_total",
			Help: "Total number of fetches served from the shared cache tier",
		},
		[]string{"key"},
	)

	// APILatency tracks remote order-service request latency
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_api_latency_seconds",
			Help:    "Remote order-service request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// APIErrors tracks remote order-service request errors
	APIErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_api_errors_total",
			Help: "Total number of remote order-service request errors",
		},
		[]string{"method", "path"},
	)
)
