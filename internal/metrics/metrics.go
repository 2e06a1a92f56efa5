package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bassita_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bassita_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bassita_cache_hits_total",
			Help: "Cache hits per namespace",
		},
		[]string{"namespace"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bassita_cache_misses_total",
			Help: "Cache misses per namespace",
		},
		[]string{"namespace"},
	)

	// Mutation metrics
	MutationRollbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bassita_mutation_rollbacks_total",
			Help: "Optimistic cache rollbacks after failed store writes",
		},
		[]string{"mutation"},
	)

	// Subscription metrics
	ActiveSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bassita_active_subscriptions",
			Help: "Currently active board subscriptions",
		},
	)
)
