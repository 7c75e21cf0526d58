// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// Listing
	ListingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_listing_requests_total",
			Help: "Listing requests by entry point",
		},
		[]string{"entry_point"},
	)

	ListingQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recipe_listing_query_duration_seconds",
			Help:    "Time spent querying the store for one listing page",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Feedback
	FeedbackEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_feedback_events_total",
			Help: "Feedback writes by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// Cache
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listing_cache_hits_total",
			Help: "Listing cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listing_cache_misses_total",
			Help: "Listing cache misses",
		},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_cache_errors_total",
			Help: "Listing cache operations that failed or were short-circuited",
		},
		[]string{"operation"},
	)

	// Circuit breakers
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Rate limiting
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"scope"},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, route string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	APIRequestDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
	APIRequestsTotal.WithLabelValues(method, route, code).Inc()
}

// RecordFeedback counts a feedback write.
func RecordFeedback(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	FeedbackEvents.WithLabelValues(kind, outcome).Inc()
}
