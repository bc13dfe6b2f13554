package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewRoutingRetriesTotal returns a Prometheus counter for retry attempts against the routing provider
func NewRoutingRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "routing_retries_total",
		Help: "Total number of retry attempts performed against the routing provider",
	})
}

// NewRoutingFallbackTotal returns a Prometheus counter for distances served by the great-circle fallback
func NewRoutingFallbackTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "routing_fallback_total",
		Help: "Total number of distance estimates served by the haversine fallback",
	})
}

// NewMatchDuration returns a histogram of matcher run time
func NewMatchDuration() prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "match_duration_seconds",
		Help:    "Time spent computing match candidates for a courier",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
}

// NewMatchCandidates returns a histogram of candidates returned per match
func NewMatchCandidates() prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "match_candidates",
		Help:    "Number of candidates returned per match request",
		Buckets: prometheus.LinearBuckets(0, 5, 10),
	})
}

// NewDeliveryTransitionsTotal returns a counter of committed delivery transitions by target status
func NewDeliveryTransitionsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "delivery_transitions_total",
		Help: "Committed delivery status transitions",
	}, []string{"to"})
}

// NewEarningsRelayedTotal returns a counter of earnings records handed to the payout broker
func NewEarningsRelayedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "earnings_relayed_total",
		Help: "Total number of earnings records published to the payout broker",
	})
}

// NewOrderEventsTotal returns a counter of consumed purchase order events by outcome
func NewOrderEventsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_events_total",
		Help: "Consumed purchase order events",
	}, []string{"status", "result"})
}

// NewHTTPRequestsTotal returns a counter of served HTTP requests
func NewHTTPRequestsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
}

// NewHTTPRequestDuration returns a histogram of HTTP request latency
func NewHTTPRequestDuration() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
}
