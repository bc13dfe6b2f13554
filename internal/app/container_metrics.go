package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"service-dispatch/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal   prometheus.Counter       `name:"rate_limit_exceeded_total"`
	RoutingRetriesTotal      prometheus.Counter       `name:"routing_retries_total"`
	RoutingFallbackTotal     prometheus.Counter       `name:"routing_fallback_total"`
	EarningsRelayedTotal     prometheus.Counter       `name:"earnings_relayed_total"`
	MatchDuration            prometheus.Histogram     `name:"match_duration_seconds"`
	MatchCandidates          prometheus.Histogram     `name:"match_candidates"`
	DeliveryTransitionsTotal *prometheus.CounterVec   `name:"delivery_transitions_total"`
	OrderEventsTotal         *prometheus.CounterVec   `name:"order_events_total"`
	HTTPRequestsTotal        *prometheus.CounterVec   `name:"http_requests_total"`
	HTTPRequestDuration      *prometheus.HistogramVec `name:"http_request_duration_seconds"`
	Handler                  http.Handler             `name:"metrics_handler"`
}

// provideMetrics registers collectors on the default registry. A collector
// that is already registered is reused, so the API and the worker can share
// one process in tests.
func provideMetrics() (metricsOut, error) {
	reg := prometheus.DefaultRegisterer
	var (
		out metricsOut
		err error
	)
	if out.RateLimitExceededTotal, err = register(reg, "rate_limit_exceeded_total", metrics.NewRateLimitExceededTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.RoutingRetriesTotal, err = register(reg, "routing_retries_total", metrics.NewRoutingRetriesTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.RoutingFallbackTotal, err = register(reg, "routing_fallback_total", metrics.NewRoutingFallbackTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.EarningsRelayedTotal, err = register(reg, "earnings_relayed_total", metrics.NewEarningsRelayedTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.MatchDuration, err = register(reg, "match_duration_seconds", metrics.NewMatchDuration()); err != nil {
		return metricsOut{}, err
	}
	if out.MatchCandidates, err = register(reg, "match_candidates", metrics.NewMatchCandidates()); err != nil {
		return metricsOut{}, err
	}
	if out.DeliveryTransitionsTotal, err = register(reg, "delivery_transitions_total", metrics.NewDeliveryTransitionsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.OrderEventsTotal, err = register(reg, "order_events_total", metrics.NewOrderEventsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.HTTPRequestsTotal, err = register(reg, "http_requests_total", metrics.NewHTTPRequestsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.HTTPRequestDuration, err = register(reg, "http_request_duration_seconds", metrics.NewHTTPRequestDuration()); err != nil {
		return metricsOut{}, err
	}
	out.Handler = promhttp.Handler()
	return out, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, name string, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, fmt.Errorf("register %s: %w", name, err)
	}
	return c, nil
}
