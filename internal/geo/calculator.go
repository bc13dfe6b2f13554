package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// ErrMalformedRoute is returned for provider answers that cannot be used.
var ErrMalformedRoute = errors.New("malformed route")

// Route is a provider estimate.
type Route struct {
	Meters   float64
	Duration time.Duration
}

// Router is an external routing provider.
type Router interface {
	Route(ctx context.Context, origin, dest domain.Coordinate, mode domain.TravelMode) (Route, error)
}

type counter interface {
	Inc()
}

// Result is a provider lookup outcome: either a usable Route or the provider error.
type Result struct {
	Route Route
	Err   error
}

// OrFallback maps the result to a guaranteed distance. Any provider error yields
// the haversine estimate without a duration.
func (r Result) OrFallback(origin, dest domain.Coordinate) domain.Distance {
	if r.Err != nil {
		return domain.Distance{Km: RoundKm(HaversineKm(origin, dest)), Fallback: true}
	}
	d := r.Route.Duration
	return domain.Distance{Km: RoundKm(r.Route.Meters / 1000), Duration: &d}
}

// Calculator computes courier to pickup distances.
type Calculator struct {
	router    Router
	timeout   time.Duration
	logger    logx.Logger
	fallbacks counter
}

// NewCalculator creates a Calculator. A nil router always falls back.
func NewCalculator(router Router, timeout time.Duration, logger logx.Logger, fallbacks counter) *Calculator {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Calculator{router: router, timeout: timeout, logger: logger, fallbacks: fallbacks}
}

// Lookup asks the provider under the configured timeout.
func (c *Calculator) Lookup(ctx context.Context, origin, dest domain.Coordinate, mode domain.TravelMode) (res Result) {
	if c.router == nil {
		return Result{Err: errors.New("routing provider not configured")}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// провайдер не должен ронять матчинг
	defer func() {
		if p := recover(); p != nil {
			res = Result{Err: fmt.Errorf("routing provider panic: %v", p)}
		}
	}()

	route, err := c.router.Route(ctx, origin, dest, mode)
	if err != nil {
		return Result{Err: err}
	}
	if math.IsNaN(route.Meters) || math.IsInf(route.Meters, 0) || route.Meters < 0 || route.Duration < 0 {
		return Result{Err: ErrMalformedRoute}
	}
	return Result{Route: route}
}

// Distance never fails: provider errors degrade to the great-circle distance.
func (c *Calculator) Distance(ctx context.Context, origin, dest domain.Coordinate, mode domain.TravelMode) domain.Distance {
	res := c.Lookup(ctx, origin, dest, mode)
	if res.Err != nil {
		if c.fallbacks != nil {
			c.fallbacks.Inc()
		}
		c.logger.Warn("routing fallback to haversine",
			logx.String("mode", string(mode)),
			logx.Err(res.Err),
		)
	}
	return res.OrFallback(origin, dest)
}
