package routing

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/geo"
	"service-dispatch/internal/logx"
)

type counter interface {
	Inc()
}

// RetryConfig describes RetryingRouter behaviour.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingRouter retries transient provider failures with exponential backoff.
// The caller's context bounds the whole sequence.
type RetryingRouter struct {
	next    geo.Router
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
	wait    func(context.Context, time.Duration) bool
}

// NewRetryingRouter returns nil when next is nil.
func NewRetryingRouter(next geo.Router, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingRouter {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &RetryingRouter{next: next, logger: logger, retries: retries, cfg: cfg, wait: sleepWithContext}
}

// Route implements geo.Router.
func (r *RetryingRouter) Route(ctx context.Context, origin, dest domain.Coordinate, mode domain.TravelMode) (geo.Route, error) {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		route, err := r.next.Route(ctx, origin, dest, mode)
		if err == nil {
			return route, nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == r.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(r.cfg.BaseDelay, r.cfg.MaxDelay, attempt)
		if r.retries != nil {
			r.retries.Inc()
		}
		r.logger.Warn("routing provider retry",
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !r.wait(ctx, delay) {
			break
		}
	}
	return geo.Route{}, lastErr
}

// isRetryable: network timeouts and provider throttling are transient,
// an empty route or a cancelled caller is not.
func isRetryable(err error) bool {
	if errors.Is(err, ErrNoRoute) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	msg := err.Error()
	for _, s := range []string{"OVER_QUERY_LIMIT", "UNKNOWN_ERROR", "connection reset", "EOF"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// backoff computes the retry delay
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
