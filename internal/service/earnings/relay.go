package earnings

import (
	"context"
	"errors"
	"time"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

type outbox interface {
	Relay(ctx context.Context, limit int, publish func(ctx context.Context, rec domain.EarningsRecord) error) (int, error)
}

// Publisher delivers one earnings record to the payout side.
type Publisher interface {
	Publish(ctx context.Context, rec domain.EarningsRecord) error
}

type counter interface {
	Add(float64)
}

// Relay moves delivered-order payouts from the outbox to the broker.
type Relay struct {
	outbox    outbox
	publisher Publisher
	batch     int
	timeout   time.Duration
	relayed   counter
	logger    logx.Logger
}

// NewRelay creates a Relay. relayed may be nil.
func NewRelay(o outbox, p Publisher, batch int, timeout time.Duration, relayed counter, logger logx.Logger) *Relay {
	if batch <= 0 {
		batch = 50
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Relay{
		outbox:    o,
		publisher: p,
		batch:     batch,
		timeout:   timeout,
		relayed:   relayed,
		logger:    logger,
	}
}

// RunOnce relays a single batch and returns how many records were sent.
// Records the broker rejects stay in the outbox for the next run.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	if r.publisher == nil {
		return 0, errors.New("earnings publisher is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	failed := 0
	sent, err := r.outbox.Relay(ctx, r.batch, func(ctx context.Context, rec domain.EarningsRecord) error {
		if err := r.publisher.Publish(ctx, rec); err != nil {
			failed++
			r.logger.Warn("earnings publish failed",
				logx.String("order_id", rec.OrderID.String()),
				logx.Int64("courier_id", rec.CourierID),
				logx.Err(err),
			)
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if r.relayed != nil && sent > 0 {
		r.relayed.Add(float64(sent))
	}
	if sent > 0 || failed > 0 {
		r.logger.Info("earnings relayed", logx.Int("sent", sent), logx.Int("failed", failed))
	}
	return sent, nil
}
