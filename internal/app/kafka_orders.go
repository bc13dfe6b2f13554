package app

import (
	"context"
	"time"

	"service-dispatch/internal/service/orders"
	"service-dispatch/internal/transport/kafka"
)

type ordersHandler interface {
	Handle(ctx context.Context, e orders.Event) error
}

// makeOrdersKafka bounds the handling of one event so a stuck transaction
// does not hold the partition forever.
func makeOrdersKafka(h ordersHandler, timeout time.Duration) kafka.HandleFunc {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return func(ctx context.Context, event orders.Event) error {
		hCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return h.Handle(hCtx, event)
	}
}
