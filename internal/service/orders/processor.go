package orders

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

const defaultCancelReason = "purchase order canceled"

// Processor turns purchase order events into delivery operations.
type Processor struct {
	delivery DeliveryPort
	factory  *actionFactory
	events   *prometheus.CounterVec
	logger   logx.Logger
}

// NewProcessor creates a new orders.Processor. events may be nil.
func NewProcessor(deliverySvc DeliveryPort, events *prometheus.CounterVec, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{
		delivery: deliverySvc,
		events:   events,
		logger:   logger,
	}
	p.factory = newActionFactory(p.onCreated, p.onCanceled)
	return p
}

// Handle processes a single orders.Event. Unknown statuses are ignored.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	fn, ok := p.factory.get(e.Status)
	if !ok {
		p.count(e, "ignored")
		return nil
	}
	if err := fn(ctx, e); err != nil {
		p.count(e, "error")
		return err
	}
	p.count(e, "ok")
	return nil
}

func (p *Processor) count(e Event, result string) {
	if p.events == nil {
		return
	}
	p.events.WithLabelValues(normalizeStatus(e.Status), result).Inc()
}

func (p *Processor) onCreated(ctx context.Context, e Event) error {
	if !e.RequiresDelivery {
		return nil
	}
	o, err := p.delivery.Create(ctx, domain.NewDelivery{
		PurchaseOrderID:  e.OrderID,
		SellerID:         e.SellerID,
		FeeCents:         e.FeeCents,
		EstimatedMinutes: e.EstimatedMinutes,
	})
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		// повторная доставка не исправит событие
		p.logger.Warn("dropping malformed order event",
			logx.String("purchase_order_id", e.OrderID),
			logx.Err(err),
		)
		return nil
	case errors.Is(err, apperr.ErrConflict):
		return nil
	case err != nil:
		return err
	}
	p.logger.Debug("delivery opened from order event",
		logx.String("purchase_order_id", e.OrderID),
		logx.String("order_id", o.ID.String()),
	)
	return nil
}

func (p *Processor) onCanceled(ctx context.Context, e Event) error {
	o, err := p.delivery.FindByPurchaseOrder(ctx, e.OrderID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	reason := e.Reason
	if reason == "" {
		reason = defaultCancelReason
	}
	_, err = p.delivery.Cancel(ctx, o.ID, domain.Actor{Role: domain.ActorSystem}, reason)
	if errors.Is(err, apperr.ErrInvalidTransition) || errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	return err
}
