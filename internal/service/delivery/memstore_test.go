package delivery

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/ports/deliverytx"
)

// memStore is a serialized in-memory deliveryRepository. A failing
// transaction restores the previous state.
type memStore struct {
	mu          sync.Mutex
	orders      map[uuid.UUID]domain.DeliveryOrder
	events      []domain.Transition
	earnings    []domain.EarningsRecord
	earningsErr error
}

func newMemStore(orders ...domain.DeliveryOrder) *memStore {
	m := &memStore{orders: map[uuid.UUID]domain.DeliveryOrder{}}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *memStore) WithTx(_ context.Context, fn func(tx deliverytx.Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := make(map[uuid.UUID]domain.DeliveryOrder, len(m.orders))
	for k, v := range m.orders {
		orders[k] = v
	}
	events := append([]domain.Transition(nil), m.events...)
	earnings := append([]domain.EarningsRecord(nil), m.earnings...)

	if err := fn(&memTx{m: m}); err != nil {
		m.orders, m.events, m.earnings = orders, events, earnings
		return err
	}
	return nil
}

func (m *memStore) Get(_ context.Context, id uuid.UUID) (*domain.DeliveryOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m *memStore) ListEvents(_ context.Context, id uuid.UUID) ([]domain.DeliveryEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DeliveryEvent
	for i, t := range m.events {
		if t.OrderID == id {
			out = append(out, domain.DeliveryEvent{
				ID: int64(i + 1), OrderID: id, From: t.From, To: t.To, Actor: t.Actor, Reason: t.Reason, CreatedAt: t.At,
			})
		}
	}
	return out, nil
}

func (m *memStore) status(id uuid.UUID) domain.DeliveryStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id].Status
}

type memTx struct{ m *memStore }

func (t *memTx) GetForUpdate(_ context.Context, id uuid.UUID) (*domain.DeliveryOrder, error) {
	o, ok := t.m.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (t *memTx) GetByPurchaseOrderID(_ context.Context, po string) (*domain.DeliveryOrder, error) {
	for _, o := range t.m.orders {
		if o.PurchaseOrderID == po {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (t *memTx) Insert(_ context.Context, o *domain.DeliveryOrder) error {
	for _, existing := range t.m.orders {
		if existing.PurchaseOrderID == o.PurchaseOrderID {
			return apperr.ErrConflict
		}
	}
	t.m.orders[o.ID] = *o
	return nil
}

func (t *memTx) ApplyTransition(_ context.Context, tr domain.Transition) (bool, error) {
	o, ok := t.m.orders[tr.OrderID]
	if !ok || o.Status != tr.From {
		return false, nil
	}
	o.Status = tr.To
	if tr.CourierID != nil {
		id := *tr.CourierID
		o.CourierID = &id
	}
	if tr.Reason != nil {
		o.CancelReason = tr.Reason
	}
	at := tr.At
	switch tr.To {
	case domain.StatusAccepted:
		o.AcceptedAt = &at
	case domain.StatusPickedUp:
		o.PickedUpAt = &at
	case domain.StatusDelivered:
		o.DeliveredAt = &at
	case domain.StatusCancelled:
		o.CancelledAt = &at
	}
	o.UpdatedAt = at
	t.m.orders[tr.OrderID] = o
	return true, nil
}

func (t *memTx) InsertEvent(_ context.Context, tr domain.Transition) error {
	t.m.events = append(t.m.events, tr)
	return nil
}

func (t *memTx) InsertEarnings(_ context.Context, rec domain.EarningsRecord) error {
	if t.m.earningsErr != nil {
		return t.m.earningsErr
	}
	t.m.earnings = append(t.m.earnings, rec)
	return nil
}
