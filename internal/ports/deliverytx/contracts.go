package deliverytx

import (
	"context"

	"github.com/google/uuid"

	"service-dispatch/internal/domain"
)

// Repository is the delivery storage visible inside a transaction.
type Repository interface {
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.DeliveryOrder, error)
	GetByPurchaseOrderID(ctx context.Context, purchaseOrderID string) (*domain.DeliveryOrder, error)
	Insert(ctx context.Context, o *domain.DeliveryOrder) error
	// ApplyTransition updates the row only if it is still in t.From.
	// It reports false when another writer got there first.
	ApplyTransition(ctx context.Context, t domain.Transition) (bool, error)
	InsertEvent(ctx context.Context, t domain.Transition) error
	InsertEarnings(ctx context.Context, rec domain.EarningsRecord) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
