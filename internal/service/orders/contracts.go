//go:generate mockgen -source=contracts.go -destination=orders_mocks_test.go -package=orders_test

package orders

import (
	"context"

	"github.com/google/uuid"

	"service-dispatch/internal/domain"
)

// DeliveryPort abstracts the subset of delivery service operations
// needed by orders Processor when handling order events
type DeliveryPort interface {
	Create(ctx context.Context, nd domain.NewDelivery) (*domain.DeliveryOrder, error)
	FindByPurchaseOrder(ctx context.Context, purchaseOrderID string) (*domain.DeliveryOrder, error)
	Cancel(ctx context.Context, orderID uuid.UUID, actor domain.Actor, reason string) (*domain.DeliveryOrder, error)
}
