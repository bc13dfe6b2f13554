//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=delivery

package delivery

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/ports/deliverytx"
)

type deliveryRepository interface {
	WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) error
	Get(ctx context.Context, id uuid.UUID) (*domain.DeliveryOrder, error)
	ListEvents(ctx context.Context, id uuid.UUID) ([]domain.DeliveryEvent, error)
}

type profileGetter interface {
	Get(ctx context.Context, courierID int64) (*domain.Profile, error)
}

// StatusPublisher announces committed transitions.
type StatusPublisher interface {
	PublishStatus(ctx context.Context, change domain.StatusChange) error
}

type counterVec interface {
	WithLabelValues(lvs ...string) prometheus.Counter
}
