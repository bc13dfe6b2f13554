package matching

import (
	"context"

	"service-dispatch/internal/domain"
)

type profileGetter interface {
	Get(ctx context.Context, courierID int64) (*domain.Profile, error)
}

type locationResolver interface {
	Resolve(ctx context.Context, p *domain.Profile) (domain.Coordinate, error)
}

type pendingOrders interface {
	ListPending(ctx context.Context) ([]domain.DeliveryOrder, error)
}

// PickupLocator resolves seller ids to pickup points. Unknown sellers are
// absent from the returned map.
type PickupLocator interface {
	PickupPoints(ctx context.Context, sellerIDs []string) (map[string]domain.PickupPoint, error)
}

type distanceCalculator interface {
	Distance(ctx context.Context, origin, dest domain.Coordinate, mode domain.TravelMode) domain.Distance
}

type observer interface {
	Observe(float64)
}
