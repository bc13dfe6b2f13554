package location

import (
	"context"

	"service-dispatch/internal/domain"
)

type profileStore interface {
	Get(ctx context.Context, courierID int64) (*domain.Profile, error)
	UpdatePosition(ctx context.Context, courierID int64, c domain.Coordinate) (bool, error)
}

type positionStore interface {
	Save(ctx context.Context, courierID int64, pos domain.LivePosition) error
	Get(ctx context.Context, courierID int64) (*domain.LivePosition, error)
	Nearby(ctx context.Context, c domain.Coordinate, radiusKm float64) ([]int64, error)
}
