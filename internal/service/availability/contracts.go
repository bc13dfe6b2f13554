package availability

import (
	"context"
	"time"

	"service-dispatch/internal/domain"
)

type profileStore interface {
	Get(ctx context.Context, courierID int64) (*domain.Profile, error)
	SetOnline(ctx context.Context, courierID int64, online bool, at time.Time) (bool, error)
}

// positionRemover drops the live position of a courier going offline.
type positionRemover interface {
	Remove(ctx context.Context, courierID int64) error
}
