package profile

import (
	"context"

	"service-dispatch/internal/domain"
)

// profileRepository defines storage operations required by the business layer.
type profileRepository interface {
	Get(ctx context.Context, courierID int64) (*domain.Profile, error)
	Create(ctx context.Context, p *domain.Profile) error
	UpdatePartial(ctx context.Context, u domain.PartialProfileUpdate) (bool, error)
}

type positionRemover interface {
	Remove(ctx context.Context, courierID int64) error
}
