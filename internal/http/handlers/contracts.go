package handlers

import (
	"context"

	"github.com/google/uuid"

	"service-dispatch/internal/domain"
)

type profileUsecase interface {
	Get(ctx context.Context, courierID int64) (*domain.Profile, error)
	Create(ctx context.Context, p *domain.Profile) error
	UpdatePartial(ctx context.Context, u domain.PartialProfileUpdate) (*domain.Profile, error)
}

type availabilityUsecase interface {
	Toggle(ctx context.Context, courierID int64, online bool) (domain.ToggleResult, error)
}

type locationUsecase interface {
	UpdatePosition(ctx context.Context, courierID int64, c domain.Coordinate) error
	Nearby(ctx context.Context, c domain.Coordinate, radiusKm float64) ([]int64, error)
}

type matchingUsecase interface {
	Match(ctx context.Context, courierID int64, mode domain.TravelMode) (domain.MatchResult, error)
}

type deliveryUsecase interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.DeliveryOrder, error)
	Events(ctx context.Context, id uuid.UUID) ([]domain.DeliveryEvent, error)
	Accept(ctx context.Context, orderID uuid.UUID, courierID int64) (*domain.DeliveryOrder, error)
	PickUp(ctx context.Context, orderID uuid.UUID, courierID int64) (*domain.DeliveryOrder, error)
	Deliver(ctx context.Context, orderID uuid.UUID, courierID int64) (*domain.DeliveryOrder, error)
	Cancel(ctx context.Context, orderID uuid.UUID, actor domain.Actor, reason string) (*domain.DeliveryOrder, error)
}

type sellerLocationStore interface {
	Upsert(ctx context.Context, p domain.PickupPoint) error
}
