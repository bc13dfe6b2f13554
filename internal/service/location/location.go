package location

import (
	"context"
	"fmt"
	"time"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// Service records live courier positions and resolves the coordinate
// matching works from.
type Service struct {
	profiles         profileStore
	positions        positionStore
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a location Service. positions may be nil, live
// positions are then only kept in the profile snapshot.
func NewService(profiles profileStore, positions positionStore, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		profiles:         profiles,
		positions:        positions,
		operationTimeout: timeout,
		logger:           logger,
		now:              time.Now,
	}
}

// UpdatePosition stores a GPS fix for a courier with tracking enabled.
func (s *Service) UpdatePosition(ctx context.Context, courierID int64, c domain.Coordinate) error {
	if err := c.ValidateTracked(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	p, err := s.profiles.Get(ctx, courierID)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.ErrProfileNotFound
	}
	if !p.GPSTrackingEnabled {
		return fmt.Errorf("%w: gps tracking is disabled", apperr.ErrInvalid)
	}

	if s.positions != nil {
		if err := s.positions.Save(ctx, courierID, domain.LivePosition{Coordinate: c, At: s.now().UTC()}); err != nil {
			return err
		}
	}
	ok, err := s.profiles.UpdatePosition(ctx, courierID, c)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrProfileNotFound
	}
	return nil
}

// Overlay replaces the stored snapshot with the live position when one is
// cached. Cache failures keep the snapshot.
func (s *Service) Overlay(ctx context.Context, p *domain.Profile) {
	if p == nil || s.positions == nil || !p.GPSTrackingEnabled {
		return
	}
	pos, err := s.positions.Get(ctx, p.CourierID)
	if err != nil {
		s.logger.Warn("live position lookup failed",
			logx.Int64("courier_id", p.CourierID),
			logx.Err(err),
		)
		return
	}
	if pos == nil || !pos.Coordinate.Valid() {
		return
	}
	c := pos.Coordinate
	p.Current = &c
}

// Resolve returns the effective coordinate of the courier.
func (s *Service) Resolve(ctx context.Context, p *domain.Profile) (domain.Coordinate, error) {
	s.Overlay(ctx, p)
	return domain.EffectiveLocation(p)
}

// Nearby lists couriers with a live position within radiusKm of c.
func (s *Service) Nearby(ctx context.Context, c domain.Coordinate, radiusKm float64) ([]int64, error) {
	if err := c.ValidateTracked(); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", apperr.ErrInvalid)
	}
	if s.positions == nil {
		return []int64{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()
	return s.positions.Nearby(ctx, c, radiusKm)
}
