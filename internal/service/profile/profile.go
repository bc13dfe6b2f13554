package profile

import (
	"context"
	"fmt"
	"math"
	"time"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// Service manages courier availability profiles.
type Service struct {
	repo             profileRepository
	positions        positionRemover
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates and configures a profile Service.
func NewService(r profileRepository, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: r, operationTimeout: timeout, logger: logx.Nop()}
}

// WithPositions makes the service drop the live position of couriers that
// switch GPS tracking off.
func (s *Service) WithPositions(p positionRemover, logger logx.Logger) *Service {
	s.positions = p
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func validateCreate(p *domain.Profile) error {
	if p == nil {
		return apperr.ErrInvalid
	}
	if p.CourierID <= 0 {
		return fmt.Errorf("%w: courier id must be positive", apperr.ErrInvalid)
	}
	if p.Home == nil {
		return fmt.Errorf("%w: home coordinate is required", apperr.ErrInvalid)
	}
	if err := p.Home.Validate(); err != nil {
		return err
	}
	return validateRadius(p.MaxDistanceKm)
}

func validateUpdate(u *domain.PartialProfileUpdate) error {
	if u.CourierID <= 0 {
		return fmt.Errorf("%w: courier id must be positive", apperr.ErrInvalid)
	}
	if u.Empty() {
		return fmt.Errorf("%w: nothing to update", apperr.ErrInvalid)
	}
	if u.MaxDistanceKm != nil {
		if err := validateRadius(*u.MaxDistanceKm); err != nil {
			return err
		}
	}
	if u.Home != nil {
		if err := u.Home.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// 0 means "use the service default radius"
func validateRadius(km float64) error {
	if math.IsNaN(km) || math.IsInf(km, 0) || km < 0 {
		return fmt.Errorf("%w: max distance must be a non-negative number", apperr.ErrInvalid)
	}
	return nil
}

// Get returns the profile of a courier.
func (s *Service) Get(ctx context.Context, courierID int64) (*domain.Profile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.repo.Get(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ErrProfileNotFound
	}
	return p, nil
}

// Create persists a new profile. New profiles always start offline.
func (s *Service) Create(ctx context.Context, p *domain.Profile) error {
	if err := validateCreate(p); err != nil {
		return err
	}
	p.Online = false
	p.Current = nil

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Create(ctx, p)
}

// UpdatePartial changes the given settings and returns the stored profile.
func (s *Service) UpdatePartial(ctx context.Context, u domain.PartialProfileUpdate) (*domain.Profile, error) {
	if err := validateUpdate(&u); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.UpdatePartial(ctx, u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrProfileNotFound
	}

	if u.GPSTrackingEnabled != nil && !*u.GPSTrackingEnabled && s.positions != nil {
		if err := s.positions.Remove(ctx, u.CourierID); err != nil {
			s.logger.Warn("drop live position failed",
				logx.Int64("courier_id", u.CourierID),
				logx.Err(err),
			)
		}
	}

	p, err := s.repo.Get(ctx, u.CourierID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ErrProfileNotFound
	}
	return p, nil
}
