package availability

import (
	"context"
	"time"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// Service switches couriers online and offline.
type Service struct {
	profiles         profileStore
	positions        positionRemover
	validator        *Validator
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a toggle Service. positions may be nil.
func NewService(
	profiles profileStore,
	positions positionRemover,
	validator *Validator,
	timeout time.Duration,
	logger logx.Logger,
) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		profiles:         profiles,
		positions:        positions,
		validator:        validator,
		operationTimeout: timeout,
		logger:           logger,
		now:              time.Now,
	}
}

// Toggle sets the online flag. Going online outside the declared schedule
// succeeds with a warning; an inactive profile cannot go online.
func (s *Service) Toggle(ctx context.Context, courierID int64, online bool) (domain.ToggleResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	p, err := s.profiles.Get(ctx, courierID)
	if err != nil {
		return domain.ToggleResult{}, err
	}
	if p == nil {
		return domain.ToggleResult{}, apperr.ErrProfileNotFound
	}
	if online && !p.Active {
		return domain.ToggleResult{}, apperr.ErrProfileInactive
	}

	now := s.now()
	check := domain.AvailabilityCheck{WithinSchedule: true}
	if online {
		check = s.validator.Check(p, now)
	}

	ok, err := s.profiles.SetOnline(ctx, courierID, online, now.UTC())
	if err != nil {
		return domain.ToggleResult{}, err
	}
	if !ok {
		return domain.ToggleResult{}, apperr.ErrProfileNotFound
	}

	if !online && s.positions != nil {
		if err := s.positions.Remove(ctx, courierID); err != nil {
			s.logger.Warn("drop live position failed",
				logx.Int64("courier_id", courierID),
				logx.Err(err),
			)
		}
	}

	s.logger.Info("courier availability changed",
		logx.String("event", "availability_toggled"),
		logx.Int64("courier_id", courierID),
		logx.Bool("online", online),
		logx.Bool("within_schedule", check.WithinSchedule),
	)

	return domain.ToggleResult{
		CourierID:      courierID,
		Online:         online,
		WithinSchedule: check.WithinSchedule,
		Warning:        check.Warning,
	}, nil
}
