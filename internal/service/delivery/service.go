package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/ports/deliverytx"
)

// Service drives delivery orders through their lifecycle.
type Service struct {
	repo             deliveryRepository
	profiles         profileGetter
	publisher        StatusPublisher
	transitions      counterVec
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a delivery Service. publisher and transitions may be nil.
func NewService(
	repo deliveryRepository,
	profiles profileGetter,
	publisher StatusPublisher,
	transitions counterVec,
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
		repo:             repo,
		profiles:         profiles,
		publisher:        publisher,
		transitions:      transitions,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Create opens a PENDING delivery order. Repeating the call for the same
// purchase order returns the existing delivery.
func (s *Service) Create(ctx context.Context, nd domain.NewDelivery) (*domain.DeliveryOrder, error) {
	nd.PurchaseOrderID = strings.TrimSpace(nd.PurchaseOrderID)
	nd.SellerID = strings.TrimSpace(nd.SellerID)
	if err := validateNew(nd); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		result  *domain.DeliveryOrder
		created bool
	)
	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		existing, err := tx.GetByPurchaseOrderID(ctx, nd.PurchaseOrderID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		o := &domain.DeliveryOrder{
			ID:               uuid.New(),
			PurchaseOrderID:  nd.PurchaseOrderID,
			SellerID:         nd.SellerID,
			Status:           domain.StatusPending,
			FeeCents:         nd.FeeCents,
			EstimatedMinutes: nd.EstimatedMinutes,
		}
		if err := tx.Insert(ctx, o); err != nil {
			return err
		}
		result, created = o, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.logger.Info("delivery created",
			logx.String("event", "delivery_created"),
			logx.String("order_id", result.ID.String()),
			logx.String("purchase_order_id", result.PurchaseOrderID),
			logx.String("seller_id", result.SellerID),
		)
	}
	return result, nil
}

func validateNew(nd domain.NewDelivery) error {
	if nd.PurchaseOrderID == "" {
		return fmt.Errorf("%w: purchase order id is required", apperr.ErrInvalid)
	}
	if nd.SellerID == "" {
		return fmt.Errorf("%w: seller id is required", apperr.ErrInvalid)
	}
	if nd.FeeCents < 0 || nd.EstimatedMinutes < 0 {
		return fmt.Errorf("%w: fee and estimate must not be negative", apperr.ErrInvalid)
	}
	return nil
}

// Get returns a delivery order.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.DeliveryOrder, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.ErrNotFound
	}
	return o, nil
}

// FindByPurchaseOrder returns the delivery attached to a purchase order.
func (s *Service) FindByPurchaseOrder(ctx context.Context, purchaseOrderID string) (*domain.DeliveryOrder, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var result *domain.DeliveryOrder
	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		o, err := tx.GetByPurchaseOrderID(ctx, strings.TrimSpace(purchaseOrderID))
		if err != nil {
			return err
		}
		if o == nil {
			return apperr.ErrNotFound
		}
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Events returns the transition log of an order.
func (s *Service) Events(ctx context.Context, id uuid.UUID) ([]domain.DeliveryEvent, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.ErrNotFound
	}
	return s.repo.ListEvents(ctx, id)
}

// Accept assigns a PENDING order to the courier. Only one of several
// concurrent accepts succeeds; the others get ErrAlreadyAssigned.
func (s *Service) Accept(ctx context.Context, orderID uuid.UUID, courierID int64) (*domain.DeliveryOrder, error) {
	if courierID <= 0 {
		return nil, fmt.Errorf("%w: courier id must be positive", apperr.ErrInvalid)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.profiles.Get(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ErrProfileNotFound
	}
	if !p.Active {
		return nil, apperr.ErrProfileInactive
	}

	t := domain.Transition{
		OrderID:   orderID,
		From:      domain.StatusPending,
		To:        domain.StatusAccepted,
		CourierID: &courierID,
		Actor:     domain.Actor{Role: domain.ActorCourier, ID: courierID},
		At:        s.now(),
	}

	var result *domain.DeliveryOrder
	err = s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		ok, err := tx.ApplyTransition(ctx, t)
		if err != nil {
			return err
		}
		if !ok {
			cur, err := tx.GetForUpdate(ctx, orderID)
			if err != nil {
				return err
			}
			switch {
			case cur == nil:
				return apperr.ErrNotFound
			case cur.Status.Terminal():
				return apperr.ErrInvalidTransition
			default:
				return apperr.ErrAlreadyAssigned
			}
		}
		if err := tx.InsertEvent(ctx, t); err != nil {
			return err
		}
		result, err = reload(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, result, t)
	return result, nil
}

// PickUp marks an accepted order as collected by its courier.
func (s *Service) PickUp(ctx context.Context, orderID uuid.UUID, courierID int64) (*domain.DeliveryOrder, error) {
	actor := domain.Actor{Role: domain.ActorCourier, ID: courierID}
	return s.transition(ctx, orderID, domain.StatusPickedUp, actor, nil, assignedTo(courierID))
}

// Deliver completes the order and queues the courier's earnings.
func (s *Service) Deliver(ctx context.Context, orderID uuid.UUID, courierID int64) (*domain.DeliveryOrder, error) {
	actor := domain.Actor{Role: domain.ActorCourier, ID: courierID}
	return s.transition(ctx, orderID, domain.StatusDelivered, actor, nil, assignedTo(courierID))
}

// Cancel stops a non-terminal order. A courier may only cancel an order
// assigned to them.
func (s *Service) Cancel(ctx context.Context, orderID uuid.UUID, actor domain.Actor, reason string) (*domain.DeliveryOrder, error) {
	if !actor.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown actor role %q", apperr.ErrInvalid, actor.Role)
	}
	var check func(*domain.DeliveryOrder) error
	if actor.Role == domain.ActorCourier {
		check = assignedTo(actor.ID)
	}
	var why *string
	if r := strings.TrimSpace(reason); r != "" {
		why = &r
	}
	return s.transition(ctx, orderID, domain.StatusCancelled, actor, why, check)
}

func assignedTo(courierID int64) func(*domain.DeliveryOrder) error {
	return func(o *domain.DeliveryOrder) error {
		if !o.AssignedTo(courierID) {
			return apperr.ErrNotAssigned
		}
		return nil
	}
}

func (s *Service) transition(
	ctx context.Context,
	orderID uuid.UUID,
	to domain.DeliveryStatus,
	actor domain.Actor,
	reason *string,
	check func(*domain.DeliveryOrder) error,
) (*domain.DeliveryOrder, error) {
	if actor.Role == domain.ActorCourier && actor.ID <= 0 {
		return nil, fmt.Errorf("%w: courier id must be positive", apperr.ErrInvalid)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		result *domain.DeliveryOrder
		t      domain.Transition
	)
	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		o, err := tx.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperr.ErrNotFound
		}
		if !domain.CanTransition(o.Status, to) {
			return apperr.ErrInvalidTransition
		}
		if check != nil {
			if err := check(o); err != nil {
				return err
			}
		}

		t = domain.Transition{
			OrderID: orderID,
			From:    o.Status,
			To:      to,
			Actor:   actor,
			Reason:  reason,
			At:      s.now(),
		}
		ok, err := tx.ApplyTransition(ctx, t)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("order %s changed concurrently: %w", orderID, apperr.ErrConflict)
		}
		if err := tx.InsertEvent(ctx, t); err != nil {
			return err
		}

		if to == domain.StatusDelivered {
			if o.CourierID == nil {
				return errors.New("delivered order has no courier")
			}
			rec := domain.EarningsRecord{
				OrderID:     orderID,
				CourierID:   *o.CourierID,
				FeeCents:    o.FeeCents,
				DeliveredAt: t.At,
			}
			if err := tx.InsertEarnings(ctx, rec); err != nil {
				return fmt.Errorf("queue earnings: %w", err)
			}
		}

		result, err = reload(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, result, t)
	return result, nil
}

func reload(ctx context.Context, tx deliverytx.Repository, id uuid.UUID) (*domain.DeliveryOrder, error) {
	o, err := tx.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.ErrNotFound
	}
	return o, nil
}

// committed runs after the transaction: metrics, logging and notifications.
// Failures here never undo the transition.
func (s *Service) committed(ctx context.Context, o *domain.DeliveryOrder, t domain.Transition) {
	if s.transitions != nil {
		s.transitions.WithLabelValues(string(t.To)).Inc()
	}
	s.logger.Info("delivery status changed",
		logx.String("event", "delivery_transition"),
		logx.String("order_id", o.ID.String()),
		logx.String("from", string(t.From)),
		logx.String("to", string(t.To)),
		logx.String("actor", string(t.Actor.Role)),
		logx.Int64("actor_id", t.Actor.ID),
	)

	if s.publisher == nil {
		return
	}
	change := domain.StatusChange{
		Order:  *o,
		From:   t.From,
		Actor:  t.Actor,
		Reason: t.Reason,
		Notify: Audience(t, o),
		At:     t.At,
	}
	if err := s.publisher.PublishStatus(ctx, change); err != nil {
		s.logger.Error("publish status change failed",
			logx.String("order_id", o.ID.String()),
			logx.String("to", string(t.To)),
			logx.Err(err),
		)
	}
}

// Audience lists who should hear about a transition. Cancellation by an
// admin or the system also notifies the assigned courier.
func Audience(t domain.Transition, o *domain.DeliveryOrder) []domain.Audience {
	switch t.To {
	case domain.StatusAccepted, domain.StatusDelivered:
		return []domain.Audience{domain.AudienceBuyer, domain.AudienceSeller}
	case domain.StatusPickedUp:
		return []domain.Audience{domain.AudienceBuyer}
	case domain.StatusCancelled:
		out := []domain.Audience{domain.AudienceBuyer, domain.AudienceSeller}
		if t.Actor.Role != domain.ActorCourier && o != nil && o.CourierID != nil {
			out = append(out, domain.AudienceCourier)
		}
		return out
	default:
		return nil
	}
}
