package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus is the lifecycle state of a delivery order.
type DeliveryStatus string

// List of delivery statuses
const (
	StatusPending   DeliveryStatus = "PENDING"
	StatusAccepted  DeliveryStatus = "ACCEPTED"
	StatusPickedUp  DeliveryStatus = "PICKED_UP"
	StatusDelivered DeliveryStatus = "DELIVERED"
	StatusCancelled DeliveryStatus = "CANCELLED"
)

// allowedTransitions is the state diagram as code
var allowedTransitions = map[DeliveryStatus][]DeliveryStatus{
	StatusPending:  {StatusAccepted, StatusCancelled},
	StatusAccepted: {StatusPickedUp, StatusCancelled},
	StatusPickedUp: {StatusDelivered, StatusCancelled},
}

// CanTransition reports whether from -> to is an allowed edge.
func CanTransition(from, to DeliveryStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s DeliveryStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Valid checks if the DeliveryStatus is known.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPickedUp, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// DeliveryOrder is the fulfilment record attached 1:1 to a purchase order.
type DeliveryOrder struct {
	ID               uuid.UUID
	PurchaseOrderID  string
	SellerID         string
	Status           DeliveryStatus
	CourierID        *int64
	FeeCents         int64
	EstimatedMinutes int
	CancelReason     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	AcceptedAt       *time.Time
	PickedUpAt       *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
}

// AssignedTo reports whether the order is held by courierID.
func (o *DeliveryOrder) AssignedTo(courierID int64) bool {
	return o.CourierID != nil && *o.CourierID == courierID
}

// NewDelivery holds what is needed to open a PENDING delivery order.
type NewDelivery struct {
	PurchaseOrderID  string
	SellerID         string
	FeeCents         int64
	EstimatedMinutes int
}

// ActorRole identifies who requested a transition.
type ActorRole string

// Actor roles
const (
	ActorCourier ActorRole = "courier"
	ActorAdmin   ActorRole = "admin"
	ActorSystem  ActorRole = "system"
)

// Valid checks if the ActorRole is known.
func (r ActorRole) Valid() bool {
	return r == ActorCourier || r == ActorAdmin || r == ActorSystem
}

// Actor is the initiator of a transition. ID is zero for system.
type Actor struct {
	Role ActorRole
	ID   int64
}

// Transition describes a single status change to persist.
type Transition struct {
	OrderID   uuid.UUID
	From      DeliveryStatus
	To        DeliveryStatus
	CourierID *int64
	Actor     Actor
	Reason    *string
	At        time.Time
}

// DeliveryEvent is a persisted audit record of a transition.
type DeliveryEvent struct {
	ID        int64
	OrderID   uuid.UUID
	From      DeliveryStatus
	To        DeliveryStatus
	Actor     Actor
	Reason    *string
	CreatedAt time.Time
}

// EarningsRecord is the payout notification queued when an order is delivered.
type EarningsRecord struct {
	ID          int64
	OrderID     uuid.UUID
	CourierID   int64
	FeeCents    int64
	DeliveredAt time.Time
}

// Audience is a party that should hear about a status change.
type Audience string

// Notification audiences
const (
	AudienceBuyer   Audience = "buyer"
	AudienceSeller  Audience = "seller"
	AudienceCourier Audience = "courier"
)

// StatusChange is published after a transition commits.
type StatusChange struct {
	Order  DeliveryOrder
	From   DeliveryStatus
	Actor  Actor
	Reason *string
	Notify []Audience
	At     time.Time
}
