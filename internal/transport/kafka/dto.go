package kafka

import (
	"strings"
	"time"

	"service-dispatch/internal/service/orders"
)

// EventDTO is a data transfer object for orders.Event
type EventDTO struct {
	OrderID          string    `json:"order_id"`
	Status           string    `json:"status"`
	SellerID         string    `json:"seller_id"`
	FeeCents         int64     `json:"fee_cents"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	RequiresDelivery bool      `json:"requires_delivery"`
	Reason           string    `json:"reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToDomain converts EventDTO to orders.Event
func ToDomain(dto EventDTO) orders.Event {
	return orders.Event{
		OrderID:          strings.TrimSpace(dto.OrderID),
		Status:           strings.TrimSpace(dto.Status),
		SellerID:         strings.TrimSpace(dto.SellerID),
		FeeCents:         dto.FeeCents,
		EstimatedMinutes: dto.EstimatedMinutes,
		RequiresDelivery: dto.RequiresDelivery,
		Reason:           strings.TrimSpace(dto.Reason),
		CreatedAt:        dto.CreatedAt,
	}
}

// StatusDTO is the delivery status message sent to buyers, sellers and couriers.
type StatusDTO struct {
	OrderID         string    `json:"order_id"`
	PurchaseOrderID string    `json:"purchase_order_id"`
	SellerID        string    `json:"seller_id"`
	From            string    `json:"from"`
	Status          string    `json:"status"`
	CourierID       *int64    `json:"courier_id,omitempty"`
	ActorRole       string    `json:"actor_role"`
	ActorID         *int64    `json:"actor_id,omitempty"`
	Reason          *string   `json:"reason,omitempty"`
	Notify          []string  `json:"notify"`
	At              time.Time `json:"at"`
}
