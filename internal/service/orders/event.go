package orders

import (
	"time"
)

// Event is a single purchase order event
type Event struct {
	OrderID          string    `json:"order_id"`
	Status           string    `json:"status"`
	SellerID         string    `json:"seller_id"`
	FeeCents         int64     `json:"fee_cents"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	RequiresDelivery bool      `json:"requires_delivery"`
	Reason           string    `json:"reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
