package handlers

import "time"

type coordinateDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// coordinateInput is a coordinate in a request body. Both fields are required.
type coordinateInput struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type profileDTO struct {
	CourierID          int64          `json:"courier_id"`
	Active             bool           `json:"active"`
	Online             bool           `json:"online"`
	MaxDistanceKm      float64        `json:"max_distance_km"`
	Days               []string       `json:"days"`
	Slots              []string       `json:"slots"`
	GPSTrackingEnabled bool           `json:"gps_tracking_enabled"`
	Current            *coordinateDTO `json:"current,omitempty"`
	Home               *coordinateDTO `json:"home,omitempty"`
	LastOnlineAt       *time.Time     `json:"last_online_at,omitempty"`
	LastOfflineAt      *time.Time     `json:"last_offline_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

type createProfileRequest struct {
	Active             *bool            `json:"active,omitempty"`
	MaxDistanceKm      float64          `json:"max_distance_km"`
	Days               []string         `json:"days"`
	Slots              []string         `json:"slots"`
	GPSTrackingEnabled bool             `json:"gps_tracking_enabled"`
	Home               *coordinateInput `json:"home"`
}

type updateProfileRequest struct {
	Active             *bool            `json:"active,omitempty"`
	MaxDistanceKm      *float64         `json:"max_distance_km,omitempty"`
	Days               *[]string        `json:"days,omitempty"`
	Slots              *[]string        `json:"slots,omitempty"`
	GPSTrackingEnabled *bool            `json:"gps_tracking_enabled,omitempty"`
	Home               *coordinateInput `json:"home,omitempty"`
}

type availabilityRequest struct {
	Online *bool `json:"online"`
}

type availabilityResponse struct {
	CourierID      int64   `json:"courier_id"`
	Online         bool    `json:"online"`
	WithinSchedule bool    `json:"within_schedule"`
	Warning        *string `json:"warning"`
}

type pickupDTO struct {
	SellerID string  `json:"seller_id"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

type candidateDTO struct {
	OrderID          string    `json:"order_id"`
	DistanceKm       float64   `json:"distance_km"`
	DurationMin      *float64  `json:"duration_min,omitempty"`
	Fallback         bool      `json:"fallback"`
	FeeCents         int64     `json:"fee_cents"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	Pickup           pickupDTO `json:"pickup"`
}

type matchResponse struct {
	CourierID  int64          `json:"courier_id"`
	Origin     coordinateDTO  `json:"origin"`
	RadiusKm   float64        `json:"radius_km"`
	Candidates []candidateDTO `json:"candidates"`
}

type nearbyResponse struct {
	CourierIDs []int64 `json:"courier_ids"`
}

type deliveryDTO struct {
	ID               string     `json:"id"`
	PurchaseOrderID  string     `json:"purchase_order_id"`
	SellerID         string     `json:"seller_id"`
	Status           string     `json:"status"`
	CourierID        *int64     `json:"courier_id,omitempty"`
	FeeCents         int64      `json:"fee_cents"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	CancelReason     *string    `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	AcceptedAt       *time.Time `json:"accepted_at,omitempty"`
	PickedUpAt       *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt      *time.Time `json:"delivered_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
}

type deliveryEventDTO struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	ActorRole string    `json:"actor_role"`
	ActorID   *int64    `json:"actor_id,omitempty"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type courierActionRequest struct {
	CourierID int64 `json:"courier_id"`
}

type cancelRequest struct {
	ActorRole string `json:"actor_role"`
	ActorID   int64  `json:"actor_id"`
	Reason    string `json:"reason"`
}

type sellerLocationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	coordinateInput
}
