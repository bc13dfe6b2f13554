package domain

import "time"

// Distance is a travel estimate between two coordinates.
// Duration is nil when the estimate came from the great-circle fallback.
type Distance struct {
	Km       float64
	Duration *time.Duration
	Fallback bool
}

// PickupPoint is the seller location an order is collected from.
type PickupPoint struct {
	SellerID string
	Name     string
	Address  string
	Location Coordinate
}

// MatchCandidate pairs a pending order with its distance from the courier.
type MatchCandidate struct {
	Order    DeliveryOrder
	Pickup   PickupPoint
	Distance Distance
}

// MatchResult is the ranked list shown to a courier.
type MatchResult struct {
	CourierID  int64
	Origin     Coordinate
	RadiusKm   float64
	Candidates []MatchCandidate
}
