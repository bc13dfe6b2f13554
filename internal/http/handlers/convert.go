package handlers

import (
	"fmt"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

// toModel returns nil for an absent coordinate and ErrInvalid for a partial one.
func (c *coordinateInput) toModel() (*domain.Coordinate, error) {
	if c == nil {
		return nil, nil
	}
	if c.Lat == nil || c.Lng == nil {
		return nil, fmt.Errorf("%w: lat and lng are required", apperr.ErrInvalid)
	}
	return &domain.Coordinate{Lat: *c.Lat, Lng: *c.Lng}, nil
}

func coordinateToDTO(c *domain.Coordinate) *coordinateDTO {
	if c == nil {
		return nil
	}
	return &coordinateDTO{Lat: c.Lat, Lng: c.Lng}
}

func (req createProfileRequest) toModel(courierID int64) (*domain.Profile, error) {
	days, err := domain.ParseWeekdays(req.Days)
	if err != nil {
		return nil, err
	}
	slots, err := domain.ParseTimeSlots(req.Slots)
	if err != nil {
		return nil, err
	}
	home, err := req.Home.toModel()
	if err != nil {
		return nil, err
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &domain.Profile{
		CourierID:          courierID,
		Active:             active,
		MaxDistanceKm:      req.MaxDistanceKm,
		Days:               days,
		Slots:              slots,
		GPSTrackingEnabled: req.GPSTrackingEnabled,
		Home:               home,
	}, nil
}

func (req updateProfileRequest) toModel(courierID int64) (domain.PartialProfileUpdate, error) {
	u := domain.PartialProfileUpdate{
		CourierID:          courierID,
		Active:             req.Active,
		MaxDistanceKm:      req.MaxDistanceKm,
		GPSTrackingEnabled: req.GPSTrackingEnabled,
	}
	home, err := req.Home.toModel()
	if err != nil {
		return u, err
	}
	u.Home = home
	if req.Days != nil {
		days, err := domain.ParseWeekdays(*req.Days)
		if err != nil {
			return u, err
		}
		u.Days = &days
	}
	if req.Slots != nil {
		slots, err := domain.ParseTimeSlots(*req.Slots)
		if err != nil {
			return u, err
		}
		u.Slots = &slots
	}
	return u, nil
}

func profileToResponse(p *domain.Profile) profileDTO {
	return profileDTO{
		CourierID:          p.CourierID,
		Active:             p.Active,
		Online:             p.Online,
		MaxDistanceKm:      p.MaxDistanceKm,
		Days:               p.Days.Names(),
		Slots:              domain.SlotStrings(p.Slots),
		GPSTrackingEnabled: p.GPSTrackingEnabled,
		Current:            coordinateToDTO(p.Current),
		Home:               coordinateToDTO(p.Home),
		LastOnlineAt:       p.LastOnlineAt,
		LastOfflineAt:      p.LastOfflineAt,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toggleToResponse(r domain.ToggleResult) availabilityResponse {
	return availabilityResponse{
		CourierID:      r.CourierID,
		Online:         r.Online,
		WithinSchedule: r.WithinSchedule,
		Warning:        r.Warning,
	}
}

func matchToResponse(m domain.MatchResult) matchResponse {
	out := matchResponse{
		CourierID:  m.CourierID,
		Origin:     coordinateDTO{Lat: m.Origin.Lat, Lng: m.Origin.Lng},
		RadiusKm:   m.RadiusKm,
		Candidates: make([]candidateDTO, 0, len(m.Candidates)),
	}
	for _, c := range m.Candidates {
		var minutes *float64
		if c.Distance.Duration != nil {
			v := c.Distance.Duration.Minutes()
			minutes = &v
		}
		out.Candidates = append(out.Candidates, candidateDTO{
			OrderID:          c.Order.ID.String(),
			DistanceKm:       c.Distance.Km,
			DurationMin:      minutes,
			Fallback:         c.Distance.Fallback,
			FeeCents:         c.Order.FeeCents,
			EstimatedMinutes: c.Order.EstimatedMinutes,
			Pickup: pickupDTO{
				SellerID: c.Pickup.SellerID,
				Name:     c.Pickup.Name,
				Address:  c.Pickup.Address,
				Lat:      c.Pickup.Location.Lat,
				Lng:      c.Pickup.Location.Lng,
			},
		})
	}
	return out
}

func deliveryToResponse(o *domain.DeliveryOrder) deliveryDTO {
	return deliveryDTO{
		ID:               o.ID.String(),
		PurchaseOrderID:  o.PurchaseOrderID,
		SellerID:         o.SellerID,
		Status:           string(o.Status),
		CourierID:        o.CourierID,
		FeeCents:         o.FeeCents,
		EstimatedMinutes: o.EstimatedMinutes,
		CancelReason:     o.CancelReason,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		AcceptedAt:       o.AcceptedAt,
		PickedUpAt:       o.PickedUpAt,
		DeliveredAt:      o.DeliveredAt,
		CancelledAt:      o.CancelledAt,
	}
}

func eventsToResponse(list []domain.DeliveryEvent) []deliveryEventDTO {
	out := make([]deliveryEventDTO, 0, len(list))
	for _, e := range list {
		var actorID *int64
		if e.Actor.ID != 0 {
			id := e.Actor.ID
			actorID = &id
		}
		out = append(out, deliveryEventDTO{
			From:      string(e.From),
			To:        string(e.To),
			ActorRole: string(e.Actor.Role),
			ActorID:   actorID,
			Reason:    e.Reason,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
