package domain

import (
	"time"

	"service-dispatch/internal/apperr"
)

// Profile is a courier's self-declared availability and location state.
// UnparsedSlots keeps stored slot strings that no longer parse; they never match.
type Profile struct {
	CourierID          int64
	Active             bool
	Online             bool
	MaxDistanceKm      float64
	Days               WeekdaySet
	Slots              []TimeSlot
	UnparsedSlots      []string
	GPSTrackingEnabled bool
	Current            *Coordinate
	Home               *Coordinate
	LastOnlineAt       *time.Time
	LastOfflineAt      *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PartialProfileUpdate carries optional settings to change.
// A nil field means “do not change” that attribute.
type PartialProfileUpdate struct {
	CourierID          int64
	Active             *bool
	MaxDistanceKm      *float64
	Days               *WeekdaySet
	Slots              *[]TimeSlot
	GPSTrackingEnabled *bool
	Home               *Coordinate
}

// Empty reports whether the update changes nothing.
func (u PartialProfileUpdate) Empty() bool {
	return u.Active == nil && u.MaxDistanceKm == nil && u.Days == nil &&
		u.Slots == nil && u.GPSTrackingEnabled == nil && u.Home == nil
}

// EffectiveLocation picks the coordinate matching is computed from: the live
// position when tracking is on, the courier is online and a fix exists,
// the home coordinate otherwise.
func EffectiveLocation(p *Profile) (Coordinate, error) {
	if p == nil {
		return Coordinate{}, apperr.ErrLocationUnavailable
	}
	if p.GPSTrackingEnabled && p.Online && p.Current != nil && p.Current.Valid() {
		return *p.Current, nil
	}
	if p.Home != nil && p.Home.Valid() {
		return *p.Home, nil
	}
	return Coordinate{}, apperr.ErrLocationUnavailable
}

// AvailabilityCheck is the advisory outcome of comparing "now" with a schedule.
type AvailabilityCheck struct {
	WithinSchedule bool
	Warning        *string
}

// ToggleResult is returned after a courier switches online or offline.
type ToggleResult struct {
	CourierID      int64
	Online         bool
	WithinSchedule bool
	Warning        *string
}
