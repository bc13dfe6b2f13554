package domain

import (
	"fmt"
	"math"
	"time"

	"service-dispatch/internal/apperr"
)

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Validate checks that the coordinate lies within the valid lat/lng ranges.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return fmt.Errorf("%w: coordinate is NaN", apperr.ErrInvalid)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", apperr.ErrInvalid, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range", apperr.ErrInvalid, c.Lng)
	}
	return nil
}

// MaxTrackedLat is the highest absolute latitude the live position index accepts.
const MaxTrackedLat = 85.05112878

// ValidateTracked is Validate plus the latitude limit of the live position index.
func (c Coordinate) ValidateTracked() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if math.Abs(c.Lat) > MaxTrackedLat {
		return fmt.Errorf("%w: latitude %v is outside the tracked area", apperr.ErrInvalid, c.Lat)
	}
	return nil
}

// Valid reports whether Validate passes.
func (c Coordinate) Valid() bool { return c.Validate() == nil }

// LivePosition is the last GPS fix reported by a courier.
type LivePosition struct {
	Coordinate Coordinate
	At         time.Time
}

// TravelMode selects the routing profile used for distance estimates.
type TravelMode string

// Supported travel modes.
const (
	TravelModeDriving    TravelMode = "driving"
	TravelModeWalking    TravelMode = "walking"
	TravelModeBicycling  TravelMode = "bicycling"
	TravelModeTwoWheeler TravelMode = "two_wheeler"
)

var allowedTravelModes = [...]TravelMode{
	TravelModeDriving, TravelModeWalking, TravelModeBicycling, TravelModeTwoWheeler,
}

// Valid checks if the TravelMode is supported.
func (m TravelMode) Valid() bool {
	for _, v := range allowedTravelModes {
		if m == v {
			return true
		}
	}
	return false
}

// ParseTravelMode returns the mode for s, falling back to driving for empty input.
func ParseTravelMode(s string) (TravelMode, error) {
	if s == "" {
		return TravelModeDriving, nil
	}
	m := TravelMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: travel mode %q", apperr.ErrInvalid, s)
	}
	return m, nil
}
