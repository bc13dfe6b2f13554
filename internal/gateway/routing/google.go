package routing

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"googlemaps.github.io/maps"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/geo"
)

// ErrNoRoute - the provider answered but had no usable element.
var ErrNoRoute = errors.New("no route found")

type distanceMatrixAPI interface {
	DistanceMatrix(ctx context.Context, r *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error)
}

// GoogleRouter is a routing provider backed by the Google Maps Distance Matrix API.
type GoogleRouter struct {
	api distanceMatrixAPI
}

// NewGoogleRouter creates a provider; an empty key returns nil (routing disabled).
func NewGoogleRouter(apiKey string) (*GoogleRouter, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleRouter{api: client}, nil
}

// Route returns the provider distance and duration between two points.
func (g *GoogleRouter) Route(ctx context.Context, origin, dest domain.Coordinate, mode domain.TravelMode) (geo.Route, error) {
	req := &maps.DistanceMatrixRequest{
		Origins:      []string{latLng(origin)},
		Destinations: []string{latLng(dest)},
		Mode:         toMapsMode(mode),
		Units:        maps.UnitsMetric,
	}

	resp, err := g.api.DistanceMatrix(ctx, req)
	if err != nil {
		return geo.Route{}, fmt.Errorf("maps api error: %w", err)
	}
	if resp == nil || len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return geo.Route{}, ErrNoRoute
	}

	el := resp.Rows[0].Elements[0]
	if el == nil {
		return geo.Route{}, ErrNoRoute
	}
	if el.Status != "OK" {
		return geo.Route{}, fmt.Errorf("%w: element status %s", ErrNoRoute, el.Status)
	}
	return geo.Route{Meters: float64(el.Distance.Meters), Duration: el.Duration}, nil
}

// two_wheeler has no Distance Matrix profile, driving is the closest
func toMapsMode(m domain.TravelMode) maps.Mode {
	switch m {
	case domain.TravelModeWalking:
		return maps.TravelModeWalking
	case domain.TravelModeBicycling:
		return maps.TravelModeBicycling
	default:
		return maps.TravelModeDriving
	}
}

func latLng(c domain.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lng, 'f', 6, 64)
}
