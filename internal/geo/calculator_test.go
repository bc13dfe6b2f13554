package geo_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/geo"
	testlog "service-dispatch/internal/testutil"
)

type routerFunc func(ctx context.Context, origin, dest domain.Coordinate, mode domain.TravelMode) (geo.Route, error)

func (f routerFunc) Route(ctx context.Context, origin, dest domain.Coordinate, mode domain.TravelMode) (geo.Route, error) {
	return f(ctx, origin, dest, mode)
}

type counterStub struct{ n int64 }

func (c *counterStub) Inc()         { atomic.AddInt64(&c.n, 1) }
func (c *counterStub) Count() int64 { return atomic.LoadInt64(&c.n) }

var (
	amsterdam = domain.Coordinate{Lat: 52.3676, Lng: 4.9041}
	utrecht   = domain.Coordinate{Lat: 52.0907, Lng: 5.1214}
)

func TestHaversine_SymmetricAndZero(t *testing.T) {
	t.Parallel()

	ab := geo.HaversineKm(amsterdam, utrecht)
	ba := geo.HaversineKm(utrecht, amsterdam)
	require.InDelta(t, ab, ba, 1e-9)
	require.InDelta(t, 34.2, geo.RoundKm(ab), 0.6)
	require.Zero(t, geo.HaversineKm(amsterdam, amsterdam))
}

func TestHaversine_Antipodes(t *testing.T) {
	t.Parallel()

	halfCircumference := math.Pi * 6371.0
	for lat := -89.0; lat <= 89.0; lat += 0.37 {
		for lng := -179.0; lng <= 0; lng += 1.13 {
			a := domain.Coordinate{Lat: lat, Lng: lng}
			b := domain.Coordinate{Lat: -lat, Lng: lng + 180}

			ab := geo.HaversineKm(a, b)
			require.False(t, math.IsNaN(ab), "%v -> %v", a, b)
			require.InDelta(t, halfCircumference, ab, 1e-3)
			require.InDelta(t, ab, geo.HaversineKm(b, a), 1e-9)
		}
	}
	require.InDelta(t, halfCircumference, geo.HaversineKm(
		domain.Coordinate{Lat: -86.78, Lng: -179},
		domain.Coordinate{Lat: 86.78, Lng: 1},
	), 1e-3)
}

func TestRoundKm(t *testing.T) {
	t.Parallel()

	require.Equal(t, 4.9, geo.RoundKm(4.94))
	require.Equal(t, 12.3, geo.RoundKm(12.345))
}

func TestCalculator_ProviderSuccess(t *testing.T) {
	t.Parallel()

	router := routerFunc(func(_ context.Context, _, _ domain.Coordinate, mode domain.TravelMode) (geo.Route, error) {
		require.Equal(t, domain.TravelModeBicycling, mode)
		return geo.Route{Meters: 41234, Duration: 38 * time.Minute}, nil
	})
	fb := &counterStub{}
	c := geo.NewCalculator(router, time.Second, nil, fb)

	d := c.Distance(context.Background(), amsterdam, utrecht, domain.TravelModeBicycling)

	require.Equal(t, 41.2, d.Km)
	require.False(t, d.Fallback)
	require.NotNil(t, d.Duration)
	require.Equal(t, 38*time.Minute, *d.Duration)
	require.Zero(t, fb.Count())
}

func TestCalculator_FallbackOnError(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	router := routerFunc(func(context.Context, domain.Coordinate, domain.Coordinate, domain.TravelMode) (geo.Route, error) {
		return geo.Route{}, errors.New("quota exceeded")
	})
	fb := &counterStub{}
	c := geo.NewCalculator(router, time.Second, rec.Logger(), fb)

	d := c.Distance(context.Background(), amsterdam, utrecht, domain.TravelModeDriving)

	require.True(t, d.Fallback)
	require.Nil(t, d.Duration)
	require.Equal(t, geo.RoundKm(geo.HaversineKm(amsterdam, utrecht)), d.Km)
	require.EqualValues(t, 1, fb.Count())
	require.True(t, rec.Has("routing fallback to haversine"))
}

func TestCalculator_FallbackOnTimeout(t *testing.T) {
	t.Parallel()

	router := routerFunc(func(ctx context.Context, _, _ domain.Coordinate, _ domain.TravelMode) (geo.Route, error) {
		<-ctx.Done()
		return geo.Route{}, ctx.Err()
	})
	c := geo.NewCalculator(router, 20*time.Millisecond, nil, nil)

	start := time.Now()
	d := c.Distance(context.Background(), amsterdam, utrecht, domain.TravelModeDriving)

	require.True(t, d.Fallback)
	require.Less(t, time.Since(start), time.Second)
}

func TestCalculator_FallbackOnMalformedAndPanic(t *testing.T) {
	t.Parallel()

	malformed := routerFunc(func(context.Context, domain.Coordinate, domain.Coordinate, domain.TravelMode) (geo.Route, error) {
		return geo.Route{Meters: math.NaN()}, nil
	})
	res := geo.NewCalculator(malformed, time.Second, nil, nil).Lookup(context.Background(), amsterdam, utrecht, domain.TravelModeDriving)
	require.ErrorIs(t, res.Err, geo.ErrMalformedRoute)

	panicky := routerFunc(func(context.Context, domain.Coordinate, domain.Coordinate, domain.TravelMode) (geo.Route, error) {
		panic("boom")
	})
	d := geo.NewCalculator(panicky, time.Second, nil, nil).Distance(context.Background(), amsterdam, utrecht, domain.TravelModeDriving)
	require.True(t, d.Fallback)
}

func TestCalculator_NilRouterFallsBack(t *testing.T) {
	t.Parallel()

	d := geo.NewCalculator(nil, 0, nil, nil).Distance(context.Background(), amsterdam, amsterdam, domain.TravelModeWalking)
	require.True(t, d.Fallback)
	require.Zero(t, d.Km)
}
