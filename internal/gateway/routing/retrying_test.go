package routing

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/geo"
	testlog "service-dispatch/internal/testutil"
)

type fakeRouter struct {
	routeFn func(context.Context) (geo.Route, error)
}

func (f *fakeRouter) Route(ctx context.Context, _, _ domain.Coordinate, _ domain.TravelMode) (geo.Route, error) {
	return f.routeFn(ctx)
}

type counterStub struct{ n int64 }

func (c *counterStub) Inc()         { atomic.AddInt64(&c.n, 1) }
func (c *counterStub) Count() int64 { return atomic.LoadInt64(&c.n) }

var (
	origin = domain.Coordinate{Lat: 52.37, Lng: 4.90}
	dest   = domain.Coordinate{Lat: 52.09, Lng: 5.12}
)

func TestRetryingRouter_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	rec := testlog.New()

	var calls int32
	next := &fakeRouter{
		routeFn: func(context.Context) (geo.Route, error) {
			switch atomic.AddInt32(&calls, 1) {
			case 1, 2:
				return geo.Route{}, errors.New("maps: OVER_QUERY_LIMIT - slow down")
			default:
				return geo.Route{Meters: 1000}, nil
			}
		},
	}
	ctr := &counterStub{}
	r := NewRetryingRouter(next, rec.Logger(), ctr, RetryConfig{MaxAttempts: 5})
	require.NotNil(t, r)

	got, err := r.Route(context.Background(), origin, dest, domain.TravelModeDriving)
	require.NoError(t, err)
	require.Equal(t, 1000.0, got.Meters)
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
	require.EqualValues(t, 2, ctr.Count())
	require.True(t, rec.Has("routing provider retry"))
}

func TestRetryingRouter_NoRetryOnNonRetryable(t *testing.T) {
	t.Parallel()

	var calls int32
	next := &fakeRouter{
		routeFn: func(context.Context) (geo.Route, error) {
			atomic.AddInt32(&calls, 1)
			return geo.Route{}, ErrNoRoute
		},
	}
	ctr := &counterStub{}
	r := NewRetryingRouter(next, nil, ctr, RetryConfig{MaxAttempts: 5})

	_, err := r.Route(context.Background(), origin, dest, domain.TravelModeDriving)
	require.ErrorIs(t, err, ErrNoRoute)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
	require.Zero(t, ctr.Count())
}

func TestRetryingRouter_StopsAtMaxAttempts(t *testing.T) {
	t.Parallel()

	var calls int32
	next := &fakeRouter{
		routeFn: func(context.Context) (geo.Route, error) {
			atomic.AddInt32(&calls, 1)
			return geo.Route{}, errors.New("UNKNOWN_ERROR")
		},
	}
	r := NewRetryingRouter(next, nil, nil, RetryConfig{MaxAttempts: 3})

	_, err := r.Route(context.Background(), origin, dest, domain.TravelModeDriving)
	require.Error(t, err)
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestRetryingRouter_StopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var calls int32
	next := &fakeRouter{
		routeFn: func(context.Context) (geo.Route, error) {
			atomic.AddInt32(&calls, 1)
			cancel()
			return geo.Route{}, errors.New("OVER_QUERY_LIMIT")
		},
	}
	r := NewRetryingRouter(next, nil, nil, RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, MaxDelay: time.Second})

	_, err := r.Route(ctx, origin, dest, domain.TravelModeDriving)
	require.Error(t, err)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestNewRetryingRouter_NilNext(t *testing.T) {
	t.Parallel()
	require.Nil(t, NewRetryingRouter(nil, nil, nil, RetryConfig{}))
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	base := 100 * time.Millisecond
	max := 300 * time.Millisecond
	require.Equal(t, 100*time.Millisecond, backoff(base, max, 1))
	require.Equal(t, 200*time.Millisecond, backoff(base, max, 2))
	require.Equal(t, 300*time.Millisecond, backoff(base, max, 3))
	require.Equal(t, 300*time.Millisecond, backoff(base, max, 6))
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	require.False(t, isRetryable(context.DeadlineExceeded))
	require.False(t, isRetryable(context.Canceled))
	require.False(t, isRetryable(ErrNoRoute))
	require.True(t, isRetryable(errors.New("maps: OVER_QUERY_LIMIT")))
	require.False(t, isRetryable(errors.New("REQUEST_DENIED")))
}
