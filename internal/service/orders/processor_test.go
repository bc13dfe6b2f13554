package orders_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/service/orders"
	testlog "service-dispatch/internal/testutil"
)

func newEventsCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_order_events_total"}, []string{"status", "result"})
}

func TestProcessor_Handle_Created_OpensDelivery(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := NewMockDeliveryPort(ctrl)
	events := newEventsCounter()
	p := orders.NewProcessor(d, events, nil)

	d.EXPECT().
		Create(gomock.Any(), domain.NewDelivery{
			PurchaseOrderID:  "order-1",
			SellerID:         "seller-9",
			FeeCents:         350,
			EstimatedMinutes: 30,
		}).
		Return(&domain.DeliveryOrder{ID: uuid.New(), PurchaseOrderID: "order-1"}, nil)

	err := p.Handle(context.Background(), orders.Event{
		OrderID:          "order-1",
		Status:           "  CREATED  ",
		SellerID:         "seller-9",
		FeeCents:         350,
		EstimatedMinutes: 30,
		RequiresDelivery: true,
		CreatedAt:        time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, 1.0, testutil.ToFloat64(events.WithLabelValues("created", "ok")))
}

func TestProcessor_Handle_Created_PickupOnlyIsSkipped(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := NewMockDeliveryPort(ctrl)
	p := orders.NewProcessor(d, nil, nil)

	err := p.Handle(context.Background(), orders.Event{OrderID: "order-1", Status: "created", RequiresDelivery: false})
	require.NoError(t, err)
}

func TestProcessor_Handle_Created_ConflictAndInvalidAreIgnored(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := NewMockDeliveryPort(ctrl)
	rec := testlog.New()
	p := orders.NewProcessor(d, nil, rec.Logger())

	gomock.InOrder(
		d.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, apperr.ErrConflict),
		d.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, apperr.ErrInvalid),
	)

	e := orders.Event{OrderID: "order-1", Status: "created", RequiresDelivery: true}
	require.NoError(t, p.Handle(context.Background(), e))
	require.NoError(t, p.Handle(context.Background(), e))
	require.True(t, rec.Has("dropping malformed order event"))
}

func TestProcessor_Handle_Created_OtherErrorReturned(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := NewMockDeliveryPort(ctrl)
	events := newEventsCounter()
	p := orders.NewProcessor(d, events, nil)

	wantErr := errors.New("boom")
	d.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, wantErr)

	err := p.Handle(context.Background(), orders.Event{OrderID: "order-1", Status: "created", RequiresDelivery: true})
	require.ErrorIs(t, err, wantErr)
	require.Equal(t, 1.0, testutil.ToFloat64(events.WithLabelValues("created", "error")))
}

func TestProcessor_Handle_Canceled_CancelsAsSystem(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := NewMockDeliveryPort(ctrl)
	p := orders.NewProcessor(d, nil, nil)

	id := uuid.New()
	d.EXPECT().FindByPurchaseOrder(gomock.Any(), "order-2").Return(&domain.DeliveryOrder{ID: id}, nil)
	d.EXPECT().
		Cancel(gomock.Any(), id, domain.Actor{Role: domain.ActorSystem}, "buyer changed mind").
		Return(&domain.DeliveryOrder{ID: id, Status: domain.StatusCancelled}, nil)

	err := p.Handle(context.Background(), orders.Event{OrderID: "order-2", Status: "canceled", Reason: "buyer changed mind"})
	require.NoError(t, err)
}

func TestProcessor_Handle_Deleted_DefaultReason(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := NewMockDeliveryPort(ctrl)
	p := orders.NewProcessor(d, nil, nil)

	id := uuid.New()
	d.EXPECT().FindByPurchaseOrder(gomock.Any(), "order-2").Return(&domain.DeliveryOrder{ID: id}, nil)
	d.EXPECT().Cancel(gomock.Any(), id, gomock.Any(), "purchase order canceled").Return(nil, apperr.ErrInvalidTransition)

	err := p.Handle(context.Background(), orders.Event{OrderID: "order-2", Status: "deleted"})
	require.NoError(t, err, "already terminal deliveries are left alone")
}

func TestProcessor_Handle_Canceled_NotFoundIsIgnored(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := NewMockDeliveryPort(ctrl)
	p := orders.NewProcessor(d, nil, nil)

	d.EXPECT().FindByPurchaseOrder(gomock.Any(), "order-2").Return(nil, apperr.ErrNotFound)

	err := p.Handle(context.Background(), orders.Event{OrderID: "order-2", Status: "canceled"})
	require.NoError(t, err)
}

func TestProcessor_Handle_Canceled_LookupErrorReturned(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := NewMockDeliveryPort(ctrl)
	p := orders.NewProcessor(d, nil, nil)

	wantErr := errors.New("db down")
	d.EXPECT().FindByPurchaseOrder(gomock.Any(), "order-2").Return(nil, wantErr)

	err := p.Handle(context.Background(), orders.Event{OrderID: "order-2", Status: "canceled"})
	require.ErrorIs(t, err, wantErr)
}

func TestProcessor_Handle_UnknownStatus_NoOps(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := NewMockDeliveryPort(ctrl)
	events := newEventsCounter()
	p := orders.NewProcessor(d, events, nil)

	err := p.Handle(context.Background(), orders.Event{OrderID: "order-x", Status: "cooking"})
	require.NoError(t, err)
	require.Equal(t, 1.0, testutil.ToFloat64(events.WithLabelValues("cooking", "ignored")))
}
