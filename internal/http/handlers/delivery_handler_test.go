package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

type stubDeliveryUsecase struct {
	getFn     func(ctx context.Context, id uuid.UUID) (*domain.DeliveryOrder, error)
	eventsFn  func(ctx context.Context, id uuid.UUID) ([]domain.DeliveryEvent, error)
	acceptFn  func(ctx context.Context, id uuid.UUID, courierID int64) (*domain.DeliveryOrder, error)
	pickUpFn  func(ctx context.Context, id uuid.UUID, courierID int64) (*domain.DeliveryOrder, error)
	deliverFn func(ctx context.Context, id uuid.UUID, courierID int64) (*domain.DeliveryOrder, error)
	cancelFn  func(ctx context.Context, id uuid.UUID, actor domain.Actor, reason string) (*domain.DeliveryOrder, error)
}

func (s *stubDeliveryUsecase) Get(ctx context.Context, id uuid.UUID) (*domain.DeliveryOrder, error) {
	if s.getFn == nil {
		panic("Get not expected in this test")
	}
	return s.getFn(ctx, id)
}

func (s *stubDeliveryUsecase) Events(ctx context.Context, id uuid.UUID) ([]domain.DeliveryEvent, error) {
	if s.eventsFn == nil {
		panic("Events not expected in this test")
	}
	return s.eventsFn(ctx, id)
}

func (s *stubDeliveryUsecase) Accept(ctx context.Context, id uuid.UUID, courierID int64) (*domain.DeliveryOrder, error) {
	if s.acceptFn == nil {
		panic("Accept not expected in this test")
	}
	return s.acceptFn(ctx, id, courierID)
}

func (s *stubDeliveryUsecase) PickUp(ctx context.Context, id uuid.UUID, courierID int64) (*domain.DeliveryOrder, error) {
	if s.pickUpFn == nil {
		panic("PickUp not expected in this test")
	}
	return s.pickUpFn(ctx, id, courierID)
}

func (s *stubDeliveryUsecase) Deliver(ctx context.Context, id uuid.UUID, courierID int64) (*domain.DeliveryOrder, error) {
	if s.deliverFn == nil {
		panic("Deliver not expected in this test")
	}
	return s.deliverFn(ctx, id, courierID)
}

func (s *stubDeliveryUsecase) Cancel(ctx context.Context, id uuid.UUID, actor domain.Actor, reason string) (*domain.DeliveryOrder, error) {
	if s.cancelFn == nil {
		panic("Cancel not expected in this test")
	}
	return s.cancelFn(ctx, id, actor, reason)
}

var orderID = uuid.MustParse("9b2f4e8a-1c3d-4e5f-8a9b-0c1d2e3f4a5b")

func deliveryRouter(uc deliveryUsecase) http.Handler {
	h := NewDeliveryHandler(nil, uc)
	r := chi.NewRouter()
	r.Get("/deliveries/{id}", h.Get)
	r.Get("/deliveries/{id}/events", h.Events)
	r.Post("/deliveries/{id}/accept", h.Accept)
	r.Post("/deliveries/{id}/pickup", h.PickUp)
	r.Post("/deliveries/{id}/deliver", h.Deliver)
	r.Post("/deliveries/{id}/cancel", h.Cancel)
	return r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestDeliveryHandler_Accept_OK(t *testing.T) {
	t.Parallel()

	courier := int64(42)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	accepted := created.Add(time.Minute)

	uc := &stubDeliveryUsecase{
		acceptFn: func(_ context.Context, id uuid.UUID, courierID int64) (*domain.DeliveryOrder, error) {
			require.Equal(t, orderID, id)
			require.EqualValues(t, 42, courierID)
			return &domain.DeliveryOrder{
				ID:               id,
				PurchaseOrderID:  "po-1",
				SellerID:         "s-1",
				Status:           domain.StatusAccepted,
				CourierID:        &courier,
				FeeCents:         500,
				EstimatedMinutes: 20,
				CreatedAt:        created,
				UpdatedAt:        accepted,
				AcceptedAt:       &accepted,
			}, nil
		},
	}

	rr := serve(deliveryRouter(uc), http.MethodPost, "/deliveries/"+orderID.String()+"/accept", `{"courier_id":42}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
        "id": "9b2f4e8a-1c3d-4e5f-8a9b-0c1d2e3f4a5b",
        "purchase_order_id": "po-1",
        "seller_id": "s-1",
        "status": "ACCEPTED",
        "courier_id": 42,
        "fee_cents": 500,
        "estimated_minutes": 20,
        "created_at": "2025-01-02T03:04:05Z",
        "updated_at": "2025-01-02T03:05:05Z",
        "accepted_at": "2025-01-02T03:05:05Z"
    }`, rr.Body.String())
}

func TestDeliveryHandler_Accept_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"race lost", apperr.ErrAlreadyAssigned, http.StatusConflict, "already assigned"},
		{"terminal", apperr.ErrInvalidTransition, http.StatusConflict, "invalid transition"},
		{"inactive", apperr.ErrProfileInactive, http.StatusForbidden, "profile inactive"},
		{"missing", apperr.ErrNotFound, http.StatusNotFound, "not found"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := &stubDeliveryUsecase{
				acceptFn: func(context.Context, uuid.UUID, int64) (*domain.DeliveryOrder, error) {
					return nil, tt.err
				},
			}
			rr := serve(deliveryRouter(uc), http.MethodPost, "/deliveries/"+orderID.String()+"/accept", `{"courier_id":1}`)
			require.Equal(t, tt.wantCode, rr.Code)
			assert.JSONEq(t, `{"error":"`+tt.wantMsg+`"}`, rr.Body.String())
		})
	}
}

func TestDeliveryHandler_CourierAction_BadInput(t *testing.T) {
	t.Parallel()

	h := deliveryRouter(&stubDeliveryUsecase{})

	rr := serve(h, http.MethodPost, "/deliveries/not-a-uuid/pickup", `{"courier_id":1}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"invalid id"}`, rr.Body.String())

	rr = serve(h, http.MethodPost, "/deliveries/"+orderID.String()+"/deliver", `{"courier_id":0}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"invalid courier_id"}`, rr.Body.String())

	rr = serve(h, http.MethodPost, "/deliveries/"+orderID.String()+"/deliver", `{"courier_id":1}{}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"invalid json: trailing data"}`, rr.Body.String())
}

func TestDeliveryHandler_PickUpAndDeliver_RouteToUsecase(t *testing.T) {
	t.Parallel()

	var calls []string
	uc := &stubDeliveryUsecase{
		pickUpFn: func(_ context.Context, id uuid.UUID, _ int64) (*domain.DeliveryOrder, error) {
			calls = append(calls, "pickup")
			return &domain.DeliveryOrder{ID: id, Status: domain.StatusPickedUp}, nil
		},
		deliverFn: func(_ context.Context, id uuid.UUID, _ int64) (*domain.DeliveryOrder, error) {
			calls = append(calls, "deliver")
			return &domain.DeliveryOrder{ID: id, Status: domain.StatusDelivered}, nil
		},
	}
	h := deliveryRouter(uc)

	rr := serve(h, http.MethodPost, "/deliveries/"+orderID.String()+"/pickup", `{"courier_id":3}`)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = serve(h, http.MethodPost, "/deliveries/"+orderID.String()+"/deliver", `{"courier_id":3}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"status":"DELIVERED"`)
	require.Equal(t, []string{"pickup", "deliver"}, calls)
}

func TestDeliveryHandler_Cancel(t *testing.T) {
	t.Parallel()

	uc := &stubDeliveryUsecase{
		cancelFn: func(_ context.Context, id uuid.UUID, actor domain.Actor, reason string) (*domain.DeliveryOrder, error) {
			require.Equal(t, domain.Actor{Role: domain.ActorAdmin, ID: 11}, actor)
			require.Equal(t, "duplicate order", reason)
			return &domain.DeliveryOrder{ID: id, Status: domain.StatusCancelled, CancelReason: &reason}, nil
		},
	}
	h := deliveryRouter(uc)

	rr := serve(h, http.MethodPost, "/deliveries/"+orderID.String()+"/cancel",
		`{"actor_role":"admin","actor_id":11,"reason":"duplicate order"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"cancel_reason":"duplicate order"`)

	rr = serve(h, http.MethodPost, "/deliveries/"+orderID.String()+"/cancel", `{"actor_role":"buyer"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(h, http.MethodPost, "/deliveries/"+orderID.String()+"/cancel", `{"actor_role":"courier"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeliveryHandler_GetAndEvents(t *testing.T) {
	t.Parallel()

	reason := "no show"
	uc := &stubDeliveryUsecase{
		getFn: func(context.Context, uuid.UUID) (*domain.DeliveryOrder, error) {
			return nil, apperr.ErrNotFound
		},
		eventsFn: func(_ context.Context, id uuid.UUID) ([]domain.DeliveryEvent, error) {
			return []domain.DeliveryEvent{
				{OrderID: id, From: domain.StatusPending, To: domain.StatusAccepted,
					Actor: domain.Actor{Role: domain.ActorCourier, ID: 4}, CreatedAt: time.Unix(0, 0).UTC()},
				{OrderID: id, From: domain.StatusAccepted, To: domain.StatusCancelled,
					Actor: domain.Actor{Role: domain.ActorSystem}, Reason: &reason, CreatedAt: time.Unix(60, 0).UTC()},
			}, nil
		},
	}
	h := deliveryRouter(uc)

	rr := serve(h, http.MethodGet, "/deliveries/"+orderID.String(), "")
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(h, http.MethodGet, "/deliveries/"+orderID.String()+"/events", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[
        {"from":"PENDING","to":"ACCEPTED","actor_role":"courier","actor_id":4,"created_at":"1970-01-01T00:00:00Z"},
        {"from":"ACCEPTED","to":"CANCELLED","actor_role":"system","reason":"no show","created_at":"1970-01-01T00:01:00Z"}
    ]`, rr.Body.String())
}
