package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// DeliveryHandler handles HTTP requests for delivery resources.
type DeliveryHandler struct {
	usecase deliveryUsecase
	logger  logx.Logger
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(logger logx.Logger, uc deliveryUsecase) *DeliveryHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &DeliveryHandler{usecase: uc, logger: logger}
}

type courierAction func(ctx context.Context, orderID uuid.UUID, courierID int64) (*domain.DeliveryOrder, error)

// Get handles GET /deliveries/{id}.
func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	o, err := h.usecase.Get(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(o))
}

// Events handles GET /deliveries/{id}/events.
func (h *DeliveryHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	list, err := h.usecase.Events(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, eventsToResponse(list))
}

// Accept handles POST /deliveries/{id}/accept.
func (h *DeliveryHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.courierAction(w, r, h.usecase.Accept)
}

// PickUp handles POST /deliveries/{id}/pickup.
func (h *DeliveryHandler) PickUp(w http.ResponseWriter, r *http.Request) {
	h.courierAction(w, r, h.usecase.PickUp)
}

// Deliver handles POST /deliveries/{id}/deliver.
func (h *DeliveryHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	h.courierAction(w, r, h.usecase.Deliver)
}

// Cancel handles POST /deliveries/{id}/cancel.
func (h *DeliveryHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req cancelRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	actor := domain.Actor{Role: domain.ActorRole(req.ActorRole), ID: req.ActorID}
	if !actor.Role.Valid() {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid actor_role")
		return
	}
	if actor.Role == domain.ActorCourier && actor.ID <= 0 {
		writeError(h.logger, w, r, http.StatusBadRequest, "actor_id is required for courier")
		return
	}

	o, err := h.usecase.Cancel(r.Context(), id, actor, req.Reason)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(o))
}

func (h *DeliveryHandler) courierAction(w http.ResponseWriter, r *http.Request, action courierAction) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req courierActionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.CourierID <= 0 {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid courier_id")
		return
	}

	o, err := action(r.Context(), id, req.CourierID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(o))
}
