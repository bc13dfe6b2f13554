package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// SellerHandler maintains the pickup points read model.
type SellerHandler struct {
	store  sellerLocationStore
	logger logx.Logger
}

// NewSellerHandler creates a new SellerHandler.
func NewSellerHandler(logger logx.Logger, store sellerLocationStore) *SellerHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &SellerHandler{store: store, logger: logger}
}

// PutLocation handles PUT /sellers/{id}/location.
func (h *SellerHandler) PutLocation(w http.ResponseWriter, r *http.Request) {
	sellerID := strings.TrimSpace(chi.URLParam(r, "id"))
	if sellerID == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req sellerLocationRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	loc, err := req.coordinateInput.toModel()
	if err == nil {
		err = loc.Validate()
	}
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	c := *loc

	p := domain.PickupPoint{
		SellerID: sellerID,
		Name:     strings.TrimSpace(req.Name),
		Address:  strings.TrimSpace(req.Address),
		Location: c,
	}
	if err := h.store.Upsert(r.Context(), p); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, pickupDTO{
		SellerID: p.SellerID,
		Name:     p.Name,
		Address:  p.Address,
		Lat:      c.Lat,
		Lng:      c.Lng,
	})
}
