package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// CourierHandler serves the courier facing endpoints: profile, availability,
// live position and matches.
type CourierHandler struct {
	profiles     profileUsecase
	availability availabilityUsecase
	location     locationUsecase
	matching     matchingUsecase
	logger       logx.Logger
}

// NewCourierHandler creates a new CourierHandler.
func NewCourierHandler(
	logger logx.Logger,
	profiles profileUsecase,
	availability availabilityUsecase,
	location locationUsecase,
	matching matchingUsecase,
) *CourierHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &CourierHandler{
		profiles:     profiles,
		availability: availability,
		location:     location,
		matching:     matching,
		logger:       logger,
	}
}

// GetProfile handles GET /couriers/{id}/profile.
func (h *CourierHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, profileToResponse(p))
}

// CreateProfile handles POST /couriers/{id}/profile.
func (h *CourierHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req createProfileRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	p, err := req.toModel(id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	err = h.profiles.Create(r.Context(), p)
	switch {
	case err == nil:
		w.Header().Set("Location", "/couriers/"+strconv.FormatInt(id, 10)+"/profile")
		writeJSON(h.logger, w, r, http.StatusCreated, profileToResponse(p))
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "profile already exists")
	default:
		writeServiceError(h.logger, w, r, err)
	}
}

// UpdateProfile handles PATCH /couriers/{id}/profile with partial updates.
func (h *CourierHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateProfileRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	u, err := req.toModel(id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	p, err := h.profiles.UpdatePartial(r.Context(), u)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, profileToResponse(p))
}

// SetAvailability handles PUT /couriers/{id}/availability. A schedule
// mismatch is reported as a warning, never as an error.
func (h *CourierHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req availabilityRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.Online == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "online is required")
		return
	}

	res, err := h.availability.Toggle(r.Context(), id, *req.Online)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toggleToResponse(res))
}

// UpdatePosition handles PUT /couriers/{id}/position.
func (h *CourierHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req coordinateInput
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	c, err := req.toModel()
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	if err := h.location.UpdatePosition(r.Context(), id, *c); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Matches handles GET /couriers/{id}/matches?mode=.
func (h *CourierHandler) Matches(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	// пустой mode - режим из конфига
	mode := domain.TravelMode(r.URL.Query().Get("mode"))

	res, err := h.matching.Match(r.Context(), id, mode)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, matchToResponse(res))
}

// Nearby handles GET /couriers/nearby?lat=&lng=&radius_km=.
func (h *CourierHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, okLat := floatQuery(r, "lat")
	lng, okLng := floatQuery(r, "lng")
	if !okLat || !okLng {
		writeError(h.logger, w, r, http.StatusBadRequest, "lat and lng are required")
		return
	}
	radius, ok := floatQuery(r, "radius_km")
	if !ok || radius <= 0 {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid radius_km")
		return
	}

	ids, err := h.location.Nearby(r.Context(), domain.Coordinate{Lat: lat, Lng: lng}, radius)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	writeJSON(h.logger, w, r, http.StatusOK, nearbyResponse{CourierIDs: ids})
}
