package handlers

import (
	"errors"
	"net/http"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/logx"
)

// writeServiceError maps service sentinels to HTTP statuses.
// The most specific sentinel is checked first.
func writeServiceError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrProfileInactive):
		writeError(logger, w, r, http.StatusForbidden, "profile inactive")
	case errors.Is(err, apperr.ErrProfileNotFound):
		writeError(logger, w, r, http.StatusNotFound, "profile not found")
	case errors.Is(err, apperr.ErrLocationUnavailable):
		writeError(logger, w, r, http.StatusNotFound, "location unavailable")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(logger, w, r, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrAlreadyAssigned):
		writeError(logger, w, r, http.StatusConflict, "already assigned")
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeError(logger, w, r, http.StatusConflict, "invalid transition")
	case errors.Is(err, apperr.ErrNotAssigned):
		writeError(logger, w, r, http.StatusConflict, "order not assigned to courier")
	case errors.Is(err, apperr.ErrConflict):
		writeError(logger, w, r, http.StatusConflict, "conflict")
	case errors.Is(err, apperr.ErrInvalid):
		// текст валидации безопасен, отдаём клиенту как есть
		writeError(logger, w, r, http.StatusBadRequest, err.Error())
	default:
		if logger != nil {
			logger.Error("request failed",
				logx.String("req_id", reqID(r.Context())),
				logx.String("path", r.URL.Path),
				logx.Err(err),
			)
		}
		writeError(logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
