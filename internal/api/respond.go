package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-scheduling/internal/schedule"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return false
	}
	return true
}

// handleServiceError maps scheduling error kinds onto HTTP statuses.
// Anything that is not a domain error is a storage or lock failure.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		writeError(w, http.StatusNotFound, schedule.KindNotFound.String(), err.Error())
	case errors.Is(err, schedule.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, schedule.KindInvalidInput.String(), err.Error())
	case errors.Is(err, schedule.ErrConflict):
		writeError(w, http.StatusConflict, schedule.KindConflict.String(), err.Error())
	case errors.Is(err, schedule.ErrInvalidState):
		writeError(w, http.StatusConflict, schedule.KindInvalidState.String(), err.Error())
	default:
		logger.Error().
			Err(err).
			Str("request_id", GetRequestID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
