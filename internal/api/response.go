package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/keerthisuryateja/Hostel-Locker-System/internal/engine"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// engineError maps the engine's error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a storage failure and stays opaque to the caller.
func engineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrValidation):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrActiveAssignmentExists):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrNoLockersAvailable),
		errors.Is(err, engine.ErrNoActiveAssignment),
		errors.Is(err, engine.ErrLockerNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("engine operation failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
