package http

import (
	"encoding/json"
	"net/http"

	"github.com/dmilosevic/boardflow/internal/log"
	"github.com/dmilosevic/boardflow/pkg/service"
	"github.com/dmilosevic/boardflow/pkg/storage"
	"github.com/pkg/errors"
)

type errorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.GetLogger().Errorf("Failed to encode response: %v", err)
	}
}

// writeError maps domain errors onto the response taxonomy: validation
// failures are 400 with the failing field, missing rows are 404, bad
// credentials are 401 and everything else is an unclassified 500.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message: validationErr.Message,
			Field:   validationErr.Field,
		})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Not found"})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Invalid username or password"})
	default:
		log.GetLogger().Errorf("Request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: err.Error()})
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &service.ValidationError{Message: "Invalid request body"}
	}
	return nil
}
