package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

var (
	// ErrMissingLocateService is returned when the locate service is not provided.
	ErrMissingLocateService = errors.New("api: locate service is required")

	// ErrMissingMapService is returned when the map service is not provided.
	ErrMissingMapService = errors.New("api: map service is required")
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// classify maps an engine error to a status code and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownMap), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrPolicy):
		return http.StatusBadRequest, "invalid_options"
	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusUnprocessableEntity, "configuration_error"
	case errors.Is(err, domain.ErrDataIntegrity):
		return http.StatusInternalServerError, "data_integrity_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError && code == "internal_error" {
		message = "internal server error"
	}
	writeErrorCode(w, r, status, code, message)
}

func writeErrorCode(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Error:     code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
