package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/replaydeck/auth-service/internal/domain"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorResponse{Error: message})
}

// ServiceError maps a domain error to its HTTP status and writes it.
// Validation errors surface verbatim (422), authentication errors with their
// generic message (401), authorization errors (403). Anything else becomes a
// 500 with no internal detail.
func ServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		Error(w, http.StatusUnprocessableEntity, validationErr.Message)
		return
	}

	var authnErr *domain.AuthenticationError
	if errors.As(err, &authnErr) {
		w.Header().Set("WWW-Authenticate", "Bearer")
		Error(w, http.StatusUnauthorized, authnErr.Message)
		return
	}

	var authzErr *domain.AuthorizationError
	if errors.As(err, &authzErr) {
		Error(w, http.StatusForbidden, authzErr.Message)
		return
	}

	Error(w, http.StatusInternalServerError, "an unexpected error occurred")
}
