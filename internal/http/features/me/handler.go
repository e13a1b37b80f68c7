package me

import (
	"net/http"

	"github.com/replaydeck/auth-service/internal/auth"
	"github.com/replaydeck/auth-service/internal/http/middleware"
	"github.com/replaydeck/auth-service/internal/httputil"
)

// Handler handles the current-user endpoint.
type Handler struct{}

// NewHandler creates a new me handler.
func NewHandler() *Handler {
	return &Handler{}
}

// GetMe returns the authenticated user's profile.
// GET /v1/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	httputil.JSON(w, http.StatusOK, auth.NewUserSummary(user))
}
