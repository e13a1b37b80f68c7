package admin

import (
	"log/slog"
	"net/http"

	"github.com/replaydeck/auth-service/internal/auth"
	"github.com/replaydeck/auth-service/internal/httputil"
)

// Handler handles admin-only endpoints.
type Handler struct {
	logger *slog.Logger
	store  auth.UserStore
}

// NewHandler creates a new admin handler.
func NewHandler(logger *slog.Logger, store auth.UserStore) *Handler {
	return &Handler{logger: logger, store: store}
}

// ListUsers returns all accounts.
// GET /v1/admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	summaries := make([]*auth.UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, auth.NewUserSummary(user))
	}
	httputil.JSON(w, http.StatusOK, summaries)
}
