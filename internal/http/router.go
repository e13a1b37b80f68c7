package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/replaydeck/auth-service/internal/auth"
	"github.com/replaydeck/auth-service/internal/config"
	"github.com/replaydeck/auth-service/internal/http/features/admin"
	authfeature "github.com/replaydeck/auth-service/internal/http/features/auth"
	"github.com/replaydeck/auth-service/internal/http/features/me"
	"github.com/replaydeck/auth-service/internal/http/middleware"
	"github.com/replaydeck/auth-service/internal/httputil"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.AuthService
	UserStore       auth.UserStore
	RateLimitConfig config.RateLimitConfig
	SecurityHeaders config.SecurityHeadersConfig
	MaxBodySize     int64
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.MaxBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)

	authHandler := authfeature.NewHandler(cfg.Logger, cfg.AuthService)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["auth"])
		r.Post("/v1/auth/signup", authHandler.Signup)
		r.Post("/v1/auth/signin", authHandler.Signin)
	})
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["verify"])
		r.Post("/v1/auth/verify-email", authHandler.VerifyEmail)
		r.Post("/v1/auth/resend-verification", authHandler.ResendVerification)
	})
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["reset"])
		r.Post("/v1/auth/forgot-password", authHandler.ForgotPassword)
		r.Post("/v1/auth/reset-password", authHandler.ResetPassword)
	})
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["refresh"])
		r.Post("/v1/auth/refresh", authHandler.Refresh)
	})

	// Protected routes
	meHandler := me.NewHandler()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.AuthService))
		r.Get("/v1/me", meHandler.GetMe)
	})

	adminHandler := admin.NewHandler(cfg.Logger, cfg.UserStore)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.AuthService))
		r.Use(middleware.RequireAdmin())
		r.Get("/v1/admin/users", adminHandler.ListUsers)
	})

	return r
}
