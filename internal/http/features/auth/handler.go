package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/replaydeck/auth-service/internal/auth"
	"github.com/replaydeck/auth-service/internal/httputil"
)

// Handler handles the authentication endpoints.
type Handler struct {
	logger  *slog.Logger
	service *auth.AuthService
}

// NewHandler creates a new auth handler.
func NewHandler(logger *slog.Logger, service *auth.AuthService) *Handler {
	return &Handler{logger: logger, service: service}
}

// SignupRequest represents a registration request.
type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// SigninRequest represents a signin request.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyEmailRequest carries an email verification token.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// EmailRequest carries a bare email address.
type EmailRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest carries a reset token and the new password.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// MessageResponse is a simple success envelope.
type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// Signup handles user registration.
// POST /v1/auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	message, err := h.service.Signup(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		httputil.ServiceError(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, MessageResponse{Message: message, Success: true})
}

// Signin handles user signin.
// POST /v1/auth/signin
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := h.service.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.ServiceError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// VerifyEmail handles email verification.
// POST /v1/auth/verify-email
//
// The token is accepted from the query string or the JSON body, so the emailed
// link works directly.
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		var req VerifyEmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = req.Token
		}
	}
	if token == "" {
		httputil.Error(w, http.StatusBadRequest, "token is required")
		return
	}

	result, err := h.service.VerifyEmail(r.Context(), token)
	if err != nil {
		httputil.ServiceError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// ResendVerification resends the verification email.
// POST /v1/auth/resend-verification
func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		httputil.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	message, err := h.service.ResendVerification(r.Context(), req.Email)
	if err != nil {
		httputil.ServiceError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, MessageResponse{Message: message, Success: true})
}

// ForgotPassword initiates the password reset flow.
// POST /v1/auth/forgot-password
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		httputil.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	message, err := h.service.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		httputil.ServiceError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, MessageResponse{Message: message, Success: true})
}

// ResetPassword completes the password reset flow.
// POST /v1/auth/reset-password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		httputil.Error(w, http.StatusBadRequest, "token and new_password are required")
		return
	}

	message, err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		httputil.ServiceError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, MessageResponse{Message: message, Success: true})
}

// Refresh exchanges a refresh token for a new access token.
// POST /v1/auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RefreshToken == "" {
		httputil.Error(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	result, err := h.service.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		httputil.ServiceError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}
