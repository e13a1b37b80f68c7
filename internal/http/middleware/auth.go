package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/replaydeck/auth-service/internal/auth"
	"github.com/replaydeck/auth-service/internal/domain"
	"github.com/replaydeck/auth-service/internal/httputil"
)

type contextKey string

// UserKey is the context key for the authenticated user.
const UserKey contextKey = "user"

// Auth creates middleware that resolves the inbound credential to an account.
// It accepts either a Bearer access token or a Basic email:password pair.
// Both schemes end with the same gating: inactive and unverified accounts are
// rejected regardless of how the request authenticated. Absent or malformed
// credentials fail closed before any account lookup.
func Auth(service *auth.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "missing authorization")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 {
				unauthorized(w, "invalid authorization header")
				return
			}

			var user *domain.User
			var err error

			switch {
			case strings.EqualFold(parts[0], "Bearer"):
				user, err = service.CurrentUser(r.Context(), parts[1])
				if err != nil {
					authFailure(w, err)
					return
				}

			case strings.EqualFold(parts[0], "Basic"):
				email, password, ok := decodeBasic(parts[1])
				if !ok {
					unauthorized(w, "invalid authorization header")
					return
				}
				user, err = service.AuthenticateBasic(r.Context(), email, password)
				if err != nil {
					authFailure(w, err)
					return
				}

			default:
				unauthorized(w, "unsupported authorization scheme")
				return
			}

			// Gating applies to every scheme.
			if !user.IsActive {
				unauthorized(w, "user account is disabled")
				return
			}
			if !user.IsVerified {
				unauthorized(w, "email not verified")
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin creates middleware that rejects non-admin users. Must run
// after Auth.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				unauthorized(w, "authentication required")
				return
			}
			if !user.IsAdmin {
				httputil.Error(w, http.StatusForbidden, "admin privileges required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser extracts the authenticated user from the request context.
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserKey).(*domain.User)
	return user, ok
}

func decodeBasic(encoded string) (email, password string, ok bool) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", false
	}
	email, password, ok = strings.Cut(string(decoded), ":")
	return email, password, ok
}

// authFailure writes 401 for credential problems and 500 for anything else,
// so a store outage is not reported as bad credentials.
func authFailure(w http.ResponseWriter, err error) {
	var authnErr *domain.AuthenticationError
	switch {
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrUserNotFound),
		errors.As(err, &authnErr):
		unauthorized(w, "invalid authentication credentials")
	default:
		httputil.Error(w, http.StatusInternalServerError, "an unexpected error occurred")
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	httputil.Error(w, http.StatusUnauthorized, message)
}
