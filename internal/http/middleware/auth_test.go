package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/replaydeck/auth-service/internal/auth"
	"github.com/replaydeck/auth-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a minimal auth.UserStore backed by a slice.
type memStore struct {
	users []*domain.User
}

func (s *memStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memStore) GetByVerificationToken(_ context.Context, token string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *memStore) GetByResetToken(_ context.Context, token string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *memStore) Create(_ context.Context, user *domain.User) error {
	s.users = append(s.users, user)
	return nil
}

func (s *memStore) Update(_ context.Context, user *domain.User) error { return nil }

func (s *memStore) List(_ context.Context) ([]*domain.User, error) { return s.users, nil }

type noopNotifier struct{}

func (noopNotifier) SendVerificationEmail(to, name, token string) error  { return nil }
func (noopNotifier) SendPasswordResetEmail(to, name, token string) error { return nil }
func (noopNotifier) SendWelcomeEmail(to, name string) error              { return nil }

func addUser(t *testing.T, store *memStore, email, password string, verified, active, admin bool) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: hash,
		IsVerified:   verified,
		IsActive:     active,
		IsAdmin:      admin,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, store.Create(context.Background(), user))
	return user
}

func newAuthFixture(t *testing.T) (*auth.AuthService, *auth.TokenService, *memStore) {
	t.Helper()
	store := &memStore{}
	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret: []byte("test-secret-key"),
		Issuer: "auth-service-test",
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := auth.NewAuthService(store, noopNotifier{}, tokens, auth.DefaultPasswordPolicy(), logger)
	return service, tokens, store
}

// echoUser is the protected handler under test: it records the resolved user.
func echoUser(got **domain.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := GetUser(r.Context()); ok {
			*got = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func basicHeader(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func TestAuth_BearerToken(t *testing.T) {
	service, tokens, store := newAuthFixture(t)
	user := addUser(t, store, "a@x.com", "Str0ngPwd!", true, true, false)

	access, err := tokens.IssueAccess(user.ID, user.Email, user.Name)
	require.NoError(t, err)

	var got *domain.User
	handler := Auth(service)(echoUser(&got))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
}

func TestAuth_BasicCredentials(t *testing.T) {
	service, _, store := newAuthFixture(t)
	user := addUser(t, store, "a@x.com", "Str0ngPwd!", true, true, false)

	var got *domain.User
	handler := Auth(service)(echoUser(&got))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", basicHeader("a@x.com", "Str0ngPwd!"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
}

func TestAuth_RejectsBadCredentials(t *testing.T) {
	service, tokens, store := newAuthFixture(t)
	addUser(t, store, "a@x.com", "Str0ngPwd!", true, true, false)

	unverified := addUser(t, store, "u@x.com", "Str0ngPwd!", false, true, false)
	unverifiedToken, err := tokens.IssueAccess(unverified.ID, unverified.Email, unverified.Name)
	require.NoError(t, err)

	inactive := addUser(t, store, "i@x.com", "Str0ngPwd!", true, false, false)
	inactiveToken, err := tokens.IssueAccess(inactive.ID, inactive.Email, inactive.Name)
	require.NoError(t, err)

	// A refresh token must not pass the Bearer check.
	refresh, err := tokens.IssueRefresh(unverified.ID, unverified.Email, unverified.Name)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "no scheme", header: "garbage"},
		{name: "unsupported scheme", header: "Digest abc"},
		{name: "garbage bearer", header: "Bearer not-a-token"},
		{name: "refresh as bearer", header: "Bearer " + refresh},
		{name: "unverified bearer", header: "Bearer " + unverifiedToken},
		{name: "inactive bearer", header: "Bearer " + inactiveToken},
		{name: "malformed basic", header: "Basic %%%not-base64%%%"},
		{name: "basic without colon", header: "Basic " + base64.StdEncoding.EncodeToString([]byte("nocolon"))},
		{name: "basic wrong password", header: basicHeader("a@x.com", "WrongPwd1!")},
		{name: "basic unknown email", header: basicHeader("nobody@x.com", "Str0ngPwd!")},
		{name: "basic unverified", header: basicHeader("u@x.com", "Str0ngPwd!")},
		{name: "basic inactive", header: basicHeader("i@x.com", "Str0ngPwd!")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *domain.User
			handler := Auth(service)(echoUser(&got))

			req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			assert.Nil(t, got, "handler must not run for rejected credentials")
		})
	}
}

// failingStore simulates a store outage: every lookup errors.
type failingStore struct {
	memStore
	err error
}

func (s *failingStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return nil, s.err
}

func (s *failingStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, s.err
}

func TestAuth_StoreOutageIsNotUnauthorized(t *testing.T) {
	store := &failingStore{err: errors.New("dial tcp: connection refused")}
	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret: []byte("test-secret-key"),
		Issuer: "auth-service-test",
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := auth.NewAuthService(store, noopNotifier{}, tokens, auth.DefaultPasswordPolicy(), logger)

	access, err := tokens.IssueAccess(uuid.New(), "a@x.com", "A")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "bearer", header: "Bearer " + access},
		{name: "basic", header: basicHeader("a@x.com", "Str0ngPwd!")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *domain.User
			handler := Auth(service)(echoUser(&got))

			req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
			assert.Nil(t, got)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	service, tokens, store := newAuthFixture(t)
	user := addUser(t, store, "a@x.com", "Str0ngPwd!", true, true, false)
	admin := addUser(t, store, "admin@x.com", "Str0ngPwd!", true, true, true)

	userToken, err := tokens.IssueAccess(user.ID, user.Email, user.Name)
	require.NoError(t, err)
	adminToken, err := tokens.IssueAccess(admin.ID, admin.Email, admin.Name)
	require.NoError(t, err)

	var got *domain.User
	handler := Auth(service)(RequireAdmin()(echoUser(&got)))

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, got)

	req = httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, admin.ID, got.ID)
}

func TestRequireAdmin_WithoutAuth(t *testing.T) {
	var got *domain.User
	handler := RequireAdmin()(echoUser(&got))

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, got)
}
