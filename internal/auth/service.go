package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/replaydeck/auth-service/internal/domain"
)

const (
	secureTokenLength = 32

	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = time.Hour
)

// AuthService orchestrates the account lifecycle: signup, signin, email
// verification, password recovery, and token refresh. It holds only its
// dependencies and is safe to share across concurrent requests.
type AuthService struct {
	store    UserStore
	notifier Notifier
	tokens   *TokenService
	policy   *PasswordPolicy
	logger   *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store UserStore, notifier Notifier, tokens *TokenService, policy *PasswordPolicy, logger *slog.Logger) *AuthService {
	if policy == nil {
		policy = DefaultPasswordPolicy()
	}
	return &AuthService{
		store:    store,
		notifier: notifier,
		tokens:   tokens,
		policy:   policy,
		logger:   logger,
	}
}

// AuthResult is the payload returned by signin and refresh.
type AuthResult struct {
	Message      string       `json:"message"`
	User         *UserSummary `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
}

// VerifyResult is the payload returned by email verification.
type VerifyResult struct {
	Message     string `json:"message"`
	IsVerified  bool   `json:"is_verified"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// UserSummary is the client-safe view of an account.
type UserSummary struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	IsVerified  bool       `json:"is_verified"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// NewUserSummary builds the client-safe view of a user.
func NewUserSummary(user *domain.User) *UserSummary {
	return &UserSummary{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		IsVerified:  user.IsVerified,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}

// NormalizeEmail lowercases and trims an email address. All store lookups and
// inserts go through this so equality is consistent.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new account, or re-issues the verification email when an
// unverified account already exists for the email. Password and name from the
// new submission replace the abandoned ones in that case, so a user who lost
// the original email can recover without support. Exactly one record per
// email either way.
func (s *AuthService) Signup(ctx context.Context, email, name, password string) (string, error) {
	email = NormalizeEmail(email)

	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", err
	}

	if existing != nil {
		if existing.IsVerified {
			return "", domain.NewValidationError("email already registered")
		}

		token, err := GenerateSecureToken(secureTokenLength)
		if err != nil {
			return "", err
		}
		hash, err := HashPassword(password)
		if err != nil {
			return "", err
		}

		existing.SetVerificationToken(token, time.Now().Add(verificationTokenTTL))
		existing.PasswordHash = hash
		existing.Name = name
		if err := s.store.Update(ctx, existing); err != nil {
			return "", err
		}

		s.sendVerification(existing.Email, existing.Name, token)
		return "Verification email sent. Please check your email for verification.", nil
	}

	if err := s.policy.Validate(password); err != nil {
		return "", domain.NewValidationError(err.Error())
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	token, err := GenerateSecureToken(secureTokenLength)
	if err != nil {
		return "", err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsVerified:   false,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	user.SetVerificationToken(token, now.Add(verificationTokenTTL))

	if err := s.store.Create(ctx, user); err != nil {
		return "", err
	}

	s.sendVerification(user.Email, user.Name, token)
	return "User registered successfully. Please check your email for verification.", nil
}

// Signin authenticates email/password credentials and issues tokens.
// Unknown email and wrong password produce the same generic error.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	user, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.NewAuthenticationError("invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, domain.NewAuthenticationError("invalid email or password")
	}
	if !user.IsActive {
		return nil, domain.NewAuthenticationError("account is disabled")
	}
	if !user.IsVerified {
		return nil, domain.NewAuthenticationError("please verify your email before signing in")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.store.Update(ctx, user); err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccess(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefresh(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Message:      "sign in successful",
		User:         NewUserSummary(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}

// VerifyEmail consumes a pending verification token, marks the account
// verified, and signs the user in. Unknown and expired tokens are
// indistinguishable to the caller.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*VerifyResult, error) {
	user, err := s.store.GetByVerificationToken(ctx, token)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.NewValidationError("invalid or expired verification token")
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.IsVerified = true
	user.ClearVerificationToken()
	user.LastLoginAt = &now
	if err := s.store.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.notifier.SendWelcomeEmail(user.Email, user.Name); err != nil {
		s.logger.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	accessToken, err := s.tokens.IssueAccess(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		Message:     "email verified successfully. you are now signed in",
		IsVerified:  true,
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}

// ResendVerification regenerates the verification token and re-sends the
// email. The email is the deliverable here, so a send failure propagates.
func (s *AuthService) ResendVerification(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)

	user, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", domain.NewValidationError("user not found")
	}
	if err != nil {
		return "", err
	}
	if user.IsVerified {
		return "", domain.NewValidationError("email already verified")
	}

	token, err := GenerateSecureToken(secureTokenLength)
	if err != nil {
		return "", err
	}
	user.SetVerificationToken(token, time.Now().Add(verificationTokenTTL))
	if err := s.store.Update(ctx, user); err != nil {
		return "", err
	}

	if err := s.notifier.SendVerificationEmail(user.Email, user.Name, token); err != nil {
		s.logger.Error("failed to send verification email", "error", err, "user_id", user.ID)
		return "", domain.NewValidationError("failed to send verification email")
	}

	return "Verification email sent successfully", nil
}

const resetRequestMessage = "If the email is registered, a password reset email has been sent"

// RequestPasswordReset initiates the forgot-password flow. Unknown emails
// produce the same response as known ones, so the endpoint cannot be used to
// probe which addresses have accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)

	user, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Info("password reset requested for unknown email")
		return resetRequestMessage, nil
	}
	if err != nil {
		return "", err
	}

	token, err := GenerateSecureToken(secureTokenLength)
	if err != nil {
		return "", err
	}
	user.SetResetToken(token, time.Now().Add(resetTokenTTL))
	if err := s.store.Update(ctx, user); err != nil {
		return "", err
	}

	if err := s.notifier.SendPasswordResetEmail(user.Email, user.Name, token); err != nil {
		s.logger.Error("failed to send password reset email", "error", err, "user_id", user.ID)
		return "", domain.NewValidationError("failed to send password reset email")
	}

	return resetRequestMessage, nil
}

// ResetPassword completes the forgot-password flow. The new password must
// satisfy the strength policy. Does not sign the user in.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	user, err := s.store.GetByResetToken(ctx, token)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", domain.NewValidationError("invalid or expired reset token")
	}
	if err != nil {
		return "", err
	}

	if err := s.policy.Validate(newPassword); err != nil {
		return "", domain.NewValidationError(err.Error())
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return "", err
	}
	user.PasswordHash = hash
	user.ClearResetToken()
	if err := s.store.Update(ctx, user); err != nil {
		return "", err
	}

	return "Password reset successfully", nil
}

// RefreshToken exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated; it stays valid until its own expiry.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.VerifyPurpose(refreshToken, PurposeRefresh)
	if err != nil {
		return nil, domain.NewAuthenticationError("invalid refresh token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.NewAuthenticationError("invalid refresh token")
	}

	user, err := s.store.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.NewAuthenticationError("user not found or inactive")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.NewAuthenticationError("user not found or inactive")
	}

	accessToken, err := s.tokens.IssueAccess(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Message:      "token refreshed successfully",
		User:         NewUserSummary(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}

// CurrentUser resolves an access token to its account. Active/verified gating
// is the request authenticator's job, not done here.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokens.VerifyPurpose(accessToken, PurposeAccess)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	return s.store.GetByID(ctx, userID)
}

// AuthenticateBasic verifies email/password directly for Basic requests. It
// shares Signin's credential check but does not touch lastLogin or mint
// tokens; the authenticator applies active/verified gating afterwards.
func (s *AuthService) AuthenticateBasic(ctx context.Context, email, password string) (*domain.User, error) {
	email = NormalizeEmail(email)

	user, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.NewAuthenticationError("invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, domain.NewAuthenticationError("invalid email or password")
	}
	return user, nil
}

// sendVerification sends the verification email best-effort. Signup has
// already committed the account mutation; a send failure must not undo it.
func (s *AuthService) sendVerification(email, name, token string) {
	if err := s.notifier.SendVerificationEmail(email, name, token); err != nil {
		s.logger.Error("failed to send verification email", "error", err, "email", email)
	}
}
