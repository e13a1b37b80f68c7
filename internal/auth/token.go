package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/replaydeck/auth-service/internal/domain"
)

// TokenPurpose tags a token's intended use. A token is only accepted by the
// operation matching its purpose.
type TokenPurpose string

const (
	PurposeAccess            TokenPurpose = "access"
	PurposeRefresh           TokenPurpose = "refresh"
	PurposeEmailVerification TokenPurpose = "email_verification"
	PurposePasswordReset     TokenPurpose = "password_reset"
)

// Default token lifetimes.
const (
	DefaultAccessTokenTTL            = 30 * time.Minute
	DefaultRefreshTokenTTL           = 7 * 24 * time.Hour
	DefaultEmailVerificationTokenTTL = 24 * time.Hour
	DefaultPasswordResetTokenTTL     = time.Hour
)

// TokenConfig holds signing configuration for the token service.
type TokenConfig struct {
	Secret                    []byte
	Issuer                    string
	AccessTokenTTL            time.Duration
	RefreshTokenTTL           time.Duration
	EmailVerificationTokenTTL time.Duration
	PasswordResetTokenTTL     time.Duration
}

// Claims represents the signed claim bundle carried by every token.
type Claims struct {
	jwt.RegisteredClaims
	Purpose TokenPurpose `json:"purpose"`
	Email   string       `json:"email,omitempty"`
	Name    string       `json:"name,omitempty"`
}

// TokenService issues and validates purpose-scoped signed tokens. It is
// stateless and safe for concurrent use.
type TokenService struct {
	config TokenConfig
}

// NewTokenService creates a token service, filling in default TTLs.
func NewTokenService(config TokenConfig) *TokenService {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if config.RefreshTokenTTL == 0 {
		config.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	if config.EmailVerificationTokenTTL == 0 {
		config.EmailVerificationTokenTTL = DefaultEmailVerificationTokenTTL
	}
	if config.PasswordResetTokenTTL == 0 {
		config.PasswordResetTokenTTL = DefaultPasswordResetTokenTTL
	}
	return &TokenService{config: config}
}

// AccessTokenTTL returns the access token TTL.
func (s *TokenService) AccessTokenTTL() time.Duration {
	return s.config.AccessTokenTTL
}

// RefreshTokenTTL returns the refresh token TTL.
func (s *TokenService) RefreshTokenTTL() time.Duration {
	return s.config.RefreshTokenTTL
}

// IssueAccess issues a short-lived access token for a user.
func (s *TokenService) IssueAccess(userID uuid.UUID, email, name string) (string, error) {
	return s.sign(Claims{
		RegisteredClaims: s.registered(userID.String(), s.config.AccessTokenTTL),
		Purpose:          PurposeAccess,
		Email:            email,
		Name:             name,
	})
}

// IssueRefresh issues a long-lived refresh token for a user.
func (s *TokenService) IssueRefresh(userID uuid.UUID, email, name string) (string, error) {
	return s.sign(Claims{
		RegisteredClaims: s.registered(userID.String(), s.config.RefreshTokenTTL),
		Purpose:          PurposeRefresh,
		Email:            email,
		Name:             name,
	})
}

// IssueEmailVerification issues an email verification token. The payload
// carries only the email address, not the account id.
func (s *TokenService) IssueEmailVerification(email string) (string, error) {
	return s.sign(Claims{
		RegisteredClaims: s.registered("", s.config.EmailVerificationTokenTTL),
		Purpose:          PurposeEmailVerification,
		Email:            email,
	})
}

// IssuePasswordReset issues a password reset token carrying only the email.
func (s *TokenService) IssuePasswordReset(email string) (string, error) {
	return s.sign(Claims{
		RegisteredClaims: s.registered("", s.config.PasswordResetTokenTTL),
		Purpose:          PurposePasswordReset,
		Email:            email,
	})
}

// Verify checks signature and expiry and returns the decoded claims. Any
// failure, expired or tampered alike, returns domain.ErrInvalidToken so the
// caller cannot distinguish the two.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.config.Secret, nil
	})
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// VerifyPurpose verifies a token and additionally requires its purpose tag
// to match. An access token never satisfies a refresh check and vice versa.
func (s *TokenService) VerifyPurpose(tokenString string, purpose TokenPurpose) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    s.config.Issuer,
	}
}

func (s *TokenService) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.config.Secret)
}
