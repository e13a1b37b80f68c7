package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/replaydeck/auth-service/internal/domain"
)

func newTestTokenService() *TokenService {
	return NewTokenService(TokenConfig{
		Secret: []byte("test-secret-key"),
		Issuer: "auth-service-test",
	})
}

func TestTokenService_AccessRoundTrip(t *testing.T) {
	svc := newTestTokenService()
	userID := uuid.New()

	token, err := svc.IssueAccess(userID, "a@x.com", "A")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Errorf("Subject = %q, want %q", claims.Subject, userID)
	}
	if claims.Purpose != PurposeAccess {
		t.Errorf("Purpose = %q, want %q", claims.Purpose, PurposeAccess)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "a@x.com")
	}
	if claims.Name != "A" {
		t.Errorf("Name = %q, want %q", claims.Name, "A")
	}
}

func TestTokenService_PurposeMismatch(t *testing.T) {
	svc := newTestTokenService()
	userID := uuid.New()

	access, err := svc.IssueAccess(userID, "a@x.com", "A")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}

	// An access token must never satisfy a refresh check.
	if _, err := svc.VerifyPurpose(access, PurposeRefresh); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("VerifyPurpose(access, refresh) = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.VerifyPurpose(access, PurposeAccess); err != nil {
		t.Errorf("VerifyPurpose(access, access) = %v, want nil", err)
	}

	// A password reset token must never satisfy an email verification check.
	reset, err := svc.IssuePasswordReset("a@x.com")
	if err != nil {
		t.Fatalf("IssuePasswordReset failed: %v", err)
	}
	if _, err := svc.VerifyPurpose(reset, PurposeEmailVerification); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("VerifyPurpose(reset, email_verification) = %v, want ErrInvalidToken", err)
	}
}

func TestTokenService_EmailTokensCarryOnlyEmail(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.IssueEmailVerification("a@x.com")
	if err != nil {
		t.Fatalf("IssueEmailVerification failed: %v", err)
	}

	claims, err := svc.VerifyPurpose(token, PurposeEmailVerification)
	if err != nil {
		t.Fatalf("VerifyPurpose failed: %v", err)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "a@x.com")
	}
	if claims.Subject != "" {
		t.Errorf("Subject = %q, want empty (email tokens carry no account id)", claims.Subject)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService(TokenConfig{
		Secret:         []byte("test-secret-key"),
		AccessTokenTTL: -time.Minute,
	})

	token, err := svc.IssueAccess(uuid.New(), "a@x.com", "A")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}

	// Expired and tampered tokens produce the same error.
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify(expired) = %v, want ErrInvalidToken", err)
	}
}

func TestTokenService_Tampered(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.IssueAccess(uuid.New(), "a@x.com", "A")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := svc.Verify(tampered); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify(tampered) = %v, want ErrInvalidToken", err)
	}

	other := NewTokenService(TokenConfig{Secret: []byte("different-secret")})
	if _, err := other.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestTokenService_RejectsNonHMAC(t *testing.T) {
	svc := newTestTokenService()

	// alg=none tokens must be rejected.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Purpose: PurposeAccess,
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing unsecured token failed: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify(alg=none) = %v, want ErrInvalidToken", err)
	}
}
