package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents the account.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string

	IsVerified bool
	IsActive   bool
	IsAdmin    bool

	// Token/expiry pairs are both-nil or both-set, never half-cleared.
	VerificationToken          *string
	VerificationTokenExpiresAt *time.Time
	ResetToken                 *string
	ResetTokenExpiresAt        *time.Time

	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

// SetVerificationToken sets a pending email verification token and its expiry.
func (u *User) SetVerificationToken(token string, expiresAt time.Time) {
	u.VerificationToken = &token
	u.VerificationTokenExpiresAt = &expiresAt
}

// ClearVerificationToken removes any pending email verification token.
func (u *User) ClearVerificationToken() {
	u.VerificationToken = nil
	u.VerificationTokenExpiresAt = nil
}

// SetResetToken sets a pending password reset token and its expiry.
func (u *User) SetResetToken(token string, expiresAt time.Time) {
	u.ResetToken = &token
	u.ResetTokenExpiresAt = &expiresAt
}

// ClearResetToken removes any pending password reset token.
func (u *User) ClearResetToken() {
	u.ResetToken = nil
	u.ResetTokenExpiresAt = nil
}

// HasPendingVerification returns true if a verification token is set and unexpired.
func (u *User) HasPendingVerification() bool {
	return u.VerificationToken != nil &&
		u.VerificationTokenExpiresAt != nil &&
		time.Now().Before(*u.VerificationTokenExpiresAt)
}
