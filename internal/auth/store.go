package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/replaydeck/auth-service/internal/domain"
)

// UserStore is the durable account record contract. Lookups that miss return
// domain.ErrUserNotFound. The store is the single source of truth and
// serializes conflicting writes; last-write-wins on token/expiry pairs is
// acceptable since either token re-verifies the account.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// GetByVerificationToken matches a pending, unexpired verification token.
	GetByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	// GetByResetToken matches a pending, unexpired reset token.
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
}

// Notifier sends account lifecycle emails. A nil error means the delivery
// attempt succeeded; the orchestrator decides per flow whether a failure is
// swallowed or propagated.
type Notifier interface {
	SendVerificationEmail(to, name, token string) error
	SendPasswordResetEmail(to, name, token string) error
	SendWelcomeEmail(to, name string) error
}
