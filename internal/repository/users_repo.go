package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/replaydeck/auth-service/internal/domain"
)

const userColumns = `
	id, email, name, password_hash, is_verified, is_active, is_admin,
	verification_token, verification_token_expires_at,
	reset_token, reset_token_expires_at,
	created_at, updated_at, last_login_at
`

// UsersRepository persists user accounts in Postgres.
type UsersRepository struct {
	db *sql.DB
}

// NewUsersRepository creates a new users repository.
func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create inserts a new user.
func (r *UsersRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash,
		user.IsVerified, user.IsActive, user.IsAdmin,
		user.VerificationToken, user.VerificationTokenExpiresAt,
		user.ResetToken, user.ResetTokenExpiresAt,
		user.CreatedAt, user.UpdatedAt, user.LastLoginAt,
	)
	return err
}

// GetByEmail retrieves a user by email.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// GetByID retrieves a user by ID.
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByVerificationToken retrieves the user holding a pending, unexpired
// verification token. Expired tokens miss exactly like unknown ones.
func (r *UsersRepository) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE verification_token = $1 AND verification_token_expires_at > NOW()
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, token))
}

// GetByResetToken retrieves the user holding a pending, unexpired reset token.
func (r *UsersRepository) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE reset_token = $1 AND reset_token_expires_at > NOW()
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, token))
}

// Update persists all mutable fields and touches updated_at.
func (r *UsersRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $2, name = $3, password_hash = $4,
		    is_verified = $5, is_active = $6, is_admin = $7,
		    verification_token = $8, verification_token_expires_at = $9,
		    reset_token = $10, reset_token_expires_at = $11,
		    updated_at = $12, last_login_at = $13
		WHERE id = $1
	`
	user.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash,
		user.IsVerified, user.IsActive, user.IsAdmin,
		user.VerificationToken, user.VerificationTokenExpiresAt,
		user.ResetToken, user.ResetTokenExpiresAt,
		user.UpdatedAt, user.LastLoginAt,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List returns all users ordered by creation time. Admin listing only.
func (r *UsersRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		if err := scanUser(rows, user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *UsersRepository) scanOne(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := scanUser(row, user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func scanUser(s scanner, user *domain.User) error {
	return s.Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.IsVerified, &user.IsActive, &user.IsAdmin,
		&user.VerificationToken, &user.VerificationTokenExpiresAt,
		&user.ResetToken, &user.ResetTokenExpiresAt,
		&user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt,
	)
}
