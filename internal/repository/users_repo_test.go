package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/replaydeck/auth-service/internal/domain"
)

func newMockRepo(t *testing.T) (*UsersRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUsersRepository(db), mock
}

func TestUsersRepository_Update_TouchesUpdatedAt(t *testing.T) {
	repo, mock := newMockRepo(t)

	stale := time.Now().Add(-time.Hour)
	user := &domain.User{
		ID:        uuid.New(),
		Email:     "a@x.com",
		Name:      "A",
		UpdatedAt: stale,
	}

	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(context.Background(), user); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// The written timestamp must land on the entity, not only in SQL.
	if !user.UpdatedAt.After(stale) {
		t.Errorf("UpdatedAt = %v, want later than %v", user.UpdatedAt, stale)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUsersRepository_Update_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.User{ID: uuid.New()})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Update on missing row = %v, want ErrUserNotFound", err)
	}
}

func TestUsersRepository_GetByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("GetByEmail miss = %v, want ErrUserNotFound", err)
	}
}
