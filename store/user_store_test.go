package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	createdAt := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("ops@example.com", []byte("hashed")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "created_at"}).
			AddRow(1, "ops@example.com", createdAt))

	s := NewUserStore(db)
	user, err := s.CreateUser(context.Background(), "ops@example.com", []byte("hashed"))
	require.NoError(t, err)

	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "ops@example.com", user.Email)
	assert.Equal(t, createdAt, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_GetUserByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, email, hashed_password, created_at").
		WithArgs("ops@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "created_at"}).
			AddRow(1, "ops@example.com", []byte("hashed"), time.Now()))

	s := NewUserStore(db)
	user, err := s.GetUserByEmail(context.Background(), "ops@example.com")
	require.NoError(t, err)

	assert.Equal(t, "ops@example.com", user.Email)
	assert.Equal(t, []byte("hashed"), user.HashedPassword)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_GetUserByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, email, hashed_password, created_at").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "created_at"}))

	s := NewUserStore(db)
	_, err = s.GetUserByEmail(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
