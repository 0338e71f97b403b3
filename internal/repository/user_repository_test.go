package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"lguportal/portal/internal/models"
)

func TestMapInsertError(t *testing.T) {
	require.NoError(t, mapInsertError(nil))

	plain := errors.New("connection reset")
	require.Same(t, plain, mapInsertError(plain))

	named := &pgconn.PgError{Code: "23505", TableName: "users", ConstraintName: "users_email_key"}
	require.ErrorIs(t, mapInsertError(named), ErrEmailTaken)

	wrapped := fmt.Errorf("exec: %w", named)
	require.ErrorIs(t, mapInsertError(wrapped), ErrEmailTaken)

	legacyName := &pgconn.PgError{Code: "23505", TableName: "users", ConstraintName: "users_email_unique"}
	require.ErrorIs(t, mapInsertError(legacyName), ErrEmailTaken)

	primaryKey := &pgconn.PgError{Code: "23505", TableName: "users", ConstraintName: "users_pkey"}
	err := mapInsertError(primaryKey)
	require.NotErrorIs(t, err, ErrEmailTaken)
	require.Same(t, error(primaryKey), err)

	otherTable := &pgconn.PgError{Code: "23505", TableName: "user_sessions", ConstraintName: "user_sessions_token_hash_key"}
	require.NotErrorIs(t, mapInsertError(otherTable), ErrEmailTaken)

	notNull := &pgconn.PgError{Code: "23502", TableName: "users", ColumnName: "full_name"}
	require.NotErrorIs(t, mapInsertError(notNull), ErrEmailTaken)
}

func TestSingleUser(t *testing.T) {
	_, err := singleUser(nil)
	require.ErrorIs(t, err, ErrUserNotFound)

	user, err := singleUser([]models.User{{ID: "u1", Email: "a@b.com"}})
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)

	_, err = singleUser([]models.User{{ID: "u1", Email: "a@b.com"}, {ID: "u2", Email: "a@b.com"}})
	require.ErrorIs(t, err, ErrDuplicateUserRecords)
}
