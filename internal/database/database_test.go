package database

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
	wrapped := fmt.Errorf("create user: %w", dup)

	assert.True(t, IsUniqueViolation(wrapped, "idx_users_email"))
	assert.True(t, IsUniqueViolation(dup, ""))
	assert.False(t, IsUniqueViolation(dup, "idx_users_username"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(fmt.Errorf("boom"), ""))
}

type note struct {
	ID   int64
	Body string
}

func TestConnectQuiet_MigrateSQLite(t *testing.T) {
	db, err := ConnectQuiet("file:database_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db, &note{}))

	require.NoError(t, db.Create(&note{Body: "hello"}).Error)
	var count int64
	require.NoError(t, db.Model(&note{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
