package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/starydv7/puzzle/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection keeps every query on the same in-memory database.
func NewTestDB(t *testing.T) *sql.DB {
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)

	names, err := db.Migrations()
	require.NoError(t, err)
	for _, name := range names {
		body, err := db.MigrationSQL(name)
		require.NoError(t, err, "failed to read migration %s", name)

		_, err = conn.Exec(body)
		require.NoError(t, err, "failed to apply migration %s", name)
	}

	return conn
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
