package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/starydv7/puzzle/internal/db"
	"github.com/starydv7/puzzle/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "puzzle.db")
	ctx := context.Background()

	first, err := db.Open(ctx, path)
	require.NoError(t, err)

	var count int
	require.NoError(t, first.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	names, err := db.Migrations()
	require.NoError(t, err)
	assert.Equal(t, len(names), count)

	_, err = first.ExecContext(ctx, `INSERT INTO kv_store (key, value) VALUES ('k', 'v')`)
	require.NoError(t, err)
	testutil.MustClose(t, first)

	second, err := db.Open(ctx, path)
	require.NoError(t, err)
	defer testutil.MustClose(t, second)

	var value string
	require.NoError(t, second.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = 'k'`).Scan(&value))
	assert.Equal(t, "v", value)
}

func TestMigrations_Ordered(t *testing.T) {
	names, err := db.Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_kv_store.sql", names[0])
	assert.IsIncreasing(t, names)
}
