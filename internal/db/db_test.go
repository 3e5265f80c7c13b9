package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, "./todo.db?_pragma=foreign_keys(1)", DSN("./todo.db"))
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)", DSN(":memory:"))
	assert.Equal(t, "file:todo.db?mode=rwc&_pragma=foreign_keys(1)", DSN("file:todo.db?mode=rwc"))
}

func TestOpen_ForeignKeysOnEveryConnection(t *testing.T) {
	ctx := context.Background()
	pool, err := Open(ctx, filepath.Join(t.TempDir(), "todo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	// Hold two connections at once so the pool has to open a second one.
	first, err := pool.Connx(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := pool.Connx(ctx)
	require.NoError(t, err)
	defer second.Close()

	for i, conn := range []interface {
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}{first, second} {
		var enabled int
		require.NoError(t, conn.GetContext(ctx, &enabled, "PRAGMA foreign_keys"))
		assert.Equal(t, 1, enabled, "connection %d", i)
	}

	_, err = second.ExecContext(ctx, `INSERT INTO items (name, user_id) VALUES ('milk', 999)`)
	assert.Error(t, err, "item owned by a missing user must be refused")
}
