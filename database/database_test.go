package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SqlDatabase {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return NewSqlDatabase(db)
}

func TestSqlDatabaseSelectAndWrite(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	require.NoError(t, db.PingContext(ctx))

	_, err := db.Write(ctx, "CREATE TABLE events (id INTEGER, name TEXT)")
	require.NoError(t, err)

	rs, err := db.Write(ctx, "INSERT INTO events VALUES (1, 'open'), (2, 'close')")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rs.RowsAffected)
	assert.Empty(t, rs.Rows)

	rs, err = db.Select(ctx, "SELECT id, name FROM events ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, rs.Columns)
	require.Equal(t, 2, rs.Len())
	assert.Equal(t, int64(1), rs.Rows[0]["id"])
	assert.Equal(t, "open", rs.Rows[0]["name"])
	assert.Equal(t, "close", rs.Rows[1]["name"])
}

func TestSqlDatabaseSelectError(t *testing.T) {
	db := openSQLite(t)
	_, err := db.Select(context.Background(), "SELECT * FROM missing")
	assert.Error(t, err)
}

func TestMemoryClient(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryClient().Respond(RowSet{Rows: []Row{{"x": 1}}})

	rs, err := m.Select(ctx, "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())

	rs, err = m.Write(ctx, "INSERT 1")
	require.NoError(t, err)
	assert.Equal(t, 0, rs.Len())

	boom := errors.New("boom")
	m.Fail(boom)
	_, err = m.Select(ctx, "SELECT 2")
	assert.Same(t, boom, err)

	calls := m.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, Call{Read: true, Query: "SELECT 1"}, calls[0])
	assert.Equal(t, Call{Read: false, Query: "INSERT 1"}, calls[1])

	last, ok := m.LastCall()
	require.True(t, ok)
	assert.Equal(t, "SELECT 2", last.Query)
}

func TestMemoryClientCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemoryClient().Select(ctx, "SELECT 1")
	assert.ErrorIs(t, err, context.Canceled)
}
