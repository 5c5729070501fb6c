// Package dbtest opens throwaway migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/scholarkeeper/internal/migrations"

	_ "modernc.org/sqlite"
)

// Open returns an in-memory database with the full schema applied. The pool
// is pinned to one connection because every :memory: connection is a
// separate database.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

// FixedClock returns a clock that always reports t.
func FixedClock(t0 string) func() time.Time {
	ts, err := time.Parse(time.RFC3339, t0)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return ts }
}
