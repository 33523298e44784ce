// Package testdb opens an in-memory SQLite database loaded with a small HR
// dataset for tests.
package testdb

import (
	"context"
	_ "embed"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lvillar/hrdocs/store/sqlstore"
)

//go:embed schema.sql
var schema string

//go:embed seed.sql
var seed string

// Open returns a seeded store that is closed when the test ends.
func Open(t testing.TB) *sqlstore.Store {
	t.Helper()
	s := OpenEmpty(t)
	_, err := s.DB().ExecContext(context.Background(), seed)
	require.NoError(t, err)
	return s
}

// OpenEmpty returns a store with the schema but no rows.
func OpenEmpty(t testing.TB) *sqlstore.Store {
	t.Helper()
	ctx := context.Background()
	s, err := sqlstore.Open(ctx, "sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.DB().ExecContext(ctx, schema)
	require.NoError(t, err)
	return s
}

// Exec runs a statement against the store, failing the test on error.
func Exec(t testing.TB, s *sqlstore.Store, stmt string, args ...any) {
	t.Helper()
	_, err := s.DB().ExecContext(context.Background(), stmt, args...)
	require.NoError(t, err)
}

// File writes a seeded SQLite database into a temporary directory and
// returns its path, for code that opens the database by DSN.
func File(t testing.TB) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hr.db")
	s, err := sqlstore.Open(ctx, "sqlite", path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.DB().ExecContext(ctx, schema)
	require.NoError(t, err)
	_, err = s.DB().ExecContext(ctx, seed)
	require.NoError(t, err)
	return path
}
