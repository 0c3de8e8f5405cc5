// Package dbtest opens throwaway, fully migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockroom/stockroom/internal/platform/db"
	_ "github.com/stockroom/stockroom/internal/testing/guard"
)

// SQLite returns a migrated database living in the test's temp dir.
func SQLite(t testing.TB) *db.Handle {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h, err := db.Open(ctx, db.Options{
		Driver:      db.DriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "stockroom.db"),
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(h.Close)
	return h
}

// Exec runs raw fixture statements, failing the test on the first error.
func Exec(t testing.TB, h *db.Handle, statements ...string) {
	t.Helper()
	for _, stmt := range statements {
		_, err := h.DB.Exec(stmt)
		require.NoError(t, err, stmt)
	}
}
