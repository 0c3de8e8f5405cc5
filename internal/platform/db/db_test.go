package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/stockroom/internal/platform/db"
	"github.com/stockroom/stockroom/internal/testing/dbtest"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := db.Open(context.Background(), db.Options{Driver: "oracle"})
	require.Error(t, err)
}

func TestMigrateIsRepeatable(t *testing.T) {
	h := dbtest.SQLite(t)
	require.NoError(t, db.Migrate(h))

	var tables []string
	require.NoError(t, h.DB.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('products', 'warehouses', 'product_warehouse', 'users', 'posts', 'comments') ORDER BY name`))
	require.Equal(t, []string{"comments", "posts", "product_warehouse", "products", "users", "warehouses"}, tables)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	h := dbtest.SQLite(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTx(ctx, h.DB, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO warehouses (name, created_at, updated_at) VALUES ('Gudang A', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, h.DB.Get(&count, `SELECT COUNT(*) FROM warehouses`))
	require.Zero(t, count)

	require.NoError(t, db.WithTx(ctx, h.DB, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO warehouses (name, created_at, updated_at) VALUES ('Gudang B', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
		return err
	}))
	require.NoError(t, h.DB.Get(&count, `SELECT COUNT(*) FROM warehouses`))
	require.Equal(t, 1, count)
}

func TestConstraintClassification(t *testing.T) {
	h := dbtest.SQLite(t)
	dbtest.Exec(t, h,
		`INSERT INTO users (name, email, password, created_at, updated_at) VALUES ('Ana', 'ana@example.com', 'x', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)

	_, err := h.DB.Exec(`INSERT INTO users (name, email, password, created_at, updated_at) VALUES ('Ana 2', 'ana@example.com', 'x', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	require.Error(t, err)
	require.True(t, db.IsUniqueViolation(err))
	require.False(t, db.IsForeignKeyViolation(err))

	_, err = h.DB.Exec(`INSERT INTO posts (user_id, title, created_at, updated_at) VALUES (999, 'orphan', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	require.Error(t, err)
	require.True(t, db.IsForeignKeyViolation(err))

	require.False(t, db.IsUniqueViolation(errors.New("plain")))
}
