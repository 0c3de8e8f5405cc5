package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// New creates a new PostgreSQL connection pool.
func New(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("platform/db: parse config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("platform/db: new pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("platform/db: ping: %w", err)
	}

	return pool, nil
}

// OpenPostgres exposes a pgx pool through database/sql so the listing executor and
// repositories can share one code path with SQLite.
func OpenPostgres(ctx context.Context, dsn string) (*Handle, error) {
	pool, err := New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	sqlDB := stdlib.OpenDBFromPool(pool)
	return &Handle{
		DB:     sqlx.NewDb(sqlDB, "pgx"),
		Driver: DriverPostgres,
		close: func() {
			_ = sqlDB.Close()
			pool.Close()
		},
	}, nil
}
