package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Supported values of Options.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options selects and locates the backing database.
type Options struct {
	Driver      string
	PostgresDSN string
	SQLitePath  string
	AutoMigrate bool
}

// Handle is an open database together with the name of its backend.
type Handle struct {
	DB     *sqlx.DB
	Driver string
	close  func()
}

// Close releases the connection pool.
func (h *Handle) Close() {
	if h != nil && h.close != nil {
		h.close()
	}
}

// Open connects to the configured backend and applies pending migrations when
// opts.AutoMigrate is set.
func Open(ctx context.Context, opts Options) (*Handle, error) {
	var (
		h   *Handle
		err error
	)
	switch opts.Driver {
	case DriverPostgres:
		h, err = OpenPostgres(ctx, opts.PostgresDSN)
	case DriverSQLite:
		h, err = OpenSQLite(ctx, opts.SQLitePath)
	default:
		return nil, fmt.Errorf("platform/db: unsupported driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	if opts.AutoMigrate {
		if err := Migrate(h); err != nil {
			h.Close()
			return nil, err
		}
	}
	return h, nil
}
