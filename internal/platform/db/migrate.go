package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies every pending schema migration for the handle's backend.
func Migrate(h *Handle) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations/"+h.Driver)
	if err != nil {
		return fmt.Errorf("platform/db: migration source: %w", err)
	}

	var dbDriver database.Driver
	switch h.Driver {
	case DriverPostgres:
		dbDriver, err = pgxmigrate.WithInstance(h.DB.DB, &pgxmigrate.Config{})
	case DriverSQLite:
		dbDriver, err = sqlitemigrate.WithInstance(h.DB.DB, &sqlitemigrate.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", h.Driver)
	}
	if err != nil {
		return fmt.Errorf("platform/db: migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, h.Driver, dbDriver)
	if err != nil {
		return fmt.Errorf("platform/db: create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("platform/db: apply migrations: %w", err)
	}

	return nil
}
