package listing

import "fmt"

// Dialect renders the SQL fragments that differ between the supported backends.
// Placeholders are always written as '?' and rebound by the executor.
type Dialect struct {
	name     string
	driver   string
	likeOp   string
	dateExpr string
}

var (
	// Postgres targets PostgreSQL through the pgx stdlib driver.
	Postgres = Dialect{name: "postgres", driver: "pgx", likeOp: "ILIKE", dateExpr: "CAST(%s AS DATE)"}
	// SQLite targets modernc.org/sqlite.
	SQLite = Dialect{name: "sqlite", driver: "sqlite", likeOp: "LIKE", dateExpr: "date(%s)"}
)

// DialectFor resolves a dialect from its configured name.
func DialectFor(name string) (Dialect, error) {
	switch name {
	case Postgres.name:
		return Postgres, nil
	case SQLite.name:
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("listing: unsupported dialect %q", name)
	}
}

// Name returns the configuration name of the dialect.
func (d Dialect) Name() string { return d.name }

// DriverName returns the database/sql driver the dialect expects.
func (d Dialect) DriverName() string { return d.driver }

// contains matches column against a LIKE pattern argument, case-insensitively.
func (d Dialect) contains(column string) string {
	return column + " " + d.likeOp + " ? ESCAPE '\\'"
}

func (d Dialect) dateOf(column string) string {
	return fmt.Sprintf(d.dateExpr, column)
}
