package listing

import (
	"strconv"
	"strings"
	"time"
)

// Predicate is a typed scoped filter. The set of implementations is closed: each one
// parses the raw value into its own parameter type before producing a restriction.
type Predicate interface {
	// restrict returns the restriction for raw, or ok=false when raw disables the
	// predicate. err is non-nil when raw is malformed; a best-effort restriction
	// built from the well-formed part of raw may still come back with ok=true.
	restrict(field, raw string, d Dialect) (r Restriction, ok bool, err error)
}

// AggregateEquals matches rows whose aggregate expression equals an integer. Expr must
// read from the aggregated join declared in the resource's From clause.
type AggregateEquals struct {
	Expr string
}

func (p AggregateEquals) restrict(field, raw string, _ Dialect) (Restriction, bool, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Restriction{}, false, invalid(field, raw, "integer")
	}
	return Restriction{Field: field, Clause: p.Expr + " = ?", Args: []any{n}}, true, nil
}

// BelowMinimum matches rows whose aggregate is strictly less than their minimum
// column. Any value other than "" and "0" switches it on.
type BelowMinimum struct {
	Aggregate string
	Minimum   string
}

func (p BelowMinimum) restrict(field, raw string, _ Dialect) (Restriction, bool, error) {
	if raw == "" || raw == "0" {
		return Restriction{}, false, nil
	}
	return Restriction{Field: field, Clause: p.Aggregate + " < " + p.Minimum}, true, nil
}

// HasAll matches owners associated with every id in a comma separated list.
type HasAll struct {
	// Table is the association table.
	Table string
	// OwnerColumn is the association column pointing back at the listed row.
	OwnerColumn string
	// RefColumn is the association column holding the listed ids.
	RefColumn string
	// Owner is the listed row's key expression.
	Owner string
}

func (p HasAll) restrict(field, raw string, _ Dialect) (Restriction, bool, error) {
	ids, err := parseIDList(raw)
	if err != nil {
		err = invalid(field, raw, "comma separated id list")
	}
	if len(ids) == 0 {
		return Restriction{}, false, err
	}
	exists := "EXISTS (SELECT 1 FROM " + p.Table + " WHERE " + p.Table + "." + p.OwnerColumn + " = " + p.Owner +
		" AND " + p.Table + "." + p.RefColumn + " = ?)"
	clauses := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		clauses[i] = exists
		args[i] = id
	}
	return Restriction{Field: field, Clause: strings.Join(clauses, " AND "), Args: args}, true, err
}

// DateOn matches rows whose timestamp column falls on a calendar day (YYYY-MM-DD).
type DateOn struct {
	Column string
}

// DateLayout is the accepted DateOn value format.
const DateLayout = "2006-01-02"

func (p DateOn) restrict(field, raw string, d Dialect) (Restriction, bool, error) {
	day, err := time.Parse(DateLayout, raw)
	if err != nil {
		return Restriction{}, false, invalid(field, raw, "date")
	}
	return Restriction{Field: field, Clause: d.dateOf(p.Column) + " = ?", Args: []any{day.Format(DateLayout)}}, true, nil
}

// NullState matches on whether a nullable column is set: Present selects non-null
// rows, Absent selects null rows.
type NullState struct {
	Column  string
	Present string
	Absent  string
}

func (p NullState) restrict(field, raw string, _ Dialect) (Restriction, bool, error) {
	switch raw {
	case p.Present:
		return Restriction{Field: field, Clause: p.Column + " IS NOT NULL"}, true, nil
	case p.Absent:
		return Restriction{Field: field, Clause: p.Column + " IS NULL"}, true, nil
	default:
		return Restriction{}, false, invalid(field, raw, p.Present+" or "+p.Absent)
	}
}

// parseIDList splits a comma separated list of positive ids, dropping blanks and
// duplicates while keeping first-seen order. Malformed entries are skipped and
// reported through err.
func parseIDList(raw string) ([]int64, error) {
	var (
		ids     []int64
		seen    = make(map[int64]struct{})
		badPart error
	)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			badPart = strconv.ErrSyntax
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, badPart
}
