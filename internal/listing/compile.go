package listing

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Restriction is one boolean SQL condition with '?' placeholders.
type Restriction struct {
	Field  string
	Clause string
	Args   []any
}

// Sort is the validated ordering of a compiled query.
type Sort struct {
	Field      string
	Column     string
	Descending bool
}

// String renders the sort in query-string form (`field` or `-field`).
func (s Sort) String() string {
	if s.Descending {
		return "-" + s.Field
	}
	return s.Field
}

// CompiledQuery is a resource query with its restrictions and sort resolved.
type CompiledQuery struct {
	Resource     Resource
	Select       string
	From         string
	PrimaryKey   string
	Restrictions []Restriction
	Sort         Sort
}

// Where renders the AND of all restrictions, or "" when there are none.
func (q CompiledQuery) Where() (string, []any) {
	if len(q.Restrictions) == 0 {
		return "", nil
	}
	clauses := make([]string, len(q.Restrictions))
	var args []any
	for i, r := range q.Restrictions {
		clauses[i] = "(" + r.Clause + ")"
		args = append(args, r.Args...)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// OrderBy renders the ORDER BY expression with the primary key as tiebreaker.
func (q CompiledQuery) OrderBy() string {
	dir := " ASC"
	if q.Sort.Descending {
		dir = " DESC"
	}
	if q.Sort.Column == q.PrimaryKey {
		return q.Sort.Column + dir
	}
	return q.Sort.Column + dir + ", " + q.PrimaryKey + " ASC"
}

// Compiler translates QueryRequests against a registry.
type Compiler struct {
	registry *Registry
	dialect  Dialect
	strict   bool
}

// CompilerOption customises a Compiler.
type CompilerOption func(*Compiler)

// WithStrictValues makes malformed filter values an *InvalidFilterError instead of
// silently disabling the filter.
func WithStrictValues(strict bool) CompilerOption {
	return func(c *Compiler) {
		c.strict = strict
	}
}

// NewCompiler builds a Compiler for one SQL dialect.
func NewCompiler(registry *Registry, dialect Dialect, opts ...CompilerOption) *Compiler {
	c := &Compiler{registry: registry, dialect: dialect}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dialect returns the dialect the compiler renders for.
func (c *Compiler) Dialect() Dialect { return c.dialect }

// Definition returns the definition registered for resource. Services call it
// while being wired so a missing registration fails at startup.
func (c *Compiler) Definition(resource Resource) (Definition, error) {
	return c.registry.Lookup(resource)
}

// Compile validates req against the resource definition. Filters and sorts that are
// not declared are ignored.
func (c *Compiler) Compile(resource Resource, req QueryRequest) (CompiledQuery, error) {
	def, err := c.registry.Lookup(resource)
	if err != nil {
		return CompiledQuery{}, err
	}
	q := CompiledQuery{
		Resource:   resource,
		Select:     def.Select,
		From:       def.From,
		PrimaryKey: def.PrimaryKey.Column,
		Sort:       resolveSort(def, req.Sort),
	}
	// Walk the declared filters, not the request, so restriction order is stable
	// and undeclared keys are never looked at.
	for _, spec := range def.Filters {
		raw := strings.TrimSpace(req.Filters[spec.Field])
		if raw == "" {
			continue
		}
		r, ok, err := c.restrict(spec, raw)
		if err != nil && c.strict {
			return CompiledQuery{}, err
		}
		if ok {
			q.Restrictions = append(q.Restrictions, r)
		}
	}
	return q, nil
}

func (c *Compiler) restrict(spec FilterSpec, raw string) (Restriction, bool, error) {
	switch spec.Kind {
	case ExactMatch:
		if spec.Type == IntegerValue {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return Restriction{}, false, invalid(spec.Field, raw, "integer")
			}
			return Restriction{Field: spec.Field, Clause: spec.Column + " = ?", Args: []any{n}}, true, nil
		}
		return Restriction{Field: spec.Field, Clause: spec.Column + " = ?", Args: []any{raw}}, true, nil
	case PartialMatch:
		pattern := "%" + escapeLike(norm.NFC.String(raw)) + "%"
		return Restriction{Field: spec.Field, Clause: c.dialect.contains(spec.Column), Args: []any{pattern}}, true, nil
	case PredicateMatch:
		return spec.Predicate.restrict(spec.Field, raw, c.dialect)
	default:
		return Restriction{}, false, nil
	}
}

func resolveSort(def Definition, raw string) Sort {
	fallback := Sort{Field: def.PrimaryKey.Field, Column: def.PrimaryKey.Column}
	if raw == "" {
		return fallback
	}
	desc := strings.HasPrefix(raw, "-")
	spec, ok := def.sort(strings.TrimPrefix(raw, "-"))
	if !ok {
		return fallback
	}
	return Sort{Field: spec.Field, Column: spec.Column, Descending: desc}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
