package listing

import (
	"strings"
	"sync/atomic"
)

// Resource names a listable entity.
type Resource string

// SortSpec maps a public sort name to the SQL expression ordered on.
type SortSpec struct {
	Field  string
	Column string
}

// SortOn declares a sortable field.
func SortOn(field, column string) SortSpec {
	return SortSpec{Field: field, Column: column}
}

// Definition is the allow-list and query shape of one resource.
type Definition struct {
	// Select is the column list of the row query, aliased to the row struct's db tags.
	Select string
	// From is the FROM clause, including any aggregate joins the filters and sorts refer to.
	From string
	// PrimaryKey is the default sort and the ordering tiebreaker.
	PrimaryKey SortSpec
	Filters    []FilterSpec
	Sorts      []SortSpec
}

func (d Definition) sort(field string) (SortSpec, bool) {
	if field == d.PrimaryKey.Field {
		return d.PrimaryKey, true
	}
	for _, spec := range d.Sorts {
		if spec.Field == field {
			return spec, true
		}
	}
	return SortSpec{}, false
}

// Registry holds the definitions of every listable resource. It is populated once at
// startup; the first Lookup seals it and later registrations are rejected.
type Registry struct {
	definitions map[Resource]Definition
	sealed      atomic.Bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[Resource]Definition)}
}

// Register validates and stores the definition of resource.
func (r *Registry) Register(resource Resource, def Definition) error {
	if r.sealed.Load() {
		return &ConfigurationError{Resource: resource, Reason: "registry is sealed"}
	}
	if _, exists := r.definitions[resource]; exists {
		return &ConfigurationError{Resource: resource, Reason: "registered twice"}
	}
	if err := validateDefinition(resource, def); err != nil {
		return err
	}
	r.definitions[resource] = def
	return nil
}

// MustRegister is Register for startup wiring, panicking on a bad definition.
func (r *Registry) MustRegister(resource Resource, def Definition) {
	if err := r.Register(resource, def); err != nil {
		panic(err)
	}
}

// Lookup returns the definition registered for resource.
func (r *Registry) Lookup(resource Resource) (Definition, error) {
	r.sealed.Store(true)
	def, ok := r.definitions[resource]
	if !ok {
		return Definition{}, &ConfigurationError{Resource: resource, Reason: "not registered"}
	}
	return def, nil
}

func validateDefinition(resource Resource, def Definition) error {
	fail := func(reason string) error {
		return &ConfigurationError{Resource: resource, Reason: reason}
	}
	if strings.TrimSpace(def.Select) == "" || strings.TrimSpace(def.From) == "" {
		return fail("select and from are required")
	}
	if def.PrimaryKey.Field == "" || def.PrimaryKey.Column == "" {
		return fail("primary key is required")
	}
	fields := make(map[string]struct{}, len(def.Filters))
	for _, spec := range def.Filters {
		if spec.Field == "" {
			return fail("filter without a field name")
		}
		if _, dup := fields[spec.Field]; dup {
			return fail("duplicate filter " + spec.Field)
		}
		fields[spec.Field] = struct{}{}
		switch spec.Kind {
		case ExactMatch, PartialMatch:
			if spec.Column == "" {
				return fail("filter " + spec.Field + " has no column")
			}
		case PredicateMatch:
			if spec.Predicate == nil {
				return fail("filter " + spec.Field + " has no predicate")
			}
		default:
			return fail("filter " + spec.Field + " has an unknown kind")
		}
	}
	sorts := map[string]struct{}{def.PrimaryKey.Field: {}}
	for _, spec := range def.Sorts {
		if spec.Field == "" || spec.Column == "" {
			return fail("sort without a field or column")
		}
		if _, dup := sorts[spec.Field]; dup && spec.Field != def.PrimaryKey.Field {
			return fail("duplicate sort " + spec.Field)
		}
		sorts[spec.Field] = struct{}{}
	}
	return nil
}
