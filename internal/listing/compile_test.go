package listing

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testResource Resource = "products"

func testDefinition() Definition {
	return Definition{
		Select:     "products.id AS id, products.title AS title",
		From:       "products LEFT JOIN stock ON stock.product_id = products.id",
		PrimaryKey: SortOn("id", "products.id"),
		Filters: []FilterSpec{
			ExactInt("id", "products.id"),
			Partial("title", "products.title"),
			Exact("color", "products.color"),
			Scoped("total_quantity", AggregateEquals{Expr: "COALESCE(stock.total_quantity, 0)"}),
			Scoped("created_on", DateOn{Column: "products.created_at"}),
			Scoped("warehouses", HasAll{Table: "product_warehouse", OwnerColumn: "product_id", RefColumn: "warehouse_id", Owner: "products.id"}),
			Scoped("below_minimum", BelowMinimum{Aggregate: "COALESCE(stock.total_quantity, 0)", Minimum: "products.min_stock"}),
			Scoped("verified", NullState{Column: "products.checked_at", Present: "verified", Absent: "unverified"}),
		},
		Sorts: []SortSpec{
			SortOn("title", "products.title"),
			SortOn("total_quantity", "COALESCE(stock.total_quantity, 0)"),
		},
	}
}

func newTestCompiler(t *testing.T, opts ...CompilerOption) *Compiler {
	t.Helper()
	registry := NewRegistry()
	require.NoError(t, registry.Register(testResource, testDefinition()))
	return NewCompiler(registry, Postgres, opts...)
}

func TestLookupUnknownResource(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Lookup("ghosts")

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, Resource("ghosts"), cfgErr.Resource)

	_, err = NewCompiler(registry, Postgres).Compile("ghosts", QueryRequest{})
	require.ErrorAs(t, err, &cfgErr)
}

func TestRegisterRejectsBadDefinitions(t *testing.T) {
	dup := testDefinition()
	dup.Filters = append(dup.Filters, Partial("title", "products.name"))

	noPredicate := testDefinition()
	noPredicate.Filters = []FilterSpec{{Field: "below_minimum", Kind: PredicateMatch}}

	noKey := testDefinition()
	noKey.PrimaryKey = SortSpec{}

	for name, def := range map[string]Definition{"duplicate filter": dup, "missing predicate": noPredicate, "missing key": noKey} {
		t.Run(name, func(t *testing.T) {
			err := NewRegistry().Register(testResource, def)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestRegistrySealsOnLookup(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(testResource, testDefinition())
	_, err := registry.Lookup(testResource)
	require.NoError(t, err)

	err = registry.Register("warehouses", testDefinition())
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "sealed")
}

func TestCompileFilters(t *testing.T) {
	compiler := newTestCompiler(t)

	tests := []struct {
		name    string
		filters map[string]string
		want    []Restriction
	}{
		{
			name:    "exact integer",
			filters: map[string]string{"id": "7"},
			want:    []Restriction{{Field: "id", Clause: "products.id = ?", Args: []any{int64(7)}}},
		},
		{
			name:    "exact text",
			filters: map[string]string{"color": "teal"},
			want:    []Restriction{{Field: "color", Clause: "products.color = ?", Args: []any{"teal"}}},
		},
		{
			name:    "partial escapes wildcards",
			filters: map[string]string{"title": "50%_off"},
			want:    []Restriction{{Field: "title", Clause: `products.title ILIKE ? ESCAPE '\'`, Args: []any{`%50\%\_off%`}}},
		},
		{
			name:    "aggregate equals",
			filters: map[string]string{"total_quantity": "12"},
			want:    []Restriction{{Field: "total_quantity", Clause: "COALESCE(stock.total_quantity, 0) = ?", Args: []any{int64(12)}}},
		},
		{
			name:    "below minimum on",
			filters: map[string]string{"below_minimum": "1"},
			want:    []Restriction{{Field: "below_minimum", Clause: "COALESCE(stock.total_quantity, 0) < products.min_stock"}},
		},
		{
			name:    "below minimum off",
			filters: map[string]string{"below_minimum": "0"},
		},
		{
			name:    "has all dedupes ids",
			filters: map[string]string{"warehouses": "2, 1,2,,"},
			want: []Restriction{{
				Field: "warehouses",
				Clause: "EXISTS (SELECT 1 FROM product_warehouse WHERE product_warehouse.product_id = products.id AND product_warehouse.warehouse_id = ?)" +
					" AND EXISTS (SELECT 1 FROM product_warehouse WHERE product_warehouse.product_id = products.id AND product_warehouse.warehouse_id = ?)",
				Args: []any{int64(2), int64(1)},
			}},
		},
		{
			name:    "date on",
			filters: map[string]string{"created_on": "2024-03-05"},
			want:    []Restriction{{Field: "created_on", Clause: "CAST(products.created_at AS DATE) = ?", Args: []any{"2024-03-05"}}},
		},
		{
			name:    "null state",
			filters: map[string]string{"verified": "unverified"},
			want:    []Restriction{{Field: "verified", Clause: "products.checked_at IS NULL"}},
		},
		{
			name:    "blank values ignored",
			filters: map[string]string{"title": "  ", "color": ""},
		},
		{
			name:    "malformed numbers disable the filter",
			filters: map[string]string{"id": "seven", "total_quantity": "1e3", "created_on": "yesterday"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := compiler.Compile(testResource, QueryRequest{Filters: tc.filters})
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, q.Restrictions); diff != "" {
				t.Fatalf("restrictions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompileCombinesWithAnd(t *testing.T) {
	compiler := newTestCompiler(t)
	q, err := compiler.Compile(testResource, QueryRequest{Filters: map[string]string{
		"below_minimum": "yes",
		"color":         "red",
	}})
	require.NoError(t, err)

	where, args := q.Where()
	assert.Equal(t, " WHERE (products.color = ?) AND (COALESCE(stock.total_quantity, 0) < products.min_stock)", where)
	assert.Equal(t, []any{"red"}, args)
}

func TestCompileSort(t *testing.T) {
	compiler := newTestCompiler(t)

	tests := []struct {
		sort    string
		want    Sort
		orderBy string
	}{
		{"", Sort{Field: "id", Column: "products.id"}, "products.id ASC"},
		{"-id", Sort{Field: "id", Column: "products.id", Descending: true}, "products.id DESC"},
		{"-title", Sort{Field: "title", Column: "products.title", Descending: true}, "products.title DESC, products.id ASC"},
		{"total_quantity", Sort{Field: "total_quantity", Column: "COALESCE(stock.total_quantity, 0)"}, "COALESCE(stock.total_quantity, 0) ASC, products.id ASC"},
		{"bogus_field", Sort{Field: "id", Column: "products.id"}, "products.id ASC"},
		{"title,-id", Sort{Field: "id", Column: "products.id"}, "products.id ASC"},
		{"--title", Sort{Field: "id", Column: "products.id"}, "products.id ASC"},
	}
	for _, tc := range tests {
		t.Run(tc.sort, func(t *testing.T) {
			q, err := compiler.Compile(testResource, QueryRequest{Sort: tc.sort})
			require.NoError(t, err)
			assert.Equal(t, tc.want, q.Sort)
			assert.Equal(t, tc.orderBy, q.OrderBy())
		})
	}
}

func TestCompileIsIdempotent(t *testing.T) {
	compiler := newTestCompiler(t)
	req := QueryRequest{
		Sort: "-total_quantity",
		Filters: map[string]string{
			"title":         "bolt",
			"warehouses":    "3,1",
			"below_minimum": "1",
			"created_on":    "2024-01-31",
		},
	}
	first, err := compiler.Compile(testResource, req)
	require.NoError(t, err)
	second, err := compiler.Compile(testResource, req)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("compile is not idempotent (-first +second):\n%s", diff)
	}
}

func TestCompileIgnoresUnregisteredKeys(t *testing.T) {
	compiler := newTestCompiler(t)
	registered := make(map[string]struct{})
	for _, spec := range testDefinition().Filters {
		registered[spec.Field] = struct{}{}
	}

	f := fuzz.New().NilChance(0).NumElements(1, 25)
	for i := 0; i < 500; i++ {
		var filters map[string]string
		var sort string
		f.Fuzz(&filters)
		f.Fuzz(&sort)
		for key := range filters {
			if _, ok := registered[key]; ok {
				delete(filters, key)
			}
		}

		q, err := compiler.Compile(testResource, QueryRequest{Sort: sort, Filters: filters})
		require.NoError(t, err)
		require.Empty(t, q.Restrictions, "filters %v", filters)
	}
}

func TestCompileStrictValues(t *testing.T) {
	compiler := newTestCompiler(t, WithStrictValues(true))

	for field, value := range map[string]string{
		"id":             "abc",
		"total_quantity": "1.5",
		"warehouses":     "1,x",
		"created_on":     "31/01/2024",
		"verified":       "maybe",
	} {
		t.Run(field, func(t *testing.T) {
			_, err := compiler.Compile(testResource, QueryRequest{Filters: map[string]string{field: value}})
			var invalidErr *InvalidFilterError
			require.True(t, errors.As(err, &invalidErr), "got %v", err)
			assert.Equal(t, field, invalidErr.Field)
		})
	}

	q, err := compiler.Compile(testResource, QueryRequest{Filters: map[string]string{"warehouses": "1,2"}})
	require.NoError(t, err)
	require.Len(t, q.Restrictions, 1)
}

func TestLooseHasAllKeepsWellFormedIDs(t *testing.T) {
	compiler := newTestCompiler(t)
	q, err := compiler.Compile(testResource, QueryRequest{Filters: map[string]string{"warehouses": "4,abc,-2"}})
	require.NoError(t, err)
	require.Len(t, q.Restrictions, 1)
	assert.Equal(t, []any{int64(4)}, q.Restrictions[0].Args)
}

func TestSQLiteDialectFragments(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(testResource, testDefinition())
	compiler := NewCompiler(registry, SQLite)

	q, err := compiler.Compile(testResource, QueryRequest{Filters: map[string]string{"title": "Bolt", "created_on": "2024-03-05"}})
	require.NoError(t, err)
	require.Len(t, q.Restrictions, 2)
	assert.Equal(t, `products.title LIKE ? ESCAPE '\'`, q.Restrictions[0].Clause)
	assert.Equal(t, "date(products.created_at) = ?", q.Restrictions[1].Clause)
}
