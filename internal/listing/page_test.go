package listing

import (
	"context"
	"errors"
	"math"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type titleRow struct {
	ID    int64  `db:"id"`
	Title string `db:"title"`
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		_ = db.Close()
	})
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestNewPageEnvelope(t *testing.T) {
	tests := []struct {
		name             string
		page, per, total int
		wantLast         int
	}{
		{"empty result", 1, 10, 0, 1},
		{"exact fit", 2, 10, 20, 2},
		{"partial last page", 1, 10, 21, 3},
		{"past the end", 999, 10, 15, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPage[int](nil, tc.page, tc.per, tc.total)
			assert.Equal(t, tc.wantLast, p.LastPage)
			assert.Equal(t, tc.page, p.CurrentPage)
			assert.NotNil(t, p.Items)
		})
	}
}

func TestMapPageKeepsEnvelope(t *testing.T) {
	p := NewPage([]int{1, 2}, 3, 2, 9)
	mapped := MapPage(p, func(n int) string { return string(rune('a' + n)) })
	assert.Equal(t, []string{"b", "c"}, mapped.Items)
	assert.Equal(t, 3, mapped.CurrentPage)
	assert.Equal(t, 5, mapped.LastPage)
	assert.Equal(t, 9, mapped.Total)
}

func TestPaginateQueries(t *testing.T) {
	db, mock := newMockDB(t)
	q := CompiledQuery{
		Resource:     testResource,
		Select:       "products.id AS id, products.title AS title",
		From:         "products",
		PrimaryKey:   "products.id",
		Restrictions: []Restriction{{Field: "color", Clause: "products.color = ?", Args: []any{"red"}}},
		Sort:         Sort{Field: "title", Column: "products.title", Descending: true},
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE (products.color = ?)")).
		WithArgs("red").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT products.id AS id, products.title AS title FROM products WHERE (products.color = ?) ORDER BY products.title DESC, products.id ASC LIMIT ? OFFSET ?")).
		WithArgs("red", int64(2), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(1, "Anvil"))

	page, err := Paginate[titleRow](context.Background(), db, q, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []titleRow{{ID: 1, Title: "Anvil"}}, page.Items)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.LastPage)
	assert.Equal(t, 3, page.Total)
}

func TestPaginatePastLastPageSkipsRowQuery(t *testing.T) {
	db, mock := newMockDB(t)
	q := CompiledQuery{Resource: testResource, Select: "products.id AS id", From: "products", PrimaryKey: "products.id",
		Sort: Sort{Field: "id", Column: "products.id"}}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(15))

	page, err := Paginate[titleRow](context.Background(), db, q, 999, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 999, page.CurrentPage)
	assert.Equal(t, 2, page.LastPage)
	assert.Equal(t, 15, page.Total)
}

func TestPaginateHugePageDoesNotWrapOffset(t *testing.T) {
	db, mock := newMockDB(t)
	q := CompiledQuery{Resource: testResource, Select: "products.id AS id", From: "products", PrimaryKey: "products.id",
		Sort: Sort{Field: "id", Column: "products.id"}}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	huge := math.MaxInt/2 + 2
	page, err := Paginate[titleRow](context.Background(), db, q, huge, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, huge, page.CurrentPage)
	assert.Equal(t, 2, page.LastPage)
	assert.Equal(t, 4, page.Total)
}

func TestPaginateWrapsPersistenceErrors(t *testing.T) {
	db, mock := newMockDB(t)
	q := CompiledQuery{Resource: testResource, Select: "products.id AS id", From: "products", PrimaryKey: "products.id",
		Sort: Sort{Field: "id", Column: "products.id"}}

	connErr := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).WillReturnError(connErr)

	_, err := Paginate[titleRow](context.Background(), db, q, 1, 10)
	require.ErrorIs(t, err, ErrPersistence)
	require.ErrorIs(t, err, connErr)
}
