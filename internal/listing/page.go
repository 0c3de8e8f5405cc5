package listing

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DefaultPerPage is the page size used when none is configured.
const DefaultPerPage = 10

// Page is one page of an offset-paginated result.
type Page[T any] struct {
	Items       []T `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// NewPage builds the envelope for items taken from a result set of total rows.
func NewPage[T any](items []T, page, perPage, total int) Page[T] {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}
	if items == nil {
		items = []T{}
	}
	last := (total + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}
	return Page[T]{Items: items, CurrentPage: page, LastPage: last, PerPage: perPage, Total: total}
}

// MapPage converts every item of p, keeping the envelope.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return Page[U]{Items: items, CurrentPage: p.CurrentPage, LastPage: p.LastPage, PerPage: p.PerPage, Total: p.Total}
}

// Queryer is satisfied by *sqlx.DB and *sqlx.Tx.
type Queryer interface {
	sqlx.QueryerContext
	Rebind(query string) string
}

// Paginate counts the rows matching q and fetches page number page. A page past the
// end yields no items but keeps the requested page number and the true totals.
func Paginate[T any](ctx context.Context, db Queryer, q CompiledQuery, page, perPage int) (Page[T], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	where, args := q.Where()

	var total int
	countQuery := db.Rebind("SELECT COUNT(*) FROM " + q.From + where)
	if err := sqlx.GetContext(ctx, db, &total, countQuery, args...); err != nil {
		return Page[T]{}, fmt.Errorf("%w: count %s: %w", ErrPersistence, q.Resource, err)
	}

	items := make([]T, 0, perPage)
	if last := (total + perPage - 1) / perPage; page <= last {
		offset := (page - 1) * perPage
		rowQuery := db.Rebind("SELECT " + q.Select + " FROM " + q.From + where +
			" ORDER BY " + q.OrderBy() + " LIMIT ? OFFSET ?")
		rowArgs := append(append([]any{}, args...), perPage, offset)
		if err := sqlx.SelectContext(ctx, db, &items, rowQuery, rowArgs...); err != nil {
			return Page[T]{}, fmt.Errorf("%w: select %s: %w", ErrPersistence, q.Resource, err)
		}
	}
	return NewPage(items, page, perPage, total), nil
}
