package warehouses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/stockroom/stockroom/internal/listing"
	"github.com/stockroom/stockroom/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, q listing.CompiledQuery, page, perPage int) (listing.Page[Warehouse], error)
	Options(ctx context.Context) ([]Option, error)
	Get(ctx context.Context, id int64) (Warehouse, error)
	Create(ctx context.Context, name string) (Warehouse, error)
	Update(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, q listing.CompiledQuery, page, perPage int) (listing.Page[Warehouse], error) {
	return listing.Paginate[Warehouse](ctx, r.db, q, page, perPage)
}

func (r *repository) Options(ctx context.Context) ([]Option, error) {
	options := []Option{}
	if err := r.db.SelectContext(ctx, &options, `SELECT id, name FROM warehouses ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("warehouses: options: %w", err)
	}
	return options, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Warehouse, error) {
	def := Definition()
	query := r.db.Rebind("SELECT " + def.Select + " FROM " + def.From + " WHERE warehouses.id = ?")
	var w Warehouse
	err := r.db.GetContext(ctx, &w, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Warehouse{}, fmt.Errorf("warehouse %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return Warehouse{}, fmt.Errorf("warehouses: get %d: %w", id, err)
	}
	return w, nil
}

func (r *repository) Create(ctx context.Context, name string) (Warehouse, error) {
	now := time.Now().UTC()
	query := r.db.Rebind(`INSERT INTO warehouses (name, created_at, updated_at) VALUES (?, ?, ?) RETURNING id`)
	w := Warehouse{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := r.db.QueryRowxContext(ctx, query, name, now, now).Scan(&w.ID); err != nil {
		return Warehouse{}, fmt.Errorf("warehouses: create: %w", err)
	}
	return w, nil
}

func (r *repository) Update(ctx context.Context, id int64, name string) error {
	query := r.db.Rebind(`UPDATE warehouses SET name = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, name, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("warehouses: update %d: %w", id, err)
	}
	return requireRow(res, id)
}

// Delete removes the warehouse; its stock allocations cascade.
func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM warehouses WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("warehouses: delete %d: %w", id, err)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("warehouse %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}
