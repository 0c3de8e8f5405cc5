package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/stockroom/stockroom/internal/listing"
	"github.com/stockroom/stockroom/internal/platform/db"
	"github.com/stockroom/stockroom/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, q listing.CompiledQuery, page, perPage int) (listing.Page[Product], error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (int64, error)
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id int64) error
	MissingWarehouses(ctx context.Context, ids []int64) ([]int64, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// List pages through products and loads the allocations of the returned page.
func (r *repository) List(ctx context.Context, q listing.CompiledQuery, page, perPage int) (listing.Page[Product], error) {
	result, err := listing.Paginate[Product](ctx, r.db, q, page, perPage)
	if err != nil {
		return listing.Page[Product]{}, err
	}
	ids := make([]int64, len(result.Items))
	for i, p := range result.Items {
		ids[i] = p.ID
	}
	allocations, err := r.allocations(ctx, ids)
	if err != nil {
		return listing.Page[Product]{}, err
	}
	for i := range result.Items {
		result.Items[i].Warehouses = allocationsOf(allocations, result.Items[i].ID)
	}
	return result, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	def := Definition()
	query := r.db.Rebind("SELECT " + def.Select + " FROM " + def.From + " WHERE products.id = ?")
	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, fmt.Errorf("product %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return Product{}, fmt.Errorf("products: get %d: %w", id, err)
	}
	allocations, err := r.allocations(ctx, []int64{id})
	if err != nil {
		return Product{}, err
	}
	p.Warehouses = allocationsOf(allocations, id)
	return p, nil
}

// Create inserts the product and its allocations in one transaction.
func (r *repository) Create(ctx context.Context, p Product) (int64, error) {
	now := time.Now().UTC()
	var id int64
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`INSERT INTO products (title, min_stock, max_stock, weight, dimensions, color, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
		if err := tx.QueryRowxContext(ctx, query,
			p.Title, p.MinStock, p.MaxStock, p.Weight, p.Dimensions, p.Color, now, now,
		).Scan(&id); err != nil {
			return fmt.Errorf("products: create: %w", err)
		}
		return syncAllocations(ctx, tx, id, p.Warehouses, now)
	})
	return id, err
}

// Update rewrites the product row and replaces its allocations in one transaction.
func (r *repository) Update(ctx context.Context, p Product) error {
	now := time.Now().UTC()
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`UPDATE products SET title = ?, min_stock = ?, max_stock = ?, weight = ?,
			dimensions = ?, color = ?, updated_at = ? WHERE id = ?`)
		res, err := tx.ExecContext(ctx, query,
			p.Title, p.MinStock, p.MaxStock, p.Weight, p.Dimensions, p.Color, now, p.ID)
		if err != nil {
			return fmt.Errorf("products: update %d: %w", p.ID, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return fmt.Errorf("product %d: %w", p.ID, httpx.ErrNotFound)
		}
		return syncAllocations(ctx, tx, p.ID, p.Warehouses, now)
	})
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("products: delete %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("product %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

// MissingWarehouses returns the ids, in input order, that name no warehouse.
func (r *repository) MissingWarehouses(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id FROM warehouses WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var found []int64
	if err := r.db.SelectContext(ctx, &found, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("products: lookup warehouses: %w", err)
	}
	exists := make(map[int64]struct{}, len(found))
	for _, id := range found {
		exists[id] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := exists[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *repository) allocations(ctx context.Context, productIDs []int64) ([]Allocation, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT pw.product_id AS product_id, w.id AS warehouse_id, w.name AS name, pw.quantity AS quantity
		FROM product_warehouse pw JOIN warehouses w ON w.id = pw.warehouse_id
		WHERE pw.product_id IN (?) ORDER BY w.name, w.id`, productIDs)
	if err != nil {
		return nil, err
	}
	var rows []Allocation
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("products: load allocations: %w", err)
	}
	return rows, nil
}

func allocationsOf(all []Allocation, productID int64) []Allocation {
	out := []Allocation{}
	for _, a := range all {
		if a.ProductID == productID {
			out = append(out, a)
		}
	}
	return out
}

// syncAllocations makes the product's allocations exactly want: rows for other
// warehouses are removed and the rest are upserted.
func syncAllocations(ctx context.Context, tx *sqlx.Tx, productID int64, want []Allocation, now time.Time) error {
	if len(want) == 0 {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM product_warehouse WHERE product_id = ?`), productID); err != nil {
			return fmt.Errorf("products: clear allocations: %w", err)
		}
		return nil
	}

	keep := make([]int64, len(want))
	for i, a := range want {
		keep[i] = a.WarehouseID
	}
	query, args, err := sqlx.In(`DELETE FROM product_warehouse WHERE product_id = ? AND warehouse_id NOT IN (?)`, productID, keep)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("products: prune allocations: %w", err)
	}

	upsert := tx.Rebind(`INSERT INTO product_warehouse (product_id, warehouse_id, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (product_id, warehouse_id) DO UPDATE SET quantity = excluded.quantity, updated_at = excluded.updated_at`)
	for _, a := range want {
		if _, err := tx.ExecContext(ctx, upsert, productID, a.WarehouseID, a.Quantity, now, now); err != nil {
			if db.IsForeignKeyViolation(err) {
				return fmt.Errorf("warehouse %d: %w", a.WarehouseID, httpx.ErrValidation)
			}
			return fmt.Errorf("products: upsert allocation: %w", err)
		}
	}
	return nil
}
