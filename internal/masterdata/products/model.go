package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a stocked product. TotalQuantity is the aggregate selected by
// list and detail queries; it is nil when the product has no allocations.
type Product struct {
	ID            int64           `db:"id"`
	Title         string          `db:"title"`
	MinStock      int             `db:"min_stock"`
	MaxStock      int             `db:"max_stock"`
	Weight        decimal.Decimal `db:"weight"`
	Dimensions    string          `db:"dimensions"`
	Color         string          `db:"color"`
	TotalQuantity *int64          `db:"total_quantity"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`

	// Warehouses holds the loaded allocations ordered by warehouse name, or nil
	// when they were not loaded.
	Warehouses []Allocation `db:"-"`
}

// Allocation is the stock of one product held in one warehouse.
type Allocation struct {
	ProductID   int64  `db:"product_id"`
	WarehouseID int64  `db:"warehouse_id"`
	Name        string `db:"name"`
	Quantity    int    `db:"quantity"`
}

// BelowMinimum reports whether the stock across all warehouses is under MinStock.
func (p Product) BelowMinimum() bool {
	return totalQuantity(p) < int64(p.MinStock)
}
