package warehouses

import (
	"time"
)

// Warehouse represents a warehouse entity with its derived product count.
type Warehouse struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	ProductsCount int64     `db:"products_count"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Option is the id/name pair used by pickers and filter widgets.
type Option struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
