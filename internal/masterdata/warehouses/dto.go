package warehouses

import "github.com/stockroom/stockroom/internal/listing"

// WarehouseData is the public shape of a warehouse.
type WarehouseData struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	ProductsCount int64   `json:"products_count"`
	CreatedAt     *string `json:"created_at"`
	UpdatedAt     *string `json:"updated_at"`
}

// ToData serializes w.
func ToData(w Warehouse) WarehouseData {
	return WarehouseData{
		ID:            w.ID,
		Name:          w.Name,
		ProductsCount: w.ProductsCount,
		CreatedAt:     listing.TimestampOf(w.CreatedAt),
		UpdatedAt:     listing.TimestampOf(w.UpdatedAt),
	}
}
