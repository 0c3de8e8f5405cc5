package products

import (
	"github.com/stockroom/stockroom/internal/listing"
	"github.com/stockroom/stockroom/internal/masterdata/warehouses"
)

// ProductData is the public shape of a product.
type ProductData struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	MinStock      int             `json:"min_stock"`
	MaxStock      int             `json:"max_stock"`
	Weight        float64         `json:"weight"`
	Dimensions    string          `json:"dimensions"`
	Color         string          `json:"color"`
	TotalQuantity int64           `json:"total_quantity"`
	Warehouses    []WarehouseData `json:"warehouses"`
	CreatedAt     *string         `json:"created_at"`
}

// WarehouseData is a warehouse as seen from a product. Quantity is null when the
// warehouse is listed without an allocation, as in filter pickers.
type WarehouseData struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity *int   `json:"quantity"`
}

// ToData serializes p.
func ToData(p Product) ProductData {
	data := ProductData{
		ID:            p.ID,
		Title:         p.Title,
		MinStock:      p.MinStock,
		MaxStock:      p.MaxStock,
		Weight:        p.Weight.InexactFloat64(),
		Dimensions:    p.Dimensions,
		Color:         p.Color,
		TotalQuantity: totalQuantity(p),
		Warehouses:    make([]WarehouseData, 0, len(p.Warehouses)),
		CreatedAt:     listing.TimestampOf(p.CreatedAt),
	}
	for _, a := range p.Warehouses {
		quantity := a.Quantity
		data.Warehouses = append(data.Warehouses, WarehouseData{ID: a.WarehouseID, Name: a.Name, Quantity: &quantity})
	}
	return data
}

// OptionData serializes a warehouse option without a quantity.
func OptionData(o warehouses.Option) WarehouseData {
	return WarehouseData{ID: o.ID, Name: o.Name}
}

// totalQuantity prefers the selected aggregate, then the loaded allocations.
func totalQuantity(p Product) int64 {
	return listing.Resolve(0,
		func() (int64, bool) {
			if p.TotalQuantity == nil {
				return 0, false
			}
			return *p.TotalQuantity, true
		},
		func() (int64, bool) {
			if p.Warehouses == nil {
				return 0, false
			}
			var sum int64
			for _, a := range p.Warehouses {
				sum += int64(a.Quantity)
			}
			return sum, true
		},
	)
}
