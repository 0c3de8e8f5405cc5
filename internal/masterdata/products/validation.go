package products

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockroom/stockroom/internal/platform/httpx"
)

// Input is the create/update payload of a product. The stock bounds and weight
// are pointers so an omitted key fails `required` instead of reading as zero.
type Input struct {
	Title      string            `json:"title" validate:"required,max=255"`
	MinStock   *int              `json:"min_stock" validate:"required,gte=0"`
	MaxStock   *int              `json:"max_stock" validate:"required,gtefield=MinStock"`
	Weight     *decimal.Decimal  `json:"weight" validate:"required,gte=0,lte=99999999.99"`
	Dimensions string            `json:"dimensions" validate:"required,max=255"`
	Color      string            `json:"color" validate:"required,max=100"`
	Warehouses []AllocationInput `json:"warehouses" validate:"omitempty,unique=WarehouseID,dive"`
}

// AllocationInput is one requested warehouse stock line.
type AllocationInput struct {
	WarehouseID int64 `json:"warehouse_id" validate:"required,gt=0"`
	Quantity    int   `json:"quantity" validate:"gte=0"`
}

func (s *Service) validate(ctx context.Context, in *Input) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Dimensions = strings.TrimSpace(in.Dimensions)
	in.Color = strings.TrimSpace(in.Color)
	if err := s.validator.Struct(in); err != nil {
		return err
	}

	ids := make([]int64, len(in.Warehouses))
	for i, w := range in.Warehouses {
		ids[i] = w.WarehouseID
	}
	missing, err := s.repo.MissingWarehouses(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}
	unknown := make(map[int64]bool, len(missing))
	for _, id := range missing {
		unknown[id] = true
	}
	fields := map[string]string{}
	for i, w := range in.Warehouses {
		if unknown[w.WarehouseID] {
			fields["warehouses."+strconv.Itoa(i)+".warehouse_id"] = "is invalid"
		}
	}
	return &httpx.ValidationError{Fields: fields}
}

// product expects a validated Input; missing numbers read as zero.
func (in Input) product(id int64) Product {
	p := Product{
		ID:         id,
		Title:      in.Title,
		Dimensions: in.Dimensions,
		Color:      in.Color,
		Warehouses: make([]Allocation, len(in.Warehouses)),
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		p.MaxStock = *in.MaxStock
	}
	if in.Weight != nil {
		p.Weight = in.Weight.Round(2)
	}
	for i, w := range in.Warehouses {
		p.Warehouses[i] = Allocation{ProductID: id, WarehouseID: w.WarehouseID, Quantity: w.Quantity}
	}
	return p
}
