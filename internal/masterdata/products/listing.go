package products

import "github.com/stockroom/stockroom/internal/listing"

// Resource is the listing name of products.
const Resource listing.Resource = "products"

const totalQuantityExpr = "COALESCE(stock.total_quantity, 0)"

// Definition declares the sorts and filters accepted by the inventory list.
// `warehouses` and `in_warehouses` are aliases of the same has-all filter.
func Definition() listing.Definition {
	inWarehouses := listing.HasAll{
		Table:       "product_warehouse",
		OwnerColumn: "product_id",
		RefColumn:   "warehouse_id",
		Owner:       "products.id",
	}
	return listing.Definition{
		Select: "products.id AS id, products.title AS title, products.min_stock AS min_stock, " +
			"products.max_stock AS max_stock, products.weight AS weight, products.dimensions AS dimensions, " +
			"products.color AS color, stock.total_quantity AS total_quantity, " +
			"products.created_at AS created_at, products.updated_at AS updated_at",
		From: "products LEFT JOIN (SELECT product_id, SUM(quantity) AS total_quantity " +
			"FROM product_warehouse GROUP BY product_id) stock ON stock.product_id = products.id",
		PrimaryKey: listing.SortOn("id", "products.id"),
		Filters: []listing.FilterSpec{
			listing.ExactInt("id", "products.id"),
			listing.Partial("title", "products.title"),
			listing.Exact("color", "products.color"),
			listing.ExactInt("min_stock", "products.min_stock"),
			listing.ExactInt("max_stock", "products.max_stock"),
			listing.Scoped("total_quantity", listing.AggregateEquals{Expr: totalQuantityExpr}),
			listing.Scoped("created_on", listing.DateOn{Column: "products.created_at"}),
			listing.Scoped("warehouses", inWarehouses),
			listing.Scoped("in_warehouses", inWarehouses),
			listing.Scoped("below_minimum", listing.BelowMinimum{Aggregate: totalQuantityExpr, Minimum: "products.min_stock"}),
		},
		Sorts: []listing.SortSpec{
			listing.SortOn("title", "products.title"),
			listing.SortOn("min_stock", "products.min_stock"),
			listing.SortOn("max_stock", "products.max_stock"),
			listing.SortOn("weight", "products.weight"),
			listing.SortOn("created_at", "products.created_at"),
			listing.SortOn("total_quantity", totalQuantityExpr),
		},
	}
}
