package warehouses

import "github.com/stockroom/stockroom/internal/listing"

// Resource is the listing name of warehouses.
const Resource listing.Resource = "warehouses"

const productsCount = "COALESCE(stock.products_count, 0)"

// Definition declares the sorts and filters accepted by the warehouse list.
func Definition() listing.Definition {
	return listing.Definition{
		Select: "warehouses.id AS id, warehouses.name AS name, " + productsCount + " AS products_count, " +
			"warehouses.created_at AS created_at, warehouses.updated_at AS updated_at",
		From: "warehouses LEFT JOIN (SELECT warehouse_id, COUNT(*) AS products_count " +
			"FROM product_warehouse GROUP BY warehouse_id) stock ON stock.warehouse_id = warehouses.id",
		PrimaryKey: listing.SortOn("id", "warehouses.id"),
		Filters: []listing.FilterSpec{
			listing.ExactInt("id", "warehouses.id"),
			listing.Partial("name", "warehouses.name"),
			listing.Scoped("products_count", listing.AggregateEquals{Expr: productsCount}),
			listing.Scoped("created_on", listing.DateOn{Column: "warehouses.created_at"}),
		},
		Sorts: []listing.SortSpec{
			listing.SortOn("name", "warehouses.name"),
			listing.SortOn("created_at", "warehouses.created_at"),
			listing.SortOn("products_count", productsCount),
		},
	}
}
