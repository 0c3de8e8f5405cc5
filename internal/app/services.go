package app

import (
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/stockroom/stockroom/internal/masterdata/products"
	"github.com/stockroom/stockroom/internal/masterdata/warehouses"
	"github.com/stockroom/stockroom/internal/platform/cache"
	"github.com/stockroom/stockroom/internal/platform/validate"
	"github.com/stockroom/stockroom/internal/users"
)

// Services bundles the domain services shared by the HTTP server and the worker.
type Services struct {
	Products   *products.Service
	Warehouses *warehouses.Service
	Users      *users.Service
}

// NewServices wires repositories, the listing compiler and caches. redisClient
// may be nil, in which case warehouse options are read straight from the database.
func NewServices(cfg *Config, database *sqlx.DB, redisClient *redis.Client) (*Services, error) {
	registry, err := NewListingRegistry()
	if err != nil {
		return nil, err
	}
	compiler, err := NewListingCompiler(cfg, registry)
	if err != nil {
		return nil, err
	}
	validator := validate.New()

	options := cache.NewVersioned(redisClient, "stockroom:warehouse-options", cfg.WarehouseCacheTTL)
	warehouseService, err := warehouses.NewService(warehouses.NewRepository(database), compiler, validator, options, cfg.ListPerPage)
	if err != nil {
		return nil, err
	}
	productService, err := products.NewService(products.NewRepository(database), compiler, validator, cfg.ListPerPage)
	if err != nil {
		return nil, err
	}
	userService, err := users.NewService(users.NewRepository(database), compiler, validator, cfg.ListPerPage)
	if err != nil {
		return nil, err
	}
	return &Services{Products: productService, Warehouses: warehouseService, Users: userService}, nil
}
