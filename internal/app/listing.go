package app

import (
	"github.com/stockroom/stockroom/internal/listing"
	"github.com/stockroom/stockroom/internal/masterdata/products"
	"github.com/stockroom/stockroom/internal/masterdata/warehouses"
	"github.com/stockroom/stockroom/internal/users"
)

// NewListingRegistry registers the list definition of every resource served by
// the application.
func NewListingRegistry() (*listing.Registry, error) {
	registry := listing.NewRegistry()
	definitions := map[listing.Resource]listing.Definition{
		products.Resource:   products.Definition(),
		warehouses.Resource: warehouses.Definition(),
		users.Resource:      users.Definition(),
	}
	for resource, def := range definitions {
		if err := registry.Register(resource, def); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// NewListingCompiler builds the compiler for the configured database driver.
func NewListingCompiler(cfg *Config, registry *listing.Registry) (*listing.Compiler, error) {
	dialect, err := listing.DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	return listing.NewCompiler(registry, dialect, listing.WithStrictValues(cfg.ListStrictFilters)), nil
}
