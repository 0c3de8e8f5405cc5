package warehouses

import (
	"context"
	"fmt"
	"time"

	"github.com/stockroom/stockroom/internal/listing"
	"github.com/stockroom/stockroom/internal/platform/cache"
	"github.com/stockroom/stockroom/internal/platform/httpx"
	"github.com/stockroom/stockroom/internal/platform/validate"
)

// DefaultOptionsTTL bounds how long the cached option list may be stale if an
// invalidation is lost.
const DefaultOptionsTTL = 10 * time.Minute

type Service struct {
	repo      Repository
	compiler  *listing.Compiler
	validator *validate.Validator
	options   *cache.Versioned
	perPage   int
}

// NewService wires the warehouse service. options may be built on a nil redis
// client, in which case every Options call reads the database.
func NewService(repo Repository, compiler *listing.Compiler, validator *validate.Validator, options *cache.Versioned, perPage int) (*Service, error) {
	if _, err := compiler.Definition(Resource); err != nil {
		return nil, err
	}
	return &Service{repo: repo, compiler: compiler, validator: validator, options: options, perPage: perPage}, nil
}

func (s *Service) List(ctx context.Context, req listing.QueryRequest, page int) (listing.Page[Warehouse], error) {
	q, err := s.compiler.Compile(Resource, req)
	if err != nil {
		return listing.Page[Warehouse]{}, err
	}
	return s.repo.List(ctx, q, page, s.perPage)
}

// Options lists every warehouse ordered by name.
func (s *Service) Options(ctx context.Context) ([]Option, error) {
	key, err := s.options.BuildKey(ctx, "options")
	if err != nil {
		return s.repo.Options(ctx)
	}
	var options []Option
	err = s.options.FetchJSON(ctx, key, &options, func(ctx context.Context) (any, error) {
		return s.repo.Options(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("warehouses: options: %w", err)
	}
	return options, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Warehouse, error) {
	if id <= 0 {
		return Warehouse{}, fmt.Errorf("invalid warehouse ID: %w", httpx.ErrBadRequest)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Warehouse, error) {
	if err := s.validate(&in); err != nil {
		return Warehouse{}, err
	}
	w, err := s.repo.Create(ctx, in.Name)
	if err != nil {
		return Warehouse{}, err
	}
	s.invalidate(ctx)
	return w, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Warehouse, error) {
	if id <= 0 {
		return Warehouse{}, fmt.Errorf("invalid warehouse ID: %w", httpx.ErrBadRequest)
	}
	if err := s.validate(&in); err != nil {
		return Warehouse{}, err
	}
	if err := s.repo.Update(ctx, id, in.Name); err != nil {
		return Warehouse{}, err
	}
	s.invalidate(ctx)
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid warehouse ID: %w", httpx.ErrBadRequest)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// invalidate is best effort: the TTL caps staleness when redis is unreachable.
func (s *Service) invalidate(ctx context.Context) {
	_ = s.options.Bump(ctx)
}
