package products

import (
	"context"
	"fmt"

	"github.com/stockroom/stockroom/internal/listing"
	"github.com/stockroom/stockroom/internal/platform/httpx"
	"github.com/stockroom/stockroom/internal/platform/validate"
)

type Service struct {
	repo      Repository
	compiler  *listing.Compiler
	validator *validate.Validator
	perPage   int
}

func NewService(repo Repository, compiler *listing.Compiler, validator *validate.Validator, perPage int) (*Service, error) {
	if _, err := compiler.Definition(Resource); err != nil {
		return nil, err
	}
	return &Service{repo: repo, compiler: compiler, validator: validator, perPage: perPage}, nil
}

// List returns one page of products matching req.
func (s *Service) List(ctx context.Context, req listing.QueryRequest, page int) (listing.Page[Product], error) {
	q, err := s.compiler.Compile(Resource, req)
	if err != nil {
		return listing.Page[Product]{}, err
	}
	return s.repo.List(ctx, q, page, s.perPage)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("invalid product ID: %w", httpx.ErrBadRequest)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Product, error) {
	if err := s.validate(ctx, &in); err != nil {
		return Product{}, err
	}
	id, err := s.repo.Create(ctx, in.product(0))
	if err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, id)
}

// Update rewrites the product and replaces its warehouse allocations.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("invalid product ID: %w", httpx.ErrBadRequest)
	}
	if err := s.validate(ctx, &in); err != nil {
		return Product{}, err
	}
	if err := s.repo.Update(ctx, in.product(id)); err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid product ID: %w", httpx.ErrBadRequest)
	}
	return s.repo.Delete(ctx, id)
}
