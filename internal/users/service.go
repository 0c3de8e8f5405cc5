package users

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/stockroom/stockroom/internal/listing"
	"github.com/stockroom/stockroom/internal/platform/httpx"
	"github.com/stockroom/stockroom/internal/platform/validate"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context, q listing.CompiledQuery, page, perPage int) (listing.Page[User], error)
	GetUser(ctx context.Context, id int64) (User, error)
	CreateUser(ctx context.Context, in Input, passwordHash string) (int64, error)
	UpdateUser(ctx context.Context, id int64, in Input) error
}

// Service handles user business logic.
type Service struct {
	repo      RepositoryPort
	compiler  *listing.Compiler
	validator *validate.Validator
	perPage   int
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, compiler *listing.Compiler, validator *validate.Validator, perPage int) (*Service, error) {
	if _, err := compiler.Definition(Resource); err != nil {
		return nil, err
	}
	return &Service{repo: repo, compiler: compiler, validator: validator, perPage: perPage}, nil
}

// ListUsers returns one page of users matching req.
func (s *Service) ListUsers(ctx context.Context, req listing.QueryRequest, page int) (listing.Page[User], error) {
	q, err := s.compiler.Compile(Resource, req)
	if err != nil {
		return listing.Page[User]{}, err
	}
	return s.repo.ListUsers(ctx, q, page, s.perPage)
}

// GetUser returns a single user.
func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, fmt.Errorf("invalid user ID: %w", httpx.ErrBadRequest)
	}
	return s.repo.GetUser(ctx, id)
}

// CreateUser registers a user with a random password; the account is expected to
// go through password reset before first login.
func (s *Service) CreateUser(ctx context.Context, in Input) (User, error) {
	if err := s.validate(&in); err != nil {
		return User{}, err
	}
	hash, err := randomPasswordHash()
	if err != nil {
		return User{}, err
	}
	id, err := s.repo.CreateUser(ctx, in, hash)
	if err != nil {
		return User{}, err
	}
	return s.repo.GetUser(ctx, id)
}

// UpdateUser changes a user's name and e-mail.
func (s *Service) UpdateUser(ctx context.Context, id int64, in Input) (User, error) {
	if id <= 0 {
		return User{}, fmt.Errorf("invalid user ID: %w", httpx.ErrBadRequest)
	}
	if err := s.validate(&in); err != nil {
		return User{}, err
	}
	if err := s.repo.UpdateUser(ctx, id, in); err != nil {
		return User{}, err
	}
	return s.repo.GetUser(ctx, id)
}

func (s *Service) validate(in *Input) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	return s.validator.Struct(in)
}

// randomPasswordHash hashes 32 random characters.
func randomPasswordHash() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("users: random password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(base64.RawURLEncoding.EncodeToString(buf)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("users: hash password: %w", err)
	}
	return string(hash), nil
}
