package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/stockroom/stockroom/internal/listing"
	"github.com/stockroom/stockroom/internal/platform/db"
	"github.com/stockroom/stockroom/internal/platform/httpx"
)

// Repository provides SQL access to users.
type Repository struct {
	db *sqlx.DB
}

// NewRepository constructs a user repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// ListUsers pages through users matching q.
func (r *Repository) ListUsers(ctx context.Context, q listing.CompiledQuery, page, perPage int) (listing.Page[User], error) {
	return listing.Paginate[User](ctx, r.db, q, page, perPage)
}

// GetUser loads one user with activity counts.
func (r *Repository) GetUser(ctx context.Context, id int64) (User, error) {
	def := Definition()
	query := r.db.Rebind("SELECT " + def.Select + " FROM " + def.From + " WHERE users.id = ?")
	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("user %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("users: get %d: %w", id, err)
	}
	return u, nil
}

// CreateUser inserts a user with an already hashed password.
func (r *Repository) CreateUser(ctx context.Context, in Input, passwordHash string) (int64, error) {
	now := time.Now().UTC()
	query := r.db.Rebind(`INSERT INTO users (name, email, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?) RETURNING id`)
	var id int64
	if err := r.db.QueryRowxContext(ctx, query, in.Name, in.Email, passwordHash, now, now).Scan(&id); err != nil {
		return 0, translate(err, in.Email)
	}
	return id, nil
}

// UpdateUser changes the name and e-mail of a user.
func (r *Repository) UpdateUser(ctx context.Context, id int64, in Input) error {
	query := r.db.Rebind(`UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, in.Name, in.Email, time.Now().UTC(), id)
	if err != nil {
		return translate(err, in.Email)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

func translate(err error, email string) error {
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("email %q is already taken: %w", email, httpx.ErrDuplicate)
	}
	return fmt.Errorf("users: write: %w", err)
}
