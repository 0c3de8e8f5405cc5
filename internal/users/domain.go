package users

import (
	"time"

	"github.com/stockroom/stockroom/internal/listing"
)

// User represents a user account together with its activity counts.
type User struct {
	ID              int64      `db:"id"`
	Name            string     `db:"name"`
	Email           string     `db:"email"`
	EmailVerifiedAt *time.Time `db:"email_verified_at"`
	PostsCount      int64      `db:"posts_count"`
	CommentsCount   int64      `db:"comments_count"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// UserData is the public shape of a user.
type UserData struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	EmailVerifiedAt *string `json:"email_verified_at"`
	CreatedAt       *string `json:"created_at"`
	UpdatedAt       *string `json:"updated_at"`
	PostsCount      int64   `json:"posts_count"`
	CommentsCount   int64   `json:"comments_count"`
}

// ToData serializes u.
func ToData(u User) UserData {
	return UserData{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		EmailVerifiedAt: listing.Timestamp(u.EmailVerifiedAt),
		CreatedAt:       listing.TimestampOf(u.CreatedAt),
		UpdatedAt:       listing.TimestampOf(u.UpdatedAt),
		PostsCount:      u.PostsCount,
		CommentsCount:   u.CommentsCount,
	}
}

// Input is the create/update payload of a user.
type Input struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}
