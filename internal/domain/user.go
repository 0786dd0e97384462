package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repositories when a row is absent. Usecases
// translate it into the caller-facing 404.
var ErrNotFound = errors.New("resource not found")

// Skill is a named ability with a 0-10 proficiency level. Stored as jsonb
// both on users (what they can do) and inside project roles (what is needed).
type Skill struct {
	Name  string `json:"name" validate:"required"`
	Level int    `json:"level" validate:"gte=0,lte=10"`
}

type User struct {
	ID         int64   `json:"id"`
	TelegramID int64   `json:"telegram_id"`
	Username   *string `json:"username"`
	Name       *string `json:"name"`
	Bio        *string `json:"bio"`
	Skills     []Skill `json:"skills"`
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	List(ctx context.Context) ([]User, error)
	// ListExcept returns every user except the given one. Used to build the
	// candidate pool for matching.
	ListExcept(ctx context.Context, id int64) ([]User, error)
}

type UserUsecase interface {
	GetUser(ctx context.Context, id int64) (*User, error)
	UpdateProfile(ctx context.Context, userID int64, patch UserPatch) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// UserPatch carries optional profile updates; nil fields are left untouched.
type UserPatch struct {
	Name   *string
	Bio    *string
	Skills []Skill
}
