package repository

import (
	"context"
	"errors"

	"messapp/internal/domain/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	// ErrConflict when the enrollment is taken
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEnrollment(ctx context.Context, enrollment string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	IncrementTokenVersion(ctx context.Context, userID int64) error
	// newest first
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
}
