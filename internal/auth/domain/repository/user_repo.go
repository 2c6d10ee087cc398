package repository

import (
	"context"

	"booking-system/internal/auth/domain/model"
)

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}
