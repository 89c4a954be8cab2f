// Package users persists user records and their role sets.
package users

import (
	"context"

	"carsapi/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByNormalizedEmail(ctx context.Context, normalizedEmail string) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	ReplaceRoles(ctx context.Context, id string, roles []models.Role) error
	Delete(ctx context.Context, id string) error
}
