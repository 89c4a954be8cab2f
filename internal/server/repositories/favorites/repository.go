// Package favorites persists the user-to-car favorites join.
package favorites

import (
	"context"

	"carsapi/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID, carID string) (*models.FavoriteCar, error)
	Exists(ctx context.Context, userID, carID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*models.FavoriteCar, error)
}
