// Package cars persists vehicle listings and their images.
package cars

import (
	"context"

	"carsapi/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, car *models.Car) (*models.Car, error)
	AddImage(ctx context.Context, image *models.CarImage) (*models.CarImage, error)
	GetByID(ctx context.Context, id string) (*models.Car, error)
	List(ctx context.Context) ([]*models.Car, error)
	ListByCategory(ctx context.Context, category models.Category) ([]*models.Car, error)
	ListSpecial(ctx context.Context) ([]*models.Car, error)
	Update(ctx context.Context, car *models.Car) error
	Delete(ctx context.Context, id string) error
}
