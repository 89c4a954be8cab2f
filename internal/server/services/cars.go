package services

import (
	"context"
	"database/sql"

	"carsapi/internal/common"
	"carsapi/internal/dbx"
	"carsapi/internal/logging"
	"carsapi/internal/server/blob"
	"carsapi/internal/server/models"
	"carsapi/internal/server/repositories/repomanager"
)

// CarUpdate carries the mutable listing fields; nil means keep.
type CarUpdate struct {
	Make        *string
	Model       *string
	Year        *int
	Color       *string
	Price       *float64
	Description *string
	Category    *models.Category
	IsSpecial   *bool
}

type CarService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	blobs  blob.Store
	logger logging.Logger
}

func NewCarService(db *sql.DB, rm repomanager.RepositoryManager, blobs blob.Store, logger logging.Logger) *CarService {
	return &CarService{db: db, rm: rm, blobs: blobs, logger: logger}
}

// AddCar uploads the images and creates the listing with its image rows
// in one transaction. A failed upload is skipped, not fatal.
func (s *CarService) AddCar(ctx context.Context, car *models.Car, images []blob.File) (*models.Car, error) {
	if _, err := models.ParseCategory(string(car.Category)); err != nil {
		return nil, common.WithDetails(common.ErrValidation, "category: "+err.Error())
	}

	var paths []string
	for _, img := range images {
		path, err := s.blobs.Upload(ctx, img, "cars")
		if err != nil {
			s.logger.Warn(ctx, "car image upload failed", "file", img.Name, "error", err)
			continue
		}
		paths = append(paths, path)
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Cars(tx)

		created, err := repo.Create(ctx, car)
		if err != nil {
			return err
		}
		car = created

		for _, path := range paths {
			img, err := repo.AddImage(ctx, &models.CarImage{CarID: car.ID, Path: path})
			if err != nil {
				return err
			}
			car.Images = append(car.Images, *img)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return car, nil
}

func (s *CarService) ListCars(ctx context.Context) ([]*models.Car, error) {
	cars, err := s.rm.Cars(s.db).List(ctx)
	return cars, storeErr(err)
}

func (s *CarService) GetCar(ctx context.Context, id string) (*models.Car, error) {
	car, err := s.rm.Cars(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return car, nil
}

func (s *CarService) CarsByCategory(ctx context.Context, category string) ([]*models.Car, error) {
	c, err := models.ParseCategory(category)
	if err != nil {
		return nil, common.WithDetails(common.ErrValidation, "category: "+err.Error())
	}
	cars, err := s.rm.Cars(s.db).ListByCategory(ctx, c)
	return cars, storeErr(err)
}

func (s *CarService) SpecialCars(ctx context.Context) ([]*models.Car, error) {
	cars, err := s.rm.Cars(s.db).ListSpecial(ctx)
	return cars, storeErr(err)
}

// MarkSpecial flags a listing for the specials endpoint.
func (s *CarService) MarkSpecial(ctx context.Context, id string) (*models.Car, error) {
	repo := s.rm.Cars(s.db)

	car, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}

	car.IsSpecial = true
	if err := repo.Update(ctx, car); err != nil {
		return nil, storeErr(err)
	}
	return car, nil
}

// UpdateCar applies the non-nil fields of upd to the listing.
func (s *CarService) UpdateCar(ctx context.Context, id string, upd CarUpdate) (*models.Car, error) {
	repo := s.rm.Cars(s.db)

	car, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}

	if upd.Make != nil {
		car.Make = *upd.Make
	}
	if upd.Model != nil {
		car.Model = *upd.Model
	}
	if upd.Year != nil {
		car.Year = *upd.Year
	}
	if upd.Color != nil {
		car.Color = *upd.Color
	}
	if upd.Price != nil {
		car.Price = *upd.Price
	}
	if upd.Description != nil {
		car.Description = *upd.Description
	}
	if upd.Category != nil {
		c, err := models.ParseCategory(string(*upd.Category))
		if err != nil {
			return nil, common.WithDetails(common.ErrValidation, "category: "+err.Error())
		}
		car.Category = c
	}
	if upd.IsSpecial != nil {
		car.IsSpecial = *upd.IsSpecial
	}

	if err := repo.Update(ctx, car); err != nil {
		return nil, storeErr(err)
	}
	return car, nil
}

// DeleteCar removes the listing and its image blobs.
func (s *CarService) DeleteCar(ctx context.Context, id string) error {
	repo := s.rm.Cars(s.db)

	car, err := repo.GetByID(ctx, id)
	if err != nil {
		return storeErr(err)
	}

	if err := repo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}

	for _, img := range car.Images {
		if !s.blobs.Delete(ctx, img.Path) {
			s.logger.Warn(ctx, "car image not removed", "car_id", id, "path", img.Path)
		}
	}
	return nil
}
