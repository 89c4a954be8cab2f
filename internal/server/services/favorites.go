package services

import (
	"context"
	"database/sql"
	"errors"

	"carsapi/internal/common"
	"carsapi/internal/server/models"
	"carsapi/internal/server/repositories/repomanager"
)

type FavoriteService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewFavoriteService(db *sql.DB, rm repomanager.RepositoryManager) *FavoriteService {
	return &FavoriteService{db: db, rm: rm}
}

// AddFavorite records the pair and reports whether it was newly added.
// An existing pair is a no-op, not an error.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, carID string) (bool, error) {
	if _, err := s.rm.Users(s.db).GetByID(ctx, userID); err != nil {
		return false, storeErr(err)
	}
	if _, err := s.rm.Cars(s.db).GetByID(ctx, carID); err != nil {
		return false, storeErr(err)
	}

	repo := s.rm.Favorites(s.db)

	exists, err := repo.Exists(ctx, userID, carID)
	if err != nil {
		return false, storeErr(err)
	}
	if exists {
		return false, nil
	}

	if _, err := repo.Create(ctx, userID, carID); err != nil {
		// A concurrent add hitting the unique pair constraint is the
		// same no-op.
		if errors.Is(err, common.ErrDuplicate) {
			return false, nil
		}
		return false, storeErr(err)
	}
	return true, nil
}

func (s *FavoriteService) FavoritesByUser(ctx context.Context, userID string) ([]*models.FavoriteCar, error) {
	favs, err := s.rm.Favorites(s.db).ListByUser(ctx, userID)
	return favs, storeErr(err)
}
