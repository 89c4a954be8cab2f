package favorites

import (
	"context"
	"fmt"

	"carsapi/internal/common"
	"carsapi/internal/dbx"
	"carsapi/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID, carID string) (*models.FavoriteCar, error) {
	fav := &models.FavoriteCar{UserID: userID, CarID: carID}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO favorite_cars (user_id, car_id) VALUES ($1, $2) RETURNING id`,
		userID, carID).Scan(&fav.ID)
	if err != nil {
		if _, ok := dbx.UniqueViolation(err); ok {
			return nil, common.ErrDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return fav, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, userID, carID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorite_cars WHERE user_id = $1 AND car_id = $2)`,
		userID, carID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// ListByUser returns the user's favorites with each car row joined in, so
// a listing stays a single query.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.FavoriteCar, error) {
	query := `SELECT f.id, f.user_id, f.car_id,
			c.id, c.make, c.model, c.year, c.color, c.price, c.description,
			c.is_special, c.category, c.created_at
		FROM favorite_cars f
		JOIN cars c ON c.id = f.car_id
		WHERE f.user_id = $1
		ORDER BY c.created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.FavoriteCar
	for rows.Next() {
		fav := &models.FavoriteCar{Car: &models.Car{}}
		c := fav.Car
		err := rows.Scan(&fav.ID, &fav.UserID, &fav.CarID,
			&c.ID, &c.Make, &c.Model, &c.Year, &c.Color, &c.Price, &c.Description,
			&c.IsSpecial, &c.Category, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
