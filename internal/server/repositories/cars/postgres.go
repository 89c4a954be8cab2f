package cars

import (
	"context"
	"database/sql"
	"errors"
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

const carColumns = `id, make, model, year, color, price, description, is_special, category, created_at`

func scanCar(row interface{ Scan(...any) error }) (*models.Car, error) {
	c := &models.Car{}
	err := row.Scan(&c.ID, &c.Make, &c.Model, &c.Year, &c.Color, &c.Price,
		&c.Description, &c.IsSpecial, &c.Category, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, car *models.Car) (*models.Car, error) {
	query := `INSERT INTO cars (make, model, year, color, price, description, is_special, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		car.Make, car.Model, car.Year, car.Color, car.Price,
		car.Description, car.IsSpecial, string(car.Category),
	).Scan(&car.ID, &car.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return car, nil
}

func (r *PostgresRepository) AddImage(ctx context.Context, image *models.CarImage) (*models.CarImage, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO car_images (car_id, path) VALUES ($1, $2) RETURNING id`,
		image.CarID, image.Path).Scan(&image.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return image, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Car, error) {
	query := fmt.Sprintf(`SELECT %s FROM cars WHERE id = $1`, carColumns)

	car, err := scanCar(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadImages(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

func (r *PostgresRepository) loadImages(ctx context.Context, car *models.Car) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, car_id, path FROM car_images WHERE car_id = $1`, car.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		img := models.CarImage{}
		if err := rows.Scan(&img.ID, &img.CarID, &img.Path); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		car.Images = append(car.Images, img)
	}
	return rows.Err()
}

func (r *PostgresRepository) list(ctx context.Context, where string, args ...any) ([]*models.Car, error) {
	query := fmt.Sprintf(`SELECT %s FROM cars %s ORDER BY created_at`, carColumns, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, car)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for _, car := range result {
		if err := r.loadImages(ctx, car); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Car, error) {
	return r.list(ctx, "")
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, category models.Category) ([]*models.Car, error) {
	return r.list(ctx, "WHERE category = $1", string(category))
}

func (r *PostgresRepository) ListSpecial(ctx context.Context) ([]*models.Car, error) {
	return r.list(ctx, "WHERE is_special")
}

func (r *PostgresRepository) Update(ctx context.Context, car *models.Car) error {
	query := `UPDATE cars
		SET make = $2, model = $3, year = $4, color = $5, price = $6,
			description = $7, is_special = $8, category = $9
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		car.ID, car.Make, car.Model, car.Year, car.Color, car.Price,
		car.Description, car.IsSpecial, string(car.Category))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
