package cars

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carsapi/internal/common"
	"carsapi/internal/server/models"
)

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func carRow(c *models.Car) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "make", "model", "year", "color", "price", "description",
		"is_special", "category", "created_at",
	}).AddRow(c.ID, c.Make, c.Model, c.Year, c.Color, c.Price, c.Description,
		c.IsSpecial, string(c.Category), c.CreatedAt)
}

func emptyImages() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "car_id", "path"})
}

func TestCreate_ReturnsGeneratedID(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO cars`).
		WithArgs("Toyota", "Corolla", 2020, "red", 15000.0, "clean", false, "sedan").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("car-1", now))

	car, err := repo.Create(context.Background(), &models.Car{
		Make: "Toyota", Model: "Corolla", Year: 2020, Color: "red",
		Price: 15000, Description: "clean", Category: models.CategorySedan,
	})
	require.NoError(t, err)
	assert.Equal(t, "car-1", car.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_LoadsImages(t *testing.T) {
	repo, mock := newMock(t)

	c := &models.Car{ID: "car-1", Make: "Toyota", Category: models.CategorySedan, CreatedAt: time.Now()}
	mock.ExpectQuery(`SELECT .+ FROM cars`).
		WithArgs("car-1").
		WillReturnRows(carRow(c))
	mock.ExpectQuery(`SELECT .+ FROM car_images`).
		WithArgs("car-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "car_id", "path"}).
			AddRow("img-1", "car-1", "cars/a.jpg").
			AddRow("img-2", "car-1", "cars/b.jpg"))

	got, err := repo.GetByID(context.Background(), "car-1")
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "cars/a.jpg", got.Images[0].Path)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT .+ FROM cars`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestListByCategory(t *testing.T) {
	repo, mock := newMock(t)

	c := &models.Car{ID: "car-1", Category: models.CategorySUV, CreatedAt: time.Now()}
	mock.ExpectQuery(`SELECT .+ FROM cars WHERE category`).
		WithArgs("suv").
		WillReturnRows(carRow(c))
	mock.ExpectQuery(`SELECT .+ FROM car_images`).
		WithArgs("car-1").
		WillReturnRows(emptyImages())

	cars, err := repo.ListByCategory(context.Background(), models.CategorySUV)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, models.CategorySUV, cars[0].Category)
}

func TestUpdate_NotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE cars`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Car{ID: "missing"})
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestDelete(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`DELETE FROM cars`).
		WithArgs("car-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "car-1"))

	mock.ExpectExec(`DELETE FROM cars`).
		WithArgs("car-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "car-1")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
