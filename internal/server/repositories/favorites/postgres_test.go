package favorites

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carsapi/internal/common"
)

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO favorite_cars`).
		WithArgs("u1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("f1"))

	fav, err := repo.Create(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "f1", fav.ID)
	assert.Equal(t, "u1", fav.UserID)
	assert.Equal(t, "c1", fav.CarID)
}

func TestCreate_DuplicatePair(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO favorite_cars`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "favorite_cars_user_id_car_id_key"})

	_, err := repo.Create(context.Background(), "u1", "c1")
	assert.True(t, errors.Is(err, common.ErrDuplicate))
}

func TestExists(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("u1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestListByUser_JoinsCars(t *testing.T) {
	repo, mock := newMock(t)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "car_id",
		"c_id", "make", "model", "year", "color", "price", "description",
		"is_special", "category", "created_at",
	}).AddRow("f1", "u1", "c1", "c1", "Toyota", "Corolla", 2020, "red", 15000.0, "", false, "sedan", time.Now())

	mock.ExpectQuery(`SELECT .+ FROM favorite_cars f`).
		WithArgs("u1").
		WillReturnRows(rows)

	favs, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, favs, 1)
	require.NotNil(t, favs[0].Car)
	assert.Equal(t, "Toyota", favs[0].Car.Make)
}
