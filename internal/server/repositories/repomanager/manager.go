// Package repomanager vends repository implementations bound to a DBTX,
// so services can run any repository against either the pool or an open
// transaction.
package repomanager

import (
	"context"
	"database/sql"

	"carsapi/internal/dbx"
	"carsapi/internal/server/repositories/cars"
	"carsapi/internal/server/repositories/favorites"
	"carsapi/internal/server/repositories/sessions"
	"carsapi/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Cars(db dbx.DBTX) cars.Repository
	Favorites(db dbx.DBTX) favorites.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
