package dbx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// unique_violation per the PostgreSQL error code table.
const uniqueViolationCode = "23505"

// UniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation, returning the violated constraint name when it is.
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName, true
	}
	return "", false
}
