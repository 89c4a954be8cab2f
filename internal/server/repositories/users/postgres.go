package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

// userColumns aggregates roles into a CSV so every lookup stays a single
// round trip.
const userColumns = `u.id, u.username, u.email, u.normalized_email, u.password_hash,
	u.first_name, u.last_name, u.phone_number, u.profile_picture_url, u.created_at,
	COALESCE(string_agg(r.role, ','), '')`

const userJoin = `FROM users u
	LEFT JOIN user_roles r ON r.user_id = u.id`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var rolesCSV string
	err := row.Scan(&u.ID, &u.UserName, &u.Email, &u.NormalizedEmail, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.PhoneNumber, &u.ProfilePictureURL, &u.CreatedAt,
		&rolesCSV)
	if err != nil {
		return nil, err
	}
	if rolesCSV != "" {
		for _, r := range strings.Split(rolesCSV, ",") {
			u.Roles = append(u.Roles, models.Role(r))
		}
	}
	return u, nil
}

func mapUniqueViolation(err error) error {
	constraint, ok := dbx.UniqueViolation(err)
	if !ok {
		return nil
	}
	switch constraint {
	case "users_username_key":
		return common.WithDetails(common.ErrDuplicate, "username: already taken")
	case "users_normalized_email_key":
		return common.WithDetails(common.ErrDuplicate, "email: already registered")
	}
	return common.WithDetails(common.ErrDuplicate, constraint)
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (username, email, normalized_email, password_hash,
			first_name, last_name, phone_number, profile_picture_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.Email, user.NormalizedEmail, user.PasswordHash,
		user.FirstName, user.LastName, user.PhoneNumber, user.ProfilePictureURL,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if len(user.Roles) > 0 {
		if err := r.ReplaceRoles(ctx, user.ID, user.Roles); err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (r *PostgresRepository) getBy(ctx context.Context, where string, arg any) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE %s GROUP BY u.id`, userColumns, userJoin, where)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "u.id = $1", id)
}

func (r *PostgresRepository) GetByNormalizedEmail(ctx context.Context, normalizedEmail string) (*models.User, error) {
	return r.getBy(ctx, "u.normalized_email = $1", normalizedEmail)
}

func (r *PostgresRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	return r.getBy(ctx, "u.username = $1", userName)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := fmt.Sprintf(`SELECT %s %s GROUP BY u.id ORDER BY u.created_at`, userColumns, userJoin)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query := `UPDATE users
		SET username = $2, email = $3, normalized_email = $4,
			first_name = $5, last_name = $6, phone_number = $7, profile_picture_url = $8
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.UserName, user.Email, user.NormalizedEmail,
		user.FirstName, user.LastName, user.PhoneNumber, user.ProfilePictureURL)
	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return dup
		}
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

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
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

func (r *PostgresRepository) ReplaceRoles(ctx context.Context, id string, roles []models.Role) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	for _, role := range roles {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, id, string(role)); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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
