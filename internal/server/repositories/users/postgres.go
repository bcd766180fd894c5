package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gopherchat/internal/common"
	"github.com/dmitrijs2005/gopherchat/internal/dbx"
	"github.com/dmitrijs2005/gopherchat/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation           = "23505"
	pgInvalidTextRepresentation = "22P02"
)

const userColumns = `id, full_name, email, password_hash, profile_pic, image_key, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (full_name, email, password_hash, profile_pic)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.FullName, user.Email, user.PasswordHash, user.ProfilePic).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListExcept(ctx context.Context, id string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id <> $1 ORDER BY full_name, id`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.User, 0)
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.ProfilePic, &u.ImageKey, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateProfilePic(ctx context.Context, id, url, key string) (*models.User, string, error) {
	var (
		user    *models.User
		prevKey string
	)

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := tx.QueryRowContext(ctx, `SELECT image_key FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&prevKey)
		if err != nil {
			return err
		}

		query :=
			`UPDATE users SET profile_pic = $2, image_key = $3, updated_at = now()
			 WHERE id = $1
			 RETURNING ` + userColumns

		user, err = scanUser(tx.QueryRowContext(ctx, query, id, url, key))
		return err
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || isNotFound(err) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", fmt.Errorf("db error: %w", err)
	}

	return user, prevKey, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.ProfilePic, &u.ImageKey, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isNotFound(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// isNotFound treats a malformed uuid the same as a missing row: ids come from
// tokens and route parameters and are opaque to callers.
func isNotFound(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation
}
