package user

import (
	"context"
	"errors"
	"io"
	"log"

	"bookstore-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `user_id, email, password_hash, first_name, last_name, role,
address_line1, address_line2, city, state, zip_code, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (email, password_hash, first_name, last_name, role,
                   address_line1, address_line2, city, state, zip_code)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + userColumns + `
`
	created, err := scanUser(r.pool.QueryRow(ctx, q,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role,
		u.AddressLine1, u.AddressLine2, u.City, u.State, u.ZipCode))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: create email=%s error=%v", u.Email, err)
		return nil, err
	}
	r.logger.Printf("user repo: created id=%d email=%s", created.ID, created.Email)
	return created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE user_id = $1
`
	u, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return u, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE lower(email) = lower($1)
`
	u, err := scanUser(r.pool.QueryRow(ctx, q, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: get email=%s error=%v", email, err)
		return nil, err
	}
	return u, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("user repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.AddressLine1,
		&u.AddressLine2,
		&u.City,
		&u.State,
		&u.ZipCode,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}
