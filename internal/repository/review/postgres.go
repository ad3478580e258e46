package review

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

func (r *postgresRepo) Create(ctx context.Context, rev domain.Review) (*domain.Review, error) {
	const q = `
INSERT INTO reviews (book_id, user_id, rating, comment)
VALUES ($1, $2, $3, $4)
RETURNING review_id, created_at
`
	out := rev
	err := r.pool.QueryRow(ctx, q, rev.BookID, rev.UserID, rev.Rating, rev.Comment).
		Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("review repo: create book_id=%d user_id=%d error=%v", rev.BookID, rev.UserID, err)
		return nil, err
	}
	r.logger.Printf("review repo: created id=%d book_id=%d", out.ID, out.BookID)
	return &out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	const q = `
SELECT review_id, book_id, user_id, rating, comment, created_at
FROM reviews
WHERE review_id = $1
`
	var rev domain.Review
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&rev.ID, &rev.BookID, &rev.UserID, &rev.Rating, &rev.Comment, &rev.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("review repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return &rev, nil
}

func (r *postgresRepo) ListByBook(ctx context.Context, bookID int64) ([]domain.Review, error) {
	const q = `
SELECT r.review_id, r.book_id, r.user_id, r.rating, r.comment, r.created_at,
       trim(u.first_name || ' ' || u.last_name)
FROM reviews r
JOIN users u ON u.user_id = r.user_id
WHERE r.book_id = $1
ORDER BY r.created_at DESC
`
	rows, err := r.pool.Query(ctx, q, bookID)
	if err != nil {
		r.logger.Printf("review repo: list book_id=%d error=%v", bookID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(
			&rev.ID, &rev.BookID, &rev.UserID, &rev.Rating, &rev.Comment,
			&rev.CreatedAt, &rev.ReviewerName,
		); err != nil {
			return nil, err
		}
		result = append(result, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE review_id = $1`, id)
	if err != nil {
		r.logger.Printf("review repo: delete id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
