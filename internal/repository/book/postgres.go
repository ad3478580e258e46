package book

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

const bookColumns = `book_id, title, author, genre, price, stock_quantity, image_url, description, created_at, updated_at`

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

func (r *postgresRepo) List(ctx context.Context, params ListParams) ([]domain.Book, error) {
	q := `
SELECT ` + bookColumns + `
FROM books
WHERE ($1 = '' OR lower(genre) = lower($1))
  AND ($2 = '' OR title ILIKE '%' || $2 || '%' OR author ILIKE '%' || $2 || '%')
ORDER BY title ASC
`
	rows, err := r.pool.Query(ctx, q, params.Genre, params.Query)
	if err != nil {
		r.logger.Printf("book repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("book repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("book repo: list genre=%q query=%q count=%d", params.Genre, params.Query, len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books
WHERE book_id = $1
`
	b, err := scanBook(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("book repo: get id=%d not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("book repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return b, nil
}

func (r *postgresRepo) Create(ctx context.Context, b domain.Book) (*domain.Book, error) {
	const q = `
INSERT INTO books (title, author, genre, price, stock_quantity, image_url, description)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + bookColumns + `
`
	created, err := scanBook(r.pool.QueryRow(ctx, q,
		b.Title, b.Author, b.Genre, b.Price, b.StockQuantity, b.ImageURL, b.Description))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("book repo: create title=%q error=%v", b.Title, err)
		return nil, err
	}
	r.logger.Printf("book repo: created id=%d title=%q", created.ID, created.Title)
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, b domain.Book) (*domain.Book, error) {
	const q = `
UPDATE books
SET title = $2, author = $3, genre = $4, price = $5, stock_quantity = $6,
    image_url = $7, description = $8, updated_at = now()
WHERE book_id = $1
RETURNING ` + bookColumns + `
`
	updated, err := scanBook(r.pool.QueryRow(ctx, q,
		b.ID, b.Title, b.Author, b.Genre, b.Price, b.StockQuantity, b.ImageURL, b.Description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("book repo: update id=%d error=%v", b.ID, err)
		return nil, err
	}
	r.logger.Printf("book repo: updated id=%d title=%q", updated.ID, updated.Title)
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM books WHERE book_id = $1`, id)
	if err != nil {
		r.logger.Printf("book repo: delete id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("book repo: deleted id=%d", id)
	return nil
}

func (r *postgresRepo) Upsert(ctx context.Context, b domain.Book) (*domain.Book, error) {
	const q = `
INSERT INTO books (title, author, genre, price, stock_quantity, image_url, description)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (lower(title), lower(author)) DO UPDATE SET
    genre = EXCLUDED.genre,
    price = EXCLUDED.price,
    stock_quantity = EXCLUDED.stock_quantity,
    image_url = EXCLUDED.image_url,
    description = EXCLUDED.description,
    updated_at = now()
RETURNING ` + bookColumns + `
`
	saved, err := scanBook(r.pool.QueryRow(ctx, q,
		b.Title, b.Author, b.Genre, b.Price, b.StockQuantity, b.ImageURL, b.Description))
	if err != nil {
		r.logger.Printf("book repo: upsert title=%q error=%v", b.Title, err)
		return nil, err
	}
	r.logger.Printf("book repo: upserted id=%d title=%q", saved.ID, saved.Title)
	return saved, nil
}

func (r *postgresRepo) DecreaseStock(ctx context.Context, tx pgx.Tx, bookID int64, quantity int) error {
	if quantity <= 0 {
		return domain.Validationf("stock decrement quantity must be positive")
	}
	if tx != nil {
		return decreaseStockLocked(ctx, tx, bookID, quantity)
	}

	own, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Database(err, "could not update book stock")
	}
	defer own.Rollback(ctx)

	if err := decreaseStockLocked(ctx, own, bookID, quantity); err != nil {
		return err
	}
	if err := own.Commit(ctx); err != nil {
		return domain.Database(err, "could not update book stock")
	}
	r.logger.Printf("book repo: stock decreased id=%d qty=%d", bookID, quantity)
	return nil
}

// decreaseStockLocked performs the locked read-check-write. The FOR UPDATE
// lock is what prevents two concurrent decrements from both reading stale
// stock and driving the quantity negative.
func decreaseStockLocked(ctx context.Context, tx pgx.Tx, bookID int64, quantity int) error {
	var (
		title string
		stock int
	)
	err := tx.QueryRow(ctx, `
SELECT title, stock_quantity
FROM books
WHERE book_id = $1
FOR UPDATE
`, bookID).Scan(&title, &stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NotFoundf("book %d not found", bookID)
		}
		return domain.Database(err, "could not check book stock")
	}

	if quantity > stock {
		return domain.Validationf("not enough stock for %q: only %d available", title, stock)
	}

	if _, err := tx.Exec(ctx, `
UPDATE books
SET stock_quantity = stock_quantity - $2, updated_at = now()
WHERE book_id = $1
`, bookID, quantity); err != nil {
		return domain.Database(err, "could not update book stock")
	}
	return nil
}

func scanBook(row pgx.Row) (*domain.Book, error) {
	var b domain.Book
	if err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Genre,
		&b.Price,
		&b.StockQuantity,
		&b.ImageURL,
		&b.Description,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
