package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type bookSeed struct {
	Title       string
	Author      string
	Genre       string
	Price       string
	Stock       int
	ImageURL    string
	Description string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureAdmin(ctx, pool, "admin@bookstore.local", "ChangeMe1"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	books := []bookSeed{
		{
			Title:       "Dune",
			Author:      "Frank Herbert",
			Genre:       "Science Fiction",
			Price:       "12.50",
			Stock:       25,
			Description: "Politics and prophecy on the desert planet Arrakis",
		},
		{
			Title:       "Neuromancer",
			Author:      "William Gibson",
			Genre:       "Science Fiction",
			Price:       "9.99",
			Stock:       12,
			Description: "A washed-up hacker takes one last job",
		},
		{
			Title:       "Pride and Prejudice",
			Author:      "Jane Austen",
			Genre:       "Classic",
			Price:       "7.25",
			Stock:       30,
			Description: "Manners, marriage, and misjudgment in Regency England",
		},
		{
			Title:       "The Name of the Wind",
			Author:      "Patrick Rothfuss",
			Genre:       "Fantasy",
			Price:       "14.00",
			Stock:       8,
			Description: "The legend of Kvothe, told by the man himself",
		},
	}

	for _, b := range books {
		if err := upsertBook(ctx, pool, b); err != nil {
			return fmt.Errorf("upsert book %q: %w", b.Title, err)
		}
	}

	return nil
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (email, password_hash, first_name, last_name, role)
VALUES ($1, $2, 'Store', 'Admin', 'admin')
ON CONFLICT (lower(email)) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hashed))
	return err
}

func upsertBook(ctx context.Context, pool *pgxpool.Pool, b bookSeed) error {
	const q = `
INSERT INTO books (title, author, genre, price, stock_quantity, image_url, description)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (lower(title), lower(author)) DO UPDATE
SET genre = EXCLUDED.genre,
    price = EXCLUDED.price,
    stock_quantity = EXCLUDED.stock_quantity,
    image_url = EXCLUDED.image_url,
    description = EXCLUDED.description,
    updated_at = now()
`
	_, err := pool.Exec(ctx, q, b.Title, b.Author, b.Genre, b.Price, b.Stock, b.ImageURL, b.Description)
	return err
}
