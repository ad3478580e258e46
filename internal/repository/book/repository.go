package book

import (
	"context"

	"bookstore-api/internal/domain"

	"github.com/jackc/pgx/v5"
)

// ListParams narrows catalog listings. Zero value lists everything.
type ListParams struct {
	Genre string
	// Query matches title or author, case-insensitively.
	Query string
}

type Repository interface {
	List(ctx context.Context, params ListParams) ([]domain.Book, error)
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	Create(ctx context.Context, b domain.Book) (*domain.Book, error)
	Update(ctx context.Context, b domain.Book) (*domain.Book, error)
	Delete(ctx context.Context, id int64) error
	Upsert(ctx context.Context, b domain.Book) (*domain.Book, error)

	// DecreaseStock atomically subtracts quantity from the book's stock.
	// It takes an exclusive row lock first, so concurrent decrements
	// serialize and stock can never go negative. With a non-nil tx it
	// participates in the caller's transaction and leaves commit/rollback
	// to the caller; with a nil tx it manages its own.
	DecreaseStock(ctx context.Context, tx pgx.Tx, bookID int64, quantity int) error
}
