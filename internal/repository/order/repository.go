package order

import (
	"context"

	"bookstore-api/internal/domain"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	// InsertOrder writes the order row inside the caller's transaction and
	// fills the generated id and timestamps on o.
	InsertOrder(ctx context.Context, tx pgx.Tx, o *domain.Order) error
	// InsertItem writes one order item inside the caller's transaction and
	// fills its generated id.
	InsertItem(ctx context.Context, tx pgx.Tx, item *domain.OrderItem) error
	// GetByID returns the order with its items (ascending item id), each
	// item carrying the book's title and image for display.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// ListByUser returns order summaries (no items) newest first.
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
}
