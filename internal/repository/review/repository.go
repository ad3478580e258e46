package review

import (
	"context"

	"bookstore-api/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, r domain.Review) (*domain.Review, error)
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ListByBook(ctx context.Context, bookID int64) ([]domain.Review, error)
	Delete(ctx context.Context, id int64) error
}
