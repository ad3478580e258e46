package user

import (
	"context"

	"bookstore-api/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}
