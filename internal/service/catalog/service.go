// Package catalog exposes the book catalog: public browse/search and the
// admin-only write operations behind it.
package catalog

import (
	"context"
	"io"
	"log"
	"strings"

	"bookstore-api/internal/domain"
	bookrepo "bookstore-api/internal/repository/book"

	"github.com/shopspring/decimal"
)

type Service struct {
	repo   bookrepo.Repository
	logger *log.Logger
}

func New(repo bookrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

// List returns the catalog filtered by genre and/or a title/author search.
func (s *Service) List(ctx context.Context, params bookrepo.ListParams) ([]domain.Book, error) {
	books, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, domain.Database(err, "could not load catalog")
	}
	return books, nil
}

// Get returns one book by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NotFoundf("book %d not found", id)
		}
		return nil, domain.Database(err, "could not load book")
	}
	return b, nil
}

// Create adds a new book to the catalog.
func (s *Service) Create(ctx context.Context, b domain.Book) (*domain.Book, error) {
	if err := validateBook(&b); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, b)
	if err != nil {
		if err == domain.ErrAlreadyExists {
			return nil, domain.Validationf("book %q by %s already exists", b.Title, b.Author)
		}
		return nil, domain.Database(err, "could not create book")
	}
	return created, nil
}

// Update replaces a book's catalog fields.
func (s *Service) Update(ctx context.Context, b domain.Book) (*domain.Book, error) {
	if err := validateBook(&b); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, b)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NotFoundf("book %d not found", b.ID)
		}
		if err == domain.ErrAlreadyExists {
			return nil, domain.Validationf("book %q by %s already exists", b.Title, b.Author)
		}
		return nil, domain.Database(err, "could not update book")
	}
	return updated, nil
}

// Delete removes a book. Books referenced by past orders are protected by
// the database and surface as a validation failure.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if domain.IsNotFound(err) {
			return domain.NotFoundf("book %d not found", id)
		}
		return domain.Validationf("book %d cannot be deleted while orders reference it", id)
	}
	return nil
}

func validateBook(b *domain.Book) error {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Genre = strings.TrimSpace(b.Genre)

	fields := make(map[string]string)
	if b.Title == "" {
		fields["title"] = "is required"
	}
	if b.Author == "" {
		fields["author"] = "is required"
	}
	if b.Price.LessThan(decimal.Zero) {
		fields["price"] = "must not be negative"
	} else if b.Price.Exponent() < -2 {
		fields["price"] = "must have at most two decimal places"
	}
	if b.StockQuantity < 0 {
		fields["stockQuantity"] = "must not be negative"
	}
	if len(fields) > 0 {
		return domain.ValidationFields("invalid book", fields)
	}
	return nil
}
