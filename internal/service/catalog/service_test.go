package catalog

import (
	"context"
	"errors"
	"testing"

	"bookstore-api/internal/domain"
	bookrepo "bookstore-api/internal/repository/book"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type stubRepo struct {
	books      []domain.Book
	getBook    *domain.Book
	getErr     error
	created    *domain.Book
	createErr  error
	updateErr  error
	deleteErr  error
	lastParams bookrepo.ListParams
}

func (s *stubRepo) List(_ context.Context, params bookrepo.ListParams) ([]domain.Book, error) {
	s.lastParams = params
	return s.books, nil
}

func (s *stubRepo) GetByID(_ context.Context, _ int64) (*domain.Book, error) {
	return s.getBook, s.getErr
}

func (s *stubRepo) Create(_ context.Context, b domain.Book) (*domain.Book, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	b.ID = 1
	s.created = &b
	return &b, nil
}

func (s *stubRepo) Update(_ context.Context, b domain.Book) (*domain.Book, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &b, nil
}

func (s *stubRepo) Delete(_ context.Context, _ int64) error {
	return s.deleteErr
}

func (s *stubRepo) Upsert(_ context.Context, b domain.Book) (*domain.Book, error) {
	return &b, nil
}

func (s *stubRepo) DecreaseStock(_ context.Context, _ pgx.Tx, _ int64, _ int) error {
	return nil
}

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func validBook() domain.Book {
	return domain.Book{
		Title:         "Dune",
		Author:        "Frank Herbert",
		Genre:         "Science Fiction",
		Price:         price("12.50"),
		StockQuantity: 5,
	}
}

func TestCreateValidation(t *testing.T) {
	svc := New(&stubRepo{}, nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*domain.Book)
		field  string
	}{
		{"missing title", func(b *domain.Book) { b.Title = "   " }, "title"},
		{"missing author", func(b *domain.Book) { b.Author = "" }, "author"},
		{"negative price", func(b *domain.Book) { b.Price = price("-1.00") }, "price"},
		{"sub-cent price", func(b *domain.Book) { b.Price = price("9.999") }, "price"},
		{"negative stock", func(b *domain.Book) { b.StockQuantity = -1 }, "stockQuantity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := validBook()
			tc.mutate(&b)
			_, err := svc.Create(ctx, b)
			var de *domain.Error
			if !errors.As(err, &de) || de.Kind != domain.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if de.Fields[tc.field] == "" {
				t.Fatalf("expected field error for %q, got %v", tc.field, de.Fields)
			}
		})
	}
}

func TestCreateTrimsAndSaves(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)
	b := validBook()
	b.Title = "  Dune  "

	created, err := svc.Create(context.Background(), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Title != "Dune" {
		t.Fatalf("title = %q, want trimmed", created.Title)
	}
}

func TestCreateDuplicateBecomesValidation(t *testing.T) {
	svc := New(&stubRepo{createErr: domain.ErrAlreadyExists}, nil)
	_, err := svc.Create(context.Background(), validBook())
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := New(&stubRepo{getErr: domain.ErrNotFound}, nil)
	_, err := svc.Get(context.Background(), 42)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListPassesFilters(t *testing.T) {
	repo := &stubRepo{books: []domain.Book{validBook()}}
	svc := New(repo, nil)
	params := bookrepo.ListParams{Genre: "Science Fiction", Query: "dune"}

	books, err := svc.List(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("expected 1 book, got %d", len(books))
	}
	if repo.lastParams != params {
		t.Fatalf("params = %+v, want %+v", repo.lastParams, params)
	}
}

func TestDeleteReferencedBook(t *testing.T) {
	svc := New(&stubRepo{deleteErr: errors.New("violates foreign key constraint")}, nil)
	err := svc.Delete(context.Background(), 1)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
