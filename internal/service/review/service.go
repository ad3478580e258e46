// Package review manages customer book reviews.
package review

import (
	"context"
	"io"
	"log"
	"strings"

	"bookstore-api/internal/domain"
	reviewrepo "bookstore-api/internal/repository/review"
)

type bookFinder interface {
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
}

type Service struct {
	repo   reviewrepo.Repository
	books  bookFinder
	logger *log.Logger
}

func New(repo reviewrepo.Repository, books bookFinder, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, books: books, logger: logger}
}

// Add records one review per user per book. The rating is a whole number
// of stars from 1 to 5.
func (s *Service) Add(ctx context.Context, bookID, userID int64, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.ValidationFields("invalid review", map[string]string{
			"rating": "must be between 1 and 5",
		})
	}
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NotFoundf("book %d not found", bookID)
		}
		return nil, domain.Database(err, "could not add review")
	}

	created, err := s.repo.Create(ctx, domain.Review{
		BookID:  bookID,
		UserID:  userID,
		Rating:  rating,
		Comment: strings.TrimSpace(comment),
	})
	if err != nil {
		if err == domain.ErrAlreadyExists {
			return nil, domain.Validationf("you have already reviewed this book")
		}
		return nil, domain.Database(err, "could not add review")
	}
	s.logger.Printf("review: added id=%d book=%d user=%d rating=%d", created.ID, bookID, userID, rating)
	return created, nil
}

// ListByBook returns a book's reviews, newest first.
func (s *Service) ListByBook(ctx context.Context, bookID int64) ([]domain.Review, error) {
	reviews, err := s.repo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, domain.Database(err, "could not load reviews")
	}
	return reviews, nil
}

// Delete removes a review. Only its author or an admin may do so.
func (s *Service) Delete(ctx context.Context, id int64, requester *domain.User) error {
	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.NotFoundf("review %d not found", id)
		}
		return domain.Database(err, "could not load review")
	}
	if requester == nil || (rev.UserID != requester.ID && !requester.IsAdmin()) {
		return domain.Authorizationf("you cannot delete someone else's review")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if domain.IsNotFound(err) {
			return domain.NotFoundf("review %d not found", id)
		}
		return domain.Database(err, "could not delete review")
	}
	return nil
}
