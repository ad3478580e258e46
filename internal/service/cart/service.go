// Package cart turns a raw session cart map (book id string -> quantity)
// into a priced, stock-aware view. Valuation is read-only and idempotent;
// it never touches persistent state, so callers may run it on every page
// view. The committing path lives in service/order.
package cart

import (
	"context"
	"io"
	"log"
	"sort"
	"strconv"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/money"

	"github.com/shopspring/decimal"
)

type bookFinder interface {
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
}

type Service struct {
	books  bookFinder
	logger *log.Logger
}

func New(books bookFinder, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{books: books, logger: logger}
}

// LineItem is one priced row of a valued cart.
type LineItem struct {
	BookID        int64           `json:"bookId"`
	Title         string          `json:"title"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
	StockQuantity int             `json:"stockQuantity"`
	ImageURL      string          `json:"imageUrl,omitempty"`
}

// Value prices the cart. Lines with non-positive quantities, malformed book
// ids, or vanished books are dropped with a warning rather than failing the
// whole cart. Line totals are rounded per line for display; the grand total
// accumulates the exact amounts and is rounded once at the end. Lines come
// back in ascending book id order so repeated calls render identically.
func (s *Service) Value(ctx context.Context, cartMap map[string]int) ([]LineItem, decimal.Decimal, bool, error) {
	if len(cartMap) == 0 {
		return nil, decimal.Zero, true, nil
	}

	var (
		items      []LineItem
		grandTotal = decimal.Zero
	)
	for _, entry := range sortedEntries(cartMap, s.logger) {
		id, quantity := entry.id, entry.quantity
		if quantity <= 0 {
			s.logger.Printf("cart: skipping book %d with non-positive quantity %d", id, quantity)
			continue
		}

		book, err := s.books.GetByID(ctx, id)
		if err != nil {
			if domain.IsNotFound(err) {
				// A deleted book must never break viewing the rest
				// of the cart.
				s.logger.Printf("cart: book %d no longer exists, dropping line", id)
				continue
			}
			return nil, decimal.Zero, false, domain.Database(err, "could not price your cart")
		}

		exact := money.LineTotal(book.Price, quantity)
		items = append(items, LineItem{
			BookID:        book.ID,
			Title:         book.Title,
			Quantity:      quantity,
			UnitPrice:     book.Price,
			LineTotal:     money.RoundCents(exact),
			StockQuantity: book.StockQuantity,
			ImageURL:      book.ImageURL,
		})
		grandTotal = grandTotal.Add(exact)
	}

	grandTotal = money.RoundCents(grandTotal)
	return items, grandTotal, len(items) == 0, nil
}

// Adjustment records one cart rewrite made by ClampToStock.
type Adjustment struct {
	BookID  int64  `json:"bookId"`
	Title   string `json:"title,omitempty"`
	From    int    `json:"from"`
	To      int    `json:"to"`
	Removed bool   `json:"removed"`
}

// ClampToStock returns a copy of the cart with quantities capped at live
// stock, plus the adjustments made. Out-of-stock, deleted, and malformed
// entries are removed. This is the advisory UX policy from the cart page;
// it never substitutes for the locked re-check done at order time.
func (s *Service) ClampToStock(ctx context.Context, cartMap map[string]int) (map[string]int, []Adjustment, error) {
	clamped := make(map[string]int, len(cartMap))
	var adjustments []Adjustment

	for _, entry := range sortedEntries(cartMap, s.logger) {
		id, key, quantity := entry.id, entry.key, entry.quantity
		if quantity <= 0 {
			adjustments = append(adjustments, Adjustment{BookID: id, From: quantity, Removed: true})
			continue
		}

		book, err := s.books.GetByID(ctx, id)
		if err != nil {
			if domain.IsNotFound(err) {
				adjustments = append(adjustments, Adjustment{BookID: id, From: quantity, Removed: true})
				continue
			}
			return nil, nil, domain.Database(err, "could not check cart stock")
		}

		switch {
		case book.StockQuantity == 0:
			adjustments = append(adjustments, Adjustment{
				BookID: id, Title: book.Title, From: quantity, Removed: true,
			})
		case quantity > book.StockQuantity:
			clamped[key] = book.StockQuantity
			adjustments = append(adjustments, Adjustment{
				BookID: id, Title: book.Title, From: quantity, To: book.StockQuantity,
			})
		default:
			clamped[key] = quantity
		}
	}

	return clamped, adjustments, nil
}

type cartEntry struct {
	id       int64
	key      string
	quantity int
}

// sortedEntries parses the cart keys and returns the valid entries in
// ascending book id order. Malformed keys are logged and dropped.
func sortedEntries(cartMap map[string]int, logger *log.Logger) []cartEntry {
	entries := make([]cartEntry, 0, len(cartMap))
	for key, quantity := range cartMap {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			logger.Printf("cart: dropping malformed book id %q", key)
			continue
		}
		entries = append(entries, cartEntry{id: id, key: key, quantity: quantity})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	return entries
}
