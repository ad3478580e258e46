package cart

import (
	"context"
	"errors"
	"testing"

	"bookstore-api/internal/domain"

	"github.com/shopspring/decimal"
)

type stubBooks struct {
	books map[int64]*domain.Book
	err   error
}

func (s *stubBooks) GetByID(_ context.Context, id int64) (*domain.Book, error) {
	if s.err != nil {
		return nil, s.err
	}
	b, ok := s.books[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestValueEmptyCart(t *testing.T) {
	svc := New(&stubBooks{}, nil)
	items, total, empty, err := svc.Value(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !empty || len(items) != 0 || !total.IsZero() {
		t.Fatalf("expected empty zero-total cart, got empty=%v items=%d total=%s", empty, len(items), total)
	}
}

func TestValueDropsBadLines(t *testing.T) {
	books := &stubBooks{books: map[int64]*domain.Book{
		1: {ID: 1, Title: "Dune", Price: price("12.50"), StockQuantity: 4},
	}}
	svc := New(books, nil)

	cart := map[string]int{
		"1":      2,  // valid
		"999":    1,  // vanished book
		"potato": 3,  // malformed key
		"1x":     1,  // malformed key
		"2":      -1, // non-positive quantity drops before the lookup
	}
	items, total, empty, err := svc.Value(context.Background(), cart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty {
		t.Fatal("cart with one valid line reported empty")
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].BookID != 1 || items[0].Quantity != 2 {
		t.Fatalf("unexpected line: %+v", items[0])
	}
	if got := items[0].LineTotal.StringFixed(2); got != "25.00" {
		t.Fatalf("line total = %s, want 25.00", got)
	}
	if got := total.StringFixed(2); got != "25.00" {
		t.Fatalf("grand total = %s, want 25.00", got)
	}
}

func TestValueAllLinesDroppedReportsEmpty(t *testing.T) {
	svc := New(&stubBooks{books: map[int64]*domain.Book{}}, nil)
	items, total, empty, err := svc.Value(context.Background(), map[string]int{"42": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !empty || len(items) != 0 || !total.IsZero() {
		t.Fatalf("expected empty result, got empty=%v items=%d total=%s", empty, len(items), total)
	}
}

func TestValueRoundsTotalOnce(t *testing.T) {
	// Each exact line total carries a half cent. Summing the display-rounded
	// line totals would give 20.02; the grand total rounds the exact sum.
	books := &stubBooks{books: map[int64]*domain.Book{
		1: {ID: 1, Title: "A", Price: price("10.005"), StockQuantity: 9},
		2: {ID: 2, Title: "B", Price: price("10.005"), StockQuantity: 9},
	}}
	svc := New(books, nil)

	items, total, _, err := svc.Value(context.Background(), map[string]int{"1": 1, "2": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := items[0].LineTotal.StringFixed(2); got != "10.01" {
		t.Fatalf("display line total = %s, want 10.01", got)
	}
	if got := total.StringFixed(2); got != "20.01" {
		t.Fatalf("grand total = %s, want 20.01", got)
	}
}

func TestValueOrdersLinesByBookID(t *testing.T) {
	books := &stubBooks{books: map[int64]*domain.Book{
		3: {ID: 3, Title: "C", Price: price("1.00"), StockQuantity: 1},
		1: {ID: 1, Title: "A", Price: price("1.00"), StockQuantity: 1},
		2: {ID: 2, Title: "B", Price: price("1.00"), StockQuantity: 1},
	}}
	svc := New(books, nil)

	for i := 0; i < 3; i++ {
		items, _, _, err := svc.Value(context.Background(), map[string]int{"2": 1, "3": 1, "1": 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for j, want := range []int64{1, 2, 3} {
			if items[j].BookID != want {
				t.Fatalf("run %d: items[%d].BookID = %d, want %d", i, j, items[j].BookID, want)
			}
		}
	}
}

func TestValuePropagatesInfrastructureErrors(t *testing.T) {
	svc := New(&stubBooks{err: errors.New("connection refused")}, nil)
	_, _, _, err := svc.Value(context.Background(), map[string]int{"1": 1})
	if !domain.IsDatabase(err) {
		t.Fatalf("expected database error, got %v", err)
	}
}

func TestClampToStock(t *testing.T) {
	books := &stubBooks{books: map[int64]*domain.Book{
		1: {ID: 1, Title: "Plenty", StockQuantity: 10},
		2: {ID: 2, Title: "Scarce", StockQuantity: 3},
		3: {ID: 3, Title: "Gone", StockQuantity: 0},
	}}
	svc := New(books, nil)

	clamped, adjustments, err := svc.ClampToStock(context.Background(), map[string]int{
		"1": 2,  // untouched
		"2": 5,  // capped to 3
		"3": 1,  // removed, out of stock
		"9": 1,  // removed, deleted book
		"4": -2, // removed, bad quantity
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clamped) != 2 {
		t.Fatalf("clamped cart has %d entries, want 2: %v", len(clamped), clamped)
	}
	if clamped["1"] != 2 || clamped["2"] != 3 {
		t.Fatalf("unexpected clamped cart: %v", clamped)
	}
	if len(adjustments) != 4 {
		t.Fatalf("expected 4 adjustments, got %d: %+v", len(adjustments), adjustments)
	}
	for _, adj := range adjustments {
		switch adj.BookID {
		case 2:
			if adj.Removed || adj.From != 5 || adj.To != 3 {
				t.Fatalf("unexpected cap adjustment: %+v", adj)
			}
		case 3, 9, 4:
			if !adj.Removed {
				t.Fatalf("expected removal for book %d: %+v", adj.BookID, adj)
			}
		default:
			t.Fatalf("unexpected adjustment for book %d", adj.BookID)
		}
	}
}
