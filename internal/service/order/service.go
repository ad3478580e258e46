// Package order implements checkout: turning a validated cart into a
// durable order in a single database transaction, and reading orders back
// under the owner's authorization.
package order

import (
	"context"
	"io"
	"log"
	"net/mail"
	"sort"
	"strconv"
	"strings"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/money"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type bookRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	DecreaseStock(ctx context.Context, tx pgx.Tx, bookID int64, quantity int) error
}

type orderRepo interface {
	InsertOrder(ctx context.Context, tx pgx.Tx, o *domain.Order) error
	InsertItem(ctx context.Context, tx pgx.Tx, item *domain.OrderItem) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
}

type Service struct {
	db     txBeginner
	books  bookRepo
	orders orderRepo
	logger *log.Logger
}

func New(db txBeginner, books bookRepo, orders orderRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{db: db, books: books, orders: orders, logger: logger}
}

// CreateInput carries everything checkout needs. Cart maps book id strings
// to quantities, exactly as the session stores them.
type CreateInput struct {
	Owner    domain.Owner
	Cart     map[string]int
	Shipping domain.ShippingAddress
}

// pendingLine is one validated cart line waiting for the commit pass.
type pendingLine struct {
	bookID    int64
	quantity  int
	unitPrice decimal.Decimal
}

// Create places an order. It runs two passes: first every line is validated
// against the live catalog without touching any state, then all writes
// happen inside one transaction. If anything fails in the second pass the
// transaction rolls back and no order, item, or stock change survives.
//
// The first pass is a fast-fail courtesy only. Stock is re-checked under a
// row lock inside the transaction, which is the decrement that actually
// counts when carts race for the last copies.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	o, lines, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.Database(err, "could not start checkout")
	}
	defer tx.Rollback(ctx)

	if err := s.orders.InsertOrder(ctx, tx, o); err != nil {
		return nil, domain.Database(err, "could not create order")
	}

	for _, line := range lines {
		// Known failure kinds from the ledger (a book vanishing, or a
		// racing order draining the stock) surface to the caller as-is.
		if err := s.books.DecreaseStock(ctx, tx, line.bookID, line.quantity); err != nil {
			s.logger.Printf("order: checkout for %s aborted at book %d: %v", in.Owner, line.bookID, err)
			return nil, err
		}
		item := domain.OrderItem{
			OrderID:             o.ID,
			BookID:              line.bookID,
			Quantity:            line.quantity,
			UnitPriceAtPurchase: line.unitPrice,
		}
		if err := s.orders.InsertItem(ctx, tx, &item); err != nil {
			return nil, domain.Database(err, "could not create order")
		}
		o.Items = append(o.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Database(err, "could not finalize order")
	}

	s.logger.Printf("order: created id=%d owner=%s total=%s items=%d",
		o.ID, in.Owner, o.TotalAmount.StringFixed(2), len(o.Items))
	return o, nil
}

// validate is the read-only first pass. It checks the owner, the shipping
// address, and every cart line, and computes the order total from live
// catalog prices. Unlike cart valuation, any bad line fails the whole
// checkout instead of being dropped.
func (s *Service) validate(ctx context.Context, in CreateInput) (*domain.Order, []pendingLine, error) {
	if len(in.Cart) == 0 {
		return nil, nil, domain.Validationf("cart is empty")
	}
	if in.Owner.IsZero() {
		return nil, nil, domain.Validationf("order must belong to a signed-in user or a guest email")
	}
	if email, ok := in.Owner.GuestEmail(); ok {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, nil, domain.ValidationFields("invalid guest email", map[string]string{
				"guestEmail": "must be a valid email address",
			})
		}
	}
	if fields := missingShippingFields(in.Shipping); len(fields) > 0 {
		return nil, nil, domain.ValidationFields("shipping address is incomplete", fields)
	}

	lines := make([]pendingLine, 0, len(in.Cart))
	total := decimal.Zero
	for key, quantity := range in.Cart {
		bookID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, nil, domain.Validationf("invalid book id %q in cart", key)
		}
		if quantity <= 0 {
			return nil, nil, domain.Validationf("invalid quantity %d for book %d", quantity, bookID)
		}

		book, err := s.books.GetByID(ctx, bookID)
		if err != nil {
			if domain.IsNotFound(err) {
				return nil, nil, domain.NotFoundf("book %d not found", bookID)
			}
			return nil, nil, domain.Database(err, "could not verify cart")
		}
		if quantity > book.StockQuantity {
			return nil, nil, domain.OrderProcessingf("not enough stock for %q: only %d available", book.Title, book.StockQuantity)
		}

		lines = append(lines, pendingLine{bookID: bookID, quantity: quantity, unitPrice: book.Price})
		total = total.Add(money.LineTotal(book.Price, quantity))
	}

	// Decrement in ascending book id order so two overlapping checkouts
	// always lock rows in the same sequence and cannot deadlock.
	sort.Slice(lines, func(i, j int) bool { return lines[i].bookID < lines[j].bookID })

	o := &domain.Order{
		TotalAmount: money.RoundCents(total),
		Status:      domain.StatusPendingPayment,
		Shipping:    in.Shipping,
	}
	if userID, ok := in.Owner.UserID(); ok {
		o.UserID = &userID
	} else if email, ok := in.Owner.GuestEmail(); ok {
		o.GuestEmail = &email
	}
	return o, lines, nil
}

// Get returns the order when the requester is its owner. Ownership means
// either the matching registered user id or, for guest orders, the same
// email ignoring case. Missing orders report not found before any
// authorization check so probing ids reveals nothing.
func (s *Service) Get(ctx context.Context, id int64, requester domain.Owner) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NotFoundf("order %d not found", id)
		}
		return nil, domain.Database(err, "could not load order")
	}

	if !s.authorized(o, requester) {
		s.logger.Printf("order: denied access to order %d for %s", id, requester)
		return nil, domain.Authorizationf("you do not have access to order %d", id)
	}
	return o, nil
}

// ListByUser returns the registered user's order summaries, newest first.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.Database(err, "could not load orders")
	}
	return orders, nil
}

func (s *Service) authorized(o *domain.Order, requester domain.Owner) bool {
	if userID, ok := requester.UserID(); ok {
		return o.UserID != nil && *o.UserID == userID
	}
	if email, ok := requester.GuestEmail(); ok {
		return o.GuestEmail != nil && strings.EqualFold(*o.GuestEmail, email)
	}
	return false
}

func missingShippingFields(addr domain.ShippingAddress) map[string]string {
	fields := make(map[string]string)
	for name, value := range map[string]string{
		"line1":   addr.Line1,
		"city":    addr.City,
		"state":   addr.State,
		"zipCode": addr.ZipCode,
	} {
		if strings.TrimSpace(value) == "" {
			fields[name] = "is required"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
