package order

import (
	"context"
	"errors"
	"io"
	"log"

	"bookstore-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `order_id, user_id, guest_email, order_date, total_amount, status,
shipping_address_line1, shipping_address_line2, shipping_city, shipping_state, shipping_zip_code, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) InsertOrder(ctx context.Context, tx pgx.Tx, o *domain.Order) error {
	const q = `
INSERT INTO orders (user_id, guest_email, total_amount, status,
                    shipping_address_line1, shipping_address_line2,
                    shipping_city, shipping_state, shipping_zip_code)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING order_id, order_date, updated_at
`
	err := tx.QueryRow(ctx, q,
		o.UserID,
		o.GuestEmail,
		o.TotalAmount,
		o.Status,
		o.Shipping.Line1,
		o.Shipping.Line2,
		o.Shipping.City,
		o.Shipping.State,
		o.Shipping.ZipCode,
	).Scan(&o.ID, &o.OrderDate, &o.UpdatedAt)
	if err != nil {
		r.logger.Printf("order repo: insert order error=%v", err)
		return err
	}
	return nil
}

func (r *postgresRepo) InsertItem(ctx context.Context, tx pgx.Tx, item *domain.OrderItem) error {
	const q = `
INSERT INTO order_items (order_id, book_id, quantity, unit_price_at_purchase)
VALUES ($1, $2, $3, $4)
RETURNING order_item_id
`
	err := tx.QueryRow(ctx, q,
		item.OrderID, item.BookID, item.Quantity, item.UnitPriceAtPurchase,
	).Scan(&item.ID)
	if err != nil {
		r.logger.Printf("order repo: insert item order_id=%d book_id=%d error=%v", item.OrderID, item.BookID, err)
		return err
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	const orderQuery = `
SELECT ` + orderColumns + `
FROM orders
WHERE order_id = $1
`
	o, err := scanOrder(r.pool.QueryRow(ctx, orderQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("order repo: get id=%d not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%d error=%v", id, err)
		return nil, err
	}

	const itemsQuery = `
SELECT oi.order_item_id, oi.order_id, oi.book_id, oi.quantity, oi.unit_price_at_purchase,
       b.title, b.image_url
FROM order_items oi
JOIN books b ON b.book_id = oi.book_id
WHERE oi.order_id = $1
ORDER BY oi.order_item_id ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Printf("order repo: get items id=%d error=%v", id, err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.BookID,
			&item.Quantity,
			&item.UnitPriceAtPurchase,
			&item.BookTitle,
			&item.BookImageURL,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Printf("order repo: get id=%d items=%d", id, len(o.Items))
	return o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY order_date DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("order repo: list user_id=%d error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: list user_id=%d count=%d", userID, len(result))
	return result, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.GuestEmail,
		&o.OrderDate,
		&o.TotalAmount,
		&o.Status,
		&o.Shipping.Line1,
		&o.Shipping.Line2,
		&o.Shipping.City,
		&o.Shipping.State,
		&o.Shipping.ZipCode,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
