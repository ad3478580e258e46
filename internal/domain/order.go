package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusPendingPayment is the initial status of every new order. Payment
// handling is out of scope, so no other transitions are defined here.
const StatusPendingPayment = "Pending Payment"

type ShippingAddress struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// Order is the durable aggregate root produced by checkout. Items are owned
// by the order and never mutated after creation.
type Order struct {
	ID          int64           `json:"id"`
	UserID      *int64          `json:"userId,omitempty"`
	GuestEmail  *string         `json:"guestEmail,omitempty"`
	OrderDate   time.Time       `json:"orderDate"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	Shipping    ShippingAddress `json:"shipping"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Items       []OrderItem     `json:"items,omitempty"`
}

// Owner reconstructs the tagged owner identity from the stored columns.
func (o *Order) Owner() Owner {
	if o.UserID != nil {
		return RegisteredUser(*o.UserID)
	}
	if o.GuestEmail != nil {
		return Guest(*o.GuestEmail)
	}
	return Owner{}
}

// OrderItem snapshots one purchased line. UnitPriceAtPurchase is frozen at
// order time and stays accurate even if the book's live price changes later.
// BookTitle and BookImageURL are read-side conveniences joined from the
// catalog, not part of the stored aggregate.
type OrderItem struct {
	ID                  int64           `json:"id"`
	OrderID             int64           `json:"orderId"`
	BookID              int64           `json:"bookId"`
	Quantity            int             `json:"quantity"`
	UnitPriceAtPurchase decimal.Decimal `json:"unitPriceAtPurchase"`
	BookTitle           string          `json:"bookTitle,omitempty"`
	BookImageURL        string          `json:"bookImageUrl,omitempty"`
}
