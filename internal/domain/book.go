package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	Genre         string          `json:"genre"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
