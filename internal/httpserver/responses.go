package httpserver

import (
	"errors"
	"net/http"
	"time"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/service/cart"

	"github.com/gin-gonic/gin"
)

// writeError translates an application error into an HTTP response. Only
// the safe user message leaves the process; wrapped causes stay in logs.
func writeError(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	body := gin.H{"error": de.Message, "kind": string(de.Kind)}
	if len(de.Fields) > 0 {
		body["fields"] = de.Fields
	}
	c.JSON(statusFor(de.Kind), body)
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindOrderProcessing:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Monetary amounts are rendered as fixed two-decimal strings so clients
// never see float artifacts or varying precision.

type bookResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre,omitempty"`
	Price         string `json:"price"`
	StockQuantity int    `json:"stockQuantity"`
	ImageURL      string `json:"imageUrl,omitempty"`
	Description   string `json:"description,omitempty"`
}

func toBookResponse(b domain.Book) bookResponse {
	return bookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		Price:         b.Price.StringFixed(2),
		StockQuantity: b.StockQuantity,
		ImageURL:      b.ImageURL,
		Description:   b.Description,
	}
}

func toBookResponses(books []domain.Book) []bookResponse {
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	return out
}

type cartLineResponse struct {
	BookID        int64  `json:"bookId"`
	Title         string `json:"title"`
	Quantity      int    `json:"quantity"`
	UnitPrice     string `json:"unitPrice"`
	LineTotal     string `json:"lineTotal"`
	StockQuantity int    `json:"stockQuantity"`
	ImageURL      string `json:"imageUrl,omitempty"`
}

func toCartLineResponses(items []cart.LineItem) []cartLineResponse {
	out := make([]cartLineResponse, 0, len(items))
	for _, it := range items {
		out = append(out, cartLineResponse{
			BookID:        it.BookID,
			Title:         it.Title,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice.StringFixed(2),
			LineTotal:     it.LineTotal.StringFixed(2),
			StockQuantity: it.StockQuantity,
			ImageURL:      it.ImageURL,
		})
	}
	return out
}

type orderItemResponse struct {
	ID                  int64  `json:"id"`
	BookID              int64  `json:"bookId"`
	Quantity            int    `json:"quantity"`
	UnitPriceAtPurchase string `json:"unitPriceAtPurchase"`
	BookTitle           string `json:"bookTitle,omitempty"`
	BookImageURL        string `json:"bookImageUrl,omitempty"`
}

type orderResponse struct {
	ID          int64                  `json:"id"`
	UserID      *int64                 `json:"userId,omitempty"`
	GuestEmail  *string                `json:"guestEmail,omitempty"`
	OrderDate   string                 `json:"orderDate"`
	TotalAmount string                 `json:"totalAmount"`
	Status      string                 `json:"status"`
	Shipping    domain.ShippingAddress `json:"shipping"`
	Items       []orderItemResponse    `json:"items,omitempty"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		GuestEmail:  o.GuestEmail,
		OrderDate:   o.OrderDate.UTC().Format(time.RFC3339),
		TotalAmount: o.TotalAmount.StringFixed(2),
		Status:      o.Status,
		Shipping:    o.Shipping,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ID:                  it.ID,
			BookID:              it.BookID,
			Quantity:            it.Quantity,
			UnitPriceAtPurchase: it.UnitPriceAtPurchase.StringFixed(2),
			BookTitle:           it.BookTitle,
			BookImageURL:        it.BookImageURL,
		})
	}
	return resp
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	return out
}
