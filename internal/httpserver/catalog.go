package httpserver

import (
	"net/http"
	"strconv"

	"bookstore-api/internal/domain"
	bookrepo "bookstore-api/internal/repository/book"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type bookRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	Price         string `json:"price"`
	StockQuantity int    `json:"stockQuantity"`
	ImageURL      string `json:"imageUrl"`
	Description   string `json:"description"`
}

func (r bookRequest) toDomain() (domain.Book, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return domain.Book{}, domain.ValidationFields("invalid book", map[string]string{
			"price": "must be a decimal amount",
		})
	}
	return domain.Book{
		Title:         r.Title,
		Author:        r.Author,
		Genre:         r.Genre,
		Price:         price,
		StockQuantity: r.StockQuantity,
		ImageURL:      r.ImageURL,
		Description:   r.Description,
	}, nil
}

func (h *handlers) listBooks(c *gin.Context) {
	params := bookrepo.ListParams{
		Genre: c.Query("genre"),
		Query: c.Query("q"),
	}
	books, err := h.deps.Catalog.List(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": toBookResponses(books)})
}

func (h *handlers) getBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.deps.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": toBookResponse(*b)})
}

func (h *handlers) createBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	b, err := req.toDomain()
	if err != nil {
		writeError(c, err)
		return
	}
	created, err := h.deps.Catalog.Create(c.Request.Context(), b)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"book": toBookResponse(*created)})
}

func (h *handlers) updateBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	b, err := req.toDomain()
	if err != nil {
		writeError(c, err)
		return
	}
	b.ID = id
	updated, err := h.deps.Catalog.Update(c.Request.Context(), b)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": toBookResponse(*updated)})
}

func (h *handlers) deleteBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deps.Catalog.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses a numeric path parameter, responding with 400 on garbage.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
