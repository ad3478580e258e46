package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type cartRequest struct {
	// Cart maps book id strings to quantities, matching how browser
	// sessions store it.
	Cart map[string]int `json:"cart"`
}

func (h *handlers) quoteCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	items, total, empty, err := h.deps.Cart.Value(c.Request.Context(), req.Cart)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": toCartLineResponses(items),
		"total": total.StringFixed(2),
		"empty": empty,
	})
}

func (h *handlers) reconcileCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	clamped, adjustments, err := h.deps.Cart.ClampToStock(c.Request.Context(), req.Cart)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := gin.H{"cart": clamped}
	if len(adjustments) > 0 {
		resp["adjustments"] = adjustments
	}
	c.JSON(http.StatusOK, resp)
}
