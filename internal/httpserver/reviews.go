package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *handlers) listReviews(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviews, err := h.deps.Reviews.ListByBook(c.Request.Context(), bookID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *handlers) addReview(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	rev, err := h.deps.Reviews.Add(c.Request.Context(), bookID, currentUser(c).ID, req.Rating, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": rev})
}

func (h *handlers) deleteReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deps.Reviews.Delete(c.Request.Context(), id, currentUser(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
