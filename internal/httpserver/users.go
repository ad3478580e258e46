package httpserver

import (
	"log"
	"net/http"
	"strings"

	"bookstore-api/internal/service/user"

	"github.com/gin-gonic/gin"
)

type handlers struct {
	deps   Deps
	logger *log.Logger
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *handlers) signup(c *gin.Context) {
	var req user.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	u, err := h.deps.Users.Signup(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}
	u, access, refresh, err := h.deps.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Login failures always read as 401 regardless of cause.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         u,
		"accessToken":  access,
		"refreshToken": refresh,
		"expiresIn":    h.deps.Users.AccessTTLSeconds(),
	})
}

func (h *handlers) logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token != "" {
		h.deps.Users.Logout(c.Request.Context(), token)
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}

func (h *handlers) listUsers(c *gin.Context) {
	users, err := h.deps.Users.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
