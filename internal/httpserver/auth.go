package httpserver

import (
	"net/http"
	"strings"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/service/user"

	"github.com/gin-gonic/gin"
)

const (
	userContextKey   = "authenticatedUser"
	guestEmailHeader = "X-Guest-Email"
)

// authenticate resolves a Bearer token into a user and stores it on the
// context. Requests without a token pass through anonymously; a token that
// is present but invalid is rejected outright.
func authenticate(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}
		u, err := users.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(userContextKey, u)
		c.Next()
	}
}

// requireUser rejects requests that did not authenticate.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// requireAdmin rejects requests from anyone but admins.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !u.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

// requesterIdentity builds the owner identity for order endpoints: the
// signed-in user when present, otherwise a guest identified by the
// X-Guest-Email header. The zero Owner means no identity was offered.
func requesterIdentity(c *gin.Context) domain.Owner {
	if u := currentUser(c); u != nil {
		return domain.RegisteredUser(u.ID)
	}
	if email := strings.TrimSpace(c.GetHeader(guestEmailHeader)); email != "" {
		return domain.Guest(email)
	}
	return domain.Owner{}
}
