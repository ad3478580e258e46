package httpserver

import (
	"log"

	"bookstore-api/internal/service/cart"
	"bookstore-api/internal/service/catalog"
	"bookstore-api/internal/service/order"
	"bookstore-api/internal/service/review"
	"bookstore-api/internal/service/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the services the handlers depend on.
type Deps struct {
	Catalog *catalog.Service
	Cart    *cart.Service
	Orders  *order.Service
	Users   *user.Service
	Reviews *review.Service
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(corsOrigins) == 1 && corsOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = corsOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", guestEmailHeader)
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}
	authn := authenticate(deps.Users)

	router.POST("/auth/signup", h.signup)
	router.POST("/auth/login", h.login)
	router.POST("/auth/logout", authn, h.logout)
	router.GET("/me", authn, requireUser(), h.me)

	router.GET("/books", h.listBooks)
	router.GET("/books/:id", h.getBook)
	router.GET("/books/:id/reviews", h.listReviews)
	router.POST("/books/:id/reviews", authn, requireUser(), h.addReview)
	router.DELETE("/reviews/:id", authn, requireUser(), h.deleteReview)

	router.POST("/cart/quote", h.quoteCart)
	router.POST("/cart/reconcile", h.reconcileCart)

	router.POST("/checkout", authn, h.checkout)
	router.GET("/orders", authn, requireUser(), h.listOrders)
	router.GET("/orders/:id", authn, h.getOrder)

	admin := router.Group("/admin", authn, requireAdmin())
	admin.POST("/books", h.createBook)
	admin.PUT("/books/:id", h.updateBook)
	admin.DELETE("/books/:id", h.deleteBook)
	admin.GET("/users", h.listUsers)

	return router
}
