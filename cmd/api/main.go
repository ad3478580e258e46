package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bookstore-api/internal/config"
	"bookstore-api/internal/db"
	"bookstore-api/internal/httpserver"
	bookrepo "bookstore-api/internal/repository/book"
	orderrepo "bookstore-api/internal/repository/order"
	reviewrepo "bookstore-api/internal/repository/review"
	tokenrepo "bookstore-api/internal/repository/token"
	userrepo "bookstore-api/internal/repository/user"
	cartsvc "bookstore-api/internal/service/cart"
	catalogsvc "bookstore-api/internal/service/catalog"
	ordersvc "bookstore-api/internal/service/order"
	reviewsvc "bookstore-api/internal/service/review"
	usersvc "bookstore-api/internal/service/user"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	books := bookrepo.NewPostgres(dbpool, logger)
	orders := orderrepo.NewPostgres(dbpool, logger)
	users := userrepo.NewPostgres(dbpool, logger)
	tokens := tokenrepo.NewPostgres(dbpool)
	reviews := reviewrepo.NewPostgres(dbpool, logger)

	deps := httpserver.Deps{
		Catalog: catalogsvc.New(books, logger),
		Cart:    cartsvc.New(books, logger),
		Orders:  ordersvc.New(dbpool, books, orders, logger),
		Users:   usersvc.New(users, tokens, cfg.BcryptCost, logger),
		Reviews: reviewsvc.New(reviews, books, logger),
	}

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, deps, cfg.CORSOrigins)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
