package main

import (
	"context"
	"log"
	"os"

	"productdesk/internal/config"
	"productdesk/internal/db"
	productrepo "productdesk/internal/repository/product"
	sessionrepo "productdesk/internal/repository/session"
	userrepo "productdesk/internal/repository/user"
	"productdesk/internal/seed"
	authsvc "productdesk/internal/service/auth"
	productsvc "productdesk/internal/service/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	authService := authsvc.New(userrepo.NewPostgres(pool, logger), sessionrepo.NewPostgres(pool), cfg.SessionTTL)
	productService := productsvc.New(productrepo.NewPostgres(pool, logger))

	res, err := seed.Apply(ctx, authService, productService, seed.Options{
		UserEmail:    cfg.SeedUserEmail,
		UserPassword: cfg.SeedUserPassword,
		Products:     cfg.SeedProducts,
	})
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seed applied user_created=%t products_created=%d", res.UserCreated, res.ProductsCreated)
}
