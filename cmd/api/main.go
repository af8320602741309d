package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"productdesk/internal/config"
	"productdesk/internal/db"
	"productdesk/internal/httpserver"
	"productdesk/internal/inertia"
	productrepo "productdesk/internal/repository/product"
	sessionrepo "productdesk/internal/repository/session"
	userrepo "productdesk/internal/repository/user"
	authsvc "productdesk/internal/service/auth"
	productsvc "productdesk/internal/service/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	productService := productsvc.New(productRepo)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	sessionRepo := sessionrepo.NewPostgres(dbpool)
	authService := authsvc.New(userRepo, sessionRepo, cfg.SessionTTL)

	if n, err := authService.Prune(ctx); err != nil {
		logger.Printf("prune sessions: %v", err)
	} else if n > 0 {
		logger.Printf("pruned %d expired sessions", n)
	}

	renderer, err := inertia.New(cfg.AssetVersion, cfg.AssetEntry)
	if err != nil {
		logger.Fatalf("init renderer: %v", err)
	}

	srv, err := httpserver.New(httpserver.Options{Addr: cfg.HTTPAddr, Timeouts: cfg.HTTPTimeouts}, logger, dbpool, httpserver.Deps{
		ProductSvc:   productService,
		AuthSvc:      authService,
		Renderer:     renderer,
		CORSOrigins:  cfg.CORSOrigins,
		SecureCookie: cfg.SessionSecureCookie,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
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
