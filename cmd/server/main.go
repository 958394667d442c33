package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"eventmaster/internal/config"
	"eventmaster/internal/handlers"
	"eventmaster/internal/logger"
	"eventmaster/internal/services"
	"eventmaster/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the order store
	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open order store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer storage.Close(store)

	// A misconfigured backend still starts the server so /health can say why.
	book, err := services.Attach(ctx, store, log)
	if err != nil {
		log.Error("failed to load orders", "backend", cfg.StoreBackend, "error", err)
	}
	defer book.Close()

	orderService := services.NewOrderService(store, book, services.SystemClock{}, log)

	if cfg.SeedDemo && err == nil {
		n, err := services.SeedDemo(ctx, orderService, book)
		if err != nil {
			log.Error("failed to seed demo orders", "error", err)
		} else if n > 0 {
			log.Info("seeded demo orders", "count", n)
		}
	}

	apiHandler := handlers.NewAPIHandler(orderService, book, store, cfg.StoreBackend, services.SystemClock{}, log)

	// Setup routes
	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	apiHandler.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Info("server starting", "port", cfg.ServerPort, "backend", cfg.StoreBackend, "live", book.Live())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
