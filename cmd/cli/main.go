package main

import (
	"context"
	"fmt"
	"os"

	"eventmaster/internal/cli"
	"eventmaster/internal/config"
	"eventmaster/internal/logger"
	"eventmaster/internal/services"
	"eventmaster/internal/storage"
)

func main() {
	cfg := config.Load()
	// Diagnostics go to stderr so --format json output stays clean.
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel, "text")

	open := func(ctx context.Context) (*cli.Session, error) {
		store, err := storage.Open(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		book, err := services.Attach(ctx, store, log)
		if err != nil {
			storage.Close(store)
			return nil, err
		}
		clock := services.SystemClock{}
		return &cli.Session{
			Backend: cfg.StoreBackend,
			Service: services.NewOrderService(store, book, clock, log),
			Book:    book,
			Clock:   clock,
			Close: func() {
				book.Close()
				storage.Close(store)
			},
		}, nil
	}

	if err := cli.NewRootCommand(open).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
