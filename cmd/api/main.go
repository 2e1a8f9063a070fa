// server/cmd/api/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"food-facilities-api-server/config"
	"food-facilities-api-server/internal/app"
	"food-facilities-api-server/internal/logger"
)

func main() {
	// 1. Load configuration
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	// 2. Logger
	l := logger.New(cfg.Log)

	// 3. Serve until SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, l); err != nil {
		l.Error("server stopped", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}
