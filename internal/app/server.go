// server/internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"food-facilities-api-server/config"
	"food-facilities-api-server/internal/api/routes"
	"food-facilities-api-server/internal/socket"

	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 10 * time.Second

// Run loads the dataset and serves the API until ctx is cancelled, then
// shuts the server down gracefully.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	facilities, err := LoadFacilities(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("load facilities: %w", err)
	}

	searcher, engine, err := NewSearcher(facilities, cfg.Search, logger)
	if err != nil {
		return fmt.Errorf("create searcher: %w", err)
	}

	ln, err := net.Listen("tcp", ":"+cfg.Server.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	hub := socket.NewHub(logger)
	router := routes.SetupRouter(cfg, searcher, engine, hub, logger)

	logger.Info("starting API server",
		slog.String("addr", ln.Addr().String()),
		slog.Int("facilities", engine.Len()),
		slog.Bool("in_memory", cfg.InMemory()))
	return serve(ctx, ln, router, hub, cfg.Server.ShutdownTimeout, logger)
}

// serve runs handler on ln until ctx is cancelled. Shutdown closes websocket
// sessions first, then drains in-flight requests within timeout.
func serve(ctx context.Context, ln net.Listener, handler http.Handler, hub *socket.Hub, timeout time.Duration, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		logger.Info("shutting down API server")
		hub.CloseAll()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
