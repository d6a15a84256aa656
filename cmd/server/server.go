package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const SHUTDOWN_TIMEOUT = 3 * time.Second

type application struct {
	logger *slog.Logger
	server *http.Server
}

func newApplication(addr string, handler http.Handler, logger *slog.Logger) *application {
	return &application{
		logger: logger,
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until SIGINT or SIGTERM. In-flight requests see their context
// cancelled before the server shuts down.
func (app *application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app.server.BaseContext = func(_ net.Listener) context.Context {
		return ctx
	}

	shutdownErrCh := make(chan error)

	go func() {
		signalCh := make(chan os.Signal, 1)
		signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

		sig := <-signalCh
		app.logger.Info("[Server] Shutdown signal received", slog.String("signal", sig.String()))

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer shutdownCancel()

		app.logger.Info("[Server] Shutting down gracefully...")
		if err := app.server.Shutdown(shutdownCtx); err != nil {
			shutdownErrCh <- err
			return
		}

		app.logger.Info("[Server] Stopped gracefully")
		shutdownErrCh <- nil
	}()

	app.logger.Info("[Server] HTTP server starting", slog.String("address", app.server.Addr))
	err := app.server.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("[Server] server failed: %w", err)
	}

	if err := <-shutdownErrCh; err != nil {
		return fmt.Errorf("[Server] graceful shutdown failed: %w", err)
	}
	return nil
}
