// Package main implements the entry point for the TaskDeck API server,
// a multi-tenant task management backend with JWT authentication.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// run initializes configuration, logging, the database and the dependency
// graph, then serves HTTP until a shutdown signal arrives.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)
	appLogger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("env", cfg.Server.Env))

	db, err := openDatabase(cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	if err := runMigrations(db, appLogger); err != nil {
		return err
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return err
	}

	return app.serve()
}

// serve starts the HTTP server and blocks until SIGINT or SIGTERM, then
// drains in-flight requests before returning.
func (app *application) serve() error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", slog.Int("port", app.config.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-shutdownCh:
		app.logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("server stopped")
	return nil
}
