package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// Register the pgx database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/migrations"
)

// openDatabase establishes a connection to Postgres and configures the
// connection pool. Returns the connection if the initial ping succeeds.
func openDatabase(cfg config.DatabaseConfig, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established")
	return db, nil
}

// runMigrations applies any pending embedded migrations.
func runMigrations(db *sql.DB, log *slog.Logger) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations applied")
	return nil
}
