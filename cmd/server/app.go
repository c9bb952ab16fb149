package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/platform/postgres"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// application bundles the server's dependencies so handlers and routes can
// be wired from a single place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore  store.UserStore
	taskStore  store.TaskStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
}

// newApplication constructs the service and store layers on top of an open
// database connection.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	return &application{
		config:     cfg,
		logger:     log,
		db:         db,
		userStore:  postgres.NewUserStore(db, log),
		taskStore:  postgres.NewTaskStore(db, log),
		jwtService: jwtService,
		hasher:     auth.NewBcryptHasher(),
	}, nil
}
