package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// Unique constraint names from the users migration.
const (
	usersEmailConstraint    = "users_email_key"
	usersUsernameConstraint = "users_username_key"
)

// UserStore implements the store.UserStore interface using a PostgreSQL
// database as the storage backend.
type UserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewUserStore creates a new PostgreSQL implementation of the UserStore
// interface. If logger is nil, the default logger is used.
func NewUserStore(db store.DBTX, log *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &UserStore{
		db:     db,
		logger: log.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

const userColumns = `id, username, email, hashed_password, is_admin, refresh_token, created_at, updated_at`

// Create implements store.UserStore.Create.
// Returns store.ErrEmailExists or store.ErrUsernameExists when the
// respective unique constraint is violated.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (id, username, email, hashed_password, is_admin, refresh_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.IsAdmin,
		user.RefreshToken,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		switch {
		case IsUniqueViolation(err, usersEmailConstraint):
			log.Debug("duplicate email during user creation",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		case IsUniqueViolation(err, usersUsernameConstraint):
			log.Debug("duplicate username during user creation",
				slog.String("user_id", user.ID.String()))
			return store.ErrUsernameExists
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return nil
}

// GetByID implements store.UserStore.GetByID.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail implements store.UserStore.GetByEmail.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, email))
}

// GetByEmailOrUsername implements store.UserStore.GetByEmailOrUsername.
// Returns store.ErrUserNotFound if no user matches either value.
func (s *UserStore) GetByEmailOrUsername(
	ctx context.Context,
	email, username string,
) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR username = $2 LIMIT 1`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, email, username))
}

// UpdateRefreshToken implements store.UserStore.UpdateRefreshToken.
// The write is a single UPDATE; there is deliberately no compare-and-swap
// on the previous token value, so concurrent refreshes race and the last
// writer wins (see the refresh handler for the full story).
func (s *UserStore) UpdateRefreshToken(
	ctx context.Context,
	id uuid.UUID,
	refreshToken string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET refresh_token = NULLIF($2, ''), updated_at = now()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, refreshToken)
	if err != nil {
		log.Error("failed to update refresh token",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// scanUser reads one user row, mapping sql.ErrNoRows to store.ErrUserNotFound.
func (s *UserStore) scanUser(ctx context.Context, row *sql.Row) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	var refreshToken sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.IsAdmin,
		&refreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to scan user row", slog.String("error", err.Error()))
		return nil, err
	}

	user.RefreshToken = refreshToken.String
	return &user, nil
}
