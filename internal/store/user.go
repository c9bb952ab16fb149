// Package store defines the persistence interfaces and shared errors for
// the application's entities. Implementations live under platform/postgres.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists or ErrUsernameExists if the respective unique
	// field is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByEmailOrUsername retrieves the first user matching either the
	// email or the username. Used as the duplicate probe during
	// registration. Returns ErrUserNotFound if no user matches.
	GetByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)

	// UpdateRefreshToken overwrites the user's stored refresh token. An
	// empty token clears it. Overwriting invalidates any previously issued
	// refresh token, enforcing the single-session-per-user policy.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, refreshToken string) error
}
