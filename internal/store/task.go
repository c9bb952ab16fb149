package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrTaskTitleExists if the owning user already has a task
	// with the same title.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID regardless of owner.
	// Ownership checks are the caller's responsibility.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetByUserAndTitle retrieves the task with the given title owned by
	// the given user. Returns ErrTaskNotFound if no such task exists.
	GetByUserAndTitle(ctx context.Context, userID uuid.UUID, title string) (*domain.Task, error)

	// Update persists the mutable fields of an existing task
	// (title, description, status, priority, updated_at).
	// Returns ErrTaskNotFound if the task does not exist and
	// ErrTaskTitleExists if the new title collides for the owning user.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of the user's tasks together with pagination
	// metadata. The query is always scoped to the given user ID; params
	// only narrow it further.
	List(ctx context.Context, userID uuid.UUID, params ListParams) ([]domain.Task, Pagination, error)
}
