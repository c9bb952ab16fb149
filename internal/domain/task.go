package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the completion state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskPriority represents the urgency level of a task.
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID          = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID      = errors.New("task user ID cannot be empty")
	ErrEmptyTaskTitle       = errors.New("task title cannot be empty")
	ErrEmptyTaskDescription = errors.New("task description cannot be empty")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
	ErrInvalidTaskPriority  = errors.New("invalid task priority")
)

// Task represents a single unit of work owned by exactly one user.
// Title is unique within the scope of the owning user, never globally.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	UserID      uuid.UUID    `json:"userId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewTask creates a new Task owned by the given user. An empty status or
// priority falls back to the defaults (pending, medium). It generates a new
// UUID for the task ID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewTask(
	userID uuid.UUID,
	title, description string,
	status TaskStatus,
	priority TaskPriority,
) (*Task, error) {
	if status == "" {
		status = TaskStatusPending
	}
	if priority == "" {
		priority = TaskPriorityMedium
	}

	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if t.Description == "" {
		return ErrEmptyTaskDescription
	}

	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}

	if !t.Priority.IsValid() {
		return ErrInvalidTaskPriority
	}

	return nil
}

// ApplyUpdate replaces the mutable fields of the task (full-replace update
// semantics) and touches the UpdatedAt timestamp.
// Returns an error if the resulting task fails validation.
func (t *Task) ApplyUpdate(
	title, description string,
	status TaskStatus,
	priority TaskPriority,
) error {
	t.Title = title
	t.Description = description
	t.Status = status
	t.Priority = priority
	t.UpdatedAt = time.Now().UTC()

	return t.Validate()
}

// IsValid checks if the given status is one of the closed set of
// task status values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// IsValid checks if the given priority is one of the closed set of
// task priority values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}
