package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// Unique constraint name from the tasks migration enforcing per-user title
// uniqueness.
const tasksUserTitleConstraint = "tasks_user_id_title_key"

// taskSortColumns maps the API sort field names to the underlying columns.
// Anything not present here has already been normalized away by
// store.ListParams.Normalize.
var taskSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"priority":  "priority",
}

// TaskStore implements the store.TaskStore interface using a PostgreSQL
// database as the storage backend.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface. If logger is nil, the default logger is used.
func NewTaskStore(db store.DBTX, log *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

const taskColumns = `id, title, description, status, priority, user_id, created_at, updated_at`

// Create implements store.TaskStore.Create.
// Returns store.ErrTaskTitleExists when the per-user title constraint is
// violated.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, title, description, status, priority, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.UserID,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err, tasksUserTitleConstraint) {
			log.Debug("duplicate title during task creation",
				slog.String("user_id", task.UserID.String()),
				slog.String("title", task.Title))
			return store.ErrTaskTitleExists
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return s.scanTask(ctx, s.db.QueryRowContext(ctx, query, id))
}

// GetByUserAndTitle implements store.TaskStore.GetByUserAndTitle.
// Returns store.ErrTaskNotFound if no such task exists.
func (s *TaskStore) GetByUserAndTitle(
	ctx context.Context,
	userID uuid.UUID,
	title string,
) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND title = $2`
	return s.scanTask(ctx, s.db.QueryRowContext(ctx, query, userID, title))
}

// Update implements store.TaskStore.Update.
// Returns store.ErrTaskNotFound if the task does not exist and
// store.ErrTaskTitleExists on a per-user title collision.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err, tasksUserTitleConstraint) {
			return store.ErrTaskTitleExists
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// List implements store.TaskStore.List.
// The WHERE clause is always anchored on user_id; the title filter is a
// case-insensitive substring match, status and priority are exact matches.
func (s *TaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	params store.ListParams,
) ([]domain.Task, store.Pagination, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	params = params.Normalize()

	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}

	if params.Title != "" {
		args = append(args, "%"+params.Title+"%")
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, params.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.Priority != "" {
		args = append(args, params.Priority)
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var totalItems int
	countQuery := `SELECT count(*) FROM tasks WHERE ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalItems); err != nil {
		log.Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.Pagination{}, MapError(err)
	}

	direction := "ASC"
	if params.Order == store.OrderDesc {
		direction = "DESC"
	}

	// Column and direction come from closed allow-lists, never from the
	// request, so string interpolation is safe here.
	query := fmt.Sprintf(
		`SELECT %s FROM tasks WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		taskColumns,
		where,
		taskSortColumns[params.SortBy],
		direction,
		len(args)+1,
		len(args)+2,
	)
	args = append(args, params.Limit, params.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.Pagination{}, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]domain.Task, 0, params.Limit)
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Priority,
			&task.UserID,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, store.Pagination{}, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Pagination{}, err
	}

	return tasks, store.NewPagination(totalItems, params.Page, params.Limit), nil
}

// scanTask reads one task row, mapping sql.ErrNoRows to store.ErrTaskNotFound.
func (s *TaskStore) scanTask(ctx context.Context, row *sql.Row) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.UserID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to scan task row", slog.String("error", err.Error()))
		return nil, err
	}

	return &task, nil
}
