package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// TaskHandler handles the task CRUD endpoints. Every route is behind the
// auth middleware, so a user is always present in the request context.
type TaskHandler struct {
	taskStore store.TaskStore
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskStore store.TaskStore, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		taskStore: taskStore,
		validate:  NewValidator(),
		logger:    log.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req TaskCreateRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		shared.RespondWithFieldErrors(w, r, FieldErrors(err, taskCreateMessages))
		return
	}

	// Titles are unique per owner only; another user may hold the same title.
	_, err := h.taskStore.GetByUserAndTitle(r.Context(), user.ID, req.Title)
	if err == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task already exists")
		return
	}
	if !errors.Is(err, store.ErrTaskNotFound) {
		shared.RespondWithInternalError(w, r, err)
		return
	}

	task, err := domain.NewTask(
		user.ID,
		req.Title,
		req.Description,
		domain.TaskStatus(req.Status),
		domain.TaskPriority(req.Priority),
	)
	if err != nil {
		shared.RespondWithInternalError(w, r, err)
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		if errors.Is(err, store.ErrTaskTitleExists) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Task already exists")
			return
		}
		shared.RespondWithInternalError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, TaskResponse{
		Status:  http.StatusCreated,
		Success: true,
		Message: "Task created successfully",
		Data:    task,
	})
}

// GetByID handles GET /tasks/{taskId}.
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	taskID, ok := h.taskIDFromPath(w, r)
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		h.respondTaskLookupError(w, r, err)
		return
	}

	// Ownership failures are indistinguishable from absence: same 404,
	// same body, no existence leakage.
	if task.UserID != user.ID {
		h.respondTaskNotFound(w, r)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{
		Status:  http.StatusOK,
		Success: true,
		Data:    task,
	})
}

// List handles GET /tasks. The query is always scoped to the requester;
// caller-supplied filters can only narrow the result further.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tasks, pagination, err := h.taskStore.List(r.Context(), user.ID, listParamsFromQuery(r))
	if err != nil {
		shared.RespondWithInternalError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Status:     http.StatusOK,
		Success:    true,
		Tasks:      tasks,
		Pagination: pagination,
	})
}

// Update handles PUT /tasks/{taskId}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	taskID, ok := h.taskIDFromPath(w, r)
	if !ok {
		return
	}

	var req TaskUpdateRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		shared.RespondWithFieldErrors(w, r, FieldErrors(err, taskUpdateMessages))
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		h.respondTaskLookupError(w, r, err)
		return
	}

	// A different task of the same user already holding the new title is a
	// conflict; matching the task being updated is fine (no-op rename).
	existing, err := h.taskStore.GetByUserAndTitle(r.Context(), user.ID, req.Title)
	if err == nil && existing.ID != taskID {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Title already exists")
		return
	}
	if err != nil && !errors.Is(err, store.ErrTaskNotFound) {
		shared.RespondWithInternalError(w, r, err)
		return
	}

	if task.UserID != user.ID {
		h.respondTaskNotFound(w, r)
		return
	}

	if err := task.ApplyUpdate(
		req.Title,
		req.Description,
		domain.TaskStatus(req.Status),
		domain.TaskPriority(req.Priority),
	); err != nil {
		shared.RespondWithInternalError(w, r, err)
		return
	}

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		switch {
		case errors.Is(err, store.ErrTaskTitleExists):
			shared.RespondWithError(w, r, http.StatusBadRequest, "Title already exists")
		case errors.Is(err, store.ErrTaskNotFound):
			h.respondTaskNotFound(w, r)
		default:
			shared.RespondWithInternalError(w, r, err)
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Status:  http.StatusOK,
		Success: true,
		Message: "Task updated successfully",
	})
}

// Delete handles DELETE /tasks/{taskId}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	taskID, ok := h.taskIDFromPath(w, r)
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		h.respondTaskLookupError(w, r, err)
		return
	}

	if task.UserID != user.ID {
		h.respondTaskNotFound(w, r)
		return
	}

	if err := h.taskStore.Delete(r.Context(), taskID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			h.respondTaskNotFound(w, r)
			return
		}
		shared.RespondWithInternalError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Status:  http.StatusOK,
		Success: true,
		Message: "Task deleted successfully",
	})
}

// taskIDFromPath parses the taskId path parameter. A malformed ID yields
// the same uniform 404 as a missing task, so id-format information never
// leaks. Writes the response itself on failure.
func (h *TaskHandler) taskIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	taskID, err := uuid.Parse(chi.URLParam(r, "taskId"))
	if err != nil {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Debug("malformed task id", slog.String("task_id", chi.URLParam(r, "taskId")))
		h.respondTaskNotFound(w, r)
		return uuid.Nil, false
	}
	return taskID, true
}

// respondTaskLookupError maps a GetByID failure to either the uniform 404
// or the 500 catch-all.
func (h *TaskHandler) respondTaskLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrTaskNotFound) {
		h.respondTaskNotFound(w, r)
		return
	}
	shared.RespondWithInternalError(w, r, err)
}

func (h *TaskHandler) respondTaskNotFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
}

// listParamsFromQuery extracts pagination, filter and sort inputs from the
// query string. Unparsable page/limit values fall back to the defaults via
// Normalize rather than erroring.
func listParamsFromQuery(r *http.Request) store.ListParams {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	return store.ListParams{
		Page:     page,
		Limit:    limit,
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
		Title:    q.Get("title"),
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
	}
}
