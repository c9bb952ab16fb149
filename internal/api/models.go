package api

import (
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// Request payloads. Validation tags mirror the public API contract; the
// custom password tags are registered in NewValidator.

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username        string `json:"username"        validate:"required"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=6,max=20,haslower,hasupper,hasdigit,hasspecial"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TaskCreateRequest defines the payload for the task creation endpoint.
// Status and priority are optional; defaults (pending, medium) are applied
// by the domain constructor.
type TaskCreateRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required"`
	Status      string `json:"status"      validate:"omitempty,oneof=pending in-progress completed"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=low medium high"`
}

// TaskUpdateRequest defines the payload for the task update endpoint.
// Updates are full replacements, so every field is required.
type TaskUpdateRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required"`
	Status      string `json:"status"      validate:"required,oneof=pending in-progress completed"`
	Priority    string `json:"priority"    validate:"required,oneof=low medium high"`
}

// Response payloads. Status mirrors the HTTP status code in the body.

// MessageResponse is the generic success envelope.
type MessageResponse struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthResponse is the success envelope for login and refresh; the access
// token is returned in the body in addition to the auth cookies.
type AuthResponse struct {
	Status      int    `json:"status"`
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
}

// TaskResponse is the success envelope carrying a single task.
type TaskResponse struct {
	Status  int          `json:"status"`
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    *domain.Task `json:"data"`
}

// TaskListResponse is the success envelope for paginated task listings.
type TaskListResponse struct {
	Status     int              `json:"status"`
	Success    bool             `json:"success"`
	Tasks      []domain.Task    `json:"tasks"`
	Pagination store.Pagination `json:"pagination"`
}
