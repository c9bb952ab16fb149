package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskdeck/taskdeck-api/internal/api"
	apiMiddleware "github.com/taskdeck/taskdeck-api/internal/api/middleware"
	"github.com/taskdeck/taskdeck-api/internal/api/shared"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.hasher,
		app.config.Server.IsProduction(),
		app.logger,
	)
	taskHandler := api.NewTaskHandler(app.taskStore, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userStore)

	r.Route("/api/v1", func(r chi.Router) {
		// Public authentication endpoints
		r.Post("/users/register", authHandler.Register)
		r.Post("/users/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected task endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/tasks", taskHandler.List)
			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks/{taskId}", taskHandler.GetByID)
			r.Put("/tasks/{taskId}", taskHandler.Update)
			r.Delete("/tasks/{taskId}", taskHandler.Delete)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, api.MessageResponse{
			Status:  http.StatusOK,
			Success: true,
			Message: "OK",
		})
	})

	return r
}
