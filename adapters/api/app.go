// Package api exposes the detection toolkit over HTTP: fit-and-score runs,
// detector sweeps, and persisted-model lookups.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"goutlier/app"
	"goutlier/internal"
)

// App represents the HTTP application
type App struct {
	router  *chi.Mux
	service *app.DetectionService
	logger  *internal.Logger
}

// NewApp creates the HTTP application over a detection service
func NewApp(service *app.DetectionService, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	a := &App{
		router:  chi.NewRouter(),
		service: service,
		logger:  logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/detectors", a.handleListDetectors)
		r.Post("/score", a.handleScore)
		r.Post("/sweep", a.handleSweep)
		r.Get("/models/{id}", a.handleGetModel)
		r.Post("/models/{id}/score", a.handleScoreWithModel)
	})
}

// Router returns the HTTP handler
func (a *App) Router() http.Handler {
	return a.router
}

// Serve starts the HTTP server on the given port
func (a *App) Serve(port string) error {
	a.logger.Info("detection API listening on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}
