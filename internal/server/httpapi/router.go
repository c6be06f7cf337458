package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/promptmanager/internal/logging"
	"github.com/dmitrijs2005/promptmanager/internal/server/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterDeps collects what NewRouter wires together. Metrics, Gatherer and
// LoginLimiter are optional.
type RouterDeps struct {
	Users        UserService
	Logger       logging.Logger
	Metrics      metrics.Recorder
	Gatherer     prometheus.Gatherer
	LoginLimiter *RateLimiter
}

// NewRouter builds the full route table.
//
// Middleware order: RequestID → Logging → Recovery, so a recovered panic
// is still logged with its request id and a 500 status.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(NewLoggingMiddleware(deps.Logger, deps.Metrics))
	r.Use(NewRecoveryMiddleware(deps.Logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", Health)
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	h := NewUserHandler(deps.Users, deps.Logger, deps.Metrics)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Register)

		if deps.LoginLimiter != nil {
			r.With(deps.LoginLimiter.Middleware("/users/login")).Post("/login", h.Login)
		} else {
			r.Post("/login", h.Login)
		}

		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.UpdateProfile)
		r.Post("/{id}/change-password", h.ChangePassword)
		r.Post("/{id}/deactivate", h.Deactivate)
		r.Post("/{id}/activate", h.Activate)
		r.Get("/{id}/preferences", h.Preferences)
		r.Put("/{id}/preferences", h.UpdatePreferences)
		r.Get("/{id}/statistics", h.Statistics)
	})

	return r
}
