// Package server wires the chi router and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/internal/handler"
	authhandler "github.com/taskpilot/taskpilot/internal/handler/auth"
	chathandler "github.com/taskpilot/taskpilot/internal/handler/chat"
	taskshandler "github.com/taskpilot/taskpilot/internal/handler/tasks"
	"github.com/taskpilot/taskpilot/internal/logging"
	"github.com/taskpilot/taskpilot/internal/middleware"
	"github.com/taskpilot/taskpilot/internal/svc"
)

// Run starts the server and blocks until ctx is cancelled or the listener
// fails. Each request is independent; all durable state lives in the store,
// so a restart loses nothing.
func Run(ctx context.Context, c config.Config, svcCtx *svc.ServiceContext) error {
	r := NewRouter(svcCtx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", c.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("server listening on http://localhost:%d", c.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// NewRouter builds the route tree (exported for httptest use).
func NewRouter(svcCtx *svc.ServiceContext) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(corsMiddleware())

	r.Get("/health", handler.HealthCheckHandler(svcCtx))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authhandler.RegisterHandler(svcCtx))
		r.Post("/auth/login", authhandler.LoginHandler(svcCtx))

		// Protected routes (JWT required)
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWT(svcCtx.Config.Auth.AccessSecret))

			r.Post("/chat", chathandler.SendMessageHandler(svcCtx))

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", taskshandler.CreateHandler(svcCtx))
				r.Get("/", taskshandler.ListHandler(svcCtx))
				r.Get("/{id}", taskshandler.GetHandler(svcCtx))
				r.Patch("/{id}", taskshandler.UpdateHandler(svcCtx))
				r.Patch("/{id}/complete", taskshandler.ToggleHandler(svcCtx))
				r.Delete("/{id}", taskshandler.DeleteHandler(svcCtx))
			})
		})
	})

	return r
}

// corsMiddleware handles CORS for browser clients. Auth is bearer-token
// based, so no cookies ride along and echoing the origin is safe.
func corsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
