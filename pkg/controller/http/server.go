package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/usecase"
	"github.com/mapcrew-lab/taskcoord/pkg/utils/errutil"
	"github.com/mapcrew-lab/taskcoord/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	repo   interfaces.Repository
}

type Options func(*Server)

func New(uc *usecase.UseCases, repo interfaces.Repository, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
		repo:   repo,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(actorMiddleware)

		r.Route("/tasks/{taskID}", func(r chi.Router) {
			r.Post("/lock", s.claimTask)
			r.Put("/lock", s.refreshLock)
			r.Delete("/lock", s.releaseLock)
			r.Get("/lock", s.lockStatus)
			r.Put("/status", s.setStatus)
			r.Put("/review", s.setReviewStatus)
			r.Get("/history", s.taskHistory)
		})

		r.Put("/tasks/status", s.bulkSetStatus)
		r.Delete("/tasks/review-requests", s.removeReviewRequests)

		r.Route("/bundles/{bundleID}", func(r chi.Router) {
			r.Put("/status", s.applyBundleStatus)
			r.Put("/review", s.applyBundleReview)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleError maps the sentinel errors of the core onto HTTP status
// codes and writes the response.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, errorStatus(err))
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, usecase.ErrTaskNotFound),
		errors.Is(err, usecase.ErrBundleNotFound):
		return http.StatusNotFound

	case errors.Is(err, usecase.ErrTaskAlreadyLocked),
		errors.Is(err, usecase.ErrNotLockOwner),
		errors.Is(err, usecase.ErrNotAuthorized):
		return http.StatusForbidden

	case errors.Is(err, usecase.ErrInvalidTaskStatus),
		errors.Is(err, usecase.ErrInvalidReviewStatus),
		errors.Is(err, usecase.ErrPrimaryNotMember):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "failed to decode request body")
	}
	return nil
}
