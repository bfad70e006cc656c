// Package httpapi exposes the tracker over a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/aretw0/fittrack/pkg/auth"
	"github.com/aretw0/fittrack/pkg/core"
)

const shutdownTimeout = 5 * time.Second

// Server routes API requests to the domain service.
type Server struct {
	svc     *core.Service
	auth    *auth.Authenticator
	logger  *slog.Logger
	origins []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAllowedOrigins sets the CORS origins. The default allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// New returns a Server. authn checks the basic-auth credentials of every
// per-user route.
func New(svc *core.Service, authn *auth.Authenticator, opts ...Option) *Server {
	s := &Server{
		svc:     svc,
		auth:    authn,
		logger:  slog.New(slog.DiscardHandler),
		origins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router wrapped in the logging and CORS middlewares.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/register", s.register).Methods(http.MethodPost)
	api.HandleFunc("/reference/{table:foods|activities}", s.reference).Methods(http.MethodGet)
	api.HandleFunc("/state", s.state).Methods(http.MethodGet)

	users := api.PathPrefix("/users/{user}").Subrouter()
	users.Use(s.authenticate)
	users.HandleFunc("/{kind:nutrition|exercise}", s.listEntries).Methods(http.MethodGet)
	users.HandleFunc("/{kind:nutrition|exercise}", s.addEntry).Methods(http.MethodPost)
	users.HandleFunc("/days", s.listDays).Methods(http.MethodGet)
	users.HandleFunc("/days", s.recordDay).Methods(http.MethodPost)
	users.HandleFunc("/overview", s.overview).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(s.logRequests(r))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("server shutdown failed", "error", err)
	}))

	s.logger.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
