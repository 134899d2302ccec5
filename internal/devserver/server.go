// Package devserver is a local stand-in for the form backend: it registers
// users in SQLite or Postgres and serves one schema file to every registered
// roll number.
package devserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/goliatone/go-formclient/internal/logging"
	"github.com/goliatone/go-formclient/pkg/model"
)

// Server serves the create-user and get-form calls.
type Server struct {
	users   *UserStore
	schema  model.FormSchema
	origins []string
	logger  *slog.Logger
	router  chi.Router
}

// Option configures the Server.
type Option func(*Server)

// WithCORSOrigins sets the browser origins allowed to call the API.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds the server around users and the schema served by get-form.
func New(users *UserStore, schema model.FormSchema, options ...Option) (*Server, error) {
	if users == nil {
		return nil, errors.New("devserver: user store is required")
	}
	if len(schema.Sections) == 0 {
		return nil, errors.New("devserver: schema has no sections")
	}
	s := &Server{
		users:   users,
		schema:  schema,
		origins: []string{"*"},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, logging.RequestLogger(s.logger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Post("/create-user", s.createUser)
	r.Get("/get-form", s.getForm)
	r.Get("/healthz", s.health)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var user model.User
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user.RollNumber = strings.TrimSpace(user.RollNumber)
	user.Name = strings.TrimSpace(user.Name)
	if user.RollNumber == "" || user.Name == "" {
		writeError(w, http.StatusBadRequest, "rollNumber and name are required")
		return
	}

	if err := s.users.Upsert(r.Context(), user); err != nil {
		s.logger.ErrorContext(r.Context(), "create user failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "could not create user")
		return
	}
	s.logger.InfoContext(r.Context(), "user registered", slog.String("roll_number", user.RollNumber))
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) getForm(w http.ResponseWriter, r *http.Request) {
	roll := r.URL.Query().Get("rollNumber")
	if roll == "" {
		writeError(w, http.StatusBadRequest, "rollNumber is required")
		return
	}

	if _, err := s.users.Get(r.Context(), roll); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "lookup user failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "could not load form")
		return
	}
	writeJSON(w, http.StatusOK, model.FormResponse{Form: s.schema})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	n, err := s.users.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "users": n})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
