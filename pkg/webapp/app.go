package webapp

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formclient/internal/logging"
	"github.com/goliatone/go-formclient/pkg/engine"
	"github.com/goliatone/go-formclient/pkg/render"
	"github.com/goliatone/go-formclient/pkg/session"
)

// DefaultCookieName names the browser session cookie.
const DefaultCookieName = "formclient_session"

// Backend is the form backend: user creation at login and schema fetch.
type Backend interface {
	session.UserCreator
	engine.SchemaFetcher
}

// Option configures the App.
type Option func(*App)

// WithRenderers replaces the renderer registry. The first registered
// renderer answers requests that do not ask for a known content type.
func WithRenderers(registry *render.Registry) Option {
	return func(a *App) {
		if registry != nil {
			a.renderers = registry
		}
	}
}

// WithSubmitter receives submitted values. The default logs them.
func WithSubmitter(submitter engine.Submitter) Option {
	return func(a *App) {
		a.submitter = submitter
	}
}

// WithLogger sets the application logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(a *App) {
		a.secureCookie = secure
	}
}

// WithIdleTimeout drops browser sessions unused for longer than ttl. Zero
// keeps them for the life of the process.
func WithIdleTimeout(ttl time.Duration) Option {
	return func(a *App) {
		a.idleTTL = ttl
	}
}

// App is the browser front end: one engine per browser session, rendered
// through the registered page renderers.
type App struct {
	backend      Backend
	renderers    *render.Registry
	submitter    engine.Submitter
	logger       *slog.Logger
	cookieName   string
	secureCookie bool
	idleTTL      time.Duration

	sessions *sessions
	router   chi.Router
}

// New wires the routes. renderers must hold at least one renderer unless
// WithRenderers supplies them.
func New(backend Backend, options ...Option) (*App, error) {
	if backend == nil {
		return nil, errors.New("webapp: backend is required")
	}
	a := &App{
		backend:    backend,
		renderers:  render.NewRegistry(),
		logger:     slog.New(slog.DiscardHandler),
		cookieName: DefaultCookieName,
		idleTTL:    12 * time.Hour,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	if len(a.renderers.List()) == 0 {
		return nil, errors.New("webapp: at least one renderer is required")
	}
	if a.submitter == nil {
		a.submitter = engine.LogSubmitter(a.logger)
	}
	a.sessions = newSessions(a.idleTTL)
	a.router = a.routes()
	return a, nil
}

// ServeHTTP makes App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, logging.RequestLogger(a.logger), middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})
	r.Get("/login", a.withSession(a.showLogin))
	r.Post("/login", a.withSession(a.submitLogin))
	r.Route("/form", func(fr chi.Router) {
		fr.Get("/", a.withSession(a.showForm))
		fr.Post("/", a.withSession(a.navigate))
		fr.Post("/retry", a.withSession(a.retry))
		fr.Post("/return", a.withSession(a.returnToLogin))
	})
	return r
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *browserSession)

func (a *App) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, created := a.sessions.acquire(r, a.cookieName)
		defer sess.mu.Unlock()
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     a.cookieName,
				Value:    sess.id,
				Path:     "/",
				HttpOnly: true,
				Secure:   a.secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next(w, r, sess)
	}
}
