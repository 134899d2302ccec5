package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formclient/pkg/render"
	"github.com/goliatone/go-formclient/pkg/render/template"
	"github.com/goliatone/go-formclient/pkg/render/template/pongo"
)

// Paths are the form actions the pages post to.
type Paths struct {
	Login         string `json:"login"`
	Form          string `json:"form"`
	Retry         string `json:"retry"`
	ReturnToLogin string `json:"returnToLogin"`
}

// DefaultPaths matches the routes served by the webapp package.
func DefaultPaths() Paths {
	return Paths{
		Login:         "/login",
		Form:          "/form",
		Retry:         "/form/retry",
		ReturnToLogin: "/form/return",
	}
}

// Option configures the renderer.
type Option func(*Renderer)

// WithTheme applies a resolved theme configuration.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(r *Renderer) {
		if cfg != nil {
			r.theme = cfg
		}
	}
}

// WithTemplatesDir looks page templates up in dir before the embedded set.
// Templates in dir resolve their extends and include tags against dir, so an
// override must ship the layout it extends.
func WithTemplatesDir(dir string) Option {
	return func(r *Renderer) {
		r.templatesDir = dir
	}
}

// WithTemplatesFS replaces the embedded template set.
func WithTemplatesFS(files fs.FS) Option {
	return func(r *Renderer) {
		if files != nil {
			r.templates = files
		}
	}
}

// WithPaths overrides the form action paths.
func WithPaths(paths Paths) Option {
	return func(r *Renderer) {
		r.paths = paths
	}
}

// WithLogger sets the renderer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer produces full HTML documents for every page kind.
type Renderer struct {
	engine       template.TemplateRenderer
	templates    fs.FS
	templatesDir string
	theme        *theme.RendererConfig
	paths        Paths
	logger       *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New builds the renderer. Without WithTheme the default theme is used.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		templates: TemplatesFS(),
		theme:     ThemeConfig(DefaultManifest(), ""),
		paths:     DefaultPaths(),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if err := pongo.RegisterSafeFilter("sanitize", SanitizeDescription); err != nil {
		return nil, fmt.Errorf("html: register sanitize filter: %w", err)
	}

	engineOpts := []pongo.Option{pongo.WithFS(r.templates)}
	if r.templatesDir != "" {
		engineOpts = append(engineOpts, pongo.WithBaseDir(r.templatesDir))
	}
	engine, err := pongo.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("html: create template engine: %w", err)
	}

	if err := engine.GlobalContext(map[string]any{
		"paths": r.paths,
		"theme": themeContext(r.theme),
		"text": map[string]string{
			"loginTitle":    render.TextLoginTitle,
			"loginSubtitle": render.TextLoginSubtitle,
			"retry":         render.TextRetry,
			"previous":      render.TextPrevious,
		},
	}); err != nil {
		return nil, fmt.Errorf("html: seed globals: %w", err)
	}
	r.engine = engine
	return r, nil
}

func (r *Renderer) Name() string        { return "html" }
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render executes the template named after the page kind.
func (r *Renderer) Render(ctx context.Context, page render.Page) ([]byte, error) {
	if page.Kind == "" {
		return nil, errors.New("html: page kind is required")
	}
	out, err := r.engine.RenderTemplate(string(page.Kind), map[string]any{"page": page})
	if err != nil {
		r.logger.ErrorContext(ctx, "page render failed",
			slog.String("page", string(page.Kind)),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("html: render %s page: %w", page.Kind, err)
	}
	return []byte(out), nil
}

func themeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	ctx := map[string]any{
		"name":         cfg.Theme,
		"variant":      cfg.Variant,
		"cssVarsStyle": cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		ctx["stylesheet"] = cfg.AssetURL("stylesheet")
	}
	return ctx
}
