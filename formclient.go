// Package formclient wires the form engine to its front ends. It exposes the
// renderer registry used by the web and preview commands and a preview helper
// that renders any screen of a schema without a backend.
package formclient

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formclient/pkg/engine"
	"github.com/goliatone/go-formclient/pkg/model"
	"github.com/goliatone/go-formclient/pkg/render"
	"github.com/goliatone/go-formclient/pkg/renderers/html"
)

// NewRenderers builds a registry holding the HTML renderer, which is the
// fallback for browsers, and the JSON renderer.
func NewRenderers(options ...html.Option) (*render.Registry, error) {
	htmlRenderer, err := html.New(options...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(htmlRenderer); err != nil {
		return nil, err
	}
	if err := registry.Register(render.NewJSONRenderer("  ")); err != nil {
		return nil, err
	}
	return registry, nil
}

// EmbeddedTemplates exposes the built-in page templates so callers can copy
// or extend them.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// Preview selects the screen rendered by RenderPreview.
type Preview struct {
	Kind render.PageKind
	// Section is the zero-based section shown for the form screen.
	Section int
}

// RenderPreview renders one screen of schema with the named renderer. The
// form screen shows the section empty, as a user first sees it.
func RenderPreview(ctx context.Context, registry *render.Registry, rendererName string, schema model.FormSchema, preview Preview) ([]byte, error) {
	if registry == nil {
		return nil, fmt.Errorf("formclient: renderer registry is nil")
	}
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, err
	}
	page, err := previewPage(schema, preview)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, page)
}

func previewPage(schema model.FormSchema, preview Preview) (render.Page, error) {
	snap := engine.Snapshot{
		Schema:       schema,
		SectionIndex: preview.Section,
		SectionCount: len(schema.Sections),
		Values:       make(model.Values),
		Errors:       make(model.ErrorMap),
	}

	switch preview.Kind {
	case render.PageLogin:
		return render.LoginPage(render.LoginView{}), nil
	case render.PageLoading:
		snap.Status = engine.StatusLoading
	case render.PageError:
		snap.Status = engine.StatusError
		snap.LoadError = engine.MessageLoadFailed
	case render.PageSubmitted:
		snap.Status = engine.StatusSubmitted
	case render.PageForm, "":
		if _, ok := schema.Section(preview.Section); !ok {
			return render.Page{}, fmt.Errorf("formclient: section %d out of range (%d sections)", preview.Section, len(schema.Sections))
		}
		snap.Status = engine.StatusInSection
	default:
		return render.Page{}, fmt.Errorf("formclient: unknown page %q", preview.Kind)
	}
	return render.FromSnapshot(snap, nil), nil
}
