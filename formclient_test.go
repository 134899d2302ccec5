package formclient

import (
	"context"
	"encoding/json"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-formclient/pkg/model"
	"github.com/goliatone/go-formclient/pkg/render"
)

func previewSchema() model.FormSchema {
	return model.FormSchema{
		FormID:    "F1",
		FormTitle: "Profile",
		Sections: []model.FormSection{
			{Title: "About you", Fields: []model.FormField{{FieldID: "name", Type: model.FieldTypeText, Label: "Name", Required: true}}},
			{Title: "Contact", Fields: []model.FormField{{FieldID: "email", Type: model.FieldTypeEmail, Label: "Email"}}},
		},
	}
}

func TestRenderPreviewHTML(t *testing.T) {
	registry, err := NewRenderers()
	if err != nil {
		t.Fatalf("renderers: %v", err)
	}

	out, err := RenderPreview(context.Background(), registry, "html", previewSchema(), Preview{Kind: render.PageForm, Section: 1})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	for _, want := range []string{"Contact", `name="email"`, render.TextSubmit} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestRenderPreviewJSONKinds(t *testing.T) {
	registry, err := NewRenderers()
	if err != nil {
		t.Fatalf("renderers: %v", err)
	}

	for _, kind := range []render.PageKind{render.PageLogin, render.PageLoading, render.PageError, render.PageSubmitted, render.PageForm} {
		out, err := RenderPreview(context.Background(), registry, "json", previewSchema(), Preview{Kind: kind})
		if err != nil {
			t.Fatalf("render %s: %v", kind, err)
		}
		var page struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(out, &page); err != nil {
			t.Fatalf("decode %s: %v", kind, err)
		}
		if page.Kind != string(kind) {
			t.Fatalf("expected kind %s, got %s", kind, page.Kind)
		}
	}
}

func TestRenderPreviewErrors(t *testing.T) {
	registry, err := NewRenderers()
	if err != nil {
		t.Fatalf("renderers: %v", err)
	}
	ctx := context.Background()

	if _, err := RenderPreview(ctx, registry, "json", previewSchema(), Preview{Kind: render.PageForm, Section: 5}); err == nil {
		t.Fatalf("expected out of range error")
	}
	if _, err := RenderPreview(ctx, registry, "json", previewSchema(), Preview{Kind: "wizard"}); err == nil {
		t.Fatalf("expected unknown page error")
	}
	if _, err := RenderPreview(ctx, registry, "pdf", previewSchema(), Preview{}); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "form.tpl"); err != nil {
		t.Fatalf("expected form template: %v", err)
	}
}
