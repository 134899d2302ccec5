package render_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formclient/pkg/engine"
	"github.com/goliatone/go-formclient/pkg/field"
	"github.com/goliatone/go-formclient/pkg/model"
	"github.com/goliatone/go-formclient/pkg/render"
)

func snapshot(index int) engine.Snapshot {
	return engine.Snapshot{
		Status: engine.StatusInSection,
		Schema: model.FormSchema{
			FormID:    "F1",
			FormTitle: "Profile",
			Sections: []model.FormSection{
				{Title: "Contact", Fields: []model.FormField{
					{FieldID: "email", Type: model.FieldTypeEmail, Label: "Email", Required: true},
				}},
				{Title: "Extra", Fields: []model.FormField{
					{FieldID: "bio", Type: model.FieldTypeTextarea, Label: "Bio"},
				}},
			},
		},
		SectionIndex: index,
		SectionCount: 2,
		Values:       model.Values{"email": model.Text("ada")},
		Errors:       model.ErrorMap{"email": engine.MessageRequired},
	}
}

func TestFromSnapshotFormPage(t *testing.T) {
	local := field.LocalErrors{"email": field.MessageInvalidEmail}
	page := render.FromSnapshot(snapshot(0), local)

	if page.Kind != render.PageForm || page.Form == nil {
		t.Fatalf("expected form page, got %+v", page)
	}
	form := page.Form
	if diff := cmp.Diff(engine.Progress{Current: 1, Total: 2, Percent: 50}, form.Progress); diff != "" {
		t.Fatalf("progress mismatch (-want +got):\n%s", diff)
	}
	if form.CanRetreat || form.IsLast || form.NextLabel != render.TextNext {
		t.Fatalf("unexpected navigation in first section: %+v", form)
	}
	if got := form.Section.Fields[0].Error; got != field.MessageInvalidEmail {
		t.Fatalf("expected local error to win, got %q", got)
	}

	last := render.FromSnapshot(snapshot(1), nil)
	if !last.Form.IsLast || !last.Form.CanRetreat || last.Form.NextLabel != render.TextSubmit {
		t.Fatalf("unexpected navigation in last section: %+v", last.Form)
	}
	if last.Form.Section.Title != "Extra" {
		t.Fatalf("expected second section, got %q", last.Form.Section.Title)
	}
}

func TestFromSnapshotOtherPages(t *testing.T) {
	tests := []struct {
		name   string
		status engine.Status
		kind   render.PageKind
	}{
		{name: "loading", status: engine.StatusLoading, kind: render.PageLoading},
		{name: "error", status: engine.StatusError, kind: render.PageError},
		{name: "submitted", status: engine.StatusSubmitted, kind: render.PageSubmitted},
		{name: "exited", status: engine.StatusExited, kind: render.PageLogin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := engine.Snapshot{Status: tt.status}
			if tt.status == engine.StatusError {
				snap.LoadError = engine.MessageLoadFailed
			}
			page := render.FromSnapshot(snap, nil)
			if page.Kind != tt.kind {
				t.Fatalf("expected %s, got %s", tt.kind, page.Kind)
			}
			if tt.status == engine.StatusError && page.Message != engine.MessageLoadFailed {
				t.Fatalf("expected generic load message, got %q", page.Message)
			}
		})
	}
}

func TestJSONRenderer(t *testing.T) {
	out, err := render.NewJSONRenderer("").Render(context.Background(), render.LoginPage(render.LoginView{
		RollNumber: "RA1",
		Error:      "Failed to create user. Please try again.",
	}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"kind":  "login",
		"title": render.TextLoginTitle,
		"login": map[string]any{
			"rollNumber": "RA1",
			"name":       "",
			"error":      "Failed to create user. Please try again.",
		},
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

type namedRenderer struct {
	name, contentType string
}

func (r namedRenderer) Name() string        { return r.name }
func (r namedRenderer) ContentType() string { return r.contentType }
func (r namedRenderer) Render(context.Context, render.Page) ([]byte, error) {
	return []byte(r.name), nil
}

func TestRegistryNegotiate(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(namedRenderer{name: "html", contentType: "text/html; charset=utf-8"})
	reg.MustRegister(render.NewJSONRenderer(""))

	if err := reg.Register(namedRenderer{name: "html"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}

	tests := []struct {
		accept string
		want   string
	}{
		{accept: "application/json", want: "json"},
		{accept: "text/html,application/xhtml+xml", want: "html"},
		{accept: "image/png", want: "html"},
		{accept: "", want: "html"},
	}
	for _, tt := range tests {
		got, err := reg.Negotiate(tt.accept)
		if err != nil {
			t.Fatalf("negotiate %q: %v", tt.accept, err)
		}
		if got.Name() != tt.want {
			t.Fatalf("negotiate %q = %s, want %s", tt.accept, got.Name(), tt.want)
		}
	}

	if diff := cmp.Diff([]string{"html", "json"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}
