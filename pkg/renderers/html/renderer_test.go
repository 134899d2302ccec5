package html

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formclient/pkg/engine"
	"github.com/goliatone/go-formclient/pkg/field"
	"github.com/goliatone/go-formclient/pkg/model"
	"github.com/goliatone/go-formclient/pkg/render"
)

func intPtr(v int) *int { return &v }

func newRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func renderPage(t *testing.T, r *Renderer, page render.Page) string {
	t.Helper()
	out, err := r.Render(context.Background(), page)
	if err != nil {
		t.Fatalf("render %s: %v", page.Kind, err)
	}
	return string(out)
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q\n%s", want, out)
		}
	}
}

func formSnapshot(index int) engine.Snapshot {
	return engine.Snapshot{
		Status: engine.StatusInSection,
		Schema: model.FormSchema{
			FormID:    "F-42",
			FormTitle: "Student Profile",
			Sections: []model.FormSection{
				{
					Title:       "Contact",
					Description: `Tell us <b>how</b> to reach you<script>alert(1)</script>`,
					Fields: []model.FormField{
						{FieldID: "email", Type: model.FieldTypeEmail, Label: "Email", Required: true, DataTestID: "email-input", MinLength: intPtr(5)},
						{FieldID: "level", Type: model.FieldTypeDropdown, Label: "Level", Options: []model.Option{
							{Value: "ug", Label: "Undergraduate"},
							{Value: "pg", Label: "Postgraduate", DataTestID: "level-pg"},
						}},
						{FieldID: "langs", Type: model.FieldTypeCheckbox, Label: "Languages", Options: []model.Option{
							{Value: "go", Label: "Go"},
							{Value: "rust", Label: "Rust"},
						}},
						{FieldID: "shift", Type: model.FieldTypeRadio, Label: "Shift", Options: []model.Option{
							{Value: "am", Label: "Morning"},
							{Value: "pm", Label: "Evening"},
						}},
					},
				},
				{
					Title:  "About",
					Fields: []model.FormField{{FieldID: "bio", Type: model.FieldTypeTextarea, Label: "Bio", MaxLength: intPtr(200)}},
				},
				{Title: "Done"},
			},
		},
		SectionIndex: index,
		SectionCount: 3,
		Values: model.Values{
			"email": model.Text("ada"),
			"level": model.Text("pg"),
			"langs": model.Set("rust"),
			"shift": model.Text("pm"),
			"bio":   model.Text("<hi>"),
		},
		Errors: model.ErrorMap{"level": "Pick one"},
	}
}

func TestRenderFormPage(t *testing.T) {
	r := newRenderer(t)
	local := field.LocalErrors{"email": field.MessageInvalidEmail}
	out := renderPage(t, r, render.FromSnapshot(formSnapshot(0), local))

	assertContains(t, out,
		`<h1>Student Profile</h1>`,
		`Form ID: F-42`,
		`Section 1 of 3`,
		`style="width: 33.33%"`,
		`Tell us <b>how</b> to reach you`,
		`type="email" id="email" name="email" value="ada"`,
		`minlength="5"`,
		`data-testid="email-input"`,
		`Please enter a valid email address including @ and .com`,
		`<option value="">Select an option</option>`,
		`<option value="pg" selected data-testid="level-pg">Postgraduate</option>`,
		`Pick one`,
		`<input type="checkbox" name="langs" value="rust" checked>`,
		`<input type="checkbox" name="langs" value="go">`,
		`<input type="radio" name="shift" value="pm" checked>`,
		`value="prev" class="fc-button fc-button-secondary" disabled>Previous</button>`,
		`value="next" class="fc-button">Next</button>`,
		`--brand: #2563eb;`,
	)
	if strings.Contains(out, "<script>") {
		t.Fatalf("description must be sanitized:\n%s", out)
	}
}

func TestRenderFormPageNavigation(t *testing.T) {
	r := newRenderer(t)

	middle := renderPage(t, r, render.FromSnapshot(formSnapshot(1), nil))
	assertContains(t, middle,
		`Section 2 of 3`,
		`value="prev" class="fc-button fc-button-secondary">Previous</button>`,
		`maxlength="200"`,
		`&lt;hi&gt;</textarea>`,
	)

	last := renderPage(t, r, render.FromSnapshot(formSnapshot(2), nil))
	assertContains(t, last, `Section 3 of 3`, `style="width: 100.00%"`, `>Submit</button>`)
}

func TestRenderSurroundingPages(t *testing.T) {
	r := newRenderer(t)

	tests := []struct {
		name  string
		page  render.Page
		wants []string
	}{
		{
			name: "login keeps inputs and error",
			page: render.LoginPage(render.LoginView{RollNumber: "RA1", Name: "Ada", Error: "Failed to create user. Please try again."}),
			wants: []string{
				`Student Login`,
				`action="/login"`,
				`name="rollNumber" value="RA1"`,
				`name="name" value="Ada"`,
				`Failed to create user. Please try again.`,
			},
		},
		{
			name:  "loading",
			page:  render.FromSnapshot(engine.Snapshot{Status: engine.StatusLoading}, nil),
			wants: []string{`Loading form...`},
		},
		{
			name:  "error offers retry",
			page:  render.FromSnapshot(engine.Snapshot{Status: engine.StatusError, LoadError: engine.MessageLoadFailed}, nil),
			wants: []string{engine.MessageLoadFailed, `action="/form/retry"`, `Try Again`},
		},
		{
			name:  "submitted",
			page:  render.FromSnapshot(engine.Snapshot{Status: engine.StatusSubmitted}, nil),
			wants: []string{`Form Submitted Successfully!`, `Thank you for completing the form.`, `action="/form/return"`, `Return to Login`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertContains(t, renderPage(t, r, tt.page), tt.wants...)
		})
	}
}

func TestRenderEscapesUserInput(t *testing.T) {
	r := newRenderer(t)
	out := renderPage(t, r, render.LoginPage(render.LoginView{Name: `"><script>x</script>`}))
	if strings.Contains(out, "<script>x") {
		t.Fatalf("login input must be escaped:\n%s", out)
	}
}

func TestThemeConfigMergesVariant(t *testing.T) {
	manifest := DefaultManifest()
	manifest.Assets.Prefix = "/assets/themes/default"
	manifest.Assets.Files = map[string]string{"stylesheet": "theme.css"}

	cfg := ThemeConfig(manifest, "dark")
	if cfg.Variant != "dark" {
		t.Fatalf("expected dark variant, got %q", cfg.Variant)
	}
	if cfg.CSSVars["--background"] != "#111827" || cfg.CSSVars["--brand"] != "#2563eb" {
		t.Fatalf("unexpected css vars: %v", cfg.CSSVars)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/default/theme.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}

	if fallback := ThemeConfig(DefaultManifest(), "neon"); fallback.Variant != "" {
		t.Fatalf("unknown variant must fall back to base tokens, got %q", fallback.Variant)
	}

	r := newRenderer(t, WithTheme(cfg))
	out := renderPage(t, r, render.LoginPage(render.LoginView{}))
	assertContains(t, out, `<link rel="stylesheet" href="/assets/themes/default/theme.css">`, `--background: #111827;`)
}

func TestSelectTheme(t *testing.T) {
	cfg, err := SelectTheme("")
	if err != nil || cfg.Theme != DefaultThemeName || cfg.Variant != "" {
		t.Fatalf("expected default theme, got %+v (%v)", cfg, err)
	}

	cfg, err = SelectTheme("default/dark")
	if err != nil || cfg.Variant != "dark" {
		t.Fatalf("expected dark variant, got %+v (%v)", cfg, err)
	}

	acme := &theme.Manifest{Name: "acme", Tokens: map[string]string{"brand": "#654321"}}
	cfg, err = SelectTheme("acme", acme)
	if err != nil || cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("expected extra manifest, got %+v (%v)", cfg, err)
	}

	for _, ref := range []string{"missing", "default/neon"} {
		if _, err := SelectTheme(ref); err == nil {
			t.Fatalf("expected error for %q", ref)
		}
	}
}

func TestSanitizeDescription(t *testing.T) {
	got := SanitizeDescription(`<p onclick="x()">Hi <a href="https://example.com">there</a></p><img src=x>`)
	if strings.Contains(got, "onclick") || strings.Contains(got, "<img") {
		t.Fatalf("unsafe markup kept: %q", got)
	}
	if !strings.Contains(got, `href="https://example.com"`) {
		t.Fatalf("expected link to survive: %q", got)
	}
}
