package engine_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formclient/pkg/engine"
	"github.com/goliatone/go-formclient/pkg/model"
	"github.com/goliatone/go-formclient/pkg/session"
)

func intPtr(v int) *int { return &v }

type recordingSubmitter struct {
	calls  int
	values model.Values
	err    error
}

func (r *recordingSubmitter) Submit(_ context.Context, _ model.FormSchema, values model.Values) error {
	r.calls++
	r.values = values
	return r.err
}

func staticFetcher(schema model.FormSchema) engine.SchemaFetcher {
	return engine.SchemaFetcherFunc(func(context.Context, string) (model.FormSchema, error) {
		return schema, nil
	})
}

func loggedInStore(t *testing.T) *session.MemoryStore {
	t.Helper()
	store := session.NewMemoryStore()
	if err := store.Set(session.KeyRollNumber, "RA1"); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	if err := store.Set(session.KeyUserName, "Alice"); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func loadedEngine(t *testing.T, schema model.FormSchema, opts ...engine.Option) *engine.Engine {
	t.Helper()
	e := engine.New(staticFetcher(schema), loggedInStore(t), opts...)
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return e
}

func twoSectionSchema() model.FormSchema {
	return model.FormSchema{
		FormID:    "F1",
		FormTitle: "Profile",
		Sections: []model.FormSection{
			{Title: "One", Fields: []model.FormField{
				{FieldID: "name", Type: model.FieldTypeText, Required: true},
				{FieldID: "nick", Type: model.FieldTypeText, MinLength: intPtr(3)},
			}},
			{Title: "Two", Fields: []model.FormField{
				{FieldID: "tags", Type: model.FieldTypeCheckbox, Required: true, Options: []model.Option{{Value: "a"}, {Value: "b"}}},
			}},
		},
	}
}

func TestLoadWithoutSessionExits(t *testing.T) {
	fetched := false
	fetcher := engine.SchemaFetcherFunc(func(context.Context, string) (model.FormSchema, error) {
		fetched = true
		return model.FormSchema{}, nil
	})
	e := engine.New(fetcher, session.NewMemoryStore())

	err := e.Load(context.Background())
	if !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if e.Status() != engine.StatusExited {
		t.Fatalf("expected exited status, got %s", e.Status())
	}
	if fetched {
		t.Fatalf("schema must not be fetched without a session")
	}
}

func TestLoadPassesRollNumberToFetcher(t *testing.T) {
	var gotRoll string
	fetcher := engine.SchemaFetcherFunc(func(_ context.Context, roll string) (model.FormSchema, error) {
		gotRoll = roll
		return twoSectionSchema(), nil
	})
	e := engine.New(fetcher, loggedInStore(t))
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if gotRoll != "RA1" {
		t.Fatalf("expected roll number RA1, got %q", gotRoll)
	}
	snap := e.Snapshot()
	if snap.Status != engine.StatusInSection || snap.SectionIndex != 0 || snap.SectionCount != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestLoadFailureAndReload(t *testing.T) {
	attempts := 0
	fetcher := engine.SchemaFetcherFunc(func(context.Context, string) (model.FormSchema, error) {
		attempts++
		if attempts == 1 {
			return model.FormSchema{}, errors.New("network down")
		}
		return twoSectionSchema(), nil
	})
	e := engine.New(fetcher, loggedInStore(t))

	if err := e.Load(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
	snap := e.Snapshot()
	if snap.Status != engine.StatusError || snap.LoadError != engine.MessageLoadFailed {
		t.Fatalf("unexpected snapshot after failure: %+v", snap)
	}
	if _, err := e.Advance(context.Background()); !errors.Is(err, engine.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition in error state, got %v", err)
	}

	if err := e.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if e.Status() != engine.StatusInSection {
		t.Fatalf("expected in-section after reload, got %s", e.Status())
	}
}

func TestLoadEmptyFormIsAnError(t *testing.T) {
	e := engine.New(staticFetcher(model.FormSchema{FormID: "empty"}), loggedInStore(t))
	if err := e.Load(context.Background()); !errors.Is(err, engine.ErrEmptyForm) {
		t.Fatalf("expected ErrEmptyForm, got %v", err)
	}
	if e.Status() != engine.StatusError {
		t.Fatalf("expected error status, got %s", e.Status())
	}
}

func TestRequiredNameScenario(t *testing.T) {
	schema := model.FormSchema{
		FormID: "S",
		Sections: []model.FormSection{{Fields: []model.FormField{
			{FieldID: "name", Type: model.FieldTypeText, Required: true},
		}}},
	}
	submitter := &recordingSubmitter{}
	e := loadedEngine(t, schema, engine.WithSubmitter(submitter))
	ctx := context.Background()

	if err := e.FieldChange("name", model.Text("")); err != nil {
		t.Fatalf("field change: %v", err)
	}
	moved, err := e.Advance(ctx)
	if err != nil || moved {
		t.Fatalf("expected blocked advance, got moved=%v err=%v", moved, err)
	}
	if diff := cmp.Diff(model.ErrorMap{"name": "This field is required"}, e.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if e.Status() != engine.StatusInSection || e.Snapshot().SectionIndex != 0 {
		t.Fatalf("expected to stay in section 0")
	}

	if err := e.FieldChange("name", model.Text("Alice")); err != nil {
		t.Fatalf("field change: %v", err)
	}
	moved, err = e.Advance(ctx)
	if err != nil || !moved {
		t.Fatalf("expected submit, got moved=%v err=%v", moved, err)
	}
	if e.Status() != engine.StatusSubmitted {
		t.Fatalf("expected submitted, got %s", e.Status())
	}
	if submitter.calls != 1 {
		t.Fatalf("expected one submission, got %d", submitter.calls)
	}
	if diff := cmp.Diff(model.Values{"name": model.Text("Alice")}, submitter.values); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}
}

func TestRequiredCheckboxNeedsSelection(t *testing.T) {
	e := loadedEngine(t, twoSectionSchema())
	ctx := context.Background()

	_ = e.FieldChange("name", model.Text("Bo"))
	if moved, _ := e.Advance(ctx); !moved {
		t.Fatalf("expected to reach section two, errors: %v", e.Errors())
	}

	_ = e.FieldChange("tags", model.Set())
	if moved, _ := e.Advance(ctx); moved {
		t.Fatalf("empty set must block advance")
	}
	if e.Errors()["tags"] != engine.MessageRequired {
		t.Fatalf("expected required error for tags, got %v", e.Errors())
	}

	_ = e.FieldChange("tags", model.Set("b"))
	if moved, _ := e.Advance(ctx); !moved || e.Status() != engine.StatusSubmitted {
		t.Fatalf("expected submission, status %s errors %v", e.Status(), e.Errors())
	}
}

func TestFieldChangeClearsOnlyThatField(t *testing.T) {
	schema := model.FormSchema{Sections: []model.FormSection{{Fields: []model.FormField{
		{FieldID: "a", Type: model.FieldTypeText, Required: true},
		{FieldID: "b", Type: model.FieldTypeText, Required: true},
	}}}}
	e := loadedEngine(t, schema)

	if moved, _ := e.Advance(context.Background()); moved {
		t.Fatalf("expected validation failure")
	}
	if len(e.Errors()) != 2 {
		t.Fatalf("expected two errors, got %v", e.Errors())
	}

	_ = e.FieldChange("a", model.Text(""))
	if diff := cmp.Diff(model.ErrorMap{"b": engine.MessageRequired}, e.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidationReplacesErrorMap(t *testing.T) {
	schema := model.FormSchema{Sections: []model.FormSection{{Fields: []model.FormField{
		{FieldID: "a", Type: model.FieldTypeText, Required: true},
		{FieldID: "b", Type: model.FieldTypeText, Required: true},
	}}, {Fields: []model.FormField{{FieldID: "c"}}}}}
	e := loadedEngine(t, schema)
	ctx := context.Background()

	_, _ = e.Advance(ctx)
	_ = e.FieldChange("b", model.Text("ok"))
	_ = e.FieldChange("a", model.Text(""))
	_, _ = e.Advance(ctx)
	if diff := cmp.Diff(model.ErrorMap{"a": engine.MessageRequired}, e.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestRetreatNeverValidatesOrFails(t *testing.T) {
	e := loadedEngine(t, twoSectionSchema())
	ctx := context.Background()

	if e.Retreat() {
		t.Fatalf("retreat from section 0 must be a no-op")
	}

	_ = e.FieldChange("name", model.Text("Alice"))
	if moved, _ := e.Advance(ctx); !moved {
		t.Fatalf("expected advance")
	}
	if moved, _ := e.Advance(ctx); moved {
		t.Fatalf("expected tags to block")
	}
	errsBefore := e.Errors()

	if !e.Retreat() {
		t.Fatalf("expected retreat to succeed")
	}
	if e.Snapshot().SectionIndex != 0 {
		t.Fatalf("expected section 0")
	}
	if diff := cmp.Diff(errsBefore, e.Errors()); diff != "" {
		t.Fatalf("retreat must not touch errors (-want +got):\n%s", diff)
	}
}

func TestSubmittedIsTerminalForNavigation(t *testing.T) {
	schema := model.FormSchema{Sections: []model.FormSection{{Fields: []model.FormField{{FieldID: "x"}}}}}
	e := loadedEngine(t, schema)
	ctx := context.Background()

	if moved, err := e.Advance(ctx); !moved || err != nil {
		t.Fatalf("expected submission, got moved=%v err=%v", moved, err)
	}
	if _, err := e.Advance(ctx); !errors.Is(err, engine.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if e.Retreat() {
		t.Fatalf("retreat after submission must be a no-op")
	}
	if err := e.FieldChange("x", model.Text("late")); !errors.Is(err, engine.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for late change, got %v", err)
	}
	if e.Status() != engine.StatusSubmitted {
		t.Fatalf("expected to remain submitted, got %s", e.Status())
	}
}

func TestSubmitterFailureKeepsSubmittedState(t *testing.T) {
	schema := model.FormSchema{Sections: []model.FormSection{{Fields: []model.FormField{{FieldID: "x"}}}}}
	submitter := &recordingSubmitter{err: errors.New("sink offline")}
	e := loadedEngine(t, schema, engine.WithSubmitter(submitter))

	moved, err := e.Advance(context.Background())
	if !moved || err != nil {
		t.Fatalf("expected local success, got moved=%v err=%v", moved, err)
	}
	if e.Status() != engine.StatusSubmitted {
		t.Fatalf("expected submitted, got %s", e.Status())
	}
}

func TestReturnToLoginClearsSession(t *testing.T) {
	schema := model.FormSchema{Sections: []model.FormSection{{Fields: []model.FormField{{FieldID: "x"}}}}}
	store := loggedInStore(t)
	e := engine.New(staticFetcher(schema), store)
	ctx := context.Background()
	if err := e.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := e.ReturnToLogin(); !errors.Is(err, engine.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition before submission, got %v", err)
	}

	_, _ = e.Advance(ctx)
	if err := e.ReturnToLogin(); err != nil {
		t.Fatalf("return to login: %v", err)
	}
	if e.Status() != engine.StatusExited {
		t.Fatalf("expected exited, got %s", e.Status())
	}
	for _, key := range []string{session.KeyRollNumber, session.KeyUserName} {
		if _, ok := store.Get(key); ok {
			t.Fatalf("expected %s removed", key)
		}
	}
	if len(e.Values()) != 0 {
		t.Fatalf("expected values discarded, got %v", e.Values())
	}
}

func TestSnapshotProgress(t *testing.T) {
	e := loadedEngine(t, twoSectionSchema())
	snap := e.Snapshot()
	if diff := cmp.Diff(engine.Progress{Current: 1, Total: 2, Percent: 50}, snap.Progress()); diff != "" {
		t.Fatalf("progress mismatch (-want +got):\n%s", diff)
	}
	if snap.IsLastSection() || snap.CanRetreat() {
		t.Fatalf("unexpected navigation flags in first section: %+v", snap)
	}

	_ = e.FieldChange("name", model.Text("Alice"))
	_, _ = e.Advance(context.Background())
	snap = e.Snapshot()
	if !snap.IsLastSection() || !snap.CanRetreat() {
		t.Fatalf("unexpected navigation flags in last section: %+v", snap)
	}
	sec, ok := snap.CurrentSection()
	if !ok || sec.Title != "Two" {
		t.Fatalf("expected section Two, got %+v", sec)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	e := loadedEngine(t, twoSectionSchema())
	_ = e.FieldChange("name", model.Text("Alice"))

	snap := e.Snapshot()
	snap.Values["name"] = model.Text("Mallory")
	if v, _ := e.Value("name"); v.String() != "Alice" {
		t.Fatalf("snapshot mutation leaked into engine: %q", v.String())
	}
}

func TestLoadTwiceIsInvalid(t *testing.T) {
	e := loadedEngine(t, twoSectionSchema())
	if err := e.Load(context.Background()); !errors.Is(err, engine.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func ExampleEngine() {
	schema := model.FormSchema{
		FormID: "demo",
		Sections: []model.FormSection{{Fields: []model.FormField{
			{FieldID: "name", Type: model.FieldTypeText, Required: true},
		}}},
	}
	store := session.NewMemoryStore()
	_ = store.Set(session.KeyRollNumber, "RA1")

	e := engine.New(staticFetcher(schema), store)
	_ = e.Load(context.Background())

	moved, _ := e.Advance(context.Background())
	fmt.Println(moved, e.Errors()["name"])

	_ = e.FieldChange("name", model.Text("Alice"))
	moved, _ = e.Advance(context.Background())
	fmt.Println(moved, e.Status())
	// Output:
	// false This field is required
	// true submitted
}
