package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-formclient/pkg/model"
	"github.com/goliatone/go-formclient/pkg/session"
)

// MessageLoadFailed is the only text shown for any load failure.
const MessageLoadFailed = "Failed to load form. Please try again."

var (
	// ErrInvalidTransition is returned when an operation is not allowed in the
	// current status, for example advancing after submission.
	ErrInvalidTransition = errors.New("engine: invalid transition")
	// ErrEmptyForm is returned when the fetched schema has no sections.
	ErrEmptyForm = errors.New("engine: form has no sections")
)

// SchemaFetcher loads the form schema for a roll number.
type SchemaFetcher interface {
	GetForm(ctx context.Context, rollNumber string) (model.FormSchema, error)
}

// SchemaFetcherFunc adapts a function into a SchemaFetcher.
type SchemaFetcherFunc func(ctx context.Context, rollNumber string) (model.FormSchema, error)

// GetForm calls fn.
func (fn SchemaFetcherFunc) GetForm(ctx context.Context, rollNumber string) (model.FormSchema, error) {
	return fn(ctx, rollNumber)
}

// Submitter receives the complete values once the last section validates.
type Submitter interface {
	Submit(ctx context.Context, schema model.FormSchema, values model.Values) error
}

// SubmitterFunc adapts a function into a Submitter.
type SubmitterFunc func(ctx context.Context, schema model.FormSchema, values model.Values) error

// Submit calls fn.
func (fn SubmitterFunc) Submit(ctx context.Context, schema model.FormSchema, values model.Values) error {
	return fn(ctx, schema, values)
}

// Engine owns the state of one form session: status, current section, values
// and section errors. All mutations go through its methods. An Engine is not
// safe for concurrent use; callers serialise events.
type Engine struct {
	fetcher   SchemaFetcher
	store     session.Store
	submitter Submitter
	logger    *slog.Logger

	status  Status
	schema  model.FormSchema
	index   int
	values  model.Values
	errors  model.ErrorMap
	loadErr error
}

// New builds an engine in the Loading status. store supplies the roll number
// and fetcher the schema.
func New(fetcher SchemaFetcher, store session.Store, options ...Option) *Engine {
	e := &Engine{
		fetcher: fetcher,
		store:   store,
		logger:  slog.New(slog.DiscardHandler),
		status:  StatusLoading,
		values:  make(model.Values),
		errors:  make(model.ErrorMap),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.submitter == nil {
		e.submitter = LogSubmitter(e.logger)
	}
	return e
}

// Load runs the entry transition. Without a stored roll number the engine
// moves to Exited and returns session.ErrNoSession; nothing is fetched. A
// fetch failure moves it to Error. On success the first section is active.
func (e *Engine) Load(ctx context.Context) error {
	if e.status != StatusLoading {
		return fmt.Errorf("%w: load from %s", ErrInvalidTransition, e.status)
	}

	roll, err := session.NewGate(e.store).RollNumber()
	if err != nil {
		e.status = StatusExited
		e.logger.Debug("no session, exiting to login")
		return err
	}

	if e.fetcher == nil {
		return e.fail(errors.New("engine: schema fetcher is nil"))
	}
	schema, err := e.fetcher.GetForm(ctx, roll)
	if err != nil {
		return e.fail(fmt.Errorf("engine: fetch form: %w", err))
	}
	if len(schema.Sections) == 0 {
		return e.fail(ErrEmptyForm)
	}

	e.schema = schema
	e.index = 0
	e.values = make(model.Values)
	e.errors = make(model.ErrorMap)
	e.status = StatusInSection
	e.logger.Info("form loaded",
		slog.String("form_id", schema.FormID),
		slog.Int("sections", len(schema.Sections)),
	)
	return nil
}

func (e *Engine) fail(err error) error {
	e.status = StatusError
	e.loadErr = err
	e.logger.Error("form load failed", slog.Any("error", err))
	return err
}

// Reload discards all state and runs Load again. It backs the manual retry
// offered after a load failure.
func (e *Engine) Reload(ctx context.Context) error {
	e.reset()
	return e.Load(ctx)
}

func (e *Engine) reset() {
	e.status = StatusLoading
	e.schema = model.FormSchema{}
	e.index = 0
	e.values = make(model.Values)
	e.errors = make(model.ErrorMap)
	e.loadErr = nil
}

// FieldChange is the single update entry point for values. It stores value and
// clears the error of fieldID only; no validation runs.
func (e *Engine) FieldChange(fieldID string, value model.Value) error {
	if e.status != StatusInSection {
		return fmt.Errorf("%w: field change in %s", ErrInvalidTransition, e.status)
	}
	e.values[fieldID] = value
	delete(e.errors, fieldID)
	return nil
}

// Advance validates the active section. When it passes the engine moves to the
// next section, or to Submitted from the last one, and reports true. When it
// fails the error map is replaced with the failures and the section stays
// active. Advancing outside a section returns ErrInvalidTransition.
func (e *Engine) Advance(ctx context.Context) (bool, error) {
	if e.status != StatusInSection {
		return false, fmt.Errorf("%w: advance from %s", ErrInvalidTransition, e.status)
	}

	e.errors = ValidateSection(e.schema.Sections[e.index], e.values)
	if len(e.errors) > 0 {
		e.logger.Debug("section invalid",
			slog.Int("section", e.index),
			slog.Any("fields", e.errors.FieldIDs()),
		)
		return false, nil
	}

	if e.index < len(e.schema.Sections)-1 {
		e.index++
		e.logger.Debug("section advanced", slog.Int("section", e.index))
		return true, nil
	}

	e.status = StatusSubmitted
	if err := e.submitter.Submit(ctx, e.schema, e.values.Clone()); err != nil {
		e.logger.Error("form submission hand-off failed",
			slog.String("form_id", e.schema.FormID),
			slog.Any("error", err),
		)
	}
	return true, nil
}

// Retreat moves to the previous section without validating or touching
// errors. It reports false, and does nothing, in the first section or outside
// a section.
func (e *Engine) Retreat() bool {
	if e.status != StatusInSection || e.index == 0 {
		return false
	}
	e.index--
	e.logger.Debug("section retreated", slog.Int("section", e.index))
	return true
}

// ReturnToLogin clears the stored session and exits. It is only allowed after
// submission.
func (e *Engine) ReturnToLogin() error {
	if e.status != StatusSubmitted {
		return fmt.Errorf("%w: return to login from %s", ErrInvalidTransition, e.status)
	}
	err := session.Logout(e.store)
	e.reset()
	e.status = StatusExited
	if err != nil {
		return fmt.Errorf("engine: clear session: %w", err)
	}
	return nil
}

// Status reports the current status.
func (e *Engine) Status() Status {
	return e.status
}

// Value returns the stored value of fieldID.
func (e *Engine) Value(fieldID string) (model.Value, bool) {
	return e.values.Lookup(fieldID)
}

// Values returns a copy of all values.
func (e *Engine) Values() model.Values {
	return e.values.Clone()
}

// Errors returns a copy of the current section errors.
func (e *Engine) Errors() model.ErrorMap {
	return e.errors.Clone()
}

// LoadError returns the cause of the last load failure.
func (e *Engine) LoadError() error {
	return e.loadErr
}

// Snapshot captures the state needed to render the current screen.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Status:       e.status,
		Schema:       e.schema,
		SectionIndex: e.index,
		SectionCount: len(e.schema.Sections),
		Values:       e.values.Clone(),
		Errors:       e.errors.Clone(),
	}
	if e.status == StatusError {
		snap.LoadError = MessageLoadFailed
	}
	return snap
}

// LogSubmitter hands submitted values to logger, which is the only delivery
// the form needs.
func LogSubmitter(logger *slog.Logger) Submitter {
	return SubmitterFunc(func(ctx context.Context, schema model.FormSchema, values model.Values) error {
		logger.InfoContext(ctx, "form submitted",
			slog.String("form_id", schema.FormID),
			slog.Any("values", values.Map()),
		)
		return nil
	})
}
