package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formclient/pkg/client"
	"github.com/goliatone/go-formclient/pkg/engine"
	"github.com/goliatone/go-formclient/pkg/field"
	"github.com/goliatone/go-formclient/pkg/model"
	"github.com/goliatone/go-formclient/pkg/render"
	"github.com/goliatone/go-formclient/pkg/section"
	"github.com/goliatone/go-formclient/pkg/session"
)

// Backend is the remote service used for login and form loading.
type Backend interface {
	session.UserCreator
	engine.SchemaFetcher
}

// Runner drives the whole flow in a terminal: login, loading, one prompt per
// field of the active section, navigation, submission and return to login.
type Runner struct {
	backend   Backend
	store     session.Store
	driver    PromptDriver
	out       io.Writer
	submitter engine.Submitter
	logger    *slog.Logger
	styles    Styles
}

// NewRunner builds a runner. store keeps the roll number between runs; a file
// store lets the user resume without logging in again.
func NewRunner(backend Backend, store session.Store, options ...Option) (*Runner, error) {
	if backend == nil {
		return nil, errors.New("tui: backend is required")
	}
	if store == nil {
		return nil, errors.New("tui: session store is required")
	}
	r := &Runner{
		backend: backend,
		store:   store,
		out:     os.Stdout,
		logger:  slog.New(slog.DiscardHandler),
		styles:  DefaultStyles(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out)
	}
	if r.submitter == nil {
		r.submitter = engine.LogSubmitter(r.logger)
	}
	return r, nil
}

// Run loops until the user declines to continue or a prompt fails. Declining
// returns nil; an interrupt returns ErrAborted.
func (r *Runner) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := session.NewGate(r.store).RollNumber(); err != nil {
			if err := r.login(ctx); err != nil {
				return err
			}
		}
		again, err := r.runForm(ctx)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (r *Runner) login(ctx context.Context) error {
	var user model.User
	var failure string
	for {
		r.info(ctx, r.styles.Title.Render(render.TextLoginTitle))
		r.info(ctx, r.styles.Subtitle.Render(render.TextLoginSubtitle))
		if failure != "" {
			r.info(ctx, r.styles.Error.Render(failure))
		}

		roll, err := r.driver.Input(ctx, InputConfig{
			Message:   requiredLabel(render.TextRollNumber, true),
			Default:   user.RollNumber,
			Validator: requireText,
		})
		if err != nil {
			return err
		}
		name, err := r.driver.Input(ctx, InputConfig{
			Message:   requiredLabel(render.TextFullName, true),
			Default:   user.Name,
			Validator: requireText,
		})
		if err != nil {
			return err
		}

		user = model.User{RollNumber: roll, Name: name}
		if err := session.Login(ctx, r.backend, r.store, user); err != nil {
			r.logger.Warn("login failed", slog.String("roll_number", roll), slog.Any("error", err))
			failure = client.MessageCreateUser
			continue
		}
		r.logger.Info("logged in", slog.String("roll_number", roll))
		return nil
	}
}

// runForm reports whether the outer loop should start over at login.
func (r *Runner) runForm(ctx context.Context) (bool, error) {
	eng := engine.New(r.backend, r.store,
		engine.WithSubmitter(r.submitter),
		engine.WithLogger(r.logger),
	)
	local := make(field.LocalErrors)

	r.info(ctx, r.styles.Subtitle.Render(render.TextLoading))
	// The status carries the outcome; the engine logs the cause.
	_ = eng.Load(ctx)

	for {
		switch eng.Status() {
		case engine.StatusExited:
			return true, nil

		case engine.StatusError:
			r.info(ctx, r.styles.Error.Render(engine.MessageLoadFailed))
			retry, err := r.driver.Confirm(ctx, ConfirmConfig{Message: render.TextRetry + "?", Default: true})
			if err != nil {
				return false, err
			}
			if !retry {
				return false, nil
			}
			r.info(ctx, r.styles.Subtitle.Render(render.TextLoading))
			_ = eng.Reload(ctx)

		case engine.StatusInSection:
			if err := r.runSection(ctx, eng, local); err != nil {
				return false, err
			}

		case engine.StatusSubmitted:
			r.info(ctx, r.styles.Success.Render(render.TextSuccessTitle))
			r.info(ctx, render.TextSuccessBody)
			back, err := r.driver.Confirm(ctx, ConfirmConfig{Message: render.TextReturnToLogin + "?", Default: true})
			if err != nil {
				return false, err
			}
			if !back {
				return false, nil
			}
			if err := eng.ReturnToLogin(); err != nil {
				return false, err
			}
			return true, nil

		default:
			return false, fmt.Errorf("tui: unexpected status %s", eng.Status())
		}
	}
}

func (r *Runner) runSection(ctx context.Context, eng *engine.Engine, local field.LocalErrors) error {
	snap := eng.Snapshot()
	sec, ok := snap.CurrentSection()
	if !ok {
		return nil
	}

	r.header(ctx, snap, sec)

	values := snap.Values
	view := section.Render(sec, values, snap.Errors, local)
	for _, fv := range view.Fields {
		if fv.Error != "" {
			r.info(ctx, r.styles.Error.Render(fv.Label+": "+fv.Error))
		}
		events, err := r.prompt(ctx, fv)
		if err != nil {
			return err
		}
		for _, ev := range events {
			change, err := section.Dispatch(sec, values, fv.FieldID, ev)
			if err != nil {
				return err
			}
			if err := eng.FieldChange(change.FieldID, change.Value); err != nil {
				return err
			}
			values[change.FieldID] = change.Value
			local.Record(change)
			if change.LocalError != "" {
				r.info(ctx, r.styles.Warning.Render("! "+change.LocalError))
			}
		}
	}

	next := render.TextNext
	if snap.IsLastSection() {
		next = render.TextSubmit
	}
	options := []string{next}
	if snap.CanRetreat() {
		options = append(options, render.TextPrevious)
	}
	choice, err := r.driver.Select(ctx, SelectConfig{Message: sec.Title, Options: options})
	if err != nil {
		return err
	}

	switch choice {
	case 0:
		advanced, err := eng.Advance(ctx)
		if err != nil {
			return err
		}
		if !advanced {
			r.info(ctx, r.styles.Error.Render(fmt.Sprintf("%d field(s) need attention", len(eng.Errors()))))
		}
	case 1:
		eng.Retreat()
	}

	after := eng.Snapshot()
	if after.Status != engine.StatusInSection || after.SectionIndex != snap.SectionIndex {
		local.Reset()
	}
	return nil
}

func (r *Runner) header(ctx context.Context, snap engine.Snapshot, sec model.FormSection) {
	r.info(ctx, r.styles.Title.Render(snap.Schema.FormTitle))
	r.info(ctx, r.styles.Subtitle.Render("Form ID: "+snap.Schema.FormID))
	r.info(ctx, r.styles.progressLine(snap.Progress()))
	r.info(ctx, r.styles.Section.Render(sec.Title))
	if desc := plainText(sec.Description); desc != "" {
		r.info(ctx, desc)
	}
}

// prompt asks for one field and returns the events needed to move the stored
// value to the answer. An unchanged answer yields no events.
func (r *Runner) prompt(ctx context.Context, fv field.View) ([]field.Event, error) {
	message := requiredLabel(fv.Label, fv.Required)

	switch c := fv.Control.(type) {
	case field.TextInput:
		cfg := InputConfig{
			Message:   message,
			Default:   c.Value,
			Help:      helpText(c.Placeholder, c.Constraints),
			Validator: maxLength(c.Constraints),
		}
		ask := r.driver.Input
		if c.InputType == "password" {
			ask = r.driver.Password
		}
		text, err := ask(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return inputEvents(c.Value, text), nil

	case field.TextArea:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message:   message,
			Default:   c.Value,
			Help:      helpText(c.Placeholder, c.Constraints),
			Validator: maxLength(c.Constraints),
		})
		if err != nil {
			return nil, err
		}
		return inputEvents(c.Value, text), nil

	case field.Select:
		options := append([]string{c.Placeholder}, labels(c.Choices)...)
		current, idx := selected(c.Choices)
		picked, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: idx + 1})
		if err != nil {
			return nil, err
		}
		value := ""
		if picked > 0 && picked <= len(c.Choices) {
			value = c.Choices[picked-1].Value
		}
		return inputEvents(current, value), nil

	case field.RadioGroup:
		if len(c.Choices) == 0 {
			return nil, nil
		}
		// Index 0 keeps the field unanswered, as an untouched radio group does.
		options := append([]string{field.DefaultSelectPlaceholder}, labels(c.Choices)...)
		current, idx := selected(c.Choices)
		picked, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: idx + 1})
		if err != nil {
			return nil, err
		}
		value := ""
		if picked > 0 && picked <= len(c.Choices) {
			value = c.Choices[picked-1].Value
		}
		return inputEvents(current, value), nil

	case field.CheckboxGroup:
		if len(c.Choices) == 0 {
			return nil, nil
		}
		var defaults []int
		for i, choice := range c.Choices {
			if choice.Selected {
				defaults = append(defaults, i)
			}
		}
		picked, err := r.driver.MultiSelect(ctx, SelectConfig{Message: message, Options: labels(c.Choices), Defaults: defaults})
		if err != nil {
			return nil, err
		}
		return toggleEvents(c.Choices, picked), nil

	default:
		return nil, fmt.Errorf("tui: unsupported control %T", fv.Control)
	}
}

func (r *Runner) info(ctx context.Context, msg string) {
	if err := r.driver.Info(ctx, msg); err != nil {
		r.logger.Debug("write message", slog.Any("error", err))
	}
}

func inputEvents(current, answer string) []field.Event {
	if answer == current {
		return nil
	}
	return []field.Event{field.Input{Text: answer}}
}

// toggleEvents unchecks dropped options first, then checks new ones in
// option order.
func toggleEvents(choices []field.Choice, picked []int) []field.Event {
	want := make(map[int]bool, len(picked))
	for _, idx := range picked {
		want[idx] = true
	}
	var events []field.Event
	for i, choice := range choices {
		if choice.Selected && !want[i] {
			events = append(events, field.Toggle{Option: choice.Value, Checked: false})
		}
	}
	for i, choice := range choices {
		if !choice.Selected && want[i] {
			events = append(events, field.Toggle{Option: choice.Value, Checked: true})
		}
	}
	return events
}

func labels(choices []field.Choice) []string {
	out := make([]string, len(choices))
	for i, choice := range choices {
		out[i] = choice.Label
	}
	return out
}

func selected(choices []field.Choice) (string, int) {
	for i, choice := range choices {
		if choice.Selected {
			return choice.Value, i
		}
	}
	return "", -1
}

func requiredLabel(label string, required bool) string {
	if required {
		return label + " *"
	}
	return label
}

func helpText(placeholder string, c field.Constraints) string {
	var parts []string
	if placeholder != "" {
		parts = append(parts, placeholder)
	}
	switch {
	case c.MinLength != nil && c.MaxLength != nil:
		parts = append(parts, fmt.Sprintf("%d-%d characters", *c.MinLength, *c.MaxLength))
	case c.MinLength != nil:
		parts = append(parts, fmt.Sprintf("at least %d characters", *c.MinLength))
	case c.MaxLength != nil:
		parts = append(parts, fmt.Sprintf("at most %d characters", *c.MaxLength))
	}
	return strings.Join(parts, " · ")
}

// maxLength rejects answers longer than the field allows, counting runes like
// section validation does.
func maxLength(c field.Constraints) func(string) error {
	if c.MaxLength == nil || *c.MaxLength <= 0 {
		return nil
	}
	limit := *c.MaxLength
	return func(s string) error {
		if utf8.RuneCountInString(s) > limit {
			return errors.New(engine.MessageMaxLength(limit))
		}
		return nil
	}
}

func requireText(s string) error {
	if s == "" {
		return errors.New(engine.MessageRequired)
	}
	return nil
}
