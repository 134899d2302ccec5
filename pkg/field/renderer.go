package field

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formclient/pkg/model"
)

// DefaultSelectPlaceholder labels the empty entry of a dropdown without a
// placeholder.
const DefaultSelectPlaceholder = "Select an option"

// ErrEventMismatch is returned when an event does not fit the field's control,
// for example a toggle sent to a text input.
var ErrEventMismatch = errors.New("field: event does not match control")

// View is the rendered state of a single field.
type View struct {
	FieldID    string  `json:"fieldId"`
	Label      string  `json:"label"`
	Required   bool    `json:"required"`
	DataTestID string  `json:"dataTestId,omitempty"`
	Control    Control `json:"control"`
	Error      string  `json:"error,omitempty"`
}

// Render builds the control for field from its current value. external is the
// error supplied by section validation and local the error produced by the
// last change; the local error wins when both are set.
func Render(f model.FormField, value model.Value, external, local string) View {
	view := View{
		FieldID:    f.FieldID,
		Label:      f.Label,
		Required:   f.Required,
		DataTestID: f.DataTestID,
		Error:      external,
	}
	if local != "" {
		view.Error = local
	}

	constraints := Constraints{MinLength: f.MinLength, MaxLength: f.MaxLength}

	switch f.Type.Kind() {
	case model.KindTextArea:
		view.Control = TextArea{
			Value:       value.String(),
			Placeholder: f.Placeholder,
			Required:    f.Required,
			Constraints: constraints,
		}
	case model.KindDropdown:
		placeholder := f.Placeholder
		if placeholder == "" {
			placeholder = DefaultSelectPlaceholder
		}
		view.Control = Select{
			Placeholder: placeholder,
			Choices:     choices(f.Options, func(opt model.Option) bool { return opt.Value == value.String() }),
			Required:    f.Required,
		}
	case model.KindRadio:
		view.Control = RadioGroup{
			Name:     f.FieldID,
			Choices:  choices(f.Options, func(opt model.Option) bool { return opt.Value == value.String() }),
			Required: f.Required,
		}
	case model.KindCheckbox:
		view.Control = CheckboxGroup{
			Choices: choices(f.Options, func(opt model.Option) bool { return value.Contains(opt.Value) }),
		}
	case model.KindInput:
		view.Control = TextInput{
			InputType:   f.Type.InputType(),
			Value:       value.String(),
			Placeholder: f.Placeholder,
			Required:    f.Required,
			Constraints: constraints,
		}
	default:
		panic(fmt.Sprintf("field: unhandled kind %s", f.Type.Kind()))
	}

	return view
}

func choices(options []model.Option, selected func(model.Option) bool) []Choice {
	out := make([]Choice, 0, len(options))
	for _, opt := range options {
		out = append(out, Choice{
			Value:      opt.Value,
			Label:      opt.Label,
			Selected:   selected(opt),
			DataTestID: opt.DataTestID,
		})
	}
	return out
}

// Event is a raw interaction with a field's control.
type Event interface {
	raw() string
}

// Input carries the new text of an input or text area, or the value picked in
// a select or radio group.
type Input struct {
	Text string
}

// Toggle carries a checkbox option being checked or unchecked.
type Toggle struct {
	Option  string
	Checked bool
}

func (e Input) raw() string  { return e.Text }
func (e Toggle) raw() string { return e.Option }

// Change is the outcome of an event: the field's new value and the message of
// the local check, empty when the input passed.
type Change struct {
	FieldID    string
	Value      model.Value
	LocalError string
}

// Apply maps ev onto a new value for field. It never mutates current. Checking
// an option appends it to the set in interaction order; unchecking removes it.
func Apply(f model.FormField, current model.Value, ev Event) (Change, error) {
	change := Change{
		FieldID:    f.FieldID,
		LocalError: Validate(f, ev.raw()),
	}

	switch e := ev.(type) {
	case Toggle:
		if f.Type.Kind() != model.KindCheckbox {
			return Change{}, fmt.Errorf("%w: toggle on %s field %q", ErrEventMismatch, f.Type, f.FieldID)
		}
		if !current.IsSet() {
			current = model.Set()
		}
		if e.Checked {
			change.Value = current.With(e.Option)
		} else {
			change.Value = current.Without(e.Option)
		}
	case Input:
		if f.Type.Kind() == model.KindCheckbox {
			return Change{}, fmt.Errorf("%w: text input on checkbox field %q", ErrEventMismatch, f.FieldID)
		}
		change.Value = model.Text(e.Text)
	default:
		return Change{}, fmt.Errorf("%w: unsupported event %T", ErrEventMismatch, ev)
	}

	return change, nil
}
