// Package section lays out the fields of one form section.
package section

import (
	"fmt"

	"github.com/goliatone/go-formclient/pkg/field"
	"github.com/goliatone/go-formclient/pkg/model"
)

// View is a rendered section: its heading and every field in schema order.
type View struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Fields      []field.View `json:"fields"`
}

// Render supplies each field its own value (defaulted per type), its section
// validation error and its local error. It performs no validation.
func Render(sec model.FormSection, values model.Values, errs model.ErrorMap, local field.LocalErrors) View {
	view := View{
		Title:       sec.Title,
		Description: sec.Description,
		Fields:      make([]field.View, 0, len(sec.Fields)),
	}
	for _, f := range sec.Fields {
		view.Fields = append(view.Fields, field.Render(f, values.ValueFor(f), errs[f.FieldID], local[f.FieldID]))
	}
	return view
}

// Dispatch forwards an event aimed at fieldID to the matching field and
// returns the change tagged with that id.
func Dispatch(sec model.FormSection, values model.Values, fieldID string, ev field.Event) (field.Change, error) {
	for _, f := range sec.Fields {
		if f.FieldID != fieldID {
			continue
		}
		return field.Apply(f, values.ValueFor(f), ev)
	}
	return field.Change{}, fmt.Errorf("section: field %q not in section %q", fieldID, sec.Title)
}
