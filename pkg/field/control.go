package field

import "encoding/json"

// Control is the interactive element produced for a field. The set of
// implementations is closed: TextInput, TextArea, Select, RadioGroup and
// CheckboxGroup. Front ends dispatch on it with a type switch.
type Control interface {
	control()
}

// Constraints mirrors the length limits declared on the field.
type Constraints struct {
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`
}

// TextInput is a single-line input. InputType is one of text, email, tel,
// date, number, password or url.
type TextInput struct {
	InputType   string      `json:"inputType"`
	Value       string      `json:"value"`
	Placeholder string      `json:"placeholder,omitempty"`
	Required    bool        `json:"required"`
	Constraints Constraints `json:"constraints"`
}

// TextArea is a multi-line input.
type TextArea struct {
	Value       string      `json:"value"`
	Placeholder string      `json:"placeholder,omitempty"`
	Required    bool        `json:"required"`
	Constraints Constraints `json:"constraints"`
}

// Choice is one option of a select, radio or checkbox control.
type Choice struct {
	Value      string `json:"value"`
	Label      string `json:"label"`
	Selected   bool   `json:"selected"`
	DataTestID string `json:"dataTestId,omitempty"`
}

// Select is a single-choice dropdown. The placeholder entry carries the empty
// value and is selected when nothing else is.
type Select struct {
	Placeholder string   `json:"placeholder"`
	Choices     []Choice `json:"choices"`
	Required    bool     `json:"required"`
}

// RadioGroup is a set of mutually exclusive choices sharing Name.
type RadioGroup struct {
	Name     string   `json:"name"`
	Choices  []Choice `json:"choices"`
	Required bool     `json:"required"`
}

// CheckboxGroup is a set of independent toggles whose selection forms the
// field's set value.
type CheckboxGroup struct {
	Choices []Choice `json:"choices"`
}

func (TextInput) control()     {}
func (TextArea) control()      {}
func (Select) control()        {}
func (RadioGroup) control()    {}
func (CheckboxGroup) control() {}

// KindName returns a stable identifier for the control variant, used by
// templates and serialised views.
func KindName(c Control) string {
	switch c.(type) {
	case TextInput:
		return "input"
	case TextArea:
		return "textarea"
	case Select:
		return "select"
	case RadioGroup:
		return "radio"
	case CheckboxGroup:
		return "checkbox"
	default:
		return ""
	}
}

// MarshalJSON adds the control kind so consumers can tell variants apart.
func (v View) MarshalJSON() ([]byte, error) {
	type plain View
	return json.Marshal(struct {
		plain
		Kind string `json:"kind"`
	}{plain: plain(v), Kind: KindName(v.Control)})
}
