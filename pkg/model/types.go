package model

// FieldType is the wire identifier of a form field kind.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeDate     FieldType = "date"
	FieldTypeNumber   FieldType = "number"
	FieldTypePassword FieldType = "password"
	FieldTypeURL      FieldType = "url"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
)

// Kind groups field types by the control used to edit them. The set is closed:
// every FieldType maps to exactly one Kind and unknown types fall back to
// KindInput.
type Kind int

const (
	KindInput Kind = iota
	KindTextArea
	KindDropdown
	KindRadio
	KindCheckbox
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindTextArea:
		return "textarea"
	case KindDropdown:
		return "dropdown"
	case KindRadio:
		return "radio"
	case KindCheckbox:
		return "checkbox"
	default:
		return "unknown"
	}
}

// Kind reports the control family for the field type.
func (t FieldType) Kind() Kind {
	switch t {
	case FieldTypeTextarea:
		return KindTextArea
	case FieldTypeDropdown:
		return KindDropdown
	case FieldTypeRadio:
		return KindRadio
	case FieldTypeCheckbox:
		return KindCheckbox
	default:
		return KindInput
	}
}

// InputType returns the single-line input type used for text-like fields.
// Unknown types render as plain text.
func (t FieldType) InputType() string {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeTel, FieldTypeDate,
		FieldTypeNumber, FieldTypePassword, FieldTypeURL:
		return string(t)
	default:
		return string(FieldTypeText)
	}
}

// Option is one selectable entry of a dropdown, radio or checkbox field.
type Option struct {
	Value      string `json:"value" yaml:"value"`
	Label      string `json:"label" yaml:"label"`
	DataTestID string `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
}

// Validation carries the custom message reported for any failing rule.
type Validation struct {
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// FormField describes a single input. FieldID is unique within a schema.
type FormField struct {
	FieldID     string      `json:"fieldId" yaml:"fieldId"`
	Type        FieldType   `json:"type" yaml:"type"`
	Label       string      `json:"label" yaml:"label"`
	Placeholder string      `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool        `json:"required" yaml:"required"`
	DataTestID  string      `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
	MinLength   *int        `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   *int        `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Options     []Option    `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// CustomMessage returns the schema-provided validation message, if any.
func (f FormField) CustomMessage() string {
	if f.Validation == nil {
		return ""
	}
	return f.Validation.Message
}

// EmptyValue is the value a field holds before the user touches it.
func (f FormField) EmptyValue() Value {
	if f.Type.Kind() == KindCheckbox {
		return Set()
	}
	return Text("")
}

// FormSection groups fields shown together. Its identity is its position in
// the schema.
type FormSection struct {
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Fields      []FormField `json:"fields" yaml:"fields"`
}

// FormSchema is the server-supplied form description. It is treated as
// read-only once fetched.
type FormSchema struct {
	FormID    string        `json:"formId" yaml:"formId"`
	FormTitle string        `json:"formTitle" yaml:"formTitle"`
	Sections  []FormSection `json:"sections" yaml:"sections"`
}

// Field looks up a field by id across all sections.
func (s FormSchema) Field(fieldID string) (FormField, bool) {
	for _, section := range s.Sections {
		for _, field := range section.Fields {
			if field.FieldID == fieldID {
				return field, true
			}
		}
	}
	return FormField{}, false
}

// Section returns the section at index, reporting whether it exists.
func (s FormSchema) Section(index int) (FormSection, bool) {
	if index < 0 || index >= len(s.Sections) {
		return FormSection{}, false
	}
	return s.Sections[index], true
}

// FormResponse is the payload returned by the form-fetch call.
type FormResponse struct {
	Form FormSchema `json:"form" yaml:"form"`
}

// User is the payload of the user-creation call.
type User struct {
	RollNumber string `json:"rollNumber" yaml:"rollNumber"`
	Name       string `json:"name" yaml:"name"`
}
