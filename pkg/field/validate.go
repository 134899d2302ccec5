package field

import (
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formclient/pkg/model"
)

const (
	// MessageInvalidEmail is shown while an email field lacks "@". Only the
	// "@" is checked even though the copy mentions ".com".
	MessageInvalidEmail = "Please enter a valid email address including @ and .com"
	// MessageCityTooShort is shown while the city field is shorter than two
	// characters after trimming.
	MessageCityTooShort = "City name must be at least 2 characters long"
)

// CityFieldID is the field id that receives the city length check.
const CityFieldID = "city"

type localRule struct {
	applies func(model.FormField) bool
	valid   func(string) bool
	message string
}

// Evaluated in order; the first failing rule wins.
var localRules = []localRule{
	{
		applies: func(f model.FormField) bool { return f.Type == model.FieldTypeEmail },
		valid:   func(raw string) bool { return strings.Contains(raw, "@") },
		message: MessageInvalidEmail,
	},
	{
		applies: func(f model.FormField) bool { return f.FieldID == CityFieldID },
		valid:   func(raw string) bool { return utf8.RuneCountInString(strings.TrimSpace(raw)) >= 2 },
		message: MessageCityTooShort,
	},
}

// Validate runs the format checks applied on every change and returns the
// message of the first failing check, or "" when raw passes. These checks are
// independent from section validation.
func Validate(f model.FormField, raw string) string {
	for _, rule := range localRules {
		if rule.applies(f) && !rule.valid(raw) {
			return rule.message
		}
	}
	return ""
}

// LocalErrors holds the latest local check result per field for the fields
// currently on screen. Front ends reset it when the visible section changes.
type LocalErrors map[string]string

// Record stores the local error of change, or clears it when the input passed.
func (l LocalErrors) Record(change Change) {
	if change.LocalError == "" {
		delete(l, change.FieldID)
		return
	}
	l[change.FieldID] = change.LocalError
}

// Reset drops every recorded error.
func (l LocalErrors) Reset() {
	for id := range l {
		delete(l, id)
	}
}
