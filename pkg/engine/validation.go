package engine

import (
	"fmt"
	"unicode/utf8"

	"github.com/goliatone/go-formclient/pkg/model"
)

// MessageRequired is reported for a missing required value when the field has
// no custom message.
const MessageRequired = "This field is required"

// MessageMaxLength is the default text of the maximum length rule.
func MessageMaxLength(n int) string {
	return fmt.Sprintf("Maximum length is %d characters", n)
}

// rule inspects one field. present reports whether the user ever set a value;
// absent values only fail the required rule.
type rule func(f model.FormField, value model.Value, present bool) (string, bool)

// Evaluated in order; the first failing rule is the field's only error.
var sectionRules = []rule{
	requiredRule,
	minLengthRule,
	maxLengthRule,
}

func requiredRule(f model.FormField, value model.Value, present bool) (string, bool) {
	if !f.Required || (present && !value.IsEmpty()) {
		return "", false
	}
	return messageOr(f, MessageRequired), true
}

func minLengthRule(f model.FormField, value model.Value, present bool) (string, bool) {
	if f.MinLength == nil || *f.MinLength <= 0 || !present || value.IsSet() {
		return "", false
	}
	if utf8.RuneCountInString(value.String()) >= *f.MinLength {
		return "", false
	}
	return messageOr(f, fmt.Sprintf("Minimum length is %d characters", *f.MinLength)), true
}

func maxLengthRule(f model.FormField, value model.Value, present bool) (string, bool) {
	if f.MaxLength == nil || *f.MaxLength <= 0 || !present || value.IsSet() {
		return "", false
	}
	if utf8.RuneCountInString(value.String()) <= *f.MaxLength {
		return "", false
	}
	return messageOr(f, MessageMaxLength(*f.MaxLength)), true
}

func messageOr(f model.FormField, fallback string) string {
	if msg := f.CustomMessage(); msg != "" {
		return msg
	}
	return fallback
}

// ValidateField runs the section rules against one field and returns the
// message of the first failing rule.
func ValidateField(f model.FormField, values model.Values) (string, bool) {
	value, present := values.Lookup(f.FieldID)
	for _, check := range sectionRules {
		if msg, failed := check(f, value, present); failed {
			return msg, true
		}
	}
	return "", false
}

// ValidateSection checks every field of sec independently. The result holds
// one message per failing field and is empty when the section passes.
func ValidateSection(sec model.FormSection, values model.Values) model.ErrorMap {
	errs := make(model.ErrorMap)
	for _, f := range sec.Fields {
		if msg, failed := ValidateField(f, values); failed {
			errs[f.FieldID] = msg
		}
	}
	return errs
}
