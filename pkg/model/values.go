package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
)

// Value is the state of one field: either a single string or, for checkbox
// groups, a set of option values kept in the order they were selected. The
// zero Value is an empty string.
type Value struct {
	text  string
	items []string
	set   bool
}

// Text builds a single-string value.
func Text(s string) Value {
	return Value{text: s}
}

// Set builds a set value. Duplicate entries are dropped, first occurrence wins.
func Set(items ...string) Value {
	out := Value{set: true}
	for _, item := range items {
		if !slices.Contains(out.items, item) {
			out.items = append(out.items, item)
		}
	}
	return out
}

// IsSet reports whether v holds a set rather than a string.
func (v Value) IsSet() bool {
	return v.set
}

// String returns the text of a single-string value and "" for sets.
func (v Value) String() string {
	if v.set {
		return ""
	}
	return v.text
}

// Items returns a copy of the set members in selection order.
func (v Value) Items() []string {
	if !v.set || len(v.items) == 0 {
		return nil
	}
	return append([]string(nil), v.items...)
}

// Contains reports whether item is a member of a set value.
func (v Value) Contains(item string) bool {
	return v.set && slices.Contains(v.items, item)
}

// IsEmpty reports whether the value counts as missing for required checks: an
// empty string or an empty set. Whitespace-only strings are not empty.
func (v Value) IsEmpty() bool {
	if v.set {
		return len(v.items) == 0
	}
	return v.text == ""
}

// With returns a set value with item appended unless already present.
func (v Value) With(item string) Value {
	if v.Contains(item) {
		return Set(v.items...)
	}
	return Set(append(v.Items(), item)...)
}

// Without returns a set value with item removed.
func (v Value) Without(item string) Value {
	out := Value{set: true}
	for _, existing := range v.items {
		if existing != item {
			out.items = append(out.items, existing)
		}
	}
	return out
}

// Equal reports whether two values hold the same kind and content. Set order
// is significant.
func (v Value) Equal(other Value) bool {
	if v.set != other.set {
		return false
	}
	if v.set {
		return slices.Equal(v.items, other.items)
	}
	return v.text == other.text
}

// Any converts the value into a JSON-friendly representation.
func (v Value) Any() any {
	if v.set {
		items := v.Items()
		if items == nil {
			items = []string{}
		}
		return items
	}
	return v.text
}

// MarshalJSON encodes strings as JSON strings and sets as arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON accepts either a JSON string or an array of strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*v = Text(text)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("model: value must be a string or a string array: %w", err)
	}
	*v = Set(items...)
	return nil
}

// Values maps field ids to their current value. Fields the user never touched
// are absent.
type Values map[string]Value

// Lookup returns the stored value and whether the field has one.
func (v Values) Lookup(fieldID string) (Value, bool) {
	if v == nil {
		return Value{}, false
	}
	value, ok := v[fieldID]
	return value, ok
}

// ValueFor returns the stored value or the field's empty default.
func (v Values) ValueFor(field FormField) Value {
	if value, ok := v.Lookup(field.FieldID); ok {
		return value
	}
	return field.EmptyValue()
}

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		if value.set {
			value = Set(value.items...)
		}
		out[key] = value
	}
	return out
}

// Map converts the values into plain Go types for serialisation.
func (v Values) Map() map[string]any {
	out := make(map[string]any, len(v))
	for key, value := range v {
		out[key] = value.Any()
	}
	return out
}

// ErrorMap maps field ids to a human-readable message.
type ErrorMap map[string]string

// Clone returns an independent copy.
func (e ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(e))
	for key, message := range e {
		out[key] = message
	}
	return out
}

// FieldIDs returns the ids with an error, sorted.
func (e ErrorMap) FieldIDs() []string {
	ids := make([]string, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
