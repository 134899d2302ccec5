// Package field turns one form field definition plus its current value into a
// Control and turns raw user interactions into new values.
//
// Render is the single dispatch point from field type to control variant.
// Apply maps an Event (Input or Toggle) to a Change, running the local format
// checks (Validate) on the raw input. Neither function touches shared state;
// callers feed the resulting Change to the form engine.
package field
