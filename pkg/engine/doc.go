// Package engine implements the form state machine.
//
// An Engine starts in StatusLoading. Load reads the roll number through the
// session gate and fetches the schema; it ends in StatusInSection (section 0),
// StatusError or, without a session, StatusExited. From a section:
//
//   - FieldChange stores a value and clears that field's error;
//   - Advance validates the section and moves forward, submitting from the
//     last section;
//   - Retreat moves back one section unconditionally.
//
// ReturnToLogin leaves StatusSubmitted for StatusExited and clears the
// session. Section validation applies, per field, the ordered rules required,
// minimum length and maximum length; the first failing rule wins.
package engine
