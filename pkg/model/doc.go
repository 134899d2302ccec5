// Package model defines the form schema consumed by the client (FormSchema,
// FormSection, FormField, Option) together with the runtime state types the
// engine and renderers share: Value, Values and ErrorMap.
//
// Field types map onto a closed set of control kinds (see Kind): text-like
// types and unknown types become single-line inputs, while textarea, dropdown,
// radio and checkbox each have a dedicated control. Only checkbox fields hold
// set values; every other field holds a single string.
//
// Schemas are decoded from JSON, JSON with comments, or YAML, either bare or
// wrapped in the {"form": …} envelope returned by the form-fetch call.
package model
