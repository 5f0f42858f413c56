// Package model defines the field descriptors that drive dynamic form fields.
// A Descriptor names the form-state key a field edits, its data Kind and, for
// enums, the ordered set of allowed values. Kinds form a closed set: decoding
// or parsing an unknown kind fails instead of silently falling through to a
// generic text input. Validation rules use the canonical identifiers
// (min/max, minLength/maxLength, pattern) with string parameters so they can
// be read from YAML, JSON or OpenAPI sources without loss.
package model
