// Package field binds one dynamic form field to the shared form state.
//
// A Binder is created per descriptor each time the parent loads an item. It
// captures the pristine value, converts between the stored representation and
// the widget representation of its kind (dropdown sentinel, tri-state
// boolean, markup payload, calendar day), coerces and validates on Save, and
// reports every save attempt as an UpdateEvent. Validation failures come back
// from Save as *ValidationError and are kept as the display string returned
// by Error; they never panic and never roll the invalid value back.
//
// By default a failed Save still advances the pristine value, and Cancel
// leaves the edit buttons and the error message as they were. Use
// WithBaselineOnSuccess and WithResetOnCancel to opt into the stricter
// behaviour.
package field
