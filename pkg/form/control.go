package form

// FieldControl is the slice of form state a single field binder may touch:
// reads and writes of its own key, the validity flag and the pristine flag.
type FieldControl interface {
	Key() string
	Value() any
	Patch(value any)
	Valid() bool
	MarkPristine()
	Pristine() bool
}

// Control scopes a State to one key.
type Control struct {
	state *State
	key   string
}

var _ FieldControl = (*Control)(nil)

// Key returns the field key the control is bound to.
func (c *Control) Key() string {
	return c.key
}

// Value returns the current value of the bound key.
func (c *Control) Value() any {
	return c.state.Value(c.key)
}

// Patch writes value to the bound key only.
func (c *Control) Patch(value any) {
	c.state.Patch(map[string]any{c.key: value})
}

// Valid reports the validity flag of the bound key.
func (c *Control) Valid() bool {
	return c.state.Valid(c.key)
}

// Errors returns the validator messages for the bound key.
func (c *Control) Errors() []string {
	return c.state.Errors(c.key)
}

// MarkPristine clears the dirty flag of the bound key.
func (c *Control) MarkPristine() {
	c.state.MarkPristine(c.key)
}

// Pristine reports whether the bound key is unedited.
func (c *Control) Pristine() bool {
	return c.state.Pristine(c.key)
}
