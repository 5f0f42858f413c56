// Package form holds the form-state store a parent container shares with its
// field binders. The parent owns the State; each binder receives a Control
// scoped to its own key, so writes from sibling fields never overlap.
package form
