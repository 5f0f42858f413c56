package editor

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("editor: aborted")
	// ErrNilBinder is returned when Edit is called without a binder.
	ErrNilBinder = errors.New("editor: binder is nil")
)
