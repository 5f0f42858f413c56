package field

import "log/slog"

// UpdateHandler receives every update event a binder emits.
type UpdateHandler func(UpdateEvent)

// Option configures a Binder.
type Option func(*Binder)

// WithUpdateHandler registers fn to receive update events. Multiple handlers
// run in registration order.
func WithUpdateHandler(fn UpdateHandler) Option {
	return func(b *Binder) {
		if fn != nil {
			b.handlers = append(b.handlers, fn)
		}
	}
}

// WithUpdateChannel delivers update events on ch. Sends block, so the parent
// must drain the channel or give it enough buffer for its edit sessions.
func WithUpdateChannel(ch chan<- UpdateEvent) Option {
	return func(b *Binder) {
		if ch == nil {
			return
		}
		b.handlers = append(b.handlers, func(evt UpdateEvent) {
			ch <- evt
		})
	}
}

// WithLogger sets the logger used for the per-event diagnostic line.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithResetOnCancel makes Cancel also hide the edit buttons and clear the
// last validation error.
func WithResetOnCancel() Option {
	return func(b *Binder) {
		b.resetOnCancel = true
	}
}

// WithBaselineOnSuccess keeps the pristine value at the last successfully
// saved value, so Cancel after a failed save reverts to valid data.
func WithBaselineOnSuccess() Option {
	return func(b *Binder) {
		b.baselineOnSuccess = true
	}
}
