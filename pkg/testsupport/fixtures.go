package testsupport

import (
	"sync"
	"testing"

	"github.com/goliatone/go-formfield/internal/schema"
	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/form"
	"github.com/goliatone/go-formfield/pkg/model"
)

// Bind registers desc on a fresh form state seeded with values and returns a
// binder for it. Testing helpers fail the test on setup errors to keep
// contract tests concise.
func Bind(t *testing.T, desc model.Descriptor, values map[string]any, opts ...field.Option) (*field.Binder, *form.State) {
	t.Helper()

	state := form.NewState(values)
	state.Register(desc)
	b, err := field.New(desc, state.Control(desc.Key), opts...)
	if err != nil {
		t.Fatalf("new binder %q: %v", desc.Key, err)
	}
	return b, state
}

// LoadDescriptors reads a YAML or JSON descriptor fixture.
func LoadDescriptors(t *testing.T, path string) []model.Descriptor {
	t.Helper()

	fields, err := schema.LoadFile(path)
	if err != nil {
		t.Fatalf("load descriptors: %v", err)
	}
	return fields
}

// EventRecorder collects update events delivered through its Option.
type EventRecorder struct {
	mu     sync.Mutex
	events []field.UpdateEvent
}

// Option registers the recorder as a binder update handler.
func (r *EventRecorder) Option() field.Option {
	return field.WithUpdateHandler(func(evt field.UpdateEvent) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, evt)
	})
}

// Events returns a copy of the recorded events.
func (r *EventRecorder) Events() []field.UpdateEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]field.UpdateEvent(nil), r.events...)
}

// Keys returns the keys of the recorded events in delivery order.
func (r *EventRecorder) Keys() []string {
	events := r.Events()
	keys := make([]string, 0, len(events))
	for _, evt := range events {
		keys = append(keys, evt.Key)
	}
	return keys
}
