package form

import (
	"sync"

	"github.com/goliatone/go-formfield/pkg/model"
)

// State is the form-state store shared between a parent container and the
// field binders it creates, one per descriptor. Values are keyed by field key;
// writes merge by key rather than replacing the whole map. Each key carries a
// pristine flag and a validity flag recomputed by the validators registered
// for it.
type State struct {
	mu         sync.RWMutex
	values     map[string]any
	dirty      map[string]bool
	errors     map[string][]string
	validators map[string]validator
}

// NewState seeds the state with a deep copy of values. Every key starts
// pristine and valid until validators are registered.
func NewState(values map[string]any) *State {
	return &State{
		values:     cloneValues(values),
		dirty:      make(map[string]bool),
		errors:     make(map[string][]string),
		validators: make(map[string]validator),
	}
}

// Register installs the required/format validators described by desc and
// evaluates them against the current value.
func (s *State) Register(desc model.Descriptor) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := newValidator(desc)
	s.validators[desc.Key] = v
	s.revalidateLocked(desc.Key)
}

// Value returns the current value stored at key. Missing keys yield nil.
func (s *State) Value(key string) any {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// Lookup reports the value stored at key and whether the key is present.
func (s *State) Lookup(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Values returns a deep copy of all values.
func (s *State) Values() map[string]any {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneValues(s.values)
}

// Patch merges the supplied key/value pairs into the state. Keys absent from
// patch are left untouched. Patched keys become dirty.
func (s *State) Patch(patch map[string]any) {
	if s == nil || len(patch) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range patch {
		s.values[key] = deepCopy(value)
		s.dirty[key] = true
		s.revalidateLocked(key)
	}
}

// Valid reports whether the value at key passes its registered validators.
func (s *State) Valid(key string) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.errors[key]) == 0
}

// Errors returns the validator messages attached to key.
func (s *State) Errors(key string) []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.errors[key]) == 0 {
		return nil
	}
	return append([]string(nil), s.errors[key]...)
}

// MarkPristine clears the dirty flag on key.
func (s *State) MarkPristine(key string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dirty, key)
}

// Pristine reports whether key has not been written since load or the last
// MarkPristine.
func (s *State) Pristine(key string) bool {
	if s == nil {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.dirty[key]
}

// Control returns a handle restricted to key.
func (s *State) Control(key string) *Control {
	return &Control{state: s, key: key}
}

func (s *State) revalidateLocked(key string) {
	v, ok := s.validators[key]
	if !ok {
		delete(s.errors, key)
		return
	}
	if msgs := v.validate(s.values[key]); len(msgs) > 0 {
		s.errors[key] = msgs
		return
	}
	delete(s.errors, key)
}

func cloneValues(src map[string]any) map[string]any {
	if len(src) == 0 {
		return make(map[string]any)
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
