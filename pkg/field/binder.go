package field

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/goliatone/go-formfield/pkg/form"
	"github.com/goliatone/go-formfield/pkg/model"
)

// BlankOption is the display value dropdowns use for "no selection".
const BlankOption = "&nbsp;"

// MarkupFormat tags markup payloads in update events.
const MarkupFormat = "Markdown"

// MarkupValue is the wire shape of markup field values in update events.
type MarkupValue struct {
	Markup  string `json:"markup"`
	Content any    `json:"content"`
}

// UpdateEvent is emitted on every save attempt, successful or not.
type UpdateEvent struct {
	Key        string            `json:"key"`
	OldValue   any               `json:"oldValue"`
	NewValue   any               `json:"newValue"`
	Descriptor model.Descriptor  `json:"descriptor"`
	Error      string            `json:"error,omitempty"`
	Control    form.FieldControl `json:"-"`
}

// Binder synchronizes one dynamic field with the shared form state. It keeps
// the pristine value used by Cancel, converts between stored and widget
// representations, validates on Save and emits update events.
//
// A Binder is driven by a single event loop; it is not safe for concurrent
// use.
type Binder struct {
	desc model.Descriptor
	ctrl form.FieldControl

	oldValue       any
	dateValue      *DateModel
	errMsg         string
	buttonsVisible bool

	handlers          []UpdateHandler
	logger            *slog.Logger
	resetOnCancel     bool
	baselineOnSuccess bool
}

// New binds desc to ctrl and captures the pristine value. For instant
// fields the stored string is also converted into a DateModel.
func New(desc model.Descriptor, ctrl form.FieldControl, opts ...Option) (*Binder, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if ctrl == nil {
		return nil, ErrNilControl
	}
	if ctrl.Key() != desc.Key {
		return nil, fmt.Errorf("%w: %q != %q", ErrKeyMismatch, ctrl.Key(), desc.Key)
	}

	b := &Binder{
		desc:   desc,
		ctrl:   ctrl,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	b.oldValue = ctrl.Value()
	if desc.Type.Kind == model.KindInstant {
		if s, ok := b.oldValue.(string); ok {
			b.dateValue = ToDateModel(s)
		}
	}
	return b, nil
}

// Key returns the form-state key the binder edits.
func (b *Binder) Key() string { return b.desc.Key }

// Descriptor returns the field descriptor.
func (b *Binder) Descriptor() model.Descriptor { return b.desc }

// Kind returns the descriptor kind.
func (b *Binder) Kind() model.Kind { return b.desc.Type.Kind }

// Value returns the current form-state value of the field.
func (b *Binder) Value() any { return b.ctrl.Value() }

// OldValue returns the pristine value Cancel restores.
func (b *Binder) OldValue() any { return b.oldValue }

// DateValue returns the date picker model for instant fields, nil otherwise
// or when no date is stored.
func (b *Binder) DateValue() *DateModel {
	if b.dateValue == nil {
		return nil
	}
	d := *b.dateValue
	return &d
}

// Error returns the last validation message, empty when the last save
// succeeded.
func (b *Binder) Error() string { return b.errMsg }

// Valid reports the form-state validity flag for the field.
func (b *Binder) Valid() bool { return b.ctrl.Valid() }

// ButtonsVisible reports whether the field is in an edit session.
func (b *Binder) ButtonsVisible() bool { return b.buttonsVisible }

// FocusIn starts an edit session.
func (b *Binder) FocusIn() {
	b.buttonsVisible = true
}

// OnChangeDropdown stores the selected option and saves. The blank option
// stores an empty string.
func (b *Binder) OnChangeDropdown(option string) (UpdateEvent, error) {
	if option == BlankOption {
		b.ctrl.Patch("")
	} else {
		b.ctrl.Patch(option)
	}
	return b.Save()
}

// OnChangeBoolean stores the selection and saves. A nil selection clears
// the value.
func (b *Binder) OnChangeBoolean(selected *bool) (UpdateEvent, error) {
	if selected == nil {
		b.ctrl.Patch(nil)
	} else {
		b.ctrl.Patch(*selected)
	}
	return b.Save()
}

// OnChangeMarkup stores non-empty content and saves. Empty content leaves the
// stored value as it was; the save still runs.
func (b *Binder) OnChangeMarkup(content string) (UpdateEvent, error) {
	if content != "" {
		b.ctrl.Patch(content)
	}
	return b.Save()
}

// OnDateChanged stores t as an ISO-8601 UTC string and saves.
func (b *Binder) OnDateChanged(t time.Time) (UpdateEvent, error) {
	stored := FormatInstant(t)
	b.ctrl.Patch(stored)
	b.dateValue = ToDateModel(stored)
	return b.Save()
}

// ChangeBaseType stores the raw input of a text-like control. It does not
// save; callers commit with Save.
func (b *Binder) ChangeBaseType(raw string) {
	b.ctrl.Patch(raw)
}

// Save ends the edit session, coerces and validates the stored value by kind,
// emits an update event and advances the pristine value. A failed validation
// leaves the invalid value in the form state, still emits the event and is
// returned as a *ValidationError.
func (b *Binder) Save() (UpdateEvent, error) {
	b.buttonsVisible = false

	verr := b.coerce()
	if verr != nil {
		b.errMsg = verr.Error()
	} else {
		b.errMsg = ""
	}

	evt := b.emit()

	if verr == nil || !b.baselineOnSuccess {
		b.oldValue = b.ctrl.Value()
	}

	if verr != nil {
		return evt, verr
	}
	return evt, nil
}

// Cancel restores the pristine value and marks the field unedited.
func (b *Binder) Cancel() {
	b.ctrl.Patch(b.oldValue)
	b.ctrl.MarkPristine()
	if b.desc.Type.Kind == model.KindInstant {
		s, _ := b.oldValue.(string)
		b.dateValue = ToDateModel(s)
	}
	if b.resetOnCancel {
		b.buttonsVisible = false
		b.errMsg = ""
	}
}

func (b *Binder) coerce() *ValidationError {
	value := b.ctrl.Value()
	switch b.desc.Type.Kind {
	case model.KindInteger:
		n, ok := parseLeadingInt(value)
		if !ok {
			return newValidationError(b.desc.Key, value, ErrNotInteger)
		}
		b.ctrl.Patch(n)
	case model.KindFloat:
		f, ok := parseLeadingFloat(value)
		if !ok {
			return newValidationError(b.desc.Key, value, ErrNotFloat)
		}
		b.ctrl.Patch(f)
	case model.KindEnum:
		s, ok := value.(string)
		if !ok || !b.desc.Type.AllowsValue(s) {
			return newValidationError(b.desc.Key, value, ErrNotInEnum)
		}
	case model.KindString, model.KindURL, model.KindBoolean, model.KindMarkup, model.KindInstant:
		// already normalised by the change handlers
	default:
		return newValidationError(b.desc.Key, value, fmt.Errorf("%w: %q", model.ErrUnknownKind, b.desc.Type.Kind))
	}
	return nil
}

func (b *Binder) emit() UpdateEvent {
	current := b.ctrl.Value()
	evt := UpdateEvent{
		Key:        b.desc.Key,
		Descriptor: b.desc,
		Error:      b.errMsg,
		Control:    b.ctrl,
	}
	if b.desc.Type.Kind == model.KindMarkup {
		evt.NewValue = MarkupValue{Markup: MarkupFormat, Content: current}
		evt.OldValue = MarkupValue{Markup: MarkupFormat, Content: b.oldValue}
	} else {
		evt.NewValue = current
		evt.OldValue = b.oldValue
	}

	b.logger.Debug("emit dynamic form control update",
		slog.String("key", b.desc.Key),
		slog.String("kind", b.desc.Type.Kind.String()),
		slog.String("new", describeValue(current)),
		slog.Bool("valid", b.errMsg == ""),
	)
	for _, handler := range b.handlers {
		handler(evt)
	}
	return evt
}
