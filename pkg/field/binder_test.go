package field_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/form"
	"github.com/goliatone/go-formfield/pkg/model"
)

func descriptor(key string, kind model.Kind, values ...string) model.Descriptor {
	return model.Descriptor{
		Key:  key,
		Type: model.TypeDescriptor{Kind: kind, Values: values},
	}
}

type recorder struct {
	events []field.UpdateEvent
}

func (r *recorder) handle(evt field.UpdateEvent) {
	r.events = append(r.events, evt)
}

func newBinder(t *testing.T, desc model.Descriptor, values map[string]any, opts ...field.Option) (*field.Binder, *form.State, *recorder) {
	t.Helper()
	state := form.NewState(values)
	state.Register(desc)
	rec := &recorder{}
	opts = append([]field.Option{field.WithUpdateHandler(rec.handle)}, opts...)
	b, err := field.New(desc, state.Control(desc.Key), opts...)
	if err != nil {
		t.Fatalf("new binder: %v", err)
	}
	return b, state, rec
}

var ignoreControl = cmpopts.IgnoreFields(field.UpdateEvent{}, "Control")

func TestNew_CapturesPristineValue(t *testing.T) {
	b, _, _ := newBinder(t, descriptor("title", model.KindString), map[string]any{"title": "Bug"})
	if b.OldValue() != "Bug" {
		t.Fatalf("old value = %v", b.OldValue())
	}
	if b.ButtonsVisible() {
		t.Fatalf("buttons must start hidden")
	}
	if b.Error() != "" {
		t.Fatalf("error must start empty")
	}
	if b.DateValue() != nil {
		t.Fatalf("non-instant field must not carry a date")
	}
}

func TestNew_RejectsBadInput(t *testing.T) {
	state := form.NewState(nil)

	if _, err := field.New(descriptor("title", model.KindString), state.Control("other")); !errors.Is(err, field.ErrKeyMismatch) {
		t.Fatalf("expected ErrKeyMismatch, got %v", err)
	}
	if _, err := field.New(descriptor("title", model.KindString), nil); !errors.Is(err, field.ErrNilControl) {
		t.Fatalf("expected ErrNilControl, got %v", err)
	}
	if _, err := field.New(descriptor("state", model.KindEnum), state.Control("state")); !errors.Is(err, model.ErrInvalidDescriptor) {
		t.Fatalf("expected ErrInvalidDescriptor, got %v", err)
	}
}

func TestSave_Integer(t *testing.T) {
	b, state, rec := newBinder(t, descriptor("points", model.KindInteger), map[string]any{"points": int64(1)})

	b.ChangeBaseType("abc")
	_, err := b.Save()
	if !errors.Is(err, field.ErrNotInteger) {
		t.Fatalf("expected ErrNotInteger, got %v", err)
	}
	var verr *field.ValidationError
	if !errors.As(err, &verr) || verr.Key != "points" || verr.Value != "abc" {
		t.Fatalf("unexpected validation error: %#v", err)
	}
	if b.Error() != "invalid data for field - not an integer" {
		t.Fatalf("error = %q", b.Error())
	}
	if got := state.Value("points"); got != "abc" {
		t.Fatalf("invalid input must stay in the form state, got %v", got)
	}

	b.ChangeBaseType("42")
	if _, err := b.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := state.Value("points"); got != int64(42) {
		t.Fatalf("points = %#v, want int64(42)", got)
	}
	if b.Error() != "" {
		t.Fatalf("error not cleared: %q", b.Error())
	}
	if len(rec.events) != 2 {
		t.Fatalf("expected an event per save attempt, got %d", len(rec.events))
	}
}

func TestSave_IntegerEdgeInputs(t *testing.T) {
	b, state, _ := newBinder(t, descriptor("points", model.KindInteger), nil)

	b.ChangeBaseType("0x")
	if _, err := b.Save(); !errors.Is(err, field.ErrNotInteger) {
		t.Fatalf("expected ErrNotInteger for a bare hex prefix, got %v", err)
	}
	if got := state.Value("points"); got != "0x" {
		t.Fatalf("invalid input must stay in the form state, got %#v", got)
	}

	b.ChangeBaseType("9223372036854775808")
	if _, err := b.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := state.Value("points"); got != int64(math.MaxInt64) {
		t.Fatalf("points = %#v, want saturated int64", got)
	}
}

func TestSave_NumericSeedsOfAnyGoKind(t *testing.T) {
	floatBinder, state, _ := newBinder(t, descriptor("estimate", model.KindFloat), map[string]any{"estimate": int32(4)})
	if _, err := floatBinder.Save(); err != nil {
		t.Fatalf("save float: %v", err)
	}
	if got := state.Value("estimate"); got != float64(4) {
		t.Fatalf("estimate = %#v, want float64(4)", got)
	}

	intBinder, state, _ := newBinder(t, descriptor("points", model.KindInteger), map[string]any{"points": uint8(3)})
	if _, err := intBinder.Save(); err != nil {
		t.Fatalf("save integer: %v", err)
	}
	if got := state.Value("points"); got != int64(3) {
		t.Fatalf("points = %#v, want int64(3)", got)
	}
}

func TestSave_Float(t *testing.T) {
	b, state, _ := newBinder(t, descriptor("estimate", model.KindFloat), nil)

	b.ChangeBaseType("n/a")
	if _, err := b.Save(); !errors.Is(err, field.ErrNotFloat) {
		t.Fatalf("expected ErrNotFloat, got %v", err)
	}
	if b.Error() != "invalid data for field - not a float" {
		t.Fatalf("error = %q", b.Error())
	}
	if got := state.Value("estimate"); got != "n/a" {
		t.Fatalf("estimate = %v", got)
	}

	b.ChangeBaseType(" 2.5 days")
	if _, err := b.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := state.Value("estimate"); got != 2.5 {
		t.Fatalf("estimate = %#v, want 2.5", got)
	}
}

func TestSave_Enum(t *testing.T) {
	b, state, _ := newBinder(t, descriptor("state", model.KindEnum, "new", "open", "closed"), map[string]any{"state": "new"})

	if _, err := b.OnChangeDropdown("open"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := state.Value("state"); got != "open" {
		t.Fatalf("state = %v", got)
	}
	if b.Error() != "" {
		t.Fatalf("error = %q", b.Error())
	}

	if _, err := b.OnChangeDropdown("resolved"); !errors.Is(err, field.ErrNotInEnum) {
		t.Fatalf("expected ErrNotInEnum, got %v", err)
	}
	if b.Error() != "invalid data for field - not in valid values" {
		t.Fatalf("error = %q", b.Error())
	}
}

func TestOnChangeDropdown_BlankStoresEmptyString(t *testing.T) {
	b, state, _ := newBinder(t, descriptor("state", model.KindEnum, "", "open"), map[string]any{"state": "open"})

	if _, err := b.OnChangeDropdown(field.BlankOption); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got, ok := state.Lookup("state"); !ok || got != "" {
		t.Fatalf("state = %#v, %v", got, ok)
	}
}

func TestOnChangeBoolean(t *testing.T) {
	b, state, rec := newBinder(t, descriptor("blocked", model.KindBoolean), map[string]any{"blocked": false})

	yes := true
	if _, err := b.OnChangeBoolean(&yes); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := state.Value("blocked"); got != true {
		t.Fatalf("blocked = %v", got)
	}

	if _, err := b.OnChangeBoolean(nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := state.Value("blocked"); got != nil {
		t.Fatalf("blocked = %v, want cleared", got)
	}

	want := []field.UpdateEvent{
		{Key: "blocked", OldValue: false, NewValue: true, Descriptor: b.Descriptor()},
		{Key: "blocked", OldValue: true, NewValue: nil, Descriptor: b.Descriptor()},
	}
	if diff := cmp.Diff(want, rec.events, ignoreControl); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestOnChangeMarkup(t *testing.T) {
	b, state, rec := newBinder(t, descriptor("description", model.KindMarkup), map[string]any{"description": "old text"})

	if _, err := b.OnChangeMarkup("new text"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := state.Value("description"); got != "new text" {
		t.Fatalf("description = %v", got)
	}

	if _, err := b.OnChangeMarkup(""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := state.Value("description"); got != "new text" {
		t.Fatalf("empty markup must not clear content, got %v", got)
	}

	want := []field.UpdateEvent{
		{
			Key:        "description",
			OldValue:   field.MarkupValue{Markup: "Markdown", Content: "old text"},
			NewValue:   field.MarkupValue{Markup: "Markdown", Content: "new text"},
			Descriptor: b.Descriptor(),
		},
		{
			Key:        "description",
			OldValue:   field.MarkupValue{Markup: "Markdown", Content: "new text"},
			NewValue:   field.MarkupValue{Markup: "Markdown", Content: "new text"},
			Descriptor: b.Descriptor(),
		},
	}
	if diff := cmp.Diff(want, rec.events, ignoreControl); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestInstant(t *testing.T) {
	b, state, _ := newBinder(t, descriptor("due", model.KindInstant), map[string]any{"due": "2023-06-15T00:00:00.000Z"})

	if diff := cmp.Diff(&field.DateModel{Year: 2023, Month: 6, Day: 15}, b.DateValue()); diff != "" {
		t.Fatalf("date mismatch (-want +got):\n%s", diff)
	}
	if got := b.DisplayText(); got != "15 Jun 2023" {
		t.Fatalf("display = %q", got)
	}

	picked := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.FixedZone("CET", 3600))
	if _, err := b.OnDateChanged(picked); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := state.Value("due"); got != "2024-02-28T23:00:00.000Z" {
		t.Fatalf("due = %v", got)
	}
	if diff := cmp.Diff(&field.DateModel{Year: 2024, Month: 2, Day: 28}, b.DateValue()); diff != "" {
		t.Fatalf("date mismatch (-want +got):\n%s", diff)
	}
}

func TestInstant_EmptyValueHasNoDate(t *testing.T) {
	b, _, _ := newBinder(t, descriptor("due", model.KindInstant), map[string]any{"due": ""})
	if b.DateValue() != nil {
		t.Fatalf("expected no date, got %+v", b.DateValue())
	}
	if b.DisplayText() != "" {
		t.Fatalf("display = %q", b.DisplayText())
	}

	b, _, _ = newBinder(t, descriptor("due", model.KindInstant), nil)
	if b.DateValue() != nil {
		t.Fatalf("expected no date for missing key")
	}
}

func TestCancel_RestoresPristineValue(t *testing.T) {
	b, state, _ := newBinder(t, descriptor("title", model.KindString), map[string]any{"title": "Bug"})

	b.FocusIn()
	b.ChangeBaseType("Feature")
	if state.Pristine("title") {
		t.Fatalf("expected dirty field after edit")
	}

	b.Cancel()
	if got := state.Value("title"); got != "Bug" {
		t.Fatalf("title = %v", got)
	}
	if !state.Pristine("title") {
		t.Fatalf("cancel must mark the field pristine")
	}
	if !b.ButtonsVisible() {
		t.Fatalf("cancel does not hide the buttons by default")
	}
}

func TestCancel_AfterFailedSaveKeepsInvalidValue(t *testing.T) {
	b, state, _ := newBinder(t, descriptor("points", model.KindInteger), map[string]any{"points": int64(3)})

	b.ChangeBaseType("lots")
	if _, err := b.Save(); err == nil {
		t.Fatalf("expected validation error")
	}
	if b.OldValue() != "lots" {
		t.Fatalf("failed save still advances the pristine value, got %v", b.OldValue())
	}

	b.Cancel()
	if got := state.Value("points"); got != "lots" {
		t.Fatalf("points = %v, want the invalid value", got)
	}
	if b.Error() == "" {
		t.Fatalf("cancel keeps the error message by default")
	}
}

func TestBaselineOnSuccess(t *testing.T) {
	b, state, _ := newBinder(t, descriptor("points", model.KindInteger), map[string]any{"points": int64(3)}, field.WithBaselineOnSuccess())

	b.ChangeBaseType("lots")
	if _, err := b.Save(); err == nil {
		t.Fatalf("expected validation error")
	}
	if b.OldValue() != int64(3) {
		t.Fatalf("old value = %v", b.OldValue())
	}

	b.Cancel()
	if got := state.Value("points"); got != int64(3) {
		t.Fatalf("points = %v", got)
	}
}

func TestResetOnCancel(t *testing.T) {
	b, _, _ := newBinder(t, descriptor("points", model.KindInteger), nil, field.WithResetOnCancel())

	b.ChangeBaseType("x")
	_, _ = b.Save()
	b.FocusIn()
	b.Cancel()

	if b.ButtonsVisible() {
		t.Fatalf("buttons still visible")
	}
	if b.Error() != "" {
		t.Fatalf("error = %q", b.Error())
	}
}

func TestButtonsVisibility(t *testing.T) {
	b, _, _ := newBinder(t, descriptor("title", model.KindString), nil)

	b.FocusIn()
	if !b.ButtonsVisible() {
		t.Fatalf("focus must show the buttons")
	}
	if _, err := b.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if b.ButtonsVisible() {
		t.Fatalf("save must hide the buttons")
	}
}

func TestValid_DelegatesToFormState(t *testing.T) {
	desc := descriptor("title", model.KindString)
	desc.Required = true
	b, _, _ := newBinder(t, desc, map[string]any{"title": "Bug"})

	if !b.Valid() {
		t.Fatalf("expected valid")
	}
	b.ChangeBaseType("  ")
	if b.Valid() {
		t.Fatalf("expected required validator to flag the blank value")
	}
}

func TestFailedSaveStillEmits(t *testing.T) {
	events := make(chan field.UpdateEvent, 1)
	b, _, _ := newBinder(t, descriptor("points", model.KindInteger), map[string]any{"points": int64(1)}, field.WithUpdateChannel(events))

	b.ChangeBaseType("zero")
	_, _ = b.Save()

	select {
	case evt := <-events:
		want := field.UpdateEvent{
			Key:        "points",
			OldValue:   int64(1),
			NewValue:   "zero",
			Descriptor: b.Descriptor(),
			Error:      "invalid data for field - not an integer",
		}
		if diff := cmp.Diff(want, evt, ignoreControl); diff != "" {
			t.Fatalf("event mismatch (-want +got):\n%s", diff)
		}
		if evt.Control == nil || evt.Control.Key() != "points" {
			t.Fatalf("event must carry the field control")
		}
	default:
		t.Fatalf("expected event on channel")
	}
}

func TestSave_LogsEmittedEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	b, _, _ := newBinder(t, descriptor("title", model.KindString), nil, field.WithLogger(logger))

	b.ChangeBaseType("Bug")
	_, _ = b.Save()

	out := buf.String()
	if !strings.Contains(out, "emit dynamic form control update") || !strings.Contains(out, "key=title") {
		t.Fatalf("unexpected log output: %q", out)
	}
}

func TestBooleanText(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{in: true, want: "Yes"},
		{in: false, want: "No"},
		{in: nil, want: "&nbsp;"},
		{in: "true", want: "&nbsp;"},
	}
	for _, tc := range cases {
		if got := field.BooleanText(tc.in); got != tc.want {
			t.Fatalf("BooleanText(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
