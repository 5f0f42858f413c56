package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/model"
)

const (
	optionYes   = "Yes"
	optionNo    = "No"
	optionClear = "(clear)"
	optionNone  = "(none)"
)

// MarkdownRenderer renders markup content for the terminal preview.
type MarkdownRenderer func(content string) (string, error)

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithMarkdownStyle selects the glamour style used for markup previews
// ("dark", "light", "notty", ...).
func WithMarkdownStyle(style string) Option {
	return func(s *Session) {
		if style = strings.TrimSpace(style); style != "" {
			s.markdownStyle = style
		}
	}
}

// WithMarkdownRenderer replaces the glamour preview. A nil renderer disables
// previews.
func WithMarkdownRenderer(fn MarkdownRenderer) Option {
	return func(s *Session) {
		s.preview = fn
		s.customPreview = true
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Outcome summarizes one edit session.
type Outcome struct {
	Key      string
	Events   []field.UpdateEvent
	Err      error
	Reverted bool
}

// Session walks a user through editing one field at a time: begin edit,
// prompt by kind, commit, and optionally revert.
type Session struct {
	driver        PromptDriver
	preview       MarkdownRenderer
	customPreview bool
	markdownStyle string
	logger        *slog.Logger
}

// NewSession constructs a Session with the survey driver and a glamour
// preview by default.
func NewSession(options ...Option) *Session {
	s := &Session{
		markdownStyle: "notty",
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	if !s.customPreview {
		style := s.markdownStyle
		s.preview = func(content string) (string, error) {
			return glamour.Render(content, style)
		}
	}
	return s
}

// Edit runs one edit session on b. Validation failures are reported through
// the driver and offered for another attempt; when the user declines, they
// choose between keeping the saved value and reverting with Cancel.
func (s *Session) Edit(ctx context.Context, b *field.Binder) (Outcome, error) {
	if b == nil {
		return Outcome{}, ErrNilBinder
	}
	out := Outcome{Key: b.Key()}
	label := b.Descriptor().DisplayLabel()

	for {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		b.FocusIn()

		evt, err := s.prompt(ctx, b)
		if err != nil {
			var verr *field.ValidationError
			if !errors.As(err, &verr) {
				return out, err
			}
		}
		out.Events = append(out.Events, evt)
		out.Err = err

		if err == nil {
			s.logger.Debug("field saved", slog.String("key", b.Key()))
			break
		}

		s.logger.Debug("field rejected", slog.String("key", b.Key()), slog.String("error", err.Error()))
		if infoErr := s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", label, b.Error())); infoErr != nil {
			return out, infoErr
		}
		retry, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: "Try again?",
			Default: true,
		})
		if err != nil {
			return out, err
		}
		if !retry {
			break
		}
	}

	keep, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Keep %s?", label),
		Default: out.Err == nil,
	})
	if err != nil {
		return out, err
	}
	if !keep {
		b.Cancel()
		out.Reverted = true
	}
	return out, nil
}

func (s *Session) prompt(ctx context.Context, b *field.Binder) (field.UpdateEvent, error) {
	desc := b.Descriptor()
	label := desc.DisplayLabel()

	switch desc.Type.Kind {
	case model.KindString, model.KindURL, model.KindInteger, model.KindFloat:
		raw, err := s.driver.Input(ctx, InputConfig{
			Message: label,
			Default: b.InputText(),
			Help:    desc.Description,
		})
		if err != nil {
			return field.UpdateEvent{}, err
		}
		b.ChangeBaseType(raw)
		return b.Save()

	case model.KindEnum:
		options := enumChoices(desc.Type.Values)
		current := b.InputText()
		if current == "" {
			current = optionNone
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: indexOf(options, current),
			Help:         desc.Description,
		})
		if err != nil {
			return field.UpdateEvent{}, err
		}
		option := field.BlankOption
		if idx > 0 && idx < len(options) {
			option = options[idx]
		}
		return b.OnChangeDropdown(option)

	case model.KindBoolean:
		options := []string{optionYes, optionNo, optionClear}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: indexOf(options, field.BooleanText(b.Value())),
			Help:         desc.Description,
		})
		if err != nil {
			return field.UpdateEvent{}, err
		}
		var selected *bool
		switch idx {
		case 0:
			v := true
			selected = &v
		case 1:
			v := false
			selected = &v
		}
		return b.OnChangeBoolean(selected)

	case model.KindMarkup:
		s.showPreview(ctx, b.InputText())
		content, err := s.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: b.InputText(),
			Help:    desc.Description,
		})
		if err != nil {
			return field.UpdateEvent{}, err
		}
		return b.OnChangeMarkup(content)

	case model.KindInstant:
		current := ""
		if d := b.DateValue(); d != nil {
			current = d.String()
		}
		raw, err := s.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("%s (dd mmm yyyy)", label),
			Default: current,
			Help:    desc.Description,
			Validator: func(v string) error {
				_, err := field.ParseDisplayDate(v)
				return err
			},
		})
		if err != nil {
			return field.UpdateEvent{}, err
		}
		picked, err := field.ParseDisplayDate(raw)
		if err != nil {
			return field.UpdateEvent{}, err
		}
		return b.OnDateChanged(picked)

	default:
		return field.UpdateEvent{}, fmt.Errorf("editor: %w: %q", model.ErrUnknownKind, desc.Type.Kind)
	}
}

func (s *Session) showPreview(ctx context.Context, content string) {
	if s.preview == nil || strings.TrimSpace(content) == "" {
		return
	}
	rendered, err := s.preview(content)
	if err != nil {
		s.logger.Warn("markup preview failed", slog.String("error", err.Error()))
		return
	}
	_ = s.driver.Info(ctx, rendered)
}

// enumChoices lists the enum values behind a readable blank choice. Index 0
// maps back to field.BlankOption.
func enumChoices(values []string) []string {
	out := make([]string, 0, len(values)+1)
	out = append(out, optionNone)
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
