package view

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/model"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplateName is the template rendered for every field.
const TemplateName = "field.tpl"

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templates fs.FS
	policy    *bluemonday.Policy
	markdown  goldmark.Markdown
	logger    *slog.Logger
}

// WithTemplatesFS overrides the template bundle. The filesystem must contain
// TemplateName at its root.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithPolicy overrides the sanitizer applied to markup content.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithMarkdown overrides the converter used for markup fields. Its HTML
// output is still sanitized with the renderer policy.
func WithMarkdown(md goldmark.Markdown) Option {
	return func(cfg *config) {
		if md != nil {
			cfg.markdown = md
		}
	}
}

// WithLogger sets the renderer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer turns field binders into HTML fragments.
type Renderer struct {
	tmpl     *pongo2.Template
	policy   *bluemonday.Policy
	markdown goldmark.Markdown
	logger   *slog.Logger
}

// New loads the field template and returns a Renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{
		templates: TemplatesFS(),
		policy:    bluemonday.UGCPolicy(),
		markdown:  defaultMarkdown(),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	set := pongo2.NewSet("formfield", pongo2.NewFSLoader(cfg.templates))
	tmpl, err := set.FromFile(TemplateName)
	if err != nil {
		return nil, fmt.Errorf("view: load template %q: %w", TemplateName, err)
	}

	return &Renderer{
		tmpl:   tmpl,
		policy:   cfg.policy,
		markdown: cfg.markdown,
		logger:   cfg.logger,
	}, nil
}

// Render returns the HTML fragment for b.
func (r *Renderer) Render(b *field.Binder) (string, error) {
	if r == nil || r.tmpl == nil {
		return "", errors.New("view: renderer is nil")
	}
	if b == nil {
		return "", errors.New("view: binder is nil")
	}

	fieldCtx, err := r.fieldContext(b)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteWriter(pongo2.Context{"field": fieldCtx}, &buf); err != nil {
		return "", fmt.Errorf("view: render field %q: %w", b.Key(), err)
	}
	r.logger.Debug("rendered field", slog.String("key", b.Key()), slog.Int("bytes", buf.Len()))
	return buf.String(), nil
}

// RenderAll renders binders in order and concatenates the fragments.
func (r *Renderer) RenderAll(binders []*field.Binder) (string, error) {
	var out strings.Builder
	for _, b := range binders {
		fragment, err := r.Render(b)
		if err != nil {
			return "", err
		}
		out.WriteString(fragment)
	}
	return out.String(), nil
}

func (r *Renderer) fieldContext(b *field.Binder) (map[string]any, error) {
	desc := b.Descriptor()
	ctx := map[string]any{
		"id":       fieldID(desc.Key),
		"key":      desc.Key,
		"label":    desc.DisplayLabel(),
		"kind":     desc.Type.Kind.String(),
		"value":    b.InputText(),
		"display":  b.DisplayText(),
		"error":    b.Error(),
		"buttons":  b.ButtonsVisible(),
		"valid":    b.Valid(),
		"required": desc.Required,
	}

	switch desc.Type.Kind {
	case model.KindEnum:
		ctx["widget"] = "select"
		ctx["options"] = enumOptions(desc.Type.Values, b.InputText())
	case model.KindBoolean:
		ctx["widget"] = "select"
		ctx["options"] = booleanOptions(b.Value())
	case model.KindInstant:
		ctx["widget"] = "date"
	case model.KindMarkup:
		ctx["widget"] = "markup"
		ctx["markupFormat"] = field.MarkupFormat
		markup, err := r.renderMarkup(b.InputText())
		if err != nil {
			return nil, fmt.Errorf("view: render markup %q: %w", desc.Key, err)
		}
		ctx["markup"] = markup
	case model.KindInteger, model.KindFloat:
		ctx["widget"] = "input"
		ctx["inputType"] = "number"
	case model.KindURL:
		ctx["widget"] = "input"
		ctx["inputType"] = "url"
	case model.KindString:
		ctx["widget"] = "input"
		ctx["inputType"] = "text"
	}
	return ctx, nil
}

// renderMarkup converts Markdown source to HTML and sanitizes the result.
// Inline HTML is passed to the converter and filtered by the policy.
func (r *Renderer) renderMarkup(source string) (string, error) {
	if source == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return r.policy.Sanitize(buf.String()), nil
}

func defaultMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
}

func enumOptions(values []string, current string) []map[string]any {
	out := make([]map[string]any, 0, len(values)+1)
	out = append(out, map[string]any{
		"value":    "",
		"label":    field.BlankOption,
		"selected": current == "",
	})
	for _, v := range values {
		if v == "" {
			continue
		}
		out = append(out, map[string]any{
			"value":    v,
			"label":    html.EscapeString(v),
			"selected": v == current,
		})
	}
	return out
}

func booleanOptions(value any) []map[string]any {
	b, isBool := value.(bool)
	return []map[string]any{
		{"value": "", "label": field.BooleanText(nil), "selected": !isBool},
		{"value": "true", "label": field.BooleanText(true), "selected": isBool && b},
		{"value": "false", "label": field.BooleanText(false), "selected": isBool && !b},
	}
}

func fieldID(key string) string {
	return strings.NewReplacer(".", "-", " ", "-").Replace(key)
}
