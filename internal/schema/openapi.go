package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formfield/pkg/model"
)

// FromOpenAPI builds descriptors from the properties of the named component
// schema. Properties are returned sorted by key.
func FromOpenAPI(ctx context.Context, data []byte, schemaName string) ([]model.Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("schema: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}
	if doc.Components == nil {
		return nil, errors.New("schema: openapi document has no components")
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("schema: component schema %q not found", schemaName)
	}

	src := ref.Value
	required := make(map[string]bool, len(src.Required))
	for _, name := range src.Required {
		required[name] = true
	}

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]model.Descriptor, 0, len(names))
	for _, name := range names {
		prop := src.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		desc, err := descriptorFromSchema(name, prop.Value, required[name])
		if err != nil {
			return nil, fmt.Errorf("schema: property %q: %w", name, err)
		}
		fields = append(fields, desc)
	}

	if err := validate(fields); err != nil {
		return nil, fmt.Errorf("schema: %s: %w", schemaName, err)
	}
	return fields, nil
}

func descriptorFromSchema(name string, s *openapi3.Schema, required bool) (model.Descriptor, error) {
	hints, err := model.ParseFieldExtensions(s.Extensions)
	if err != nil {
		return model.Descriptor{}, err
	}
	kind := hints.Kind
	if kind == "" {
		if kind, err = kindFor(s); err != nil {
			return model.Descriptor{}, err
		}
	}
	label := s.Title
	if hints.Label != "" {
		label = hints.Label
	}
	desc := model.Descriptor{
		Key:         name,
		Label:       label,
		Description: s.Description,
		Required:    required,
		Type:        model.TypeDescriptor{Kind: kind},
	}
	if kind == model.KindEnum {
		for _, v := range s.Enum {
			desc.Type.Values = append(desc.Type.Values, fmt.Sprint(v))
		}
	}
	desc.Validations = validationRules(s)
	return desc, nil
}

func kindFor(s *openapi3.Schema) (model.Kind, error) {
	switch firstSchemaType(s.Type) {
	case "integer":
		return model.KindInteger, nil
	case "number":
		return model.KindFloat, nil
	case "boolean":
		return model.KindBoolean, nil
	case "string", "":
		if len(s.Enum) > 0 {
			return model.KindEnum, nil
		}
		switch strings.ToLower(s.Format) {
		case "date-time", "date":
			return model.KindInstant, nil
		case "uri", "url":
			return model.KindURL, nil
		case "markdown":
			return model.KindMarkup, nil
		}
		return model.KindString, nil
	default:
		return "", fmt.Errorf("%w: openapi type %q", model.ErrUnknownKind, firstSchemaType(s.Type))
	}
}

func validationRules(s *openapi3.Schema) []model.ValidationRule {
	var rules []model.ValidationRule
	if s.Min != nil {
		rules = append(rules, valueRule(model.ValidationRuleMin, strconv.FormatFloat(*s.Min, 'f', -1, 64)))
	}
	if s.Max != nil {
		rules = append(rules, valueRule(model.ValidationRuleMax, strconv.FormatFloat(*s.Max, 'f', -1, 64)))
	}
	if s.MinLength != 0 {
		rules = append(rules, valueRule(model.ValidationRuleMinLength, strconv.FormatUint(s.MinLength, 10)))
	}
	if s.MaxLength != nil {
		rules = append(rules, valueRule(model.ValidationRuleMaxLength, strconv.FormatUint(*s.MaxLength, 10)))
	}
	if s.Pattern != "" {
		rules = append(rules, model.ValidationRule{
			Kind:   model.ValidationRulePattern,
			Params: map[string]string{"pattern": s.Pattern},
		})
	}
	return rules
}

func valueRule(kind, value string) model.ValidationRule {
	return model.ValidationRule{Kind: kind, Params: map[string]string{"value": value}}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
