package model

import (
	"fmt"
	"strings"
)

const (
	// KindExtension forces the kind of a property: `x-formfield-kind: markup`.
	KindExtension = "x-formfield-kind"
	// FieldExtension carries an object of field hints:
	// `x-formfield: {kind: instant, label: Due date}`.
	FieldExtension = "x-formfield"
)

// FieldHints are the descriptor overrides read from schema extensions.
type FieldHints struct {
	Kind  Kind
	Label string
}

// ParseFieldExtensions extracts FieldHints from an extension map. The flat
// KindExtension wins over a kind nested in FieldExtension. Unknown kinds are
// reported as ErrUnknownKind.
func ParseFieldExtensions(ext map[string]any) (FieldHints, error) {
	var hints FieldHints
	if len(ext) == 0 {
		return hints, nil
	}

	if nested, ok := ext[FieldExtension].(map[string]any); ok {
		if raw, ok := nested["kind"]; ok {
			kind, err := ParseKind(fmt.Sprint(raw))
			if err != nil {
				return FieldHints{}, err
			}
			hints.Kind = kind
		}
		if raw, ok := nested["label"].(string); ok {
			hints.Label = strings.TrimSpace(raw)
		}
	}

	if raw, ok := ext[KindExtension]; ok {
		kind, err := ParseKind(fmt.Sprint(raw))
		if err != nil {
			return FieldHints{}, err
		}
		hints.Kind = kind
	}
	return hints, nil
}
