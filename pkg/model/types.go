package model

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the closed set of data kinds a dynamic field can carry.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindFloat   Kind = "float"
	KindBoolean Kind = "boolean"
	KindEnum    Kind = "enum"
	KindMarkup  Kind = "markup"
	KindInstant Kind = "instant"
	KindURL     Kind = "url"
)

var kinds = []Kind{
	KindString,
	KindInteger,
	KindFloat,
	KindBoolean,
	KindEnum,
	KindMarkup,
	KindInstant,
	KindURL,
}

var (
	// ErrUnknownKind is returned when a descriptor names a kind outside the
	// supported set.
	ErrUnknownKind = errors.New("model: unknown field kind")
	// ErrInvalidDescriptor wraps structural descriptor problems.
	ErrInvalidDescriptor = errors.New("model: invalid descriptor")
)

// Kinds returns the supported kinds in declaration order.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

// ParseKind resolves a raw kind name. Matching is case-insensitive and
// ignores surrounding whitespace.
func ParseKind(raw string) (Kind, error) {
	candidate := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if candidate.Valid() {
		return candidate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// UnmarshalText lets descriptor documents reject unknown kinds at decode time.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule represents a single format constraint applied to a field.
// Numeric bounds and length limits encode their threshold in Params["value"]
// while pattern rules keep the expression in Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// TypeDescriptor describes the data kind of a field and, for enums, the
// ordered list of allowed values.
type TypeDescriptor struct {
	Kind   Kind     `json:"kind" yaml:"kind"`
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`
}

// Descriptor is the schema fragment for one form field. The parent container
// owns it; binders treat it as read-only.
type Descriptor struct {
	Key         string           `json:"key" yaml:"key"`
	Type        TypeDescriptor   `json:"type" yaml:"type"`
	Label       string           `json:"label,omitempty" yaml:"label,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool             `json:"required,omitempty" yaml:"required,omitempty"`
	Validations []ValidationRule `json:"validations,omitempty" yaml:"validations,omitempty"`
}

// Validate checks the descriptor is usable by a binder.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Key) == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidDescriptor)
	}
	if !d.Type.Kind.Valid() {
		return fmt.Errorf("%w: field %q: %w: %q", ErrInvalidDescriptor, d.Key, ErrUnknownKind, d.Type.Kind)
	}
	if d.Type.Kind == KindEnum && len(d.Type.Values) == 0 {
		return fmt.Errorf("%w: field %q: enum requires values", ErrInvalidDescriptor, d.Key)
	}
	return nil
}

// DisplayLabel returns the label, falling back to the key.
func (d Descriptor) DisplayLabel() string {
	if label := strings.TrimSpace(d.Label); label != "" {
		return label
	}
	return d.Key
}

// AllowsValue reports whether value is a member of the enum value set.
func (t TypeDescriptor) AllowsValue(value string) bool {
	for _, allowed := range t.Values {
		if allowed == value {
			return true
		}
	}
	return false
}
