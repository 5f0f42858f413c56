package schema

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfield/pkg/model"
)

// ErrDuplicateKey is returned when two descriptors share a key.
var ErrDuplicateKey = errors.New("schema: duplicate field key")

type document struct {
	Fields []model.Descriptor `yaml:"fields"`
}

// LoadFile reads a YAML or JSON descriptor document from disk.
func LoadFile(path string) ([]model.Descriptor, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("schema: path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a descriptor document. JSON input is accepted as YAML.
// name is only used in error messages.
func Parse(data []byte, name string) ([]model.Descriptor, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse %s: %w", name, err)
	}
	if err := validate(doc.Fields); err != nil {
		return nil, fmt.Errorf("schema: %s: %w", name, err)
	}
	return doc.Fields, nil
}

func validate(fields []model.Descriptor) error {
	seen := make(map[string]struct{}, len(fields))
	for _, desc := range fields {
		if err := desc.Validate(); err != nil {
			return err
		}
		if _, exists := seen[desc.Key]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, desc.Key)
		}
		seen[desc.Key] = struct{}{}
	}
	return nil
}
