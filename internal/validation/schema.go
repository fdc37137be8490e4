package validation

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidSchema = errors.New("invalid schema definition")
	ErrUnknownFormat = errors.New("unknown format")
)

//go:embed upn_qr_schema.yaml
var defaultSchemaDocument []byte

//go:embed upn_qr_strict.yaml
var strictSchemaDocument []byte

// FieldRule declares the constraints of a single record field
type FieldRule struct {
	Name      string `yaml:"name"`
	Required  bool   `yaml:"required"`
	MaxLength int    `yaml:"max_length"`
	Length    int    `yaml:"length"`
	Format    string `yaml:"format"`
}

// Schema is the declarative definition a record is validated against.
// Fields are kept in document order, which is also the order errors are reported in.
type Schema struct {
	Title                string      `yaml:"title"`
	AdditionalProperties *bool       `yaml:"additional_properties"`
	Fields               []FieldRule `yaml:"fields"`
}

// AllowsAdditional reports whether keys not declared in Fields are accepted
func (s *Schema) AllowsAdditional() bool {
	return s.AdditionalProperties == nil || *s.AdditionalProperties
}

// Field returns the rule declared for name
func (s *Schema) Field(name string) (FieldRule, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldRule{}, false
}

// ParseSchema decodes and checks a schema document
func ParseSchema(data []byte) (*Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var schema Schema
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	if err := schema.check(); err != nil {
		return nil, err
	}

	return &schema, nil
}

// LoadSchema reads a schema document from path
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}

	schema, err := ParseSchema(data)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}

	return schema, nil
}

// DefaultSchema returns the built-in UPN QR schema
func DefaultSchema() *Schema {
	schema, err := ParseSchema(defaultSchemaDocument)
	if err != nil {
		panic(err)
	}
	return schema
}

// StrictSchema returns the built-in schema that also checks IBAN digits and the
// reference model and rejects unknown fields.
func StrictSchema() *Schema {
	schema, err := ParseSchema(strictSchemaDocument)
	if err != nil {
		panic(err)
	}
	return schema
}

// ResolveSchema loads the schema at path, or a built-in one when path is empty.
func ResolveSchema(path string, strict bool) (*Schema, error) {
	if path != "" {
		return LoadSchema(path)
	}
	if strict {
		return StrictSchema(), nil
	}
	return DefaultSchema(), nil
}

func (s *Schema) check() error {
	if len(s.Fields) == 0 {
		return fmt.Errorf("%w: no fields declared", ErrInvalidSchema)
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: field %d has no name", ErrInvalidSchema, i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: field %q declared twice", ErrInvalidSchema, f.Name)
		}
		seen[f.Name] = struct{}{}

		if f.MaxLength < 0 || f.Length < 0 {
			return fmt.Errorf("%w: field %q has a negative length", ErrInvalidSchema, f.Name)
		}
		if f.Length > 0 && f.MaxLength > 0 && f.Length > f.MaxLength {
			return fmt.Errorf("%w: field %q length exceeds max_length", ErrInvalidSchema, f.Name)
		}
	}

	return nil
}
