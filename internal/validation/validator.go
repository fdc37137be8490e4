package validation

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/segyhp/upn-qr/internal/domain"
)

// singleLineTag rejects line breaks, which would shift payload positions.
// Every field carries it.
const singleLineTag = "single_line"

// compiledField is a schema field rule translated into a validator tag
type compiledField struct {
	rule FieldRule
	tag  string
}

// Validator checks raw payment records against a schema.
// It is safe for concurrent use and is never modified after New returns.
type Validator struct {
	schema   *Schema
	validate *validator.Validate
	fields   []compiledField
	formats  map[string]string // validator tag -> format name
}

// New builds a validator for schema, registering every format the schema
// references from formats.
func New(schema *Schema, formats Formats) (*Validator, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: schema is nil", ErrInvalidSchema)
	}

	v := &Validator{
		schema:   schema,
		validate: validator.New(),
		fields:   make([]compiledField, 0, len(schema.Fields)),
		formats:  make(map[string]string),
	}

	err := v.validate.RegisterValidation(singleLineTag, func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "\r\n")
	})
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", singleLineTag, err)
	}

	for _, rule := range schema.Fields {
		var tags []string
		if rule.Required {
			tags = append(tags, "required")
		} else {
			tags = append(tags, "omitempty")
		}
		tags = append(tags, singleLineTag)
		if rule.Length > 0 {
			tags = append(tags, "len="+strconv.Itoa(rule.Length))
		}
		if rule.MaxLength > 0 {
			tags = append(tags, "max="+strconv.Itoa(rule.MaxLength))
		}

		if rule.Format != "" {
			tag, err := v.registerFormat(rule.Format, formats)
			if err != nil {
				return nil, err
			}
			tags = append(tags, tag)
		}

		v.fields = append(v.fields, compiledField{rule: rule, tag: strings.Join(tags, ",")})
	}

	return v, nil
}

// Schema returns the schema the validator was built from
func (v *Validator) Schema() *Schema {
	return v.schema
}

// Validate returns the validation errors of input in schema order.
// The sequence is lazy; an empty sequence means the record is valid.
func (v *Validator) Validate(input map[string]any) iter.Seq[domain.ValidationError] {
	return func(yield func(domain.ValidationError) bool) {
		if input == nil {
			yield(domain.ValidationError{Path: []string{}, Message: "record must be an object"})
			return
		}

		for _, f := range v.fields {
			if verr, failed := v.checkField(f, input); failed {
				if !yield(verr) {
					return
				}
			}
		}

		if v.schema.AllowsAdditional() {
			return
		}
		for _, key := range v.unknownKeys(input) {
			verr := domain.ValidationError{
				Path:    []string{},
				Message: fmt.Sprintf("additional property %q is not allowed", key),
			}
			if !yield(verr) {
				return
			}
		}
	}
}

// Errors collects all validation errors of input
func (v *Validator) Errors(input map[string]any) []domain.ValidationError {
	return slices.Collect(v.Validate(input))
}

// IsValid reports whether input produces no validation errors
func (v *Validator) IsValid(input map[string]any) bool {
	for range v.Validate(input) {
		return false
	}
	return true
}

func (v *Validator) checkField(f compiledField, input map[string]any) (domain.ValidationError, bool) {
	path := []string{f.rule.Name}

	var value string
	switch raw := input[f.rule.Name].(type) {
	case nil:
	case string:
		value = raw
	default:
		return domain.ValidationError{Path: path, Message: "must be a string"}, true
	}

	err := v.validate.Var(value, f.tag)
	if err == nil {
		return domain.ValidationError{}, false
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.ValidationError{Path: path, Message: err.Error()}, true
	}

	return domain.ValidationError{Path: path, Message: v.message(fieldErrs[0])}, true
}

func (v *Validator) message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is a required property"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case singleLineTag:
		return "must not contain line breaks"
	}

	if format, ok := v.formats[fe.Tag()]; ok {
		return fmt.Sprintf("%q is not a %q", fe.Value(), format)
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}

func (v *Validator) unknownKeys(input map[string]any) []string {
	var keys []string
	for key := range input {
		if _, ok := v.schema.Field(key); !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// registerFormat registers the predicate of a format once and returns its tag
func (v *Validator) registerFormat(name string, formats Formats) (string, error) {
	tag := formatTag(name)
	if _, ok := v.formats[tag]; ok {
		return tag, nil
	}

	fn, ok := formats.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}

	err := v.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
	if err != nil {
		return "", fmt.Errorf("register format %q: %w", name, err)
	}

	v.formats[tag] = name
	return tag, nil
}

// formatTag turns a format name into a validator tag name
func formatTag(name string) string {
	return "fmt_" + strings.NewReplacer("-", "_", ".", "_").Replace(name)
}
