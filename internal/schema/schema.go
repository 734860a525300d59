// Package schema declares per-tool parameter schemas and validates raw
// arguments against them before any process is spawned. Validation is purely
// local: no I/O, no subprocess, no side effects.
package schema

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

// Type is the declared type of a parameter field.
type Type int

// Field types. Enumerations are strings with a non-empty Enum set.
const (
	TypeString Type = iota
	TypeBool
	TypeInt
	TypeStringList
)

// String returns the JSON Schema name for the type.
func (t Type) String() string {
	switch t {
	case TypeBool:
		return "boolean"
	case TypeInt:
		return "integer"
	case TypeStringList:
		return "array"
	default:
		return "string"
	}
}

// ErrInvalid is the sentinel wrapped by every validation failure.
var ErrInvalid = errors.New("invalid arguments")

// FieldError describes why one field failed validation.
type FieldError struct {
	Field  string
	Reason string
}

// Error implements error, citing the offending field.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: field %q: %s", ErrInvalid, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalid.
func (e *FieldError) Unwrap() error { return ErrInvalid }

// Field declares one named parameter.
type Field struct {
	// Name is the wire name of the field.
	Name string

	// Description is surfaced to callers through the tool schema.
	Description string

	// Type is the declared type.
	Type Type

	// Required marks the field mandatory. Required fields never have
	// defaults.
	Required bool

	// Enum restricts a string field to the listed variants.
	Enum []string

	// Default is substituted when an optional field is absent. A nil
	// Default leaves the field absent, so builders can distinguish
	// "not specified" from "specified as zero value".
	Default any

	// Check optionally constrains an otherwise-valid value further
	// (e.g. identifier character sets).
	Check func(value any) error
}

// Schema is an ordered set of fields for one tool.
type Schema struct {
	Fields []Field
}

// New builds a schema from fields.
func New(fields ...Field) Schema {
	return Schema{Fields: fields}
}

// identPattern matches project names: alphanumeric and underscores only.
var identPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Ident is a Check for project-name fields. Hyphens, spaces, and
// punctuation are rejected before they can reach a command line.
func Ident(value any) error {
	s, _ := value.(string)
	if s == "" {
		return errors.New("must not be empty")
	}
	if !identPattern.MatchString(s) {
		return errors.New("may only contain alphanumeric characters and underscores")
	}
	return nil
}

// NonEmpty is a Check for string fields that must carry a value.
func NonEmpty(value any) error {
	if s, _ := value.(string); s == "" {
		return errors.New("must not be empty")
	}
	return nil
}

// Validate checks raw arguments against the schema and returns typed params.
// Unknown fields are rejected, not dropped; required fields must be present
// and well-typed; enum membership is enforced; defaults are applied only for
// optional fields that declare one.
func (s Schema) Validate(args map[string]any) (Params, error) {
	declared := make(map[string]Field, len(s.Fields))
	for _, f := range s.Fields {
		declared[f.Name] = f
	}

	for name := range args {
		if _, ok := declared[name]; !ok {
			return Params{}, &FieldError{Field: name, Reason: "unknown field"}
		}
	}

	values := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		raw, present := args[f.Name]
		if !present || raw == nil {
			if f.Required {
				return Params{}, &FieldError{Field: f.Name, Reason: "required field missing"}
			}
			if f.Default != nil {
				values[f.Name] = f.Default
			}
			continue
		}

		value, err := coerce(f, raw)
		if err != nil {
			return Params{}, &FieldError{Field: f.Name, Reason: err.Error()}
		}
		if f.Check != nil {
			if err := f.Check(value); err != nil {
				return Params{}, &FieldError{Field: f.Name, Reason: err.Error()}
			}
		}
		values[f.Name] = value
	}

	return Params{values: values}, nil
}

// coerce converts a decoded JSON value to the field's declared Go type.
func coerce(f Field, raw any) (any, error) {
	switch f.Type {
	case TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", raw)
		}
		if len(f.Enum) > 0 {
			for _, variant := range f.Enum {
				if s == variant {
					return s, nil
				}
			}
			return nil, fmt.Errorf("%q is not one of %v", s, f.Enum)
		}
		return s, nil

	case TypeBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", raw)
		}
		return b, nil

	case TypeInt:
		switch n := raw.(type) {
		case int:
			return n, nil
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("expected integer, got %v", n)
			}
			return int(n), nil
		default:
			return nil, fmt.Errorf("expected integer, got %T", raw)
		}

	case TypeStringList:
		switch list := raw.(type) {
		case []string:
			return append([]string(nil), list...), nil
		case []any:
			out := make([]string, 0, len(list))
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("expected array of strings, got element %T", item)
				}
				out = append(out, s)
			}
			return out, nil
		default:
			return nil, fmt.Errorf("expected array of strings, got %T", raw)
		}

	default:
		return nil, fmt.Errorf("unsupported field type %v", f.Type)
	}
}
