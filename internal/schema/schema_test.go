package schema

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func demoSchema() Schema {
	return New(
		Field{Name: "name", Type: TypeString, Required: true, Check: Ident},
		Field{Name: "template", Type: TypeString, Required: true, Enum: []string{"standard", "erc20"}},
		Field{Name: "release", Type: TypeBool, Default: true},
		Field{Name: "decimals", Type: TypeInt},
		Field{Name: "args", Type: TypeStringList},
		Field{Name: "note", Type: TypeString},
	)
}

func TestValidateHappyPath(t *testing.T) {
	t.Parallel()

	p, err := demoSchema().Validate(map[string]any{
		"name":     "demo_1",
		"template": "erc20",
		"decimals": float64(12), // JSON numbers decode as float64
		"args":     []any{"a", "b"},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if got := p.String("name"); got != "demo_1" {
		t.Errorf("name = %q", got)
	}
	if got := p.Int("decimals"); got != 12 {
		t.Errorf("decimals = %d", got)
	}
	if got := p.StringList("args"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("args = %v", got)
	}
	// Default applied for an absent optional field that declares one.
	if !p.Has("release") || !p.Bool("release") {
		t.Errorf("release default not applied: has=%v value=%v", p.Has("release"), p.Bool("release"))
	}
	// No default declared: genuinely absent.
	if p.Has("note") {
		t.Errorf("note should be absent")
	}
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  map[string]any
		field string
	}{
		{
			name:  "required missing",
			args:  map[string]any{"template": "standard"},
			field: "name",
		},
		{
			name:  "unknown field",
			args:  map[string]any{"name": "demo", "template": "standard", "bogus": 1},
			field: "bogus",
		},
		{
			name:  "enum violation",
			args:  map[string]any{"name": "demo", "template": "bank"},
			field: "template",
		},
		{
			name:  "check violation",
			args:  map[string]any{"name": "demo project", "template": "standard"},
			field: "name",
		},
		{
			name:  "wrong type",
			args:  map[string]any{"name": "demo", "template": "standard", "release": "yes"},
			field: "release",
		},
		{
			name:  "fractional integer",
			args:  map[string]any{"name": "demo", "template": "standard", "decimals": 1.5},
			field: "decimals",
		},
		{
			name:  "non-string list element",
			args:  map[string]any{"name": "demo", "template": "standard", "args": []any{"ok", 7}},
			field: "args",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := demoSchema().Validate(tt.args)
			if err == nil {
				t.Fatal("Validate accepted invalid arguments")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}

			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("error %T is not a FieldError", err)
			}
			if fe.Field != tt.field {
				t.Errorf("cited field = %q, want %q", fe.Field, tt.field)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("message %q does not name the field", err.Error())
			}
		})
	}
}

func TestIdent(t *testing.T) {
	t.Parallel()

	valid := []string{"demo", "Demo_1", "A", "x_y_z"}
	for _, s := range valid {
		if err := Ident(s); err != nil {
			t.Errorf("Ident(%q) = %v, want nil", s, err)
		}
	}

	invalid := []string{"", "my project", "demo-app", "a;b", "../etc", "$(id)"}
	for _, s := range invalid {
		if err := Ident(s); err == nil {
			t.Errorf("Ident(%q) accepted", s)
		}
	}
}
