package tool

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/flemzord/popmcp/internal/command"
	"github.com/flemzord/popmcp/internal/outcome"
	"github.com/flemzord/popmcp/internal/schema"
)

func buildOnly() Descriptor {
	return Descriptor{
		Name:        "demo",
		Description: "demo",
		Schema:      schema.New(),
		Build: func(p schema.Params, deps Deps) (command.Spec, error) {
			return command.New("demo"), nil
		},
	}
}

func TestRegisterRejectsBadWiring(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	d := buildOnly()
	d.Name = "  "
	if err := reg.Register(d); !errors.Is(err, ErrEmptyToolName) {
		t.Errorf("blank name: err = %v, want ErrEmptyToolName", err)
	}

	d = buildOnly()
	d.Build = nil
	if err := reg.Register(d); !errors.Is(err, ErrNoPipeline) {
		t.Errorf("no pipeline: err = %v, want ErrNoPipeline", err)
	}

	d = buildOnly()
	d.Handler = func(ctx context.Context, p schema.Params, deps Deps) outcome.Outcome {
		return outcome.Success("")
	}
	if err := reg.Register(d); !errors.Is(err, ErrNoPipeline) {
		t.Errorf("both build and handler: err = %v, want ErrNoPipeline", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	if err := reg.Register(buildOnly()); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := reg.Register(buildOnly()); !errors.Is(err, ErrDuplicateTool) {
		t.Errorf("duplicate: err = %v, want ErrDuplicateTool", err)
	}
}

func TestGetUnknown(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	if _, err := reg.Get("nope"); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("err = %v, want ErrUnknownTool", err)
	}
}

func TestNamesAndDescriptorsSorted(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		d := buildOnly()
		d.Name = name
		if err := reg.Register(d); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"alpha", "mid", "zeta"}
	if got := reg.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	descs := reg.Descriptors()
	for i, d := range descs {
		if d.Name != want[i] {
			t.Errorf("Descriptors()[%d] = %q, want %q", i, d.Name, want[i])
		}
	}
}
