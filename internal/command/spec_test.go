package command

import (
	"reflect"
	"testing"
)

func TestAppendDoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	base := New("pop", "build", "--path", "./demo")
	release := base.Append("--release")
	verbose := base.Append("--verbose")

	if got, want := base.Args, []string{"build", "--path", "./demo"}; !reflect.DeepEqual(got, want) {
		t.Errorf("base mutated: %v, want %v", got, want)
	}
	if got := release.Args[len(release.Args)-1]; got != "--release" {
		t.Errorf("release tail = %q", got)
	}
	if got := verbose.Args[len(verbose.Args)-1]; got != "--verbose" {
		t.Errorf("verbose tail = %q", got)
	}
}

func TestAppendCopiesBackingArray(t *testing.T) {
	t.Parallel()

	base := Spec{Program: "pop", Args: make([]string, 2, 8)}
	base.Args[0], base.Args[1] = "new", "contract"

	a := base.Append("alpha")
	_ = base.Append("beta")

	if a.Args[2] != "alpha" {
		t.Errorf("Args[2] = %q, sibling Append clobbered the copy", a.Args[2])
	}
}

func TestStringRendering(t *testing.T) {
	t.Parallel()

	if got, want := New("pop").String(), "pop"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := New("pop", "--version").String(), "pop --version"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
