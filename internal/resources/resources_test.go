package resources

import (
	"strings"
	"testing"
)

func TestAllDocumentsAreComplete(t *testing.T) {
	t.Parallel()

	docs := All()
	if len(docs) != 2 {
		t.Fatalf("got %d documents", len(docs))
	}
	for _, d := range docs {
		if d.URI == "" || d.Name == "" || d.MIMEType == "" || d.Text == "" {
			t.Errorf("incomplete document: %+v", d)
		}
		if !strings.HasPrefix(d.URI, "pop://docs/") {
			t.Errorf("URI %q outside the docs namespace", d.URI)
		}
	}
}

func TestRead(t *testing.T) {
	t.Parallel()

	d, ok := Read(TypeHintsURI)
	if !ok {
		t.Fatal("type hints not found")
	}
	if !strings.Contains(d.Text, "MultiAddress") {
		t.Error("type hints missing MultiAddress guidance")
	}

	if _, ok := Read("pop://docs/nope"); ok {
		t.Error("unknown URI resolved")
	}
}

func TestInstallFor(t *testing.T) {
	t.Parallel()

	if got := InstallFor("macos"); !strings.Contains(got, "brew install") {
		t.Errorf("macos guide missing brew: %q", got)
	}
	if got := InstallFor("linux"); !strings.Contains(got, "linux-gnu") {
		t.Errorf("linux guide missing binary name: %q", got)
	}
	if got := InstallFor("source"); !strings.Contains(got, "cargo install") {
		t.Errorf("source guide missing cargo: %q", got)
	}
	// Unknown platforms fall back to macOS.
	if got := InstallFor("plan9"); !strings.Contains(got, "brew install") {
		t.Errorf("fallback guide = %q", got)
	}
}
