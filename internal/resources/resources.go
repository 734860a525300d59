// Package resources serves the static documentation blobs shipped with the
// server: type-formatting hints for chain calls and Pop CLI installation
// guides. Everything is embedded at build time; there is no write path.
package resources

import (
	_ "embed"
	"strings"
)

// Resource URIs.
const (
	TypeHintsURI = "pop://docs/type-hints"
	InstallURI   = "pop://docs/install"
)

//go:embed docs/type-hints.txt
var typeHints string

//go:embed docs/install-macos.md
var installMacOS string

//go:embed docs/install-linux.md
var installLinux string

//go:embed docs/install-source.md
var installSource string

// Doc is one retrievable documentation blob.
type Doc struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
	Text        string
}

// All lists every available document.
func All() []Doc {
	return []Doc{
		{
			URI:         TypeHintsURI,
			Name:        "type-hints",
			Description: "Type formatting hints for chain calls (MultiAddress, Option, Vec, Balance)",
			MIMEType:    "text/plain",
			Text:        typeHints,
		},
		{
			URI:         InstallURI,
			Name:        "install",
			Description: "Pop CLI installation guides for macOS, Linux, and from source",
			MIMEType:    "text/markdown",
			Text:        strings.Join([]string{installMacOS, installLinux, installSource}, "\n---\n\n"),
		},
	}
}

// Read returns the document at uri.
func Read(uri string) (Doc, bool) {
	for _, d := range All() {
		if d.URI == uri {
			return d, true
		}
	}
	return Doc{}, false
}

// TypeHints returns the chain-call type formatting hints. Appended to
// metadata-mode chain call output so callers can format arguments without a
// second lookup.
func TypeHints() string {
	return typeHints
}

// InstallFor returns the installation guide for a platform.
func InstallFor(platform string) string {
	switch platform {
	case "linux":
		return installLinux
	case "source":
		return installSource
	default:
		return installMacOS
	}
}
