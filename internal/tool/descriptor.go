// Package tool defines the tool descriptor model, the registry, and the
// dispatch pipeline that turns a raw call into a typed outcome:
// validate → build → execute → classify → extract. Descriptors are
// constructed once at startup and never mutated, so the registry needs no
// locking on the read path beyond its own map guard.
package tool

import (
	"context"
	"log/slog"

	"github.com/flemzord/popmcp/internal/command"
	"github.com/flemzord/popmcp/internal/executor"
	"github.com/flemzord/popmcp/internal/history"
	"github.com/flemzord/popmcp/internal/node"
	"github.com/flemzord/popmcp/internal/outcome"
	"github.com/flemzord/popmcp/internal/schema"
)

// Deps carries the collaborators a tool may use during execution. One value
// is shared across all calls; everything reachable from it is either
// immutable or internally synchronized.
type Deps struct {
	// Exec runs external commands. Never nil.
	Exec executor.Executor

	// Program is the wrapped CLI binary. Empty means the catalogue default.
	Program string

	// Tracker holds launched-node state. Never nil.
	Tracker *node.Tracker

	// History persists invocations and node records. May be nil when
	// persistence is disabled.
	History *history.Store

	// Logger is the redacting logger.
	Logger *slog.Logger

	// SURI returns the signing key URI from the environment, if configured.
	SURI func() (string, bool)

	// DefaultURL is the configured fallback node endpoint, consulted after
	// the tracker.
	DefaultURL string
}

// NodeURL resolves the node endpoint tools should use when the caller gave
// none: tracked node first, then the configured default.
func (d Deps) NodeURL() (string, bool) {
	if url, ok := d.Tracker.URL(); ok {
		return url, true
	}
	if d.DefaultURL != "" {
		return d.DefaultURL, true
	}
	return "", false
}

// BuildFunc maps validated params to a command spec. Must be pure: same
// params, same spec, regardless of map iteration order or ambient state.
type BuildFunc func(p schema.Params, deps Deps) (command.Spec, error)

// HandlerFunc replaces the standard pipeline for tools that do not reduce to
// one run-to-completion process (static text, detached launches).
type HandlerFunc func(ctx context.Context, p schema.Params, deps Deps) outcome.Outcome

// ExtractFunc pulls promised structured fields out of successful output.
// Returning an error converts the success into an unparseable-output failure.
type ExtractFunc func(text string) (map[string]string, error)

// FinalizeFunc lets a tool shape the outcome text or record side effects
// after classification. It runs for successes and failures alike.
type FinalizeFunc func(ctx context.Context, p schema.Params, out outcome.Outcome, deps Deps) outcome.Outcome

// Descriptor is the static schema and wiring for one tool.
type Descriptor struct {
	// Name uniquely identifies the tool.
	Name string

	// Description is surfaced to callers through the tool listing.
	Description string

	// Schema declares the accepted parameters.
	Schema schema.Schema

	// CheckParams optionally enforces cross-field constraints that single
	// fields cannot express (e.g. mutually exclusive modes).
	CheckParams func(p schema.Params) error

	// Build produces the command spec for pipeline tools.
	Build BuildFunc

	// Handler replaces the pipeline entirely when set. Exactly one of
	// Build and Handler must be set.
	Handler HandlerFunc

	// FailureMarkers are substrings that mark logical failure despite a
	// zero exit. A nil/empty list means the tool is explicitly
	// exit-code-only.
	FailureMarkers []string

	// Extract pulls promised structured fields from successful output.
	Extract ExtractFunc

	// Finalize optionally reshapes the outcome after classification.
	Finalize FinalizeFunc

	// ReadOnly marks tools that never mutate anything (listings, help).
	ReadOnly bool
}

// check validates the descriptor's own wiring at registration time.
func (d Descriptor) check() error {
	if d.Name == "" {
		return ErrEmptyToolName
	}
	if (d.Build == nil) == (d.Handler == nil) {
		return ErrNoPipeline
	}
	return nil
}
