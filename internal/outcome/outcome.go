// Package outcome defines the typed result returned to callers and the
// classification that turns a raw execution record into one. A caller
// branches on exactly one of success or failure; the full captured text is
// retained either way so a human or model can act on it.
package outcome

import "fmt"

// Kind classifies a failure. KindOK is the only success value.
type Kind string

// Kind values, in pipeline order of detection.
const (
	// KindOK marks a successful outcome.
	KindOK Kind = "ok"

	// KindInvalidInput: schema or cross-field validation failed; no process
	// was spawned.
	KindInvalidInput Kind = "invalid_input"

	// KindUnknownTool: no descriptor with the requested name; no process
	// was spawned.
	KindUnknownTool Kind = "unknown_tool"

	// KindStartFailed: the program could not be spawned (missing binary,
	// permission denied).
	KindStartFailed Kind = "execution_failed_to_start"

	// KindExecutionFailed: the process ran and its exit code or output
	// markers indicate logical failure.
	KindExecutionFailed Kind = "execution_failed"

	// KindTruncated: the capture ceiling was exceeded; the retained text is
	// incomplete and must not be treated as a trustworthy success.
	KindTruncated Kind = "output_truncated"

	// KindUnparseable: the process looked successful but a promised
	// structured field could not be extracted from its output.
	KindUnparseable Kind = "output_unparseable"
)

// Outcome is the final result of one tool call.
type Outcome struct {
	// Text is the human-readable block, always present.
	Text string

	// Structured carries extracted fields (addresses, URLs, values) when the
	// tool promises them and extraction succeeded.
	Structured map[string]string

	// Kind is KindOK on success, or the failure classification.
	Kind Kind
}

// IsError reports whether the outcome is a failure of any kind.
func (o Outcome) IsError() bool {
	return o.Kind != KindOK
}

// Success returns a successful outcome with the given text.
func Success(text string) Outcome {
	return Outcome{Text: text, Kind: KindOK}
}

// Successf returns a successful outcome with formatted text.
func Successf(format string, args ...any) Outcome {
	return Success(fmt.Sprintf(format, args...))
}

// Failure returns a failed outcome of the given kind.
func Failure(kind Kind, text string) Outcome {
	return Outcome{Text: text, Kind: kind}
}

// Failuref returns a failed outcome with formatted text.
func Failuref(kind Kind, format string, args ...any) Outcome {
	return Failure(kind, fmt.Sprintf(format, args...))
}

// WithField returns a copy of o with one structured field set.
func (o Outcome) WithField(key, value string) Outcome {
	out := o
	out.Structured = make(map[string]string, len(o.Structured)+1)
	for k, v := range o.Structured {
		out.Structured[k] = v
	}
	out.Structured[key] = value
	return out
}
