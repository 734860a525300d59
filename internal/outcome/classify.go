package outcome

import (
	"strings"

	"github.com/flemzord/popmcp/internal/executor"
)

// DefaultFailureMarkers are substrings that indicate logical failure in pop
// CLI output even when the process exits zero. The list is tool-version
// specific and deliberately lives in data, not in the classifier: each
// descriptor may extend or replace it, and a tool with an empty marker list
// is explicitly exit-code-only.
var DefaultFailureMarkers = []string{
	"Error:",
	"error:",
	"Failed to",
	"failed to",
	"Unable to",
	"not found in pallet",
}

// Classify turns a raw record into an outcome. The exit code is the primary
// signal; markers override a zero exit because pop reports some logical
// failures as narration with a clean exit. Truncation is checked first: a
// record missing output can support neither a success claim nor marker
// matching.
func Classify(rec executor.Record, markers []string) Outcome {
	text := rec.Combined()

	if rec.Truncated {
		return Failure(KindTruncated, text+"\n\n(output truncated at capture ceiling)")
	}

	if rec.ExitCode != 0 {
		return Failure(KindExecutionFailed, text)
	}

	for _, marker := range markers {
		if marker != "" && strings.Contains(text, marker) {
			return Failure(KindExecutionFailed, text)
		}
	}

	return Success(text)
}
