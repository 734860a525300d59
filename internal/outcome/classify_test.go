package outcome

import (
	"strings"
	"testing"

	"github.com/flemzord/popmcp/internal/executor"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rec     executor.Record
		markers []string
		want    Kind
	}{
		{
			name: "clean exit",
			rec:  executor.Record{Stdout: []byte("done")},
			want: KindOK,
		},
		{
			name: "non-zero exit",
			rec:  executor.Record{Stderr: []byte("boom"), ExitCode: 1},
			want: KindExecutionFailed,
		},
		{
			name:    "marker overrides zero exit",
			rec:     executor.Record{Stderr: []byte("Error: directory already exists")},
			markers: DefaultFailureMarkers,
			want:    KindExecutionFailed,
		},
		{
			name: "no markers means exit-code-only",
			rec:  executor.Record{Stdout: []byte("Error: this tool ignores markers")},
			want: KindOK,
		},
		{
			name:    "truncation beats everything",
			rec:     executor.Record{Stdout: []byte("partial"), Truncated: true},
			markers: DefaultFailureMarkers,
			want:    KindTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := Classify(tt.rec, tt.markers)
			if out.Kind != tt.want {
				t.Errorf("kind = %q, want %q", out.Kind, tt.want)
			}
		})
	}
}

func TestClassifyRetainsOutputText(t *testing.T) {
	t.Parallel()

	rec := executor.Record{Stderr: []byte("narration"), Stdout: []byte("result"), ExitCode: 1}
	out := Classify(rec, nil)

	if !strings.Contains(out.Text, "narration") || !strings.Contains(out.Text, "result") {
		t.Errorf("text %q dropped captured output", out.Text)
	}
}

func TestClassifyTruncationIsAnnotated(t *testing.T) {
	t.Parallel()

	out := Classify(executor.Record{Stdout: []byte("partial"), Truncated: true}, nil)
	if !strings.Contains(out.Text, "truncated") {
		t.Errorf("text %q does not mention truncation", out.Text)
	}
	if !strings.Contains(out.Text, "partial") {
		t.Errorf("text %q dropped the partial output", out.Text)
	}
}

func TestCombinedOrdersStderrFirst(t *testing.T) {
	t.Parallel()

	rec := executor.Record{Stdout: []byte("out"), Stderr: []byte("err")}
	if got := rec.Combined(); !strings.HasPrefix(got, "err") {
		t.Errorf("Combined() = %q, want stderr first", got)
	}

	if got := (executor.Record{}).Combined(); !strings.Contains(got, "no output") {
		t.Errorf("empty Combined() = %q", got)
	}
}
