// Package executor spawns external commands described by command.Spec and
// captures their raw outcome. It never invokes a shell: the spec's argument
// vector is handed to the operating system as-is. Stdin is always the null
// device, so a wrapped program that tries to prompt fails fast instead of
// hanging on input that will never arrive.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/flemzord/popmcp/internal/command"
	"github.com/flemzord/popmcp/internal/security"
)

// MaxCaptureBytes bounds the combined stdout+stderr capture per invocation.
// Output beyond this ceiling marks the record truncated rather than growing
// without limit.
const MaxCaptureBytes = 10 << 20 // 10 MiB

// ErrStartFailed marks spawn-level failures: the program was not found, was
// not executable, or could not be forked. Distinct from a process that ran
// and exited non-zero, because remediation differs (install the binary vs.
// interpret its error).
var ErrStartFailed = errors.New("executor: command failed to start")

// Record is the raw outcome of running a Spec to completion.
type Record struct {
	Stdout    []byte
	Stderr    []byte
	ExitCode  int
	Truncated bool
	Duration  time.Duration
}

// Combined returns stderr followed by stdout as one human-readable block.
// The pop CLI writes its interactive narration to stderr, so stderr leads.
func (r Record) Combined() string {
	var out string
	if len(r.Stderr) > 0 {
		out = string(r.Stderr)
	}
	if len(r.Stdout) > 0 {
		if out != "" {
			out += "\n\n"
		}
		out += string(r.Stdout)
	}
	if out == "" {
		return "(command produced no output)"
	}
	return out
}

// Executor runs command specs. Implementations must not retry and must not
// apply implicit timeouts; cancellation comes from ctx only.
type Executor interface {
	// Run executes the spec to completion and returns its record.
	// A non-zero exit is NOT an error; only spawn failures return one,
	// wrapping ErrStartFailed.
	Run(ctx context.Context, spec command.Spec) (Record, error)

	// Start launches the spec detached, with output redirected to a log
	// file, and returns immediately. Used for long-running network tools
	// whose contract is fire-and-monitor rather than run-to-completion.
	Start(ctx context.Context, spec command.Spec) (*Process, error)
}

// Local executes specs as direct child processes of this server.
type Local struct {
	logger *slog.Logger
}

// NewLocal creates a Local executor.
func NewLocal(logger *slog.Logger) *Local {
	if logger == nil {
		logger = slog.Default()
	}
	return &Local{logger: logger}
}

var _ Executor = (*Local)(nil)

// Run implements Executor. Stdout and stderr share a single capture budget
// of MaxCaptureBytes; hitting the ceiling marks the record truncated.
func (l *Local) Run(ctx context.Context, spec command.Spec) (Record, error) {
	cmd := exec.CommandContext(ctx, spec.Program, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = append(security.ChildEnv(), spec.Env...)
	cmd.Stdin = nil // null device: execution is always non-interactive

	budget := newBudget(MaxCaptureBytes)
	stdout := newCapWriter(budget)
	stderr := newCapWriter(budget)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	l.logger.Debug("executing command", "command", spec.String())

	start := time.Now()
	err := cmd.Run()
	rec := Record{
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Truncated: budget.Exceeded(),
		Duration:  time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			rec.ExitCode = exitErr.ExitCode()
			return rec, nil
		}
		return rec, fmt.Errorf("%w: %s: %v", ErrStartFailed, spec.Program, err)
	}

	return rec, nil
}
