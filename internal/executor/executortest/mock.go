// Package executortest provides a scripted Executor for tests. It records
// every spec it receives so tests can assert on exact argument vectors and
// on whether the executor was reached at all.
package executortest

import (
	"context"
	"fmt"
	"sync"

	"github.com/flemzord/popmcp/internal/command"
	"github.com/flemzord/popmcp/internal/executor"
)

// Mock is a scripted Executor. Each call to Run consumes the next scripted
// result; when the script is exhausted the last result repeats.
type Mock struct {
	mu      sync.Mutex
	script  []Result
	calls   []command.Spec
	started []command.Spec
}

// Result is one scripted execution outcome.
type Result struct {
	Record executor.Record
	Err    error
}

var _ executor.Executor = (*Mock)(nil)

// New creates a mock with the given script.
func New(script ...Result) *Mock {
	return &Mock{script: script}
}

// Success creates a mock whose every run exits zero with the given stdout.
func Success(stdout string) *Mock {
	return New(Result{Record: executor.Record{Stdout: []byte(stdout)}})
}

// SuccessStderr creates a mock whose every run exits zero with the given
// stderr, matching pop's habit of narrating on stderr.
func SuccessStderr(stderr string) *Mock {
	return New(Result{Record: executor.Record{Stderr: []byte(stderr)}})
}

// Failure creates a mock whose every run exits with the given code and stderr.
func Failure(code int, stderr string) *Mock {
	return New(Result{Record: executor.Record{Stderr: []byte(stderr), ExitCode: code}})
}

// StartError creates a mock that fails to spawn, as if the binary were
// missing from PATH.
func StartError() *Mock {
	return New(Result{Err: fmt.Errorf("%w: pop: executable file not found in $PATH", executor.ErrStartFailed)})
}

// Run implements Executor.
func (m *Mock) Run(_ context.Context, spec command.Spec) (executor.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, spec)

	if len(m.script) == 0 {
		return executor.Record{}, nil
	}
	idx := len(m.calls) - 1
	if idx >= len(m.script) {
		idx = len(m.script) - 1
	}
	res := m.script[idx]
	return res.Record, res.Err
}

// Start implements Executor. Detached starts are not scriptable; tests for
// the launch tools use handler-level fakes instead.
func (m *Mock) Start(_ context.Context, spec command.Spec) (*executor.Process, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, spec)
	return nil, fmt.Errorf("%w: detached start not supported by mock", executor.ErrStartFailed)
}

// Calls returns every spec passed to Run, in order.
func (m *Mock) Calls() []command.Spec {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]command.Spec(nil), m.calls...)
}

// CallCount returns the number of Run invocations.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
