package executor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/flemzord/popmcp/internal/command"
	"github.com/flemzord/popmcp/internal/security"
)

// Process is a detached child launched by Start. Its output streams into a
// log file that callers poll while waiting for a readiness signal.
type Process struct {
	// PID of the child process.
	PID int

	// LogPath is the file receiving the child's combined stdout+stderr.
	LogPath string

	proc *os.Process
}

// Start implements Executor. The child's stdout and stderr are appended to a
// fresh log file under the temp directory; the caller decides when (and
// whether) to wait, kill, or release the child.
func (l *Local) Start(ctx context.Context, spec command.Spec) (*Process, error) {
	name := fmt.Sprintf("popmcp-%s-%d.log", filepath.Base(spec.Program), time.Now().UnixNano())
	logPath := filepath.Join(os.TempDir(), name)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("executor: open log file: %w", err)
	}

	cmd := exec.CommandContext(ctx, spec.Program, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = append(security.ChildEnv(), spec.Env...)
	cmd.Stdin = nil
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	// The child must outlive ctx once released; Cancel is a no-op so that
	// releasing the process genuinely detaches it.
	cmd.Cancel = func() error { return nil }

	l.logger.Debug("starting detached command", "command", spec.String(), "log", logPath)

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrStartFailed, spec.Program, err)
	}
	_ = logFile.Close() // the child holds its own descriptor

	p := &Process{
		PID:     cmd.Process.Pid,
		LogPath: logPath,
		proc:    cmd.Process,
	}

	// Reap the child if it exits on its own; Wait is required to avoid
	// zombies while the caller is still polling the log.
	go func() { _ = cmd.Wait() }()

	return p, nil
}

// ReadLog returns the current contents of the child's log file.
func (p *Process) ReadLog() (string, error) {
	data, err := os.ReadFile(p.LogPath)
	if err != nil {
		return "", fmt.Errorf("executor: read log %s: %w", p.LogPath, err)
	}
	return string(data), nil
}

// Kill terminates the child process.
func (p *Process) Kill() error {
	if p.proc == nil {
		return nil
	}
	return p.proc.Kill()
}

// Release detaches from the child, allowing it to run to completion on its
// own. Used when a launch tool hands ownership to the wrapped CLI's own
// lifecycle management.
func (p *Process) Release() {
	if p.proc != nil {
		_ = p.proc.Release()
		p.proc = nil
	}
}

// Terminate signals a process by PID. Used to reclaim nodes recorded in a
// previous server run, where no live *os.Process handle exists.
func Terminate(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("executor: find process %d: %w", pid, err)
	}
	return proc.Kill()
}
