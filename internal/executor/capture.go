package executor

import (
	"bytes"
	"sync"
)

// budget is a byte allowance shared by the stdout and stderr writers of one
// invocation, so the combined capture respects a single ceiling.
type budget struct {
	mu        sync.Mutex
	remaining int
	exceeded  bool
}

func newBudget(limit int) *budget {
	return &budget{remaining: limit}
}

// take reserves up to n bytes and reports how many were granted.
func (b *budget) take(n int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n <= b.remaining {
		b.remaining -= n
		return n
	}
	granted := b.remaining
	b.remaining = 0
	b.exceeded = true
	return granted
}

// Exceeded reports whether any write was cut short.
func (b *budget) Exceeded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exceeded
}

// capWriter buffers writes until its shared budget runs out, then silently
// accepts and drops the rest. The drop is never silent to the caller: the
// budget records the overflow and the record is flagged truncated.
type capWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	budget *budget
}

func newCapWriter(b *budget) *capWriter {
	return &capWriter{budget: b}
}

// Write implements io.Writer. It always reports full success so the child
// process is not killed with EPIPE mid-run; overflow is tracked instead.
func (w *capWriter) Write(p []byte) (int, error) {
	granted := w.budget.take(len(p))
	if granted > 0 {
		w.mu.Lock()
		w.buf.Write(p[:granted])
		w.mu.Unlock()
	}
	return len(p), nil
}

// Bytes returns the captured bytes.
func (w *capWriter) Bytes() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]byte(nil), w.buf.Bytes()...)
}
