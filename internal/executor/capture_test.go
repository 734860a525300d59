package executor

import (
	"bytes"
	"testing"
)

func TestCapWriterSharedBudget(t *testing.T) {
	t.Parallel()

	b := newBudget(10)
	stdout := newCapWriter(b)
	stderr := newCapWriter(b)

	n, err := stdout.Write([]byte("123456"))
	if err != nil || n != 6 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	n, err = stderr.Write([]byte("abcdef"))
	if err != nil || n != 6 {
		t.Fatalf("Write = %d, %v; overflow must still report success", n, err)
	}

	if !b.Exceeded() {
		t.Error("budget not marked exceeded")
	}
	if got := string(stdout.Bytes()); got != "123456" {
		t.Errorf("stdout = %q", got)
	}
	// Only the first 4 bytes of the second stream fit.
	if got := string(stderr.Bytes()); got != "abcd" {
		t.Errorf("stderr = %q, want the granted prefix", got)
	}
}

func TestCapWriterWithinBudget(t *testing.T) {
	t.Parallel()

	b := newBudget(64)
	w := newCapWriter(b)

	if _, err := w.Write(bytes.Repeat([]byte("x"), 64)); err != nil {
		t.Fatal(err)
	}
	if b.Exceeded() {
		t.Error("exact fit flagged as exceeded")
	}
}

func TestCapWriterDropsAfterExhaustion(t *testing.T) {
	t.Parallel()

	b := newBudget(3)
	w := newCapWriter(b)

	_, _ = w.Write([]byte("abcdef"))
	_, _ = w.Write([]byte("ghi"))

	if got := string(w.Bytes()); got != "abc" {
		t.Errorf("captured %q, want %q", got, "abc")
	}
	if !b.Exceeded() {
		t.Error("budget not marked exceeded")
	}
}
