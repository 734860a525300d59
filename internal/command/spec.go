// Package command models external process invocations as explicit argument
// vectors. A Spec is always executed directly, never through a shell, so a
// caller-supplied value occupies exactly one argv slot and can never be
// re-tokenized into additional arguments.
package command

import "strings"

// Spec describes one process invocation.
type Spec struct {
	// Program is the executable name or path, resolved via PATH at spawn time.
	Program string

	// Args is the ordered argument vector, excluding the program name.
	Args []string

	// Dir is the working directory for the process. Empty means inherit.
	Dir string

	// Env holds extra KEY=VALUE entries appended to the sanitized base
	// environment. Secrets travel here, never in Args.
	Env []string
}

// New returns a Spec for program with the given argument vector.
func New(program string, args ...string) Spec {
	return Spec{Program: program, Args: args}
}

// Append returns a copy of s with extra arguments added. The receiver is not
// modified, keeping builders pure.
func (s Spec) Append(args ...string) Spec {
	out := s
	out.Args = append(append([]string(nil), s.Args...), args...)
	return out
}

// String renders the spec for logging. Values are space-joined for
// readability only; this string is never handed to a shell.
func (s Spec) String() string {
	if len(s.Args) == 0 {
		return s.Program
	}
	return s.Program + " " + strings.Join(s.Args, " ")
}
