// Package security keeps signing-key material out of logs and out of
// subprocess environments that do not need it. The Pop CLI signs transactions
// with a secret URI (SURI) delivered via the PRIVATE_KEY environment
// variable; nothing in this process may ever print it.
package security

import (
	"regexp"
	"strings"
	"sync"
)

// RedactPlaceholder is the replacement string for redacted secrets.
const RedactPlaceholder = "***REDACTED***"

// Redactor replaces secret values in strings with a redaction placeholder.
// It supports both regex pattern matching (for known key-material shapes) and
// literal value matching (for secrets loaded at runtime, such as the SURI
// read from PRIVATE_KEY). All methods are safe for concurrent use.
type Redactor struct {
	mu       sync.RWMutex
	patterns []*regexp.Regexp
	literals []string
}

// NewRedactor creates a Redactor pre-loaded with default patterns for
// Substrate key material.
func NewRedactor() *Redactor {
	return &Redactor{patterns: DefaultPatterns()}
}

// AddLiteral adds a literal secret value that should be redacted on sight.
// Empty strings are ignored.
func (r *Redactor) AddLiteral(secret string) {
	if secret == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.literals = append(r.literals, secret)
}

// Redact replaces all known secret patterns and literal values in s
// with RedactPlaceholder.
func (r *Redactor) Redact(s string) string {
	if s == "" {
		return s
	}

	r.mu.RLock()
	patterns := r.patterns
	literals := r.literals
	r.mu.RUnlock()

	for _, p := range patterns {
		s = p.ReplaceAllString(s, RedactPlaceholder)
	}

	for _, lit := range literals {
		if strings.Contains(s, lit) {
			s = strings.ReplaceAll(s, lit, RedactPlaceholder)
		}
	}

	return s
}

// DefaultPatterns returns compiled regex patterns for key material that must
// never reach log output.
func DefaultPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		// Raw 32-byte seeds / private keys in hex.
		regexp.MustCompile(`0x[0-9a-fA-F]{64}`),
		// --suri values following the flag, including dev URIs like //Alice.
		regexp.MustCompile(`--suri[ =]\S+`),
		// BIP39 secret phrases passed as PRIVATE_KEY=... in env dumps.
		regexp.MustCompile(`PRIVATE_KEY=\S+`),
	}
}
