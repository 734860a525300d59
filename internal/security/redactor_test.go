package security

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRedactDefaultPatterns(t *testing.T) {
	t.Parallel()

	r := NewRedactor()

	tests := []struct {
		name  string
		in    string
		leaks string
	}{
		{
			name:  "hex seed",
			in:    "using key 0xe5be9a5092b81bca64be81d212e7f2f9eba183bb7a90954f7b76361f6edb5c0a now",
			leaks: "e5be9a50",
		},
		{
			name:  "suri flag",
			in:    "running pop up --suri //Alice -y",
			leaks: "//Alice",
		},
		{
			name:  "env dump",
			in:    "child env: PATH=/usr/bin PRIVATE_KEY=bottom drive obey lake curtain smoke",
			leaks: "bottom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := r.Redact(tt.in)
			if strings.Contains(got, tt.leaks) {
				t.Errorf("Redact(%q) = %q, secret survived", tt.in, got)
			}
			if !strings.Contains(got, RedactPlaceholder) {
				t.Errorf("Redact(%q) = %q, placeholder missing", tt.in, got)
			}
		})
	}
}

func TestRedactLiteral(t *testing.T) {
	t.Parallel()

	r := NewRedactor()
	r.AddLiteral("hunter2")
	r.AddLiteral("") // ignored

	if got := r.Redact("password is hunter2 ok"); strings.Contains(got, "hunter2") {
		t.Errorf("literal survived: %q", got)
	}
	if got := r.Redact("nothing secret"); got != "nothing secret" {
		t.Errorf("clean string altered: %q", got)
	}
}

func TestRedactingHandlerScrubsAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewRedactor()
	r.AddLiteral("supersecret")
	logger := slog.New(NewRedactingHandler(slog.NewTextHandler(&buf, nil), r))

	logger.Info("dialing supersecret endpoint",
		"token", "supersecret",
		"command", "pop up --suri //Alice",
	)

	out := buf.String()
	if strings.Contains(out, "supersecret") || strings.Contains(out, "//Alice") {
		t.Errorf("log output leaked a secret: %q", out)
	}
	if !strings.Contains(out, RedactPlaceholder) {
		t.Errorf("log output has no placeholder: %q", out)
	}
}

func TestRedactingHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewRedactor()
	logger := slog.New(NewRedactingHandler(slog.NewTextHandler(&buf, nil), r))

	logger.With("suri", "--suri //Bob").Info("started")

	if out := buf.String(); strings.Contains(out, "//Bob") {
		t.Errorf("pre-bound attr leaked: %q", out)
	}
}
