package security

import (
	"os"
	"strings"
)

// PrivateKeyEnv is the environment variable holding the signing key URI
// (SURI) the Pop CLI uses to sign transactions. It is forwarded to pop
// subprocesses and to nothing else.
const PrivateKeyEnv = "PRIVATE_KEY"

// sensitiveEnvPrefixes are environment variable prefixes stripped from
// subprocess environments. The pop CLI needs none of these; forwarding them
// would expose unrelated credentials to every spawned process.
var sensitiveEnvPrefixes = []string{
	"OPENAI_",
	"ANTHROPIC_",
	"AWS_SECRET",
	"AWS_SESSION_TOKEN",
	"GITHUB_TOKEN",
	"GH_TOKEN",
	"GITLAB_TOKEN",
	"SLACK_TOKEN",
	"SMTP_PASSWORD",
}

// sensitiveEnvExact are variable names stripped by exact match. These are
// exact-only to avoid over-blocking variables like DB_PORT or DATABASE_HOST.
var sensitiveEnvExact = map[string]struct{}{
	"AWS_SECRET_ACCESS_KEY": {},
	"DATABASE_URL":          {},
	"DB_PASSWORD":           {},
	"REDIS_PASSWORD":        {},
}

// ChildEnv returns a copy of os.Environ() with unrelated credentials removed.
// PRIVATE_KEY is deliberately kept: it is how signing key material reaches
// the wrapped CLI, per the process boundary contract (env, never argv).
func ChildEnv() []string {
	env := os.Environ()
	result := make([]string, 0, len(env))

	for _, entry := range env {
		key, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if isSensitiveEnvVar(key) {
			continue
		}
		result = append(result, entry)
	}

	return result
}

// SURI returns the signing key URI from the environment, if set.
func SURI() (string, bool) {
	v, ok := os.LookupEnv(PrivateKeyEnv)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// isSensitiveEnvVar checks if an environment variable name matches
// a known sensitive prefix or exact name.
func isSensitiveEnvVar(name string) bool {
	if _, ok := sensitiveEnvExact[name]; ok {
		return true
	}
	for _, prefix := range sensitiveEnvPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
