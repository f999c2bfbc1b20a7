package runtimeconfig

import (
	"os"
	"strings"
)

// ResolveEnvToken resolves a "$NAME" token against the settings env map
// first, then the process environment, per spec.md §4.6. Non-"$"-prefixed
// values pass through unchanged. An empty resolution is treated as absent
// (returns ""), matching "empty resolutions are treated as absent".
//
// Adapted from the teacher's EnvSubstituter (internal/config/substitution.go),
// which matches "${env://VAR:-default}"; this spec's grammar is the
// simpler bare "$NAME" token with no inline default.
func ResolveEnvToken(value string, settingsEnv map[string]string) string {
	if !strings.HasPrefix(value, "$") {
		return value
	}
	name := strings.TrimPrefix(value, "$")
	if name == "" {
		return ""
	}
	if v, ok := settingsEnv[name]; ok && v != "" {
		return v
	}
	return os.Getenv(name)
}
