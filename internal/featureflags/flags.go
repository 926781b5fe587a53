// Package featureflags reads runtime toggles from the environment so
// risky behavior can be switched without a rebuild.
package featureflags

import (
	"os"
	"strings"
)

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes/on, case-insensitive.
func Enabled(name string) bool {
	switch strings.ToLower(os.Getenv(flagKey(name))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func flagKey(name string) string {
	return "FLAG_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
