// Package version exposes build metadata stamped in via -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/msptoolkit/netscout/internal/version.Version=v0.3.0 ..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Short returns just the version string.
func Short() string {
	return Version
}

// Info returns a human-readable version line for the CLI.
func Info() string {
	return fmt.Sprintf("netscout %s (commit %s, built %s, %s/%s)",
		Version, Commit, BuildDate, runtime.GOOS, runtime.GOARCH)
}

// Map returns version fields for JSON responses.
func Map() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit":     Commit,
		"build_date": BuildDate,
		"go_version": runtime.Version(),
	}
}
