// Package version exposes build metadata injected at link time.
package version

import "fmt"

// Set via -ldflags "-X launchpad/internal/version.Version=..." at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns a single-line human readable version string.
func Info() string {
	return fmt.Sprintf("launchpad %s (commit %s, built %s)", Version, Commit, Date)
}
