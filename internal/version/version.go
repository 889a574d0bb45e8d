// Package version holds build metadata injected via ldflags:
//
//	-X github.com/kailas-cloud/moviematch/internal/version.Version=v1.2.0
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build for humans, e.g. "v1.2.0 (commit abc123, built 2026-10-17)".
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}

// UserAgent names an outbound HTTP client, e.g. "moviematch-sdk/v1.2.0".
func UserAgent(component string) string {
	return "moviematch-" + component + "/" + Version
}
