// Package version holds build-time version information.
// Values are injected via -ldflags at build time.
package version

var (
	// GitRelease is the release tag (e.g., v0.3.0).
	GitRelease = "dev"

	// GitCommit is the commit hash the binary was built from.
	GitCommit = ""

	// BuildDate is the UTC build timestamp.
	BuildDate = ""
)
