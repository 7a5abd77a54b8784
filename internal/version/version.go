package version

import "fmt"

var (
	// Version is the semantic version of this build. Release builds replace
	// it via ldflags; local builds keep the placeholder.
	Version = "0.1.0"
	// Commit is the short git revision the binary was built from.
	Commit = "none"
	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// Short returns just the semantic version.
func Short() string {
	return Version
}

// Full renders the version together with the commit and build timestamp.
func Full() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime)
}
