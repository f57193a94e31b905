// Package version exposes build metadata injected at link time.
package version

// Build metadata, overridden via -ldflags at build time.
//
//nolint:gochecknoglobals // Set by the linker, must be package-level variables.
var (
	// Version is the semantic version of the binary.
	Version = "1.0.0"
	// Commit is the VCS revision the binary was built from.
	Commit = "none"
	// BuildTime is when the binary was built.
	BuildTime = "unknown"
)

// Short returns just the version number.
func Short() string {
	return Version
}

// Full returns the version, commit, and build time in one line.
func Full() string {
	return "version: " + Version + ", commit: " + Commit + ", built at: " + BuildTime
}
