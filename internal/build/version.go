// Package build exposes version metadata stamped at build time.
package build

import "runtime/debug"

// These are set via -ldflags at release build time.
var (
	// Version is the semantic version of the binary.
	Version = "0.1.0"

	// Commit is the git commit hash the binary was built from.
	Commit string
)

// GoVersion returns the Go toolchain version recorded in the binary, or an
// empty string when build info is unavailable.
func GoVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return info.GoVersion
}
