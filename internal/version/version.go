// Package version holds build metadata injected at release time.
package version

// Version is the semantic version of this build.
// Overridden via -ldflags "-X .../internal/version.Version=vX.Y.Z".
var Version = "v0.3.0-dev"

// BuildTime is the build timestamp, injected the same way.
var BuildTime = "unknown"
