// Package version exposes the build version, injected at link time via
// -ldflags "-X github.com/jchenq/portfolio-desk/internal/version.Version=...".
package version

// Version is the build version string. "dev" for local builds.
var Version = "dev"
