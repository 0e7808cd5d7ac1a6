// Package version provides build-time version information.
package version

// These variables are set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String returns the version line printed by xmlfmt --version.
func String() string {
	return "xmlfmt version " + Version + " (commit: " + Commit + ", built: " + Date + ")"
}
