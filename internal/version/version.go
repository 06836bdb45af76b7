// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Commit is set at build time with -ldflags "-X .../version.Commit=...".
var Commit = "dev"

// String returns the version with its commit.
func String() string { return Version + " (" + Commit + ")" }

// Milestones:
// 0.3.0 - WebSocket state feed, Prometheus metrics, headless tour
// 0.2.0 - Auto-switch zoom monitor, realistic distance mode
// 0.1.0 - Initial release: view state machine, galaxy and system scenes, TUI
