// Package version holds the build identity reported by timetable and
// timetabled.
package version

// Overridden with -ldflags "-X github.com/GoCodeAlone/timetable/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)
