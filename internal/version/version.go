// Package version holds docsift build metadata. The variables are
// overridden via -ldflags at build time; "dev" marks local builds.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
