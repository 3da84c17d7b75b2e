// Package version holds the build version stamped into releases.
package version

// Version is the current release, overridden at build time via ldflags.
var Version = "v0.1.0"
