// Package version holds build identification.
package version

// AppName is the program name used for logger names and the CLI.
const AppName = "statdash"

// Version is overridden at build time with -ldflags "-X".
var Version = "v0.1.0"

// GitHash is overridden at build time with -ldflags "-X".
var GitHash = "unknown"
