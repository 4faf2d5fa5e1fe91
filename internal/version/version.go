// Package version provides version information.
package version

// Version is set at build time via -ldflags "-X github.com/VoxDroid/hotcmd/internal/version.Version=<value>"
// The default is a development placeholder.
var Version = "v0.3.0-dev"
