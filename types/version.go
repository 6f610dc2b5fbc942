package types

import "runtime"

// Version information for the library.
const (
	Version = "0.4.0"
	Name    = "node-readability"
)

// BuildInfo contains version and build information for the library.
type BuildInfo struct {
	Version   string
	Name      string
	GoVersion string
}

// GetBuildInfo returns the current version information.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Name:      Name,
		GoVersion: runtime.Version(),
	}
}
