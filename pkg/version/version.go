package version

import (
	"fmt"
	"runtime"
)

// Semantic version components.
const (
	Major      = 1
	Minor      = 2
	Patch      = 0
	PreRelease = ""
)

// Name is the product name shown in version output.
const Name = "NorthCheck CLI"

// Commit is set at build time with -ldflags "-X northcheck/pkg/version.Commit=...".
var Commit = "unknown"

// BuildInfo describes the running binary.
type BuildInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Major     int    `json:"major"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Version returns MAJOR.MINOR.PATCH with an optional pre-release suffix.
func Version() string {
	v := fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
	if PreRelease != "" {
		v += "-" + PreRelease
	}
	return v
}

// GetBuildInfo returns build information for the running binary.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Name:      Name,
		Version:   Version(),
		Major:     Major,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// GetFullVersionString returns a one-line description for `northcheck version`.
func GetFullVersionString() string {
	b := GetBuildInfo()
	return fmt.Sprintf("%s v%s (commit %s, %s, %s)", b.Name, b.Version, b.Commit, b.GoVersion, b.Platform)
}
