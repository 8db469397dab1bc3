// Package version carries the build identity of the wtu binary.
package version

import (
	"fmt"
	"runtime"
)

// Build information, set at build time via ldflags:
//
//	-X github.com/teranos/wtu/version.CommitHash=$(git rev-parse HEAD)
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	// Version is the tag the binary was built from, if any
	Version = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version line
func (i Info) String() string {
	return fmt.Sprintf("wtu %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
}

// Short returns the abbreviated commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
