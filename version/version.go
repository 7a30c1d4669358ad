// Package version reports which dtogen build is running.
//
// Release builds inject their values with -ldflags. Binaries built with
// go install or go build carry no ldflags; for them the module version and
// the VCS stamp embedded by the toolchain fill the gaps.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	Modified   bool   `json:"modified,omitempty"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	info := Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = info.withBuildInfo(bi)
	}
	return info
}

// withBuildInfo fills the fields ldflags left at their defaults.
func (i Info) withBuildInfo(bi *debug.BuildInfo) Info {
	if i.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.CommitHash == "dev" {
				i.CommitHash = s.Value
			}
		case "vcs.time":
			if i.BuildTime == "unknown" {
				i.BuildTime = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
	return i
}

// Release reports whether the build is a tagged, unmodified release: a
// semantic version without pre-release suffix.
func (i Info) Release() bool {
	v, err := semver.NewVersion(i.Version)
	if err != nil {
		return false
	}
	return v.Prerelease() == "" && !i.Modified
}

// String returns a human-readable version string
func (i Info) String() string {
	if i.Release() {
		return fmt.Sprintf("dtogen %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
	}
	commit := i.Short()
	if i.Modified {
		commit += "+dirty"
	}
	return fmt.Sprintf("dtogen %s, development build (commit %s, built %s)", i.Version, commit, i.BuildTime)
}

// Short returns the commit hash cut to seven characters
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
