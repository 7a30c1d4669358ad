package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	tests := []struct {
		name    string
		info    Info
		short   string
		release bool
		string  string
	}{
		{
			name:   "dev build",
			info:   Info{CommitHash: "dev", BuildTime: "unknown", Version: "dev"},
			short:  "dev",
			string: "dtogen dev, development build (commit dev, built unknown)",
		},
		{
			name:    "release build",
			info:    Info{CommitHash: "0123456789abcdef", BuildTime: "2026-01-02", Version: "v0.3.0"},
			short:   "0123456",
			release: true,
			string:  "dtogen v0.3.0 (commit 0123456, built 2026-01-02)",
		},
		{
			name:   "pre-release",
			info:   Info{CommitHash: "0123456789abcdef", BuildTime: "2026-01-02", Version: "v0.4.0-rc.1"},
			short:  "0123456",
			string: "dtogen v0.4.0-rc.1, development build (commit 0123456, built 2026-01-02)",
		},
		{
			name:   "modified tree",
			info:   Info{CommitHash: "0123456789abcdef", BuildTime: "2026-01-02", Version: "v0.3.0", Modified: true},
			short:  "0123456",
			string: "dtogen v0.3.0, development build (commit 0123456+dirty, built 2026-01-02)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.short, tt.info.Short())
			assert.Equal(t, tt.release, tt.info.Release())
			assert.Equal(t, tt.string, tt.info.String())
		})
	}
}

func TestWithBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/teranos/dtogen", Version: "v0.5.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "fedcba9876543210"},
			{Key: "vcs.time", Value: "2026-03-04T05:06:07Z"},
			{Key: "vcs.modified", Value: "false"},
		},
	}

	tests := []struct {
		name string
		base Info
		want Info
	}{
		{
			name: "defaults are filled",
			base: Info{CommitHash: "dev", BuildTime: "unknown", Version: "dev"},
			want: Info{CommitHash: "fedcba9876543210", BuildTime: "2026-03-04T05:06:07Z", Version: "v0.5.1"},
		},
		{
			name: "ldflags win",
			base: Info{CommitHash: "0123456789abcdef", BuildTime: "2026-01-02", Version: "v0.3.0"},
			want: Info{CommitHash: "0123456789abcdef", BuildTime: "2026-01-02", Version: "v0.3.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.base.withBuildInfo(bi))
		})
	}

	devel := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}
	assert.Equal(t, "dev", Info{Version: "dev"}.withBuildInfo(devel).Version)
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}
