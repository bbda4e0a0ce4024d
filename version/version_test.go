package version

import (
	"runtime/debug"
	"testing"
)

func withBuildInfo(t *testing.T, bi *debug.BuildInfo, ok bool) {
	t.Helper()
	origRead := readBuildInfo
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, ok }
	t.Cleanup(func() {
		readBuildInfo = origRead
		Version, GitCommit, BuildTime = origVersion, origCommit, origBuildTime
	})
}

func TestGet_NoBuildInfo(t *testing.T) {
	withBuildInfo(t, nil, false)
	Version, GitCommit, BuildTime = "dev", "", ""

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.String() != "dev" {
		t.Errorf("expected plain version string, got %q", info.String())
	}
}

func TestGet_FromBuildInfo(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Main:      debug.Module{Version: "v1.4.2"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-15T10:30:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}, true)
	Version, GitCommit, BuildTime = "dev", "", ""

	info := Get()
	if info.Version != "1.4.2" {
		t.Errorf("expected module version 1.4.2, got %q", info.Version)
	}
	if info.GitCommit != "0123456" {
		t.Errorf("expected short commit, got %q", info.GitCommit)
	}
	if !info.IsDirty {
		t.Error("expected dirty build")
	}
	want := "1.4.2 (0123456-dirty, built 2026-01-15T10:30:00Z)"
	if info.String() != want {
		t.Errorf("String() = %q, want %q", info.String(), want)
	}
}

func TestGet_LdflagsWin(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "v9.9.9"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffff"}},
	}, true)
	Version, GitCommit, BuildTime = "2.0.0", "abc1234", ""

	info := Get()
	if info.Version != "2.0.0" || info.GitCommit != "abc1234" {
		t.Errorf("expected ldflags values to win, got %+v", info)
	}
}

func TestGet_DevelMainVersion(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true)
	Version = "dev"

	if got := Get().Version; got != "dev" {
		t.Errorf("expected (devel) to be ignored, got %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	withBuildInfo(t, nil, false)
	Version = "1.0.0"

	if got := UserAgent(); got != "gokit-soniox/1.0.0" {
		t.Errorf("UserAgent() = %q", got)
	}
}
