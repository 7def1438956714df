package version

import (
	"strings"
	"testing"
)

func restoreVars() func() {
	v, c, b := Version, GitCommit, BuildTime
	return func() { Version, GitCommit, BuildTime = v, c, b }
}

func TestGetDefaults(t *testing.T) {
	defer restoreVars()()
	Version, GitCommit, BuildTime = "dev", "", ""

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.GoVersion == "" || !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("expected go version from build info, got %q", info.GoVersion)
	}
}

func TestGetLdflagsWin(t *testing.T) {
	defer restoreVars()()
	Version, GitCommit, BuildTime = "1.2.0", "abcdef1234567", "2026-01-15T10:30:00Z"

	info := Get()
	if info.Version != "1.2.0" || info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.GitCommit != "abcdef1" {
		t.Errorf("expected commit shortened to 7 chars, got %q", info.GitCommit)
	}
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.2.0", GitCommit: "abc1234"}, "1.2.0 (abc1234)"},
		{Info{Version: "1.2.0", GitCommit: "abc1234", Dirty: true}, "1.2.0 (abc1234-dirty)"},
	}
	for _, tc := range tests {
		if got := tc.info.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
