package version

import (
	"strings"
	"testing"
)

func TestGetTrimsAndDefaults(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version = "  "
	GitCommit = " abc123 \n"
	info := Get()
	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
	if info.GitCommit != "abc123" {
		t.Errorf("GitCommit = %q", info.GitCommit)
	}
}

func TestColored(t *testing.T) {
	tests := []struct {
		in      string
		enabled bool
		want    string
	}{
		{"1.2.3", false, "1.2.3"},
		{"0.3.0-dev", false, "0.3.0-dev"},
		{"dev", true, "dev"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in, tt.enabled); got != tt.want {
			t.Errorf("Colored(%q, %v) = %q, want %q", tt.in, tt.enabled, got, tt.want)
		}
	}

	got := Colored("1.2.3-rc1", true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc1") {
		t.Errorf("Colored with color = %q", got)
	}
}
