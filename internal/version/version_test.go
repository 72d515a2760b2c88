package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestColored(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = orig, origNoColor }()
	color.NoColor = true

	tests := []struct {
		version string
		want    string
	}{
		{"0.2.0", "0.2.0"},
		{"1.2.3-dev", "1.2.3-dev"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		Version = tt.version
		if got := Colored(); got != tt.want {
			t.Errorf("Colored() with Version=%q = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	origV, origC, origD, origNoColor := Version, GitCommit, BuildDate, color.NoColor
	defer func() { Version, GitCommit, BuildDate, color.NoColor = origV, origC, origD, origNoColor }()
	color.NoColor = true

	Version, GitCommit, BuildDate = "0.2.0", "", ""
	if got, want := Describe("cairoplug"), "cairoplug 0.2.0"; got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}

	GitCommit, BuildDate = "abc123", "2024-01-15T10:30:00Z"
	if got, want := Describe("cairoplug"), "cairoplug 0.2.0 (abc123) built 2024-01-15T10:30:00Z"; got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}
