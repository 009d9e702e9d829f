package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	orig := Version
	t.Cleanup(func() { Version = orig })

	tests := []struct{ in, want string }{
		{"0.1.0", "0.1.0"},
		{"1.2.3-rc.1+build.5", "1.2.3-rc.1+build.5"},
		{"dev", "dev"},
		{" 2.0.0 ", "2.0.0"},
	}
	for _, tt := range tests {
		Version = tt.in
		if got := Colored(); got != tt.want {
			t.Errorf("Colored() with %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCacheKey(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })

	Version, GitCommit = "1.0.0", ""
	if got := CacheKey(); got != "1.0.0" {
		t.Fatalf("CacheKey() = %q", got)
	}
	GitCommit = "abc123"
	if got := CacheKey(); got != "1.0.0+abc123" {
		t.Fatalf("CacheKey() = %q", got)
	}
}
