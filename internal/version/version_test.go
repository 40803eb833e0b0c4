package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestPrettyWithoutColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	if got := Pretty(); got != Version {
		t.Fatalf("Pretty() = %q, want %q", got, Version)
	}
}

func TestFingerprint(t *testing.T) {
	prev := GitCommit
	defer func() { GitCommit = prev }()

	GitCommit = ""
	if Fingerprint() != Version {
		t.Fatalf("fingerprint without commit = %q", Fingerprint())
	}
	GitCommit = "abc123"
	if Fingerprint() != Version+"+abc123" {
		t.Fatalf("fingerprint = %q", Fingerprint())
	}
}
