package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mahdl/internal/buildpipeline"
)

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{" AUTO ", uiModeAuto, false},
		{"on", uiModeOn, false},
		{"off", uiModeOff, false},
		{"plain", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("readUIMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("readUIMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if shouldUseTUI(uiModeOff, false) || !shouldUseTUI(uiModeOn, true) {
		t.Fatalf("explicit ui modes are not honoured")
	}
}

func TestFormatPathForOutput(t *testing.T) {
	root := filepath.Join("/", "proj")
	tests := []struct {
		root, path, want string
	}{
		{root, filepath.Join(root, "out", "Top.v"), "out/Top.v"},
		{root, filepath.Join("/", "elsewhere", "Top.v"), filepath.Join("/", "elsewhere", "Top.v")},
		{"", "x/Top.v", "x/Top.v"},
	}
	for _, tt := range tests {
		if got := formatPathForOutput(tt.root, tt.path); got != tt.want {
			t.Fatalf("formatPathForOutput(%q, %q) = %q, want %q", tt.root, tt.path, got, tt.want)
		}
	}
}

func TestWithin(t *testing.T) {
	root := filepath.Join("/", "proj", "rtl")
	if !within(root, root) || !within(root, filepath.Join(root, "lib", "Ram.mahdl")) {
		t.Fatalf("paths under the root must be within it")
	}
	if within(root, filepath.Join("/", "proj", "tb", "Top.mahdl")) {
		t.Fatalf("sibling directory reported as within")
	}
}

func TestPrintStageTimings(t *testing.T) {
	var timings buildpipeline.Timings
	timings.Set(buildpipeline.StageParse, 1500*time.Microsecond)
	timings.Set(buildpipeline.StageWrite, time.Millisecond)

	var buf bytes.Buffer
	printStageTimings(&buf, timings, false)
	if got := buf.String(); got != "parsed 1.5 ms\n" {
		t.Fatalf("timings = %q", got)
	}
	buf.Reset()
	printStageTimings(&buf, timings, true)
	if !strings.Contains(buf.String(), "wrote 1.0 ms") {
		t.Fatalf("write timing missing: %q", buf.String())
	}
}
