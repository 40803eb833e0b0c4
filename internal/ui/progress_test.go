package ui

import (
	"strings"
	"testing"

	"mahdl/internal/buildpipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	files := []string{"Blink.mahdl", "Ram.mahdl", "Bad.mahdl"}
	m := NewProgressModel("build rtl", files, nil).(*progressModel)

	events := []buildpipeline.Event{
		{File: "Blink.mahdl", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking},
		{File: "Blink.mahdl", Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusCached},
		{File: "Blink.mahdl", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone},
		{File: "Ram.mahdl", Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusDone},
		{File: "Bad.mahdl", Stage: buildpipeline.StageCheck, Status: buildpipeline.StatusError},
		{File: "Bad.mahdl", Stage: buildpipeline.StageCheck, Status: buildpipeline.StatusDone},
		{File: "Unknown.mahdl", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking},
		{Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusWorking},
	}
	for _, ev := range events {
		m.applyEvent(ev)
	}
	want := []string{"cached", "generated", "error"}
	for i, item := range m.items {
		if item.status != want[i] {
			t.Fatalf("%s status = %q, want %q", item.path, item.status, want[i])
		}
	}
	if m.stageLabel != "writing" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}

	m.done = true
	m.finish()
	if m.items[1].status != "done" {
		t.Fatalf("generated native module not settled: %q", m.items[1].status)
	}
	if p := m.percent(); p != 1 {
		t.Fatalf("percent = %v, want 1", p)
	}
	if view := m.View(); !strings.Contains(view, "done: build rtl (writing)") {
		t.Fatalf("view header:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("rtl/very/long/path/Module.mahdl", 12); got != "rtl/very/..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 12); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}
