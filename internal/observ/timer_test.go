package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerBeginEnd(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("parse")
	tm.End(idx, "12 tokens")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 1 {
		t.Fatalf("phases = %d, want 1", len(r.Phases))
	}
	if r.Phases[0].Name != "parse" || r.Phases[0].Note != "12 tokens" {
		t.Fatalf("unexpected phase: %+v", r.Phases[0])
	}
	if !strings.Contains(tm.Summary(), "// 12 tokens") {
		t.Fatalf("summary misses note:\n%s", tm.Summary())
	}
}

func TestTimerMergeSumsByName(t *testing.T) {
	total := NewTimer()
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := NewTimer()
			local.Track("parse", func() string {
				time.Sleep(time.Millisecond)
				return ""
			})
			local.Track("generate", func() string { return "" })
			total.Merge(local)
		}()
	}
	wg.Wait()

	r := total.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %+v, want parse and generate", r.Phases)
	}
	if r.Phases[0].Name != "parse" || r.Phases[0].Count != 4 {
		t.Fatalf("parse phase = %+v, want count 4", r.Phases[0])
	}
	if got := r.Slowest(1); len(got) != 1 || got[0].Name != "parse" {
		t.Fatalf("slowest = %+v", got)
	}
	if !strings.Contains(total.Summary(), "x4") {
		t.Fatalf("summary misses repeat count:\n%s", total.Summary())
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timer reported phases: %+v", r)
	}
}
