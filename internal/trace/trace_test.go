package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"off": LevelOff, "PHASE": LevelPhase, "detail": LevelDetail, " debug ": LevelDebug}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLevelFilter(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopePass) || LevelPhase.ShouldEmit(ScopeModule) {
		t.Fatalf("phase level filters wrong scopes")
	}
	if LevelError.ShouldEmit(ScopeDriver) {
		t.Fatalf("error level must not emit live events")
	}
	if !LevelDebug.ShouldEmit(ScopeNode) {
		t.Fatalf("debug level must emit node events")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	span := Begin(tr, ScopePass, "parse", 0)
	span.WithExtra("tokens", "12").WithExtra("errors", "0").End("ok")
	Begin(tr, ScopeModule, "file:a.mahdl", 0).End("")

	out := buf.String()
	if !strings.Contains(out, "→ parse") || !strings.Contains(out, "← parse (ok) {errors=0, tokens=12}") {
		t.Fatalf("unexpected trace output:\n%s", out)
	}
	if strings.Contains(out, "a.mahdl") {
		t.Fatalf("module scope leaked through phase level:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	parent := Begin(tr, ScopeDriver, "build", 0)
	Begin(tr, ScopePass, "lex", parent.ID()).End("")
	parent.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d", len(lines))
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Name != "lex" || ev.Kind != "begin" || ev.ParentID != parent.ID() {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelError)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeNode, Name: name})
	}
	snap := r.Snapshot()
	if len(snap) != 3 || snap[0].Name != "c" || snap[2].Name != "e" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("unexpected dump:\n%s", buf.String())
	}
}

func TestNewModes(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf, RingSize: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopePass, "collect", 0).End("")
	ring, ok := Ring(tr)
	if !ok || len(ring.Snapshot()) != 2 {
		t.Fatalf("ring not attached or empty")
	}
	if buf.Len() == 0 {
		t.Fatalf("stream received nothing")
	}
	off, err := New(Config{Level: LevelOff})
	if err != nil || off.Enabled() {
		t.Fatalf("off level must yield a disabled tracer")
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context must yield Nop")
	}
	r := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	span := Begin(FromContext(ctx), ScopeDriver, "diag", 0)
	ctx = WithParent(ctx, span)
	if ParentOf(ctx) != span.ID() {
		t.Fatalf("parent not propagated")
	}
}

func TestInertSpanMeasures(t *testing.T) {
	span := Begin(Nop, ScopePass, "generate", 0)
	time.Sleep(time.Millisecond)
	if span.End("") <= 0 {
		t.Fatalf("inert span must still measure elapsed time")
	}
	if span.ID() != 0 {
		t.Fatalf("inert span must have zero ID")
	}
}

func TestHeartbeat(t *testing.T) {
	r := NewRingTracer(16, LevelPhase)
	h := StartHeartbeat(r, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	h.Stop()
	h.Stop()
	if len(r.Snapshot()) == 0 {
		t.Fatalf("no heartbeat recorded")
	}
	if StartHeartbeat(Nop, time.Second) != nil {
		t.Fatalf("disabled tracer must not start a heartbeat")
	}
}

func TestErrorLevelFeedsRingOnly(t *testing.T) {
	var buf bytes.Buffer
	tr := NewMultiTracer(LevelError, NewStreamTracer(&buf, LevelError, FormatText), NewRingTracer(8, LevelError))
	Begin(tr, ScopePass, "process", 0).End("")
	Begin(tr, ScopeNode, "do-block", 0).End("")
	ring, _ := Ring(tr)
	if got := len(ring.Snapshot()); got != 2 {
		t.Fatalf("ring recorded %d events, want 2", got)
	}
	if buf.Len() != 0 {
		t.Fatalf("error level must not stream:\n%s", buf.String())
	}
}
