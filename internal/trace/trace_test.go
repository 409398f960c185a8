package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		emit  bool
		keep  bool
	}{
		{LevelOff, ScopeDriver, false, false},
		{LevelError, ScopeDriver, false, true},
		{LevelError, ScopeFile, false, true},
		{LevelError, ScopeNode, false, false},
		{LevelPhase, ScopePass, true, true},
		{LevelPhase, ScopeFile, false, false},
		{LevelDetail, ScopeFile, true, true},
		{LevelDetail, ScopeNode, false, false},
		{LevelDebug, ScopeNode, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.level.String()+"/"+tt.scope.String(), func(t *testing.T) {
			if got := tt.level.ShouldEmit(tt.scope); got != tt.emit {
				t.Errorf("ShouldEmit = %v, want %v", got, tt.emit)
			}
			if got := tt.level.keeps(tt.scope); got != tt.keep {
				t.Errorf("keeps = %v, want %v", got, tt.keep)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "ERROR", "Phase", "detail", "debug"} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestSpanNesting(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), ring)

	ctx, outer := Start(ctx, ScopePass, "extract")
	_, inner := Start(ctx, ScopeFile, "parse_file")
	inner.WithExtra("path", "a.swift").End("3 nodes")
	outer.End("")

	evs := ring.Snapshot()
	if len(evs) != 4 {
		t.Fatalf("got %d events, want 4", len(evs))
	}
	if evs[1].ParentID != outer.ID() || evs[1].Name != "parse_file" {
		t.Errorf("inner span parent %d, want %d", evs[1].ParentID, outer.ID())
	}
	end := evs[2]
	if end.Kind != KindSpanEnd || end.Detail != "3 nodes" || end.Extra["path"] != "a.swift" {
		t.Errorf("unexpected end event %+v", end)
	}
	for i := 1; i < len(evs); i++ {
		if evs[i].Seq <= evs[i-1].Seq {
			t.Fatalf("sequence numbers not increasing at %d", i)
		}
	}
}

func TestDisabledSpansAreInert(t *testing.T) {
	sp := Begin(Nop, ScopeDriver, "x", 0)
	if sp.ID() != 0 {
		t.Fatal("nop span must have id 0")
	}
	sp.WithExtra("k", "v").End("done")

	ring := NewRingTracer(4, LevelPhase)
	Begin(ring, ScopeNode, "filtered", 0).End("")
	Point(ring, ScopeNode, "filtered", "", 0)
	if n := len(ring.Snapshot()); n != 0 {
		t.Fatalf("phase level recorded %d node events", n)
	}

	ctx, sp := Start(context.Background(), ScopePass, "nothing")
	if CurrentSpan(ctx).SpanID != 0 || sp.ID() != 0 {
		t.Fatal("a context without tracer must stay untouched")
	}
}

func TestEndTwiceEmitsOnce(t *testing.T) {
	ring := NewRingTracer(8, LevelDebug)
	sp := Begin(ring, ScopeFile, "f", 0)
	sp.End("")
	sp.End("")
	if n := len(ring.Snapshot()); n != 2 {
		t.Fatalf("got %d events, want 2", n)
	}
}

func TestRingWrapsAround(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopeDriver, name, "", 0)
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	if strings.Join(names, "") != "cde" {
		t.Fatalf("snapshot %v, want [c d e]", names)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump:\n%s", buf.String())
	}
}

func TestStreamFormats(t *testing.T) {
	var text, nd bytes.Buffer
	tr := NewMultiTracer(LevelDetail,
		NewStreamTracer(&text, LevelDetail, FormatText),
		NewStreamTracer(&nd, LevelDetail, FormatNDJSON),
	)
	sp := Begin(tr, ScopeFile, "parse_file", 7)
	sp.WithExtra("b", "2").WithExtra("a", "1").End("ok")

	lines := strings.Split(strings.TrimSpace(text.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("text output:\n%s", text.String())
	}
	if !strings.Contains(lines[0], "[file] → parse_file") || !strings.Contains(lines[0], "<7") {
		t.Errorf("begin line %q", lines[0])
	}
	if !strings.Contains(lines[1], "(ok)") || !strings.HasSuffix(lines[1], "{a=1, b=2}") {
		t.Errorf("end line %q", lines[1])
	}

	dec := json.NewDecoder(&nd)
	var begin, end map[string]any
	if err := dec.Decode(&begin); err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode(&end); err != nil {
		t.Fatal(err)
	}
	if begin["kind"] != "begin" || begin["scope"] != "file" || end["detail"] != "ok" {
		t.Errorf("ndjson events %v / %v", begin, end)
	}
}

func TestNewFromConfig(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level: %v %v", tr, err)
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := Ring(tr); !ok {
		t.Error("both mode must contain a ring")
	}
	Begin(tr, ScopeDriver, "cmd", 0).End("")
	if !strings.Contains(buf.String(), "cmd") {
		t.Errorf("stream output %q", buf.String())
	}

	if _, err := New(Config{Level: LevelPhase}); err == nil {
		t.Error("missing mode must be an error")
	}
	if formatFor(FormatAuto, "out.ndjson") != FormatNDJSON || formatFor(FormatAuto, "-") != FormatText {
		t.Error("auto format detection")
	}
}
