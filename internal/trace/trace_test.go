package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"", LevelOff, true},
		{"off", LevelOff, true},
		{"ERROR", LevelError, true},
		{" phase ", LevelPhase, true},
		{"detail", LevelDetail, true},
		{"debug", LevelDebug, true},
		{"loud", LevelOff, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err == nil) != tt.ok {
			t.Fatalf("ParseLevel(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestShouldEmit(t *testing.T) {
	if !LevelError.ShouldEmit(KindError, ScopeCache) {
		t.Error("errors must pass LevelError")
	}
	if LevelOff.ShouldEmit(KindError, ScopeDriver) {
		t.Error("LevelOff must drop errors")
	}
	if LevelError.ShouldEmit(KindSpanBegin, ScopeDriver) {
		t.Error("LevelError must drop spans")
	}
	if !LevelPhase.ShouldEmit(KindSpanBegin, ScopePass) || LevelPhase.ShouldEmit(KindSpanBegin, ScopeFile) {
		t.Error("LevelPhase must keep pass spans only")
	}
	if !LevelDetail.ShouldEmit(KindPoint, ScopeFile) || LevelDetail.ShouldEmit(KindPoint, ScopeCache) {
		t.Error("LevelDetail must stop at file scope")
	}
	if !LevelDebug.ShouldEmit(KindPoint, ScopeCache) {
		t.Error("LevelDebug must keep everything")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("expected disabled tracer")
	}
	s := Begin(tr, ScopeDriver, "x", 0)
	if s.End("") != 0 {
		t.Fatal("nop span must report zero duration")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Format: FormatText, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}

	root := Begin(tr, ScopeDriver, "check", 0)
	child := Begin(tr, ScopeFile, "a.decl", root.ID())
	child.WithExtra("diags", "2").WithExtra("cached", "false").End("ok")
	Begin(tr, ScopeCache, "lookup", root.ID()).End("")
	Error(tr, ScopeCache, "store", errors.New("disk full"))
	root.End("")

	out := buf.String()
	for _, want := range []string{"driver:check", "file:a.decl (ok)", "{cached=false, diags=2}", "! cache:store (disk full)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "cache:lookup") {
		t.Errorf("cache spans must be filtered at detail level:\n%s", out)
	}
	if n := strings.Count(out, "\n"); n != 5 {
		t.Errorf("expected 5 lines, got %d:\n%s", n, out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeCache, "hit", "abc")

	var got map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["kind"] != "point" || got["scope"] != "cache" || got["name"] != "hit" || got["detail"] != "abc" {
		t.Fatalf("unexpected event: %v", got)
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != Nop {
		t.Fatal("empty context must yield Nop")
	}
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx = WithTracer(ctx, tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatal("tracer lost in context")
	}

	s := Begin(tr, ScopePass, "analyze", 0)
	ctx = WithSpan(ctx, s)
	if SpanIDFromContext(ctx) != s.ID() || s.ID() == 0 {
		t.Fatalf("span id = %d, want %d", SpanIDFromContext(ctx), s.ID())
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat(ndjson) = %v, %v", f, err)
	}
	if _, err := ParseFormat("chrome"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestStartSpanAndFail(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, root := StartSpan(ctx, ScopeDriver, "check")
	if SpanIDFromContext(ctx) != root.ID() {
		t.Fatal("root span must become active")
	}

	// file-спаны на уровне phase отфильтрованы
	fctx, file := StartSpan(ctx, ScopeFile, "a.decl")
	if file.ID() != 0 || SpanIDFromContext(fctx) != root.ID() {
		t.Fatalf("filtered span must keep the parent active, got %d", SpanIDFromContext(fctx))
	}
	file.Fail(errors.New("boom"))
	file.End("")

	root.Fail(errors.New("partial"))
	root.End("")

	out := buf.String()
	for _, want := range []string{"! file:a.decl (boom)", "! driver:check (partial)", "{failed=true}"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\n"); n != 4 {
		t.Errorf("expected 4 lines, got %d:\n%s", n, out)
	}
}
