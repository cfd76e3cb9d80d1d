package trace

import (
	"sync/atomic"
	"time"
)

// счётчики общие на процесс: seq упорядочивает события всех трейсеров
var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

func nextSeq() uint64 { return seqCounter.Add(1) }

// Span is an open begin/end pair. A Span from a disabled tracer is inert,
// so callers never need to check the level themselves.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	scope    Scope
	name     string
	started  time.Time
	extra    map[string]string
	muted    bool // уровень отфильтровал span, ошибки всё равно идут
	failed   bool
}

// Begin starts a span under parent (0 for a root span) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() {
		return &Span{tracer: Nop, muted: true}
	}
	if !t.Level().ShouldEmit(KindSpanBegin, scope) {
		return &Span{tracer: t, parentID: parent, scope: scope, name: name, muted: true}
	}
	s := &Span{
		tracer:   t,
		id:       spanCounter.Add(1),
		parentID: parent,
		scope:    scope,
		name:     name,
		started:  time.Now(),
	}
	t.Emit(s.event(KindSpanBegin, ""))
	return s
}

func (s *Span) live() bool {
	return s != nil && !s.muted && s.tracer != nil && s.tracer.Enabled()
}

func (s *Span) event(kind Kind, detail string) Event {
	return Event{
		Time:     time.Now(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		Name:     s.name,
		Detail:   detail,
	}
}

// End emits the end event and returns the span duration. A failed span
// carries failed=true in its extras.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	dur := time.Since(s.started)
	if s.failed {
		s.WithExtra("failed", "true")
	}
	ev := s.event(KindSpanEnd, detail)
	ev.Elapsed = dur
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return dur
}

// Fail emits an error event for the span and marks it failed. The error is
// emitted even when the level filtered the span out; its span id is 0 then.
func (s *Span) Fail(err error) {
	if err == nil || s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return
	}
	s.failed = true
	s.tracer.Emit(s.event(KindError, err.Error()))
}

// WithExtra adds a key-value pair to the end event and returns s.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
