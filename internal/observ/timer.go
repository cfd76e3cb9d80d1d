package observ

import (
	"sync"
	"time"
)

// Phase is one measured step of a check: load, analyze, collect.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer collects phases; workers of one check may share it.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

func (t *Timer) add(p Phase) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, p)
	return len(t.phases) - 1
}

// Begin opens a phase; pass the index to End.
func (t *Timer) Begin(name string) int {
	return t.add(Phase{Name: name, Start: time.Now()})
}

// End closes phase idx. Out-of-range indices are ignored.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx >= 0 && idx < len(t.phases) {
		t.phases[idx].Dur = time.Since(t.phases[idx].Start)
		t.phases[idx].Note = note
	}
}

// PhaseReport is a phase in milliseconds, ready for output.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report сводка таймера: фазы в порядке открытия и их сумма.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the timer. An empty timer yields a zero Report.
func (t *Timer) Report() Report {
	t.mu.Lock()
	phases := append([]Phase(nil), t.phases...)
	t.mu.Unlock()

	var r Report
	var total time.Duration
	for _, p := range phases {
		total += p.Dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note})
	}
	r.TotalMS = millis(total)
	return r
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
