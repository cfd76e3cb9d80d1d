package observ

import (
	"sync"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	if r := tm.Report(); r.TotalMS != 0 || len(r.Phases) != 0 {
		t.Fatalf("empty timer report = %+v", r)
	}

	idx := tm.Begin("load")
	tm.End(idx, "3 files")
	idx = tm.Begin("analyze")
	time.Sleep(2 * time.Millisecond)
	tm.End(idx, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	if r.Phases[0].Name != "load" || r.Phases[0].Note != "3 files" {
		t.Errorf("first phase = %+v", r.Phases[0])
	}
	if r.Phases[1].DurationMS < 2 {
		t.Errorf("analyze duration = %v, want >= 2", r.Phases[1].DurationMS)
	}
	if r.TotalMS < 2 {
		t.Errorf("total = %v, want >= 2", r.TotalMS)
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("file"), "")
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 16 {
		t.Fatalf("phases = %d, want 16", n)
	}
}
