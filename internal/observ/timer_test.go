package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerPhases(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("parse")
	timer.End(idx, "nodes=12")
	timer.End(99, "ignored")

	report := timer.Report()
	if len(report.Phases) != 1 || report.Phases[0].Name != "parse" || report.Phases[0].Note != "nodes=12" {
		t.Fatalf("unexpected report: %+v", report)
	}
	summary := timer.Summary()
	for _, want := range []string{"timings:", "parse", "// nodes=12", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary lacks %q:\n%s", want, summary)
		}
	}
}

func TestTimerAddAggregates(t *testing.T) {
	total := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			total.Add("lint", time.Millisecond)
		}()
	}
	wg.Wait()

	other := NewTimer()
	other.Add("lint", 2*time.Millisecond)
	other.Add("parse", time.Millisecond)
	total.Merge(other.Report())

	report := total.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %+v", report.Phases)
	}
	if got := report.Phases[0].DurationMS; got < 9.99 || got > 10.01 {
		t.Fatalf("lint = %.3f ms, want 10", got)
	}
	if report.TotalMS < 10.99 || report.TotalMS > 11.01 {
		t.Fatalf("total = %.3f ms, want 11", report.TotalMS)
	}
}

func TestNilTimer(t *testing.T) {
	var timer *Timer
	timer.End(timer.Begin("x"), "")
	timer.Add("x", time.Second)
	if r := timer.Report(); len(r.Phases) != 0 {
		t.Fatal("nil timer must report nothing")
	}
}
