package stats

import (
	"sync"
	"testing"
)

func TestCollectorCountsAndAverage(t *testing.T) {
	c := NewCollector()
	c.Record(10, true)
	c.Record(20, true)
	c.Record(30, false)

	snap := c.Snapshot()
	if snap.TotalRequests != 3 {
		t.Fatalf("expected 3 total requests, got %d", snap.TotalRequests)
	}
	if snap.SuccessfulRequests != 2 || snap.FailedRequests != 1 {
		t.Fatalf("unexpected counters: %+v", snap)
	}
	if snap.AverageLatencyMs != 20 {
		t.Fatalf("expected average 20ms, got %v", snap.AverageLatencyMs)
	}
	if snap.MinLatencyMs != 10 || snap.MaxLatencyMs != 30 {
		t.Fatalf("unexpected min/max: %+v", snap)
	}
	if snap.SuccessRate != 66.67 {
		t.Fatalf("expected success rate 66.67, got %v", snap.SuccessRate)
	}
}

func TestCollectorEmptySnapshot(t *testing.T) {
	c := NewCollector()
	snap := c.Snapshot()
	if snap.AverageLatencyMs != 0 || snap.MinLatencyMs != 0 || snap.MaxLatencyMs != 0 {
		t.Fatalf("expected zero latency stats, got %+v", snap)
	}
	if snap.SuccessRate != 0 {
		t.Fatalf("expected zero success rate, got %v", snap.SuccessRate)
	}
}

func TestCollectorEvictsOldestSample(t *testing.T) {
	c := NewCollector()
	for i := 0; i < DefaultMaxSamples+1; i++ {
		c.Record(float64(i), true)
	}

	if c.SampleCount() != DefaultMaxSamples {
		t.Fatalf("expected %d samples, got %d", DefaultMaxSamples, c.SampleCount())
	}

	// Sample 0 was evicted, so the retained window is 1..1000.
	snap := c.Snapshot()
	if snap.MinLatencyMs != 1 {
		t.Fatalf("expected oldest sample evicted, min=%v", snap.MinLatencyMs)
	}
	if snap.MaxLatencyMs != float64(DefaultMaxSamples) {
		t.Fatalf("unexpected max: %v", snap.MaxLatencyMs)
	}
	if snap.TotalRequests != DefaultMaxSamples+1 {
		t.Fatalf("counters must keep full history, got %d", snap.TotalRequests)
	}
}

func TestCollectorAverageOverRetainedWindow(t *testing.T) {
	c := NewCollector()
	latencies := []float64{5, 15, 25, 35}
	for _, l := range latencies {
		c.Record(l, true)
	}

	snap := c.Snapshot()
	if snap.AverageLatencyMs != 20 {
		t.Fatalf("expected arithmetic mean 20, got %v", snap.AverageLatencyMs)
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector()
	c.Record(10, true)
	c.Record(20, false)
	c.Reset()

	snap := c.Snapshot()
	if snap.TotalRequests != 0 || snap.SuccessfulRequests != 0 || snap.FailedRequests != 0 {
		t.Fatalf("expected counters reset, got %+v", snap)
	}
	if c.SampleCount() != 0 {
		t.Fatalf("expected latency window cleared, got %d samples", c.SampleCount())
	}
}

func TestCollectorPercentile(t *testing.T) {
	c := NewCollector()
	for _, l := range []float64{10, 20, 30, 40, 50} {
		c.Record(l, true)
	}

	if p95 := c.Percentile(95); p95 < 40 {
		t.Fatalf("expected p95 >= 40ms, got %v", p95)
	}
	if p0 := c.Percentile(0); p0 != 10 {
		t.Fatalf("expected p0 == 10ms, got %v", p0)
	}
}

func TestCollectorConcurrentRecords(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				c.Record(float64(i), i%2 == 0)
			}
		}(g)
	}
	wg.Wait()

	snap := c.Snapshot()
	if snap.TotalRequests != 2000 {
		t.Fatalf("expected 2000 requests, got %d", snap.TotalRequests)
	}
	if snap.SuccessfulRequests+snap.FailedRequests != snap.TotalRequests {
		t.Fatalf("counter invariant broken: %+v", snap)
	}
	if c.SampleCount() != DefaultMaxSamples {
		t.Fatalf("expected bounded window, got %d", c.SampleCount())
	}
}
