// Package stats tracks request counters and a bounded latency sample
// window for the service metrics endpoint.
package stats

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/sentistack/sentiment-engine/internal/models"
)

// DefaultMaxSamples bounds the latency window.
const DefaultMaxSamples = 1000

// Collector is a thread-safe request counter and latency sampler.
// Counters hold the full process history; latencies keep only the most
// recent DefaultMaxSamples observations, oldest evicted first.
type Collector struct {
	mu         sync.Mutex
	total      int64
	successful int64
	failed     int64
	latencies  []float64
	maxSamples int
	startTime  time.Time
}

// NewCollector creates a collector with the default sample bound.
func NewCollector() *Collector {
	return &Collector{
		maxSamples: DefaultMaxSamples,
		startTime:  time.Now(),
	}
}

// Record registers one completed request. The counter increments and the
// latency append happen under a single lock so readers never observe a
// torn state.
func (c *Collector) Record(latencyMs float64, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	if success {
		c.successful++
	} else {
		c.failed++
	}

	c.latencies = append(c.latencies, latencyMs)
	if len(c.latencies) > c.maxSamples {
		// Drop oldest samples to bound memory.
		overflow := len(c.latencies) - c.maxSamples
		copy(c.latencies[0:], c.latencies[overflow:])
		c.latencies = c.latencies[:c.maxSamples]
	}
}

// Snapshot returns an immutable copy of the counters with derived
// statistics. With no samples recorded the latency stats are zero.
func (c *Collector) Snapshot() models.MetricsSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := models.MetricsSnapshot{
		TotalRequests:      c.total,
		SuccessfulRequests: c.successful,
		FailedRequests:     c.failed,
		UptimeSeconds:      round2(time.Since(c.startTime).Seconds()),
	}
	if c.total > 0 {
		snap.SuccessRate = round2(float64(c.successful) / float64(c.total) * 100)
	}
	if len(c.latencies) == 0 {
		return snap
	}

	sum := 0.0
	min := c.latencies[0]
	max := c.latencies[0]
	for _, l := range c.latencies {
		sum += l
		if l < min {
			min = l
		}
		if l > max {
			max = l
		}
	}
	snap.AverageLatencyMs = round2(sum / float64(len(c.latencies)))
	snap.MinLatencyMs = round2(min)
	snap.MaxLatencyMs = round2(max)
	return snap
}

// Reset zeroes all counters, clears the latency window and restarts the
// uptime clock.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total = 0
	c.successful = 0
	c.failed = 0
	c.latencies = nil
	c.startTime = time.Now()
}

// Percentile returns the percentile (0-100) latency in milliseconds
// over the retained window. Returns zero with no samples.
func (c *Collector) Percentile(p float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.latencies) == 0 {
		return 0
	}

	sorted := append([]float64(nil), c.latencies...)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	index := int((p / 100.0) * float64(len(sorted)-1))
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

// SampleCount reports how many latencies are currently retained.
func (c *Collector) SampleCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.latencies)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
