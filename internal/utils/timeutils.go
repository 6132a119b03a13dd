package utils

import (
	"math"
	"time"
)

// UTCTimestamp formats the current moment for API response payloads.
func UTCTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// LatencyMs converts an elapsed duration into milliseconds rounded to
// two decimals, matching the precision reported to clients.
func LatencyMs(d time.Duration) float64 {
	if d < 0 {
		d = 0
	}
	ms := float64(d) / float64(time.Millisecond)
	return math.Round(ms*100) / 100
}
