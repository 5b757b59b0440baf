// Package metrics defines the observability hooks for the front end and a
// Prometheus-backed implementation.
package metrics

import "time"

// CacheResult labels cache lookups for counters.
type CacheResult string

const (
	CacheHit    CacheResult = "hit"
	CacheMiss   CacheResult = "miss"
	CacheBypass CacheResult = "bypass"
)

// Recorder defines observability hooks for request handling and backend
// lookups. Implementations may forward to Prometheus, OpenTelemetry, etc.
// All methods must be safe on the NoopRecorder so injection stays optional.
type Recorder interface {
	ObserveRequestDuration(route string, status int, d time.Duration)
	ObserveLookupDuration(d time.Duration, success bool)
	IncCacheResult(result CacheResult)
	IncCitationLinks(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRequestDuration(string, int, time.Duration) {}
func (NoopRecorder) ObserveLookupDuration(time.Duration, bool)         {}
func (NoopRecorder) IncCacheResult(CacheResult)                        {}
func (NoopRecorder) IncCitationLinks(int)                              {}
