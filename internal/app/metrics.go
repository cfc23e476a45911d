package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts toggle requests.
type Metrics struct {
	requests atomic.Uint64
	failures atomic.Uint64
	changes  atomic.Uint64
	totalNs  atomic.Int64
	maxNs    atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordToggle records a successful toggle and the number of changes it made.
func (m *Metrics) RecordToggle(duration time.Duration, changes int) {
	ns := duration.Nanoseconds()

	m.requests.Add(1)
	m.changes.Add(uint64(changes))
	m.totalNs.Add(ns)

	// Update max (atomic compare-and-swap loop)
	for {
		old := m.maxNs.Load()
		if ns <= old {
			break
		}
		if m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordFailure records a failed request.
func (m *Metrics) RecordFailure() {
	m.requests.Add(1)
	m.failures.Add(1)
}

// Snapshot returns a point-in-time view of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	requests := m.requests.Load()
	failures := m.failures.Load()

	var avg time.Duration
	if ok := requests - failures; ok > 0 {
		avg = time.Duration(m.totalNs.Load() / int64(ok))
	}

	return MetricsSnapshot{
		Uptime:     time.Since(m.startTime),
		Requests:   requests,
		Failures:   failures,
		Changes:    m.changes.Load(),
		AvgLatency: avg,
		MaxLatency: time.Duration(m.maxNs.Load()),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime     time.Duration
	Requests   uint64
	Failures   uint64
	Changes    uint64
	AvgLatency time.Duration
	MaxLatency time.Duration
}

// FailureRate returns the percentage of failed requests.
func (s MetricsSnapshot) FailureRate() float64 {
	if s.Requests == 0 {
		return 0
	}
	return float64(s.Failures) / float64(s.Requests) * 100
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
