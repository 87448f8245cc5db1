// Package metrics records step and artifact counters for a
// test run.
package metrics

import "time"

// StepMetrics defines the interface for recording step
// metrics.
type StepMetrics interface {
	// RecordStep records one finished step attempt chain.
	RecordStep(test, step, status string, duration time.Duration)
	// RecordArtifact records a saved artifact of the given
	// kind, e.g. "screenshot" or "video".
	RecordArtifact(kind string)
	// IncrementRunTotal increments the total run counter.
	IncrementRunTotal()
}

// NoopMetrics is a no-op implementation of StepMetrics
// useful for testing or when metrics collection is disabled.
type NoopMetrics struct{}

// RecordStep does nothing.
func (NoopMetrics) RecordStep(_, _, _ string, _ time.Duration) {}

// RecordArtifact does nothing.
func (NoopMetrics) RecordArtifact(_ string) {}

// IncrementRunTotal does nothing.
func (NoopMetrics) IncrementRunTotal() {}

// OrNoop returns m, or NoopMetrics when m is nil.
func OrNoop(m StepMetrics) StepMetrics {
	if m == nil {
		return NoopMetrics{}
	}
	return m
}
