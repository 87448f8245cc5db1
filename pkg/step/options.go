package step

import (
	"time"

	"digital.vasic.webuitest/pkg/logging"
	"digital.vasic.webuitest/pkg/metrics"
	"digital.vasic.webuitest/pkg/monitor"
)

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used by the runner.
func WithLogger(logger logging.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMiddleware appends middleware applied to every step.
// Middleware added first is outermost.
func WithMiddleware(mws ...Middleware) RunnerOption {
	return func(r *Runner) {
		r.middleware = append(r.middleware, mws...)
	}
}

// WithTimeout bounds each step. Zero means no limit.
func WithTimeout(timeout time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = timeout
	}
}

// WithPreHook adds a hook run before each step.
func WithPreHook(h Hook) RunnerOption {
	return func(r *Runner) {
		r.preHooks = append(r.preHooks, h)
	}
}

// WithPostHook adds a hook run after each step.
func WithPostHook(h Hook) RunnerOption {
	return func(r *Runner) {
		r.postHooks = append(r.postHooks, h)
	}
}

// WithEvents publishes skipped steps of RunSequence to
// collector. Use the Events middleware for executed steps.
func WithEvents(collector *monitor.EventCollector) RunnerOption {
	return func(r *Runner) {
		r.events = collector
	}
}

// WithMetrics counts each RunSequence as a run and records
// its skipped steps.
func WithMetrics(recorder metrics.StepMetrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = recorder
	}
}
