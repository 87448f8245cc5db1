package step

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digital.vasic.webuitest/pkg/logging"
	"digital.vasic.webuitest/pkg/metrics"
	"digital.vasic.webuitest/pkg/monitor"
)

// Hook is invoked before or after a step. Post hooks see the
// final attempt number in sc.
type Hook func(ctx context.Context, sc *Context) error

// Step is a named step body for RunSequence.
type Step struct {
	Name string
	Fn   Handler
}

// Runner executes steps through its middleware chain and
// hooks.
type Runner struct {
	logger     logging.Logger
	middleware []Middleware
	preHooks   []Hook
	postHooks  []Hook
	timeout    time.Duration
	events     *monitor.EventCollector
	metrics    metrics.StepMetrics
}

// NewRunner creates a Runner with the supplied options.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrNull(r.logger)
	r.metrics = metrics.OrNoop(r.metrics)
	return r
}

// Run executes fn as step name of test on page. A failing pre
// hook marks the step as error without running it. Post hook
// failures are logged and do not change the result.
func (r *Runner) Run(
	ctx context.Context,
	test, name string,
	page Page,
	fn Handler,
) *Result {
	result := &Result{
		Test:      test,
		Name:      name,
		StartTime: time.Now(),
	}
	sc := &Context{Test: test, Name: name, Page: page, Attempt: 1}

	for _, hook := range r.preHooks {
		if err := hook(ctx, sc); err != nil {
			r.logger.Error("pre-hook failed",
				logging.StringField("step", name),
				logging.ErrorField(err))
			return result.finish(StatusError,
				fmt.Errorf("pre-hook failed: %w", err))
		}
	}

	execCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	err := Chain(fn, r.middleware...)(execCtx, sc)
	result.Attempts = sc.Attempt

	for _, hook := range r.postHooks {
		if hookErr := hook(ctx, sc); hookErr != nil {
			r.logger.Warn("post-hook failed",
				logging.StringField("step", name),
				logging.ErrorField(hookErr))
		}
	}

	switch {
	case err == nil:
		return result.finish(StatusPassed, nil)
	case r.timeout > 0 && errors.Is(execCtx.Err(), context.DeadlineExceeded):
		return result.finish(StatusTimedOut, err)
	default:
		return result.finish(StatusFailed, err)
	}
}

// RunSequence runs steps in order as one run of test. Once a
// step does not pass, the remaining steps are reported as
// skipped.
func (r *Runner) RunSequence(
	ctx context.Context,
	test string,
	page Page,
	steps []Step,
) []*Result {
	r.metrics.IncrementRunTotal()
	results := make([]*Result, 0, len(steps))
	failed := ""
	for _, s := range steps {
		if failed == "" && ctx.Err() != nil {
			failed = "context cancelled"
		}
		if failed != "" {
			skipped := &Result{Test: test, Name: s.Name, StartTime: time.Now()}
			skipped.finish(StatusSkipped, nil)
			skipped.Error = failed
			r.logger.LogStep(logging.StepLog{
				Test: test, Step: s.Name,
				Status: logging.StepSkipped, Details: skipped.Error,
			})
			r.metrics.RecordStep(test, s.Name, StatusSkipped, 0)
			if r.events != nil {
				r.events.EmitSkipped(test, s.Name, skipped.Error)
			}
			results = append(results, skipped)
			continue
		}

		res := r.Run(ctx, test, s.Name, page, s.Fn)
		results = append(results, res)
		if !res.Passed() {
			failed = fmt.Sprintf("previous step %q %s", s.Name, res.Status)
		}
	}
	return results
}
