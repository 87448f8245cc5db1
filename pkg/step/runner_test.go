package step

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.webuitest/pkg/logging"
	"digital.vasic.webuitest/pkg/metrics"
	"digital.vasic.webuitest/pkg/monitor"
)

func TestRunner_Passed(t *testing.T) {
	r := NewRunner()
	res := r.Run(context.Background(), "login", "open", &fakePage{}, pass)

	assert.True(t, res.Passed())
	assert.Equal(t, "login", res.Test)
	assert.Equal(t, "open", res.Name)
	assert.Equal(t, 1, res.Attempts)
	assert.Empty(t, res.Error)
	assert.False(t, res.EndTime.Before(res.StartTime))
}

func TestRunner_Failed(t *testing.T) {
	res := NewRunner().Run(context.Background(), "t", "s", nil, fail)

	assert.Equal(t, StatusFailed, res.Status)
	assert.ErrorIs(t, res.Err, errStep)
	assert.Equal(t, "element not found", res.Error)
}

func TestRunner_MiddlewareApplied(t *testing.T) {
	shooter := &fakeShooter{}
	calls := 0
	r := NewRunner(WithMiddleware(
		Screenshot(shooter, nil),
		Retry(2, time.Millisecond, nil),
	))

	res := r.Run(context.Background(), "t", "s", &fakePage{},
		func(context.Context, *Context) error {
			calls++
			if calls == 1 {
				return errStep
			}
			return nil
		})

	assert.True(t, res.Passed())
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, []string{"t|s_success"}, shooter.calls)
}

func TestRunner_PreHookFailure(t *testing.T) {
	ran := false
	r := NewRunner(WithPreHook(func(context.Context, *Context) error {
		return errors.New("not logged in")
	}))

	res := r.Run(context.Background(), "t", "s", nil,
		func(context.Context, *Context) error {
			ran = true
			return nil
		})

	assert.False(t, ran)
	assert.Equal(t, StatusError, res.Status)
	assert.Contains(t, res.Error, "pre-hook failed: not logged in")
}

func TestRunner_PostHooks(t *testing.T) {
	var buf bytes.Buffer
	var seen []int
	r := NewRunner(
		WithLogger(logging.NewConsoleLoggerTo(&buf, false)),
		WithMiddleware(Retry(1, time.Millisecond, nil)),
		WithPostHook(func(_ context.Context, sc *Context) error {
			seen = append(seen, sc.Attempt)
			return errors.New("cleanup failed")
		}),
	)

	res := r.Run(context.Background(), "t", "s", nil, fail)

	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, []int{2}, seen)
	assert.Contains(t, buf.String(), "post-hook failed")
}

func TestRunner_Timeout(t *testing.T) {
	r := NewRunner(WithTimeout(20 * time.Millisecond))

	res := r.Run(context.Background(), "t", "slow", nil,
		func(ctx context.Context, _ *Context) error {
			<-ctx.Done()
			return ctx.Err()
		})

	assert.Equal(t, StatusTimedOut, res.Status)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}

func TestRunner_RunSequence(t *testing.T) {
	r := NewRunner()
	var ran []string
	record := func(name string, err error) Handler {
		return func(context.Context, *Context) error {
			ran = append(ran, name)
			return err
		}
	}

	results := r.RunSequence(context.Background(), "checkout", nil, []Step{
		{Name: "open", Fn: record("open", nil)},
		{Name: "pay", Fn: record("pay", errStep)},
		{Name: "confirm", Fn: record("confirm", nil)},
	})

	require.Len(t, results, 3)
	assert.Equal(t, []string{"open", "pay"}, ran)
	assert.Equal(t, StatusPassed, results[0].Status)
	assert.Equal(t, StatusFailed, results[1].Status)
	assert.Equal(t, StatusSkipped, results[2].Status)
	assert.Equal(t, `previous step "pay" failed`, results[2].Error)
}

func TestRunner_RunSequenceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewRunner().RunSequence(ctx, "t", nil, []Step{
		{Name: "a", Fn: pass},
	})

	require.Len(t, results, 1)
	assert.Equal(t, StatusSkipped, results[0].Status)
	assert.Equal(t, "context cancelled", results[0].Error)
}

func TestRunner_RetriesReachCollector(t *testing.T) {
	c := monitor.NewEventCollector()
	m := metrics.NewInMemory()
	r := NewRunner(WithMiddleware(Events(c), Metrics(m), Retry(2, 0, nil)))

	calls := 0
	flaky := func(context.Context, *Context) error {
		calls++
		if calls < 3 {
			return errStep
		}
		return nil
	}
	res := r.Run(context.Background(), "login", "submit", nil, flaky)

	assert.Equal(t, StatusPassed, res.Status)
	assert.Equal(t, 3, res.Attempts)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Passed)
	assert.Equal(t, 2, stats.Retried)

	var attempts []int
	for _, e := range c.Events() {
		if e.Type == monitor.EventStepRetry {
			attempts = append(attempts, e.Attempt)
			assert.Equal(t, errStep.Error(), e.Message)
		}
	}
	assert.Equal(t, []int{1, 2}, attempts)

	dash := monitor.BuildDashboard(c, "run", "test").Snapshot()
	assert.Equal(t, 3, dash.Steps["login/submit"].Attempts)
}

func TestRunner_RunSequencePublishesSkips(t *testing.T) {
	c := monitor.NewEventCollector()
	m := metrics.NewInMemory()
	r := NewRunner(
		WithMiddleware(Events(c), Metrics(m)),
		WithEvents(c),
		WithMetrics(m),
	)

	results := r.RunSequence(context.Background(), "checkout", nil, []Step{
		{Name: "pay", Fn: fail},
		{Name: "confirm", Fn: pass},
	})

	require.Len(t, results, 2)
	assert.Equal(t, StatusSkipped, results[1].Status)

	stats := c.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Skipped)

	events := c.Events()
	last := events[len(events)-1]
	assert.Equal(t, monitor.EventStepSkipped, last.Type)
	assert.Equal(t, "confirm", last.Step)
	assert.Equal(t, `previous step "pay" failed`, last.Message)

	assert.Equal(t, 1, m.RunTotal())
	assert.Equal(t, 1, m.StepCount("checkout", "confirm", StatusSkipped))
	assert.Equal(t, 1, m.StepCount("checkout", "pay", StatusFailed))
}
