package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_UpdateFromEvent(t *testing.T) {
	d := NewDashboard("run-1", "test")

	d.UpdateFromEvent(NewStepEvent(EventStepStarted, "login", "open"))
	snap := d.Snapshot()
	require.Contains(t, snap.Steps, "login/open")
	assert.Equal(t, StateRunning, snap.Steps["login/open"].Status)
	assert.Equal(t, 1, snap.Summary.Running)

	passed := NewStepEvent(EventStepPassed, "login", "open")
	passed.Duration = 2 * time.Second
	d.UpdateFromEvent(passed)

	d.UpdateFromEvent(NewStepEvent(EventStepStarted, "login", "submit"))
	failed := NewStepEvent(EventStepFailed, "login", "submit")
	failed.Message = "boom"
	d.UpdateFromEvent(failed)

	snap = d.Snapshot()
	assert.Equal(t, "run-1", snap.RunID)
	assert.Equal(t, "test", snap.Env)
	assert.Equal(t, StatePassed, snap.Steps["login/open"].Status)
	assert.Equal(t, 2*time.Second, snap.Steps["login/open"].Duration)
	assert.NotNil(t, snap.Steps["login/open"].EndTime)
	assert.Equal(t, "boom", snap.Steps["login/submit"].Message)
	assert.Equal(t, 2, snap.Summary.Total)
	assert.Equal(t, 1, snap.Summary.Passed)
	assert.Equal(t, 1, snap.Summary.Failed)
	assert.InDelta(t, 50.0, snap.Summary.PassRate, 0.001)
}

func TestDashboard_RetryCountsAttempts(t *testing.T) {
	d := NewDashboard("run", "dev")
	d.UpdateFromEvent(NewStepEvent(EventStepStarted, "t", "s"))
	retry := NewStepEvent(EventStepRetry, "t", "s")
	retry.Message = "flaky"
	retry.Attempt = 1
	d.UpdateFromEvent(retry)
	d.UpdateFromEvent(NewStepEvent(EventStepStarted, "t", "s"))
	d.UpdateFromEvent(NewStepEvent(EventStepPassed, "t", "s"))

	state := d.Snapshot().Steps["t/s"]
	assert.Equal(t, 2, state.Attempts)
	assert.Equal(t, StatePassed, state.Status)
	assert.Empty(t, state.Message)
}

func TestDashboard_RetriesWithoutRestartEvents(t *testing.T) {
	d := NewDashboard("run", "dev")
	d.UpdateFromEvent(NewStepEvent(EventStepStarted, "t", "s"))
	for attempt := 1; attempt <= 2; attempt++ {
		retry := NewStepEvent(EventStepRetry, "t", "s")
		retry.Attempt = attempt
		d.UpdateFromEvent(retry)
	}
	d.UpdateFromEvent(NewStepEvent(EventStepPassed, "t", "s"))

	assert.Equal(t, 3, d.Snapshot().Steps["t/s"].Attempts)
}

func TestDashboard_SkippedStep(t *testing.T) {
	c := NewEventCollector()
	c.EmitSkipped("t", "confirm", `previous step "pay" failed`)
	d := BuildDashboard(c, "run", "dev")

	state := d.Snapshot().Steps["t/confirm"]
	assert.Equal(t, StateSkipped, state.Status)
	assert.Equal(t, `previous step "pay" failed`, state.Message)
	assert.Equal(t, 1, c.Stats().Skipped)
}

func TestDashboard_IgnoresOtherEvents(t *testing.T) {
	d := NewDashboard("run", "dev")
	d.UpdateFromEvent(NewStepEvent(EventLog, "t", "s"))
	assert.Empty(t, d.Snapshot().Steps)
}

func TestDashboard_SnapshotIsCopy(t *testing.T) {
	d := NewDashboard("run", "dev")
	d.UpdateFromEvent(NewStepEvent(EventStepStarted, "t", "s"))

	snap := d.Snapshot()
	delete(snap.Steps, "t/s")

	assert.Len(t, d.Snapshot().Steps, 1)
}

func TestDashboard_SetStatus(t *testing.T) {
	d := NewDashboard("run", "dev")
	d.SetStatus("completed")
	assert.Equal(t, "completed", d.Snapshot().Status)
}

func TestBuildDashboard(t *testing.T) {
	c := NewEventCollector()
	c.EmitStarted("t", "a")
	c.EmitPassed("t", "a", 0)
	c.EmitStarted("t", "b")

	d := BuildDashboard(c, "replay", "test")
	snap := d.Snapshot()

	assert.Equal(t, 2, snap.Summary.Total)
	assert.Equal(t, 1, snap.Summary.Passed)
	assert.Equal(t, 1, snap.Summary.Running)
}
