package monitor

import (
	"sync"
	"time"
)

// Step states shown on the dashboard.
const (
	StateRunning = "running"
	StatePassed  = "passed"
	StateFailed  = "failed"
	StateSkipped = "skipped"
)

// Dashboard keeps the latest state of every step seen in a
// run.
type Dashboard struct {
	mu        sync.RWMutex
	runID     string
	env       string
	startTime time.Time
	status    string
	steps     map[string]StepState
}

// DashboardSnapshot is a point-in-time copy of a Dashboard.
type DashboardSnapshot struct {
	RunID     string               `json:"run_id"`
	Env       string               `json:"env"`
	StartTime time.Time            `json:"start_time"`
	Status    string               `json:"status"`
	Steps     map[string]StepState `json:"steps"`
	Summary   DashboardSummary     `json:"summary"`
}

// StepState represents the current state of a step.
type StepState struct {
	Test      string        `json:"test,omitempty"`
	Step      string        `json:"step"`
	Status    string        `json:"status"`
	Attempts  int           `json:"attempts"`
	StartTime *time.Time    `json:"start_time,omitempty"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Message   string        `json:"message,omitempty"`
}

// DashboardSummary holds aggregate stats for the dashboard.
type DashboardSummary struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	Skipped  int     `json:"skipped"`
	Running  int     `json:"running"`
	PassRate float64 `json:"pass_rate"`
	Elapsed  string  `json:"elapsed"`
}

// NewDashboard creates an empty dashboard for a run.
func NewDashboard(runID, env string) *Dashboard {
	return &Dashboard{
		runID:     runID,
		env:       env,
		startTime: time.Now(),
		status:    StateRunning,
		steps:     make(map[string]StepState),
	}
}

// UpdateFromEvent updates dashboard state from a step event.
func (d *Dashboard) UpdateFromEvent(event StepEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := event.Key()
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	state, exists := d.steps[key]
	if !exists {
		state = StepState{Test: event.Test, Step: event.Step}
	}

	switch event.Type {
	case EventStepStarted:
		// A retry event already counted this attempt.
		if state.Status != StateRunning {
			state.Attempts++
		}
		state.Status = StateRunning
		state.StartTime = &ts
	case EventStepRetry:
		state.Status = StateRunning
		state.Message = event.Message
		if event.Attempt >= state.Attempts {
			state.Attempts = event.Attempt + 1
		}
	case EventStepPassed:
		state.Status = StatePassed
		state.EndTime = &ts
		state.Duration = event.Duration
		state.Message = ""
	case EventStepFailed:
		state.Status = StateFailed
		state.EndTime = &ts
		state.Duration = event.Duration
		state.Message = event.Message
	case EventStepSkipped:
		state.Status = StateSkipped
		state.Message = event.Message
	default:
		return
	}

	d.steps[key] = state
}

// SetStatus sets the overall run status.
func (d *Dashboard) SetStatus(status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = status
}

// Snapshot returns a copy of the current dashboard state.
func (d *Dashboard) Snapshot() DashboardSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap := DashboardSnapshot{
		RunID:     d.runID,
		Env:       d.env,
		StartTime: d.startTime,
		Status:    d.status,
		Steps:     make(map[string]StepState, len(d.steps)),
	}
	for k, v := range d.steps {
		snap.Steps[k] = v
		snap.Summary.Total++
		switch v.Status {
		case StatePassed:
			snap.Summary.Passed++
		case StateFailed:
			snap.Summary.Failed++
		case StateSkipped:
			snap.Summary.Skipped++
		case StateRunning:
			snap.Summary.Running++
		}
	}
	if done := snap.Summary.Passed + snap.Summary.Failed; done > 0 {
		snap.Summary.PassRate = float64(snap.Summary.Passed) / float64(done) * 100
	}
	snap.Summary.Elapsed = time.Since(d.startTime).Round(time.Millisecond).String()
	return snap
}

// BuildDashboard creates a Dashboard by replaying all events
// of collector.
func BuildDashboard(
	collector *EventCollector,
	runID, env string,
) *Dashboard {
	d := NewDashboard(runID, env)
	for _, event := range collector.Events() {
		d.UpdateFromEvent(event)
	}
	return d
}
