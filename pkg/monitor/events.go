package monitor

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of step event.
type EventType string

const (
	EventStepStarted EventType = "step_started"
	EventStepPassed  EventType = "step_passed"
	EventStepFailed  EventType = "step_failed"
	EventStepRetry   EventType = "step_retry"
	EventStepSkipped EventType = "step_skipped"
	EventArtifact    EventType = "artifact"
	EventLog         EventType = "log"
)

// StepEvent represents a lifecycle event of a test step.
type StepEvent struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Test      string        `json:"test,omitempty"`
	Step      string        `json:"step"`
	Status    string        `json:"status,omitempty"`
	Message   string        `json:"message,omitempty"`
	Attempt   int           `json:"attempt,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewStepEvent creates an event with a fresh ID and the
// current time.
func NewStepEvent(typ EventType, test, step string) StepEvent {
	return StepEvent{
		ID:        uuid.NewString(),
		Type:      typ,
		Test:      test,
		Step:      step,
		Timestamp: time.Now(),
	}
}

// Key identifies the step an event belongs to.
func (e StepEvent) Key() string {
	if e.Test == "" {
		return e.Step
	}
	return e.Test + "/" + e.Step
}
