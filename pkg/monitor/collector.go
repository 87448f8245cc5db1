package monitor

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventCollector captures step events and timing data.
type EventCollector struct {
	mu       sync.RWMutex
	events   []StepEvent
	handlers []func(StepEvent)
	stats    CollectorStats
}

// CollectorStats holds aggregate statistics.
type CollectorStats struct {
	Total     int           `json:"total"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Retried   int           `json:"retried"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events: make([]StepEvent, 0, 64),
		stats:  CollectorStats{StartTime: time.Now()},
	}
}

// OnEvent registers a handler to be called for each event.
// Handlers run synchronously on the emitting goroutine.
func (c *EventCollector) OnEvent(handler func(StepEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers.
func (c *EventCollector) Emit(event StepEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	switch event.Type {
	case EventStepPassed:
		c.stats.Total++
		c.stats.Passed++
	case EventStepFailed:
		c.stats.Total++
		c.stats.Failed++
	case EventStepSkipped:
		c.stats.Total++
		c.stats.Skipped++
	case EventStepRetry:
		c.stats.Retried++
	}
	c.stats.Duration = time.Since(c.stats.StartTime)
	handlers := make([]func(StepEvent), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// EmitStarted emits a step started event.
func (c *EventCollector) EmitStarted(test, step string) {
	c.Emit(NewStepEvent(EventStepStarted, test, step))
}

// EmitPassed emits a step passed event.
func (c *EventCollector) EmitPassed(test, step string, duration time.Duration) {
	e := NewStepEvent(EventStepPassed, test, step)
	e.Status = "passed"
	e.Duration = duration
	c.Emit(e)
}

// EmitFailed emits a step failed event.
func (c *EventCollector) EmitFailed(test, step, msg string, duration time.Duration) {
	e := NewStepEvent(EventStepFailed, test, step)
	e.Status = "failed"
	e.Message = msg
	e.Duration = duration
	c.Emit(e)
}

// EmitSkipped emits a step skipped event with the reason.
func (c *EventCollector) EmitSkipped(test, step, reason string) {
	e := NewStepEvent(EventStepSkipped, test, step)
	e.Status = "skipped"
	e.Message = reason
	c.Emit(e)
}

// EmitRetry emits a retry event for the given attempt.
func (c *EventCollector) EmitRetry(test, step string, attempt int, msg string) {
	e := NewStepEvent(EventStepRetry, test, step)
	e.Status = "retry"
	e.Attempt = attempt
	e.Message = msg
	c.Emit(e)
}

// Events returns a copy of all collected events.
func (c *EventCollector) Events() []StepEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]StepEvent, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// Reset clears all collected events and statistics.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{StartTime: time.Now()}
}
