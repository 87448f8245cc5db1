package metrics

import (
	"sort"
	"sync"
	"time"
)

// InMemory implements StepMetrics with mutex guarded
// counters.
type InMemory struct {
	mu        sync.RWMutex
	steps     map[string]int
	statuses  map[string]int
	durations map[string][]time.Duration
	artifacts map[string]int
	runTotal  int
}

// NewInMemory creates an empty InMemory recorder.
func NewInMemory() *InMemory {
	return &InMemory{
		steps:     make(map[string]int),
		statuses:  make(map[string]int),
		durations: make(map[string][]time.Duration),
		artifacts: make(map[string]int),
	}
}

func stepKey(test, step string) string {
	return test + "/" + step
}

func (m *InMemory) RecordStep(test, step, status string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := stepKey(test, step)
	m.steps[key+":"+status]++
	m.statuses[status]++
	m.durations[key] = append(m.durations[key], duration)
}

func (m *InMemory) RecordArtifact(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifacts[kind]++
}

func (m *InMemory) IncrementRunTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runTotal++
}

// StepCount returns the count for a test+step+status
// combination.
func (m *InMemory) StepCount(test, step, status string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.steps[stepKey(test, step)+":"+status]
}

// StatusCount returns how many steps finished with status.
func (m *InMemory) StatusCount(status string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.statuses[status]
}

// Durations returns the recorded durations of a step.
func (m *InMemory) Durations(test, step string) []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d := m.durations[stepKey(test, step)]
	out := make([]time.Duration, len(d))
	copy(out, d)
	return out
}

// ArtifactCount returns the number of saved artifacts of kind.
func (m *InMemory) ArtifactCount(kind string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.artifacts[kind]
}

// RunTotal returns the total number of runs.
func (m *InMemory) RunTotal() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.runTotal
}

// Steps returns the sorted keys of every recorded step.
func (m *InMemory) Steps() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.durations))
	for k := range m.durations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
