package step

import "time"

// Status constants for step outcomes.
const (
	StatusPassed   = "passed"
	StatusFailed   = "failed"
	StatusSkipped  = "skipped"
	StatusTimedOut = "timed_out"
	StatusError    = "error"
)

// Result captures the outcome of a step executed by a Runner.
type Result struct {
	// Test is the name of the enclosing test.
	Test string `json:"test,omitempty"`

	// Name is the step name.
	Name string `json:"name"`

	// Status is one of the Status* constants.
	Status string `json:"status"`

	// Attempts is the number of times the step body ran.
	Attempts int `json:"attempts"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	// Error contains the failure message, if any.
	Error string `json:"error,omitempty"`

	// Err is the error returned by the step chain or hook.
	Err error `json:"-"`
}

// Passed reports whether the step passed.
func (r *Result) Passed() bool {
	return r.Status == StatusPassed
}

func (r *Result) finish(status string, err error) *Result {
	r.Status = status
	r.Err = err
	if err != nil {
		r.Error = err.Error()
	}
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	return r
}
