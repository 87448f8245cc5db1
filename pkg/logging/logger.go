// Package logging provides structured logging for UI test runs
// with JSON, console, and multi-destination output.
package logging

// Logger defines the interface for structured test-run logging.
type Logger interface {
	// Info logs an informational message.
	Info(msg string, fields ...Field)

	// Warn logs a warning message.
	Warn(msg string, fields ...Field)

	// Error logs an error message.
	Error(msg string, fields ...Field)

	// Debug logs a debug-level message.
	Debug(msg string, fields ...Field)

	// WithFields returns a Logger with additional default
	// fields attached to every subsequent log entry.
	WithFields(fields ...Field) Logger

	// LogStep records the outcome of a single test step.
	LogStep(step StepLog)

	// Close flushes any buffers and releases resources.
	Close() error
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// StepLog captures a test step transition.
type StepLog struct {
	Test       string `json:"test,omitempty"`
	Step       string `json:"step"`
	Status     string `json:"status"`
	Details    string `json:"details,omitempty"`
	Attempt    int    `json:"attempt,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Step status values used in StepLog.
const (
	StepStarted = "started"
	StepPassed  = "passed"
	StepFailed  = "failed"
	StepSkipped = "skipped"
	StepRetry   = "retry"
)

// LogLevel represents logging severity levels.
type LogLevel int

const (
	// LevelDebug is the most verbose level.
	LevelDebug LogLevel = iota
	// LevelInfo is the default level.
	LevelInfo
	// LevelWarn indicates potential issues.
	LevelWarn
	// LevelError indicates failures.
	LevelError
)

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to a LogLevel. Unknown names
// map to LevelInfo.
func ParseLevel(name string) LogLevel {
	switch name {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}
