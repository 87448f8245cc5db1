package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// jsonMarshal is a variable for dependency injection in tests.
var jsonMarshal = json.Marshal

// Rotation defaults for file output.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxAgeDays = 7
)

// LogEntry represents a single JSON log entry.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// LoggerConfig configures the JSONLogger.
type LoggerConfig struct {
	// OutputPath is the log file. Empty means stdout.
	OutputPath string
	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB int
	// MaxAgeDays is how long rotated files are retained.
	MaxAgeDays int
	// Compress gzips rotated files.
	Compress bool
	Level    LogLevel
	Verbose  bool
	Fields   map[string]any
}

// jsonSink is the shared, lock-protected destination of a
// JSONLogger and all loggers derived from it.
type jsonSink struct {
	mu     sync.Mutex
	output io.Writer
	closed bool
}

// JSONLogger implements Logger with JSON Lines output.
type JSONLogger struct {
	sink    *jsonSink
	level   LogLevel
	fields  map[string]any
	verbose bool
}

// NewJSONLogger creates a new JSON logger. If OutputPath is
// empty, logs are written to stdout; otherwise the file is
// rotated by size and age.
func NewJSONLogger(config LoggerConfig) (*JSONLogger, error) {
	logger := &JSONLogger{
		sink:    &jsonSink{output: os.Stdout},
		level:   config.Level,
		verbose: config.Verbose,
		fields:  config.Fields,
	}
	if logger.fields == nil {
		logger.fields = make(map[string]any)
	}

	if config.OutputPath != "" {
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0o755); err != nil {
			return nil, fmt.Errorf(
				"failed to create log directory: %w", err,
			)
		}
		maxSize := config.MaxSizeMB
		if maxSize <= 0 {
			maxSize = DefaultMaxSizeMB
		}
		maxAge := config.MaxAgeDays
		if maxAge <= 0 {
			maxAge = DefaultMaxAgeDays
		}
		logger.sink.output = &lumberjack.Logger{
			Filename: config.OutputPath,
			MaxSize:  maxSize,
			MaxAge:   maxAge,
			Compress: config.Compress,
		}
	}

	return logger, nil
}

func (l *JSONLogger) log(
	level LogLevel, msg string, fields ...Field,
) {
	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
		Fields:    make(map[string]any, len(l.fields)+len(fields)),
	}
	for k, v := range l.fields {
		entry.Fields[k] = v
	}
	for _, f := range fields {
		entry.Fields[f.Key] = f.Value
	}

	data, err := jsonMarshal(entry)
	if err != nil {
		return
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.closed {
		return
	}
	fmt.Fprintln(l.sink.output, string(data))
}

// Info logs an informational message.
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(LevelError, msg, fields...)
}

// Debug logs a debug message only if verbose is enabled.
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	if l.verbose {
		l.log(LevelDebug, msg, fields...)
	}
}

// WithFields returns a new Logger with additional default
// fields.
func (l *JSONLogger) WithFields(fields ...Field) Logger {
	newFields := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for _, f := range fields {
		newFields[f.Key] = f.Value
	}
	return &JSONLogger{
		sink:    l.sink,
		level:   l.level,
		verbose: l.verbose,
		fields:  newFields,
	}
}

// LogStep writes a step entry. Failed steps are logged at
// error level.
func (l *JSONLogger) LogStep(step StepLog) {
	level := LevelInfo
	if step.Status == StepFailed {
		level = LevelError
	}
	l.log(level, "step", stepFields(step)...)
}

// Close flushes and closes the underlying writer. Loggers
// derived with WithFields share the writer and stop writing
// too.
func (l *JSONLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.closed {
		return nil
	}
	l.sink.closed = true

	if closer, ok := l.sink.output.(io.Closer); ok &&
		l.sink.output != os.Stdout {
		return closer.Close()
	}
	return nil
}

// Setup creates the standard logger for a run: colored console
// output plus a rotated JSON log file "test.log" in logsDir.
func Setup(
	logsDir string,
	verbose bool,
) (Logger, error) {
	level := LevelInfo
	if verbose {
		level = LevelDebug
	}
	file, err := NewJSONLogger(LoggerConfig{
		OutputPath: filepath.Join(logsDir, "test.log"),
		Compress:   true,
		Level:      level,
		Verbose:    verbose,
	})
	if err != nil {
		return nil, err
	}
	return NewMultiLogger(NewConsoleLogger(verbose), file), nil
}
