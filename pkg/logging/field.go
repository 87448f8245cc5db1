package logging

import "time"

// LogField creates a Field from a key-value pair.
func LogField(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// StringField creates a Field with a string value.
func StringField(key, value string) Field {
	return Field{Key: key, Value: value}
}

// IntField creates a Field with an integer value.
func IntField(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// BoolField creates a Field with a boolean value.
func BoolField(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// DurationField records a duration in milliseconds under
// key.
func DurationField(key string, d time.Duration) Field {
	return Field{Key: key, Value: d.Milliseconds()}
}

// ErrorField creates a Field for an error value. If err is nil,
// the value is set to the string "<nil>".
func ErrorField(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// stepFields flattens a StepLog into log fields.
func stepFields(s StepLog) []Field {
	fields := []Field{
		{Key: "step", Value: s.Step},
		{Key: "status", Value: s.Status},
		{Key: "duration_ms", Value: s.DurationMs},
	}
	if s.Test != "" {
		fields = append(fields, Field{Key: "test", Value: s.Test})
	}
	if s.Details != "" {
		fields = append(fields, Field{Key: "details", Value: s.Details})
	}
	if s.Attempt > 0 {
		fields = append(fields, Field{Key: "attempt", Value: s.Attempt})
	}
	return fields
}
