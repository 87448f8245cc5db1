package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
)

// HistoricalEntry represents a single run in the historical
// log.
type HistoricalEntry struct {
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	Env       string    `json:"env"`
	Stats     Stats     `json:"stats"`
	Summary   string    `json:"summary"`
	Duration  string    `json:"duration,omitempty"`
}

// NewHistoricalEntry creates an entry for a finished run.
func NewHistoricalEntry(
	env string,
	data ResultData,
	duration time.Duration,
) HistoricalEntry {
	return HistoricalEntry{
		RunID:     uuid.NewString(),
		Timestamp: time.Now(),
		Env:       env,
		Stats:     data.Stats,
		Summary:   data.Summary,
		Duration:  duration.String(),
	}
}

// AppendToHistory adds entry to the historical log stored at
// historyPath. Each entry is a single JSON line. Missing run
// IDs and timestamps are filled in.
func AppendToHistory(
	historyPath string,
	entry HistoricalEntry,
) error {
	if entry.RunID == "" {
		entry.RunID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	file, err := os.OpenFile(historyPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = file.Close() }()

	_, err = fmt.Fprintln(file, string(data))
	return err
}

// ReadHistory returns all entries of the log at historyPath.
// A missing log is empty.
func ReadHistory(historyPath string) ([]HistoricalEntry, error) {
	file, err := os.Open(historyPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var entries []HistoricalEntry
	scanner := bufio.NewScanner(file)
	for line := 1; scanner.Scan(); line++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e HistoricalEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return entries, fmt.Errorf("history line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}
