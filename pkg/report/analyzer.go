// Package report turns test runner output and step results
// into statistics, CI result lines, run summaries and a run
// history.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ResultLinePrefix marks the machine-readable result line
// printed for CI jobs.
const ResultLinePrefix = "TEST_RESULT_JSON: "

// Messages returned by Summary and AnalyzeFile.
const (
	MsgNoTests      = "no test cases found"
	MsgNoOutputFile = "test output file not found"
)

// countPattern matches counts such as "3 passed" or
// "1 error" in a runner summary line.
var countPattern = regexp.MustCompile(`(?i)(\d+)\s+(passed|failed|skipped|error)`)

// Stats holds test outcome counts.
type Stats struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Error   int `json:"error"`
	Total   int `json:"total"`
}

// ResultData is the JSON document handed to CI.
type ResultData struct {
	Stats   Stats  `json:"stats"`
	Summary string `json:"summary"`
}

// ParseOutput extracts outcome counts from test runner
// output. When a status appears more than once the last
// count wins. Total is the sum of the four counts.
func ParseOutput(output string) Stats {
	var s Stats
	for _, m := range countPattern.FindAllStringSubmatch(output, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		switch strings.ToLower(m[2]) {
		case "passed":
			s.Passed = n
		case "failed":
			s.Failed = n
		case "skipped":
			s.Skipped = n
		case "error":
			s.Error = n
		}
	}
	s.Total = s.Passed + s.Failed + s.Skipped + s.Error
	return s
}

// Summary returns a one-line description of s.
func Summary(s Stats) string {
	if s.Total == 0 {
		return MsgNoTests
	}
	return fmt.Sprintf("total %d, passed %d, failed %d, errors %d, skipped %d",
		s.Total, s.Passed, s.Failed, s.Error, s.Skipped)
}

// NewResultData pairs s with its summary.
func NewResultData(s Stats) ResultData {
	return ResultData{Stats: s, Summary: Summary(s)}
}

// ResultLine renders data as a single TEST_RESULT_JSON line.
func ResultLine(data ResultData) string {
	b, err := json.Marshal(data)
	if err != nil {
		// Stats and strings always marshal.
		return ResultLinePrefix + "{}"
	}
	return ResultLinePrefix + string(b)
}

// ParseResultLine extracts the ResultData from a line
// produced by ResultLine.
func ParseResultLine(line string) (ResultData, error) {
	idx := strings.Index(line, ResultLinePrefix)
	if idx < 0 {
		return ResultData{}, fmt.Errorf("no %q prefix", strings.TrimSpace(ResultLinePrefix))
	}
	var data ResultData
	if err := json.Unmarshal([]byte(line[idx+len(ResultLinePrefix):]), &data); err != nil {
		return ResultData{}, fmt.Errorf("parse result line: %w", err)
	}
	return data, nil
}

// AnalyzeFile parses runner output stored at path. A missing
// or unreadable file yields zero stats and a message saying
// why.
func AnalyzeFile(path string) (Stats, string) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Stats{}, MsgNoOutputFile
	}
	if err != nil {
		return Stats{}, fmt.Sprintf("analysis failed: %v", err)
	}
	s := ParseOutput(string(data))
	return s, Summary(s)
}

// Save writes data as indented JSON to path, creating parent
// directories.
func Save(data ResultData, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
