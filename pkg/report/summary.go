package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"digital.vasic.webuitest/pkg/step"
)

// RunSummary aggregates the step results of a run.
type RunSummary struct {
	ID            string        `json:"id"`
	Env           string        `json:"env"`
	GeneratedAt   time.Time     `json:"generated_at"`
	Steps         []StepSummary `json:"steps"`
	Stats         Stats         `json:"stats"`
	TotalDuration time.Duration `json:"total_duration"`
	PassRate      float64       `json:"pass_rate"`
}

// StepSummary represents a summary of a single step.
type StepSummary struct {
	Test     string        `json:"test,omitempty"`
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Attempts int           `json:"attempts"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// BuildRunSummary creates a summary from step results.
// Timed-out steps count as errors.
func BuildRunSummary(
	env string,
	results []*step.Result,
) *RunSummary {
	summary := &RunSummary{
		ID:          uuid.NewString(),
		Env:         env,
		GeneratedAt: time.Now(),
		Steps:       make([]StepSummary, 0, len(results)),
	}

	for _, r := range results {
		summary.Steps = append(summary.Steps, StepSummary{
			Test:     r.Test,
			Name:     r.Name,
			Status:   r.Status,
			Attempts: r.Attempts,
			Duration: r.Duration,
			Error:    r.Error,
		})
		summary.TotalDuration += r.Duration

		switch r.Status {
		case step.StatusPassed:
			summary.Stats.Passed++
		case step.StatusFailed:
			summary.Stats.Failed++
		case step.StatusSkipped:
			summary.Stats.Skipped++
		default:
			summary.Stats.Error++
		}
	}
	summary.Stats.Total = len(results)

	if summary.Stats.Total > 0 {
		summary.PassRate = float64(summary.Stats.Passed) /
			float64(summary.Stats.Total)
	}
	return summary
}

// ResultData returns the CI result document of the summary.
func (s *RunSummary) ResultData() ResultData {
	return NewResultData(s.Stats)
}

// SaveRunSummary saves the summary to both JSON and Markdown
// files in outputDir and points latest_summary.* at them.
func SaveRunSummary(
	summary *RunSummary,
	outputDir string,
) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonPath := filepath.Join(outputDir, fmt.Sprintf("run_summary_%s.json", ts))
	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write JSON summary: %w", err)
	}

	mdPath := filepath.Join(outputDir, fmt.Sprintf("run_summary_%s.md", ts))
	if err := os.WriteFile(mdPath, []byte(summaryMarkdown(summary)), 0o644); err != nil {
		return fmt.Errorf("failed to write Markdown summary: %w", err)
	}

	latestJSON := filepath.Join(outputDir, "latest_summary.json")
	latestMD := filepath.Join(outputDir, "latest_summary.md")

	_ = os.Remove(latestJSON)
	_ = os.Remove(latestMD)
	_ = os.Symlink(filepath.Base(jsonPath), latestJSON)
	_ = os.Symlink(filepath.Base(mdPath), latestMD)

	return nil
}

func summaryMarkdown(summary *RunSummary) string {
	var sb strings.Builder

	sb.WriteString("# UI Test Run Summary\n\n")
	sb.WriteString(fmt.Sprintf("**Run ID:** %s\n\n", summary.ID))
	sb.WriteString(fmt.Sprintf("**Environment:** %s\n\n", summary.Env))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n",
		summary.GeneratedAt.Format(time.RFC3339)))

	sb.WriteString("## Steps\n\n")
	sb.WriteString("| Test | Step | Status | Attempts | Duration |\n")
	sb.WriteString("|------|------|--------|----------|----------|\n")
	for _, s := range summary.Steps {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %v |\n",
			s.Test, s.Name, strings.ToUpper(s.Status), s.Attempts, s.Duration))
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total | %d |\n", summary.Stats.Total))
	sb.WriteString(fmt.Sprintf("| Passed | %d |\n", summary.Stats.Passed))
	sb.WriteString(fmt.Sprintf("| Failed | %d |\n", summary.Stats.Failed))
	sb.WriteString(fmt.Sprintf("| Errors | %d |\n", summary.Stats.Error))
	sb.WriteString(fmt.Sprintf("| Skipped | %d |\n", summary.Stats.Skipped))
	sb.WriteString(fmt.Sprintf("| Pass Rate | %.0f%% |\n", summary.PassRate*100))
	sb.WriteString(fmt.Sprintf("| Total Duration | %v |\n", summary.TotalDuration))

	return sb.String()
}
