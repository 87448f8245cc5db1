package report

import (
	"fmt"
	"strings"
)

// Markdown composes the chat notification body for a run.
// Sending it is up to the caller.
func Markdown(env string, data ResultData) string {
	status := "PASSED"
	color := "info"
	if data.Stats.Failed > 0 || data.Stats.Error > 0 {
		status = "FAILED"
		color = "warning"
	} else if data.Stats.Total == 0 {
		status = "NO TESTS"
		color = "comment"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## UI test run: <font color=\"%s\">%s</font>\n", color, status))
	sb.WriteString(fmt.Sprintf("> Environment: %s\n", env))
	sb.WriteString(fmt.Sprintf("> Summary: %s\n", data.Summary))
	if data.Stats.Total > 0 {
		sb.WriteString(fmt.Sprintf("> Pass rate: %.1f%%\n",
			float64(data.Stats.Passed)/float64(data.Stats.Total)*100))
	}
	return sb.String()
}
