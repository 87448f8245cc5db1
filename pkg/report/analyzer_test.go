package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runnerOutput = `
============================= test session starts ==============================
collected 8 items

tests/userpage/test_profile.py::TestProfile::test_login_success PASSED    [ 12%]
tests/userpage/test_profile.py::TestProfile::test_login_failed FAILED     [ 25%]

========================== 5 passed, 1 failed, 1 skipped, 1 error in 45.2s ==========================
`

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   Stats
	}{
		{
			name:   "full summary line",
			output: runnerOutput,
			want:   Stats{Passed: 5, Failed: 1, Skipped: 1, Error: 1, Total: 8},
		},
		{
			name:   "case insensitive",
			output: "3 PASSED, 2 Failed",
			want:   Stats{Passed: 3, Failed: 2, Total: 5},
		},
		{
			name:   "last count wins",
			output: "1 passed\n...\n4 passed, 1 skipped",
			want:   Stats{Passed: 4, Skipped: 1, Total: 5},
		},
		{
			name:   "plural errors still count",
			output: "2 passed, 3 errors in 1.0s",
			want:   Stats{Passed: 2, Error: 3, Total: 5},
		},
		{
			name:   "no matches",
			output: "no tests ran in 0.01s",
			want:   Stats{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOutput(tt.output))
		})
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t, MsgNoTests, Summary(Stats{}))
	assert.Equal(t, "total 8, passed 5, failed 1, errors 1, skipped 1",
		Summary(Stats{Passed: 5, Failed: 1, Skipped: 1, Error: 1, Total: 8}))
}

func TestResultLine(t *testing.T) {
	data := NewResultData(Stats{Passed: 2, Total: 2})

	line := ResultLine(data)

	require.True(t, strings.HasPrefix(line, "TEST_RESULT_JSON: {"))
	var decoded ResultData
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, ResultLinePrefix)), &decoded))
	assert.Equal(t, data, decoded)
	assert.Contains(t, line, `"summary":"total 2, passed 2, failed 0, errors 0, skipped 0"`)
}

func TestParseResultLine(t *testing.T) {
	data := NewResultData(Stats{Failed: 1, Total: 1})

	got, err := ParseResultLine("[ci] " + ResultLine(data))
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = ParseResultLine("nothing here")
	assert.Error(t, err)

	_, err = ParseResultLine(ResultLinePrefix + "{broken")
	assert.ErrorContains(t, err, "parse result line")
}

func TestAnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner_output.txt")
	require.NoError(t, os.WriteFile(path, []byte(runnerOutput), 0o644))

	stats, summary := AnalyzeFile(path)
	assert.Equal(t, 8, stats.Total)
	assert.Equal(t, Summary(stats), summary)

	stats, summary = AnalyzeFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, Stats{}, stats)
	assert.Equal(t, MsgNoOutputFile, summary)

	stats, summary = AnalyzeFile(t.TempDir())
	assert.Equal(t, Stats{}, stats)
	assert.True(t, strings.HasPrefix(summary, "analysis failed"))
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "test_results.json")
	data := NewResultData(ParseOutput(runnerOutput))

	require.NoError(t, Save(data, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded ResultData
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, data, decoded)
}
