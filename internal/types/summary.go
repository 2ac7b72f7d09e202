package types

import (
	"fmt"
	"time"
)

// RunSummary aggregates the outcome of one orchestrator invocation.
// It is produced once at the end of a run and never mutated afterwards.
type RunSummary struct {
	RunID   string `json:"run_id"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
	Pending int    `json:"pending"`

	// InvalidRows counts spreadsheet rows rejected before the pipeline
	// (missing or malformed email), reported but never fatal.
	InvalidRows int `json:"invalid_rows"`
	// NonRetryable counts records that failed permanently during this run.
	NonRetryable int `json:"non_retryable"`

	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
}

// String renders the summary for the run log and terminal output.
func (s *RunSummary) String() string {
	return fmt.Sprintf("sent=%d failed=%d skipped=%d pending=%d invalid_rows=%d elapsed=%s",
		s.Sent, s.Failed, s.Skipped, s.Pending, s.InvalidRows, s.Elapsed.Round(time.Millisecond))
}
