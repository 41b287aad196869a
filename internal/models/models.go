package models

import (
	"github.com/google/uuid"
)

// JobExecutionRecord is everything known about one submitted job. It is saved
// to the job's log file (e.g., JOB02929_HELLO.json).
type JobExecutionRecord struct {
	RunID   uuid.UUID `json:"run_id"`
	Command string    `json:"command"`
	Source  string    `json:"source"`
	Host    string    `json:"host"`
	User    string    `json:"user"`

	JobName string `json:"job_name"`
	JobID   string `json:"job_id"`
	Owner   string `json:"owner,omitempty"`
	Class   string `json:"class,omitempty"`

	// Execution timing
	SubmitTime string `json:"submit_time"`
	FinishTime string `json:"finish_time,omitempty"`
	DurationMs int64  `json:"duration_ms"`

	SubmitStatus string  `json:"submit_status"`
	FinalStatus  string  `json:"final_status,omitempty"` // e.g., "OUTPUT", "WAIT_FAILED"
	ReturnCode   *string `json:"return_code"`
	Attempts     int     `json:"attempts,omitempty"`
	Error        string  `json:"error,omitempty"`

	SpoolFiles []SpoolFileSummary `json:"spool_files,omitempty"`
}

type SpoolFileSummary struct {
	ID          int    `json:"id"`
	DDName      string `json:"ddname"`
	StepName    string `json:"stepname,omitempty"`
	RecordCount int    `json:"record_count"`
}
