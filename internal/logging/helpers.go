package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/graceinfra/zosmf/internal/models"
)

// DefaultLogRoot holds one directory per CLI run.
var DefaultLogRoot = filepath.Join(".zosmf", "logs")

// CreateLogDir returns a full path like
// "<root>/20250423T213245_submit_3c43e9f4-9026-4d04-ba06-054e8903e80a"
func CreateLogDir(root string, runID uuid.UUID, startTime time.Time, command string) (string, error) {
	if root == "" {
		root = DefaultLogRoot
	}
	timestampStr := startTime.Format("20060102T150405")

	dirName := fmt.Sprintf("%s_%s_%s", timestampStr, command, runID)
	fullPath := filepath.Join(root, dirName)

	err := os.MkdirAll(fullPath, 0o755)
	if err != nil {
		return "", fmt.Errorf("failed to create log directory '%s': %w", fullPath, err)
	}
	return fullPath, nil
}

// SaveJobExecutionRecord stores the record for a single job and returns the
// file it wrote.
// Filename: JOBID_JOBNAME.json (e.g., JOB02929_HELLO.json)
func SaveJobExecutionRecord(logDir string, record models.JobExecutionRecord) (string, error) {
	jobID := record.JobID
	if jobID == "" {
		// Submission failed before an ID was assigned
		timestamp := time.Now().Format("150405")
		jobID = fmt.Sprintf("FAILED_%s", timestamp)
	}
	jobName := strings.ToUpper(record.JobName)
	if jobName == "" {
		jobName = "UNKNOWN"
	}
	fileName := fmt.Sprintf("%s_%s.json", jobID, jobName)
	filePath := filepath.Join(logDir, fileName)

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create job log file %s: %w", filePath, err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(record); err != nil {
		return "", fmt.Errorf("failed to encode job log record to %s: %w", filePath, err)
	}
	return filePath, nil
}
