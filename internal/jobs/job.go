package jobs

import (
	"fmt"

	"github.com/graceinfra/zosmf/internal/optional"
	"github.com/graceinfra/zosmf/internal/zosmf"
)

// Job is one snapshot of a z/OSMF job document. A None field was not part of
// the response that produced the snapshot.
type Job struct {
	JobID            optional.Value[string]     `json:"jobid"`
	JobName          optional.Value[string]     `json:"jobname"`
	Owner            optional.Value[string]     `json:"owner"`
	Status           optional.Value[string]     `json:"status"`
	Type             optional.Value[string]     `json:"type"`
	Class            optional.Value[string]     `json:"class"`
	RetCode          optional.Value[string]     `json:"retcode"`
	Phase            optional.Value[int]        `json:"phase"`
	PhaseName        optional.Value[string]     `json:"phase-name"`
	Subsystem        optional.Value[string]     `json:"subsystem"`
	JobCorrelator    optional.Value[string]     `json:"job-correlator"`
	URL              optional.Value[string]     `json:"url"`
	FilesURL         optional.Value[string]     `json:"files-url"`
	StepData         optional.Value[[]StepData] `json:"step-data"`
	ReasonNotRunning optional.Value[string]     `json:"reason-not-running"`
}

type StepData struct {
	StepNumber     optional.Value[int]    `json:"step-number"`
	StepName       optional.Value[string] `json:"step-name"`
	ProcStepName   optional.Value[string] `json:"proc-step-name"`
	ProgramName    optional.Value[string] `json:"program-name"`
	SMFID          optional.Value[string] `json:"smfid"`
	Active         optional.Value[bool]   `json:"active"`
	CompletionCode optional.Value[string] `json:"completion"`
	AbendCode      optional.Value[string] `json:"abend-code"`
}

// JobStatus parses the snapshot's status field.
func (j *Job) JobStatus() (JobStatus, error) {
	raw, ok := j.Status.Get()
	if !ok {
		return "", zosmf.NewProtocolError("job status", fmt.Sprintf("job %s has no status field", j.label()))
	}
	status, err := ParseJobStatus(raw)
	if err != nil {
		return "", &zosmf.ProtocolError{Op: "job status", Message: fmt.Sprintf("job %s", j.label()), Payload: raw, Cause: err}
	}
	return status, nil
}

func (j *Job) label() string {
	return fmt.Sprintf("%s(%s)", j.JobName.OrElse("?"), j.JobID.OrElse("?"))
}

// JobRef names a job by jobname and jobid, which z/OSMF needs together.
type JobRef struct {
	JobName string
	JobID   string
}

func (r JobRef) String() string {
	return fmt.Sprintf("%s(%s)", r.JobName, r.JobID)
}

func (r JobRef) validate(op string) error {
	if r.JobName == "" || r.JobID == "" {
		return zosmf.NewProtocolError(op, "job name and job id are both required")
	}
	return nil
}

// RefFrom builds a JobRef from a fetched Job, which must carry both jobname
// and jobid.
func RefFrom(j *Job) (JobRef, error) {
	if j == nil {
		return JobRef{}, zosmf.NewProtocolError("job ref", "job is nil")
	}
	name, okName := j.JobName.Get()
	id, okID := j.JobID.Get()
	if !okName || !okID || name == "" || id == "" {
		return JobRef{}, zosmf.NewProtocolError("job ref", fmt.Sprintf("job %s is missing jobname or jobid", j.label()))
	}
	return JobRef{JobName: name, JobID: id}, nil
}

// SpoolFile describes one spool data set of a job's output.
type SpoolFile struct {
	ID          int                    `json:"id"`
	DDName      string                 `json:"ddname"`
	StepName    optional.Value[string] `json:"stepname"`
	ProcStep    optional.Value[string] `json:"procstep"`
	Class       optional.Value[string] `json:"class"`
	RecordCount optional.Value[int]    `json:"record-count"`
	RecordsURL  optional.Value[string] `json:"records-url"`
}
