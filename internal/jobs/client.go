package jobs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/graceinfra/zosmf/internal/zosmf"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const restJobsPath = "/zosmf/restjobs/jobs"

// Client wraps the z/OSMF REST jobs calls the monitor depends on.
type Client struct {
	exec   zosmf.Executor
	logger zerolog.Logger
}

func NewClient(exec zosmf.Executor) *Client {
	return &Client{
		exec:   exec,
		logger: log.With().Str("component", "jobs").Logger(),
	}
}

// WithLogger returns a copy of c that logs through l.
func (c *Client) WithLogger(l zerolog.Logger) *Client {
	cp := *c
	cp.logger = l
	return &cp
}

func jobPath(ref JobRef) string {
	return fmt.Sprintf("%s/%s/%s", restJobsPath, url.PathEscape(ref.JobName), url.PathEscape(ref.JobID))
}

// GetJob fetches the current status document of ref.
func (c *Client) GetJob(ctx context.Context, ref JobRef) (*Job, error) {
	if err := ref.validate("get job"); err != nil {
		return nil, err
	}

	resp, err := c.exec.Execute(ctx, &zosmf.Request{Method: http.MethodGet, Path: jobPath(ref)})
	if err != nil {
		return nil, fmt.Errorf("failed to get status of job %s: %w", ref, err)
	}

	var job Job
	if err := resp.JSON(&job); err != nil {
		return nil, fmt.Errorf("failed to decode status of job %s: %w", ref, err)
	}
	return &job, nil
}

// ListSpoolFiles lists the spool files of ref in z/OSMF order.
func (c *Client) ListSpoolFiles(ctx context.Context, ref JobRef) ([]SpoolFile, error) {
	if err := ref.validate("list spool files"); err != nil {
		return nil, err
	}

	resp, err := c.exec.Execute(ctx, &zosmf.Request{Method: http.MethodGet, Path: jobPath(ref) + "/files"})
	if err != nil {
		return nil, fmt.Errorf("failed to list spool files of job %s: %w", ref, err)
	}

	var files []SpoolFile
	if err := resp.JSON(&files); err != nil {
		return nil, fmt.Errorf("failed to decode spool files of job %s: %w", ref, err)
	}
	return files, nil
}

// GetSpoolContent returns the text records of one spool file.
func (c *Client) GetSpoolContent(ctx context.Context, ref JobRef, fileID int) (string, error) {
	if err := ref.validate("get spool content"); err != nil {
		return "", err
	}

	path := fmt.Sprintf("%s/files/%d/records", jobPath(ref), fileID)
	resp, err := c.exec.Execute(ctx, &zosmf.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return "", fmt.Errorf("failed to read spool file %d of job %s: %w", fileID, ref, err)
	}
	return resp.Text(), nil
}

// SubmitOptions sets the internal reader attributes for SubmitJCL.
type SubmitOptions struct {
	Class string // default "A"
	Recfm string // default "F"
	Lrecl int    // default 80
}

// SubmitJCL submits jcl through the internal reader and returns the job
// document z/OSMF creates for it.
func (c *Client) SubmitJCL(ctx context.Context, jcl string, opts SubmitOptions) (*Job, error) {
	if strings.TrimSpace(jcl) == "" {
		return nil, zosmf.NewProtocolError("submit jcl", "JCL is empty")
	}
	if opts.Class == "" {
		opts.Class = "A"
	}
	if opts.Recfm == "" {
		opts.Recfm = "F"
	}
	if opts.Lrecl == 0 {
		opts.Lrecl = 80
	}

	req := &zosmf.Request{
		Method:      http.MethodPut,
		Path:        restJobsPath,
		ContentType: zosmf.ContentTypeText,
		Body:        []byte(jcl),
		Headers: map[string]string{
			"X-IBM-Intrdr-Class": opts.Class,
			"X-IBM-Intrdr-Recfm": opts.Recfm,
			"X-IBM-Intrdr-Lrecl": fmt.Sprintf("%d", opts.Lrecl),
			"X-IBM-Intrdr-Mode":  "TEXT",
		},
	}

	resp, err := c.exec.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to submit JCL: %w", err)
	}

	var job Job
	if err := resp.JSON(&job); err != nil {
		return nil, fmt.Errorf("failed to decode submit response: %w", err)
	}
	if _, err := RefFrom(&job); err != nil {
		return nil, fmt.Errorf("submit response incomplete: %w", err)
	}

	c.logger.Info().
		Str("job_name", job.JobName.OrElse("")).
		Str("job_id", job.JobID.OrElse("")).
		Msg("Submitted JCL")
	return &job, nil
}
