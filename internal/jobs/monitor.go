package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/graceinfra/zosmf/internal/poll"
	"github.com/graceinfra/zosmf/internal/zosmf"
	"github.com/rs/zerolog"
)

const (
	DefaultPollInterval = 3 * time.Second
	DefaultMaxAttempts  = 10
	DefaultLineLimit    = 1000
)

type MonitorOptions struct {
	PollInterval time.Duration
	MaxAttempts  int
	LineLimit    int
	Clock        poll.Clock

	// OnPoll, when set, is called with every fetched snapshot by
	// WaitForStatus and its wrappers.
	OnPoll func(attempt int, job *Job)

	// OnScan, when set, is called after every spool scan of WaitForMessage.
	OnScan func(attempt, lines int, found bool)
}

type MonitorOption func(*MonitorOptions)

func WithPollInterval(d time.Duration) MonitorOption {
	return func(o *MonitorOptions) { o.PollInterval = d }
}

func WithMaxAttempts(n int) MonitorOption {
	return func(o *MonitorOptions) { o.MaxAttempts = n }
}

func WithLineLimit(n int) MonitorOption {
	return func(o *MonitorOptions) { o.LineLimit = n }
}

func WithClock(c poll.Clock) MonitorOption {
	return func(o *MonitorOptions) { o.Clock = c }
}

func WithPollObserver(f func(attempt int, job *Job)) MonitorOption {
	return func(o *MonitorOptions) { o.OnPoll = f }
}

func WithScanObserver(f func(attempt, lines int, found bool)) MonitorOption {
	return func(o *MonitorOptions) { o.OnScan = f }
}

// Monitor waits on job state by polling the REST jobs interface. It holds no
// per-call state and may be shared between goroutines.
type Monitor struct {
	client *Client
	opts   MonitorOptions
	logger zerolog.Logger
}

func NewMonitor(client *Client, opts ...MonitorOption) *Monitor {
	o := MonitorOptions{
		PollInterval: DefaultPollInterval,
		MaxAttempts:  DefaultMaxAttempts,
		LineLimit:    DefaultLineLimit,
		Clock:        poll.Real(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.LineLimit < 1 {
		o.LineLimit = DefaultLineLimit
	}
	if o.PollInterval < 0 {
		o.PollInterval = DefaultPollInterval
	}

	return &Monitor{
		client: client,
		opts:   o,
		logger: client.logger.With().Str("component", "monitor").Logger(),
	}
}

func (m *Monitor) Options() MonitorOptions {
	return m.opts
}

func (m *Monitor) pollOptions() poll.Options {
	return poll.Options{Interval: m.opts.PollInterval, MaxAttempts: m.opts.MaxAttempts, Clock: m.opts.Clock}
}

// WaitForStatus polls ref until it reports target. It fails fast with
// *zosmf.UnreachableStatusError once the job has moved past target, and with
// *zosmf.TimeoutError when MaxAttempts fetches never showed target.
func (m *Monitor) WaitForStatus(ctx context.Context, ref JobRef, target JobStatus) (*Job, error) {
	if err := ref.validate("wait for status"); err != nil {
		return nil, err
	}
	if !target.Valid() {
		return nil, zosmf.NewProtocolError("wait for status", fmt.Sprintf("unknown target status %q", target))
	}

	logger := m.logger.With().Str("job_name", ref.JobName).Str("job_id", ref.JobID).Str("target", target.String()).Logger()
	logger.Debug().Msgf("Waiting for job to reach %s", target)

	var last *Job
	var lastStatus JobStatus

	attempts, done, err := poll.Until(ctx, m.pollOptions(), func(ctx context.Context, attempt int) (bool, error) {
		job, err := m.client.GetJob(ctx, ref)
		if err != nil {
			return false, err
		}
		status, err := job.JobStatus()
		if err != nil {
			return false, err
		}
		last, lastStatus = job, status

		if m.opts.OnPoll != nil {
			m.opts.OnPoll(attempt, job)
		}
		logger.Debug().Int("attempt", attempt).Str("status", status.String()).Msg("Polled job status")

		if !Reachable(status, target) {
			return false, &zosmf.UnreachableStatusError{
				JobName: ref.JobName,
				JobID:   ref.JobID,
				Target:  target.String(),
				Current: status.String(),
			}
		}
		return status == target, nil
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for job %s to reach %s: %w", ref, target, err)
	}
	if done {
		logger.Info().Int("attempts", attempts).Msgf("✓ Job %s reached %s", ref, target)
		return last, nil
	}

	logger.Warn().Int("attempts", attempts).Str("last_status", lastStatus.String()).Msg("Gave up waiting for job status")
	return nil, &zosmf.TimeoutError{
		Subject:    "job " + ref.String(),
		Target:     target.String(),
		Attempts:   attempts,
		LastStatus: lastStatus.String(),
	}
}

// WaitForJobStatus is WaitForStatus for an already fetched job.
func (m *Monitor) WaitForJobStatus(ctx context.Context, job *Job, target JobStatus) (*Job, error) {
	ref, err := RefFrom(job)
	if err != nil {
		return nil, err
	}
	return m.WaitForStatus(ctx, ref, target)
}

func (m *Monitor) WaitForOutputStatus(ctx context.Context, ref JobRef) (*Job, error) {
	return m.WaitForStatus(ctx, ref, StatusOutput)
}

// WaitForMessage polls the job's spool until a line containing needle shows
// up. At most LineLimit lines are inspected per attempt. Running out of
// attempts is reported as false, not as an error.
func (m *Monitor) WaitForMessage(ctx context.Context, ref JobRef, needle string) (bool, error) {
	if err := ref.validate("wait for message"); err != nil {
		return false, err
	}
	if needle == "" {
		return false, zosmf.NewProtocolError("wait for message", "message to wait for is empty")
	}

	logger := m.logger.With().Str("job_name", ref.JobName).Str("job_id", ref.JobID).Logger()

	attempts, found, err := poll.Until(ctx, m.pollOptions(), func(ctx context.Context, attempt int) (bool, error) {
		found, inspected, err := m.scanSpool(ctx, ref, needle)
		logger.Debug().Int("attempt", attempt).Int("lines", inspected).Bool("found", found).Msg("Scanned job output")
		if err == nil && m.opts.OnScan != nil {
			m.opts.OnScan(attempt, inspected, found)
		}
		return found, err
	})
	if err != nil {
		return false, fmt.Errorf("waiting for %q in output of job %s: %w", needle, ref, err)
	}

	if found {
		logger.Info().Int("attempts", attempts).Msgf("✓ Found %q in job output", needle)
	} else {
		logger.Info().Int("attempts", attempts).Msgf("%q not found in job output", needle)
	}
	return found, nil
}

func (m *Monitor) scanSpool(ctx context.Context, ref JobRef, needle string) (found bool, inspected int, err error) {
	files, err := m.client.ListSpoolFiles(ctx, ref)
	if err != nil {
		return false, 0, err
	}

	for _, f := range files {
		if inspected >= m.opts.LineLimit {
			break
		}

		content, err := m.client.GetSpoolContent(ctx, ref, f.ID)
		if err != nil {
			return false, inspected, err
		}

		for _, line := range splitLines(content) {
			if inspected >= m.opts.LineLimit {
				break
			}
			inspected++
			if strings.Contains(line, needle) {
				return true, inspected, nil
			}
		}
	}
	return false, inspected, nil
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
