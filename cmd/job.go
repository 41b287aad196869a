package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/graceinfra/zosmf/internal/jobs"
	"github.com/graceinfra/zosmf/internal/logging"
	"github.com/graceinfra/zosmf/internal/models"
	"github.com/graceinfra/zosmf/internal/utils"
	"github.com/graceinfra/zosmf/internal/zosmf"
	"github.com/spf13/cobra"
)

var (
	waitStatus     string
	waitFlags      = newMonitorFlags(false)
	messageFlags   = newMonitorFlags(true)
	submitFlags    = newMonitorFlags(false)
	submitWait     bool
	submitLogDir   string
	submitJobClass string
)

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(jobStatusCmd, jobWaitCmd, jobWaitMessageCmd, jobSubmitCmd)

	jobWaitCmd.Flags().StringVar(&waitStatus, "status", string(jobs.StatusOutput), "Status to wait for: INPUT, ACTIVE or OUTPUT")
	jobWaitCmd.Flags().AddFlagSet(waitFlags.fs)

	jobWaitMessageCmd.Flags().AddFlagSet(messageFlags.fs)

	jobSubmitCmd.Flags().BoolVar(&submitWait, "wait", false, "Wait for the job to reach OUTPUT")
	jobSubmitCmd.Flags().StringVar(&submitLogDir, "log-dir", logging.DefaultLogRoot, "Directory for job execution records")
	jobSubmitCmd.Flags().StringVar(&submitJobClass, "class", "A", "Internal reader job class")
	jobSubmitCmd.Flags().AddFlagSet(submitFlags.fs)
}

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Inspect, submit and wait on batch jobs",
}

// refFromArgs validates NAME ID positional arguments.
func refFromArgs(args []string) (jobs.JobRef, error) {
	if err := utils.ValidateJobName(args[0]); err != nil {
		return jobs.JobRef{}, err
	}
	if err := utils.ValidateJobID(args[1]); err != nil {
		return jobs.JobRef{}, err
	}
	return jobs.JobRef{JobName: strings.ToUpper(args[0]), JobID: strings.ToUpper(args[1])}, nil
}

func describeJob(job *jobs.Job) string {
	return fmt.Sprintf("%s(%s) status=%s retcode=%s owner=%s",
		job.JobName.OrElse("?"),
		job.JobID.OrElse("?"),
		job.Status.OrElse("?"),
		job.RetCode.OrElse("null"),
		job.Owner.OrElse("?"))
}

var jobStatusCmd = &cobra.Command{
	Use:   "status NAME ID",
	Short: "Show the current status of a job",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := refFromArgs(args)
		if err != nil {
			return err
		}
		deps, err := GetDependencies()
		if err != nil {
			return err
		}
		logger := newLogger()

		job, err := deps.Jobs.GetJob(cmd.Context(), ref)
		if err != nil {
			return err
		}

		logger.Info("%s", describeJob(job))
		logger.Json(job)
		return nil
	},
}

var jobWaitCmd = &cobra.Command{
	Use:   "wait NAME ID",
	Short: "Wait until a job reaches a status",
	Long: `Wait polls the job until it reports the requested status.

The command fails immediately when the job has already moved past the
requested status (for example waiting for ACTIVE on a job in OUTPUT), and
fails with a timeout once the attempt budget is spent.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := refFromArgs(args)
		if err != nil {
			return err
		}
		target, err := jobs.ParseJobStatus(strings.ToUpper(waitStatus))
		if err != nil {
			return err
		}
		deps, err := GetDependencies()
		if err != nil {
			return err
		}
		logger := newLogger()

		logger.StartSpinner(fmt.Sprintf("Waiting for %s to reach %s ...", ref, target))
		opts := append(deps.monitorOptions(waitFlags), jobs.WithPollObserver(func(attempt int, job *jobs.Job) {
			logger.UpdateSpinner(fmt.Sprintf("Waiting for %s to reach %s ... (attempt %d, status: %s)",
				ref, target, attempt, job.Status.OrElse("?")))
		}))
		job, err := jobs.NewMonitor(deps.Jobs, opts...).WaitForStatus(cmd.Context(), ref, target)
		logger.StopSpinner()
		if err != nil {
			return err
		}

		logger.Info("✓ %s", describeJob(job))
		logger.Json(job)
		return nil
	},
}

var jobWaitMessageCmd = &cobra.Command{
	Use:   "wait-message NAME ID TEXT",
	Short: "Wait until a line containing TEXT appears in the job's spool",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := refFromArgs(args)
		if err != nil {
			return err
		}
		deps, err := GetDependencies()
		if err != nil {
			return err
		}
		logger := newLogger()
		needle := args[2]

		logger.StartSpinner(fmt.Sprintf("Scanning %s spool for %q ...", ref, needle))
		opts := append(deps.monitorOptions(messageFlags), jobs.WithScanObserver(func(attempt, lines int, found bool) {
			logger.UpdateSpinner(fmt.Sprintf("Scanning %s spool for %q ... (attempt %d, %d lines)", ref, needle, attempt, lines))
		}))
		found, err := jobs.NewMonitor(deps.Jobs, opts...).WaitForMessage(cmd.Context(), ref, needle)
		logger.StopSpinner()
		if err != nil {
			return err
		}

		logger.Json(map[string]any{"jobname": ref.JobName, "jobid": ref.JobID, "message": needle, "found": found})
		if !found {
			return fmt.Errorf("message %q not found in %s", needle, ref)
		}
		logger.Info("✓ Found %q in %s", needle, ref)
		return nil
	},
}

var jobSubmitCmd = &cobra.Command{
	Use:   "submit FILE",
	Short: "Submit a JCL file and optionally wait for it to finish",
	Long: `Submit sends the JCL in FILE to the internal reader.

With --wait the command polls the job until it reaches OUTPUT and lists its
spool files. Every submission writes a job execution record (JOBID_JOBNAME.json)
to a timestamped directory under --log-dir.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jcl, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read JCL %q: %w", args[0], err)
		}
		deps, err := GetDependencies()
		if err != nil {
			return err
		}
		logger := newLogger()
		ctx := cmd.Context()

		runID := uuid.New()
		start := time.Now()
		logDir, err := logging.CreateLogDir(submitLogDir, runID, start, "submit")
		if err != nil {
			return err
		}
		logger.Verbose("Execution record for run %s will be stored in: %s", runID, logDir)

		record := models.JobExecutionRecord{
			RunID:      runID,
			Command:    "submit",
			Source:     args[0],
			Host:       deps.Config.Connection.Host,
			User:       deps.Config.Connection.User,
			SubmitTime: start.Format(time.RFC3339),
		}

		logger.StartSpinner(fmt.Sprintf("Submitting %s ...", args[0]))
		job, submitErr := deps.Jobs.SubmitJCL(ctx, string(jcl), jobs.SubmitOptions{Class: submitJobClass})
		logger.StopSpinner()

		if submitErr == nil {
			record.JobName = job.JobName.OrElse("")
			record.JobID = job.JobID.OrElse("")
			record.Owner = job.Owner.OrElse("")
			record.Class = job.Class.OrElse("")
			record.SubmitStatus = job.Status.OrElse("")
			logger.Info("✓ Job %s submitted with ID %s (status: %s)", record.JobName, record.JobID, record.SubmitStatus)

			if submitWait {
				submitErr = waitForSubmitted(cmd, deps, job, &record)
			}
		}

		finish := time.Now()
		record.FinishTime = finish.Format(time.RFC3339)
		record.DurationMs = finish.Sub(start).Milliseconds()
		if submitErr != nil {
			record.Error = submitErr.Error()
		}

		path, err := logging.SaveJobExecutionRecord(logDir, record)
		if err != nil {
			return errors.Join(submitErr, err)
		}
		logger.Verbose("Execution record written to %s", path)
		logger.Json(record)

		return submitErr
	},
}

func waitForSubmitted(cmd *cobra.Command, deps *AppDependencies, job *jobs.Job, record *models.JobExecutionRecord) error {
	logger := newLogger()
	ctx := cmd.Context()

	ref, err := jobs.RefFrom(job)
	if err != nil {
		return err
	}

	logger.StartSpinner(fmt.Sprintf("Polling %s ...", ref))
	opts := append(deps.monitorOptions(submitFlags), jobs.WithPollObserver(func(attempt int, j *jobs.Job) {
		record.Attempts = attempt
		logger.UpdateSpinner(fmt.Sprintf("Polling %s ... (status: %s)", ref, j.Status.OrElse("?")))
	}))
	final, err := jobs.NewMonitor(deps.Jobs, opts...).WaitForOutputStatus(ctx, ref)
	logger.StopSpinner()
	if err != nil {
		var te *zosmf.TimeoutError
		if errors.As(err, &te) {
			record.FinalStatus = te.LastStatus
		}
		return err
	}

	record.FinalStatus = final.Status.OrElse("")
	if rc, ok := final.RetCode.Get(); ok {
		record.ReturnCode = &rc
	}
	logger.Info("✓ Job %s completed: %s", ref, final.RetCode.OrElse("null"))

	files, err := deps.Jobs.ListSpoolFiles(ctx, ref)
	if err != nil {
		return err
	}
	for _, f := range files {
		record.SpoolFiles = append(record.SpoolFiles, models.SpoolFileSummary{
			ID:          f.ID,
			DDName:      f.DDName,
			StepName:    f.StepName.OrElse(""),
			RecordCount: f.RecordCount.OrElse(0),
		})
		logger.Verbose("  %3d %-8s %-8s %d records", f.ID, f.DDName, f.StepName.OrElse(""), f.RecordCount.OrElse(0))
	}
	return nil
}
