package cmd

import (
	"time"

	"github.com/graceinfra/zosmf/internal/jobs"
	"github.com/spf13/pflag"
)

// monitorFlags overrides the monitor section of zosmf.yml for one command.
type monitorFlags struct {
	interval  time.Duration
	attempts  int
	lineLimit int

	fs *pflag.FlagSet
}

func newMonitorFlags(withLineLimit bool) *monitorFlags {
	f := &monitorFlags{fs: pflag.NewFlagSet("monitor", pflag.ContinueOnError)}
	f.fs.DurationVar(&f.interval, "interval", 0, "Time between polls (default from config or 3s)")
	f.fs.IntVar(&f.attempts, "attempts", 0, "Maximum number of polls (default from config or 10)")
	if withLineLimit {
		f.fs.IntVar(&f.lineLimit, "line-limit", 0, "Maximum spool lines inspected per poll (default from config or 1000)")
	}
	return f
}

func (f *monitorFlags) options() []jobs.MonitorOption {
	var opts []jobs.MonitorOption
	if f.fs.Changed("interval") {
		opts = append(opts, jobs.WithPollInterval(f.interval))
	}
	if f.fs.Changed("attempts") {
		opts = append(opts, jobs.WithMaxAttempts(f.attempts))
	}
	if f.fs.Lookup("line-limit") != nil && f.fs.Changed("line-limit") {
		opts = append(opts, jobs.WithLineLimit(f.lineLimit))
	}
	return opts
}
