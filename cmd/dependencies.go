package cmd

import (
	"fmt"

	"github.com/graceinfra/zosmf/internal/config"
	"github.com/graceinfra/zosmf/internal/console"
	"github.com/graceinfra/zosmf/internal/jobs"
	"github.com/graceinfra/zosmf/internal/log"
	"github.com/graceinfra/zosmf/internal/tso"
	"github.com/graceinfra/zosmf/internal/zosmf"
	"github.com/graceinfra/zosmf/types"
	"github.com/prometheus/client_golang/prometheus"
)

type AppDependencies struct {
	Config   *types.ZosmfConfig
	Executor zosmf.Executor
	Registry *prometheus.Registry

	Jobs    *jobs.Client
	TSO     *tso.Client
	Console *console.Client
}

var appDependencies *AppDependencies

// SetDependencies allows for injecting application dependencies
func SetDependencies(deps *AppDependencies) {
	if deps == nil || deps.Executor == nil || deps.Config == nil {
		panic("critical error: attempted to set nil dependencies or executor")
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	if deps.Jobs == nil {
		deps.Jobs = jobs.NewClient(deps.Executor)
	}
	if deps.TSO == nil {
		deps.TSO = tso.NewClient(deps.Executor, tsoOptions(deps.Config.Tso)...)
	}
	if deps.Console == nil {
		deps.Console = console.NewClient(deps.Executor)
	}
	appDependencies = deps
}

// GetDependencies loads the config and builds the clients on first use.
func GetDependencies() (*AppDependencies, error) {
	if appDependencies != nil {
		return appDependencies, nil
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load/validate %q: %w", configPath, err)
	}
	if err := ensurePassword(&cfg.Connection); err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	exec := zosmf.Instrument(zosmf.NewHTTPExecutor(cfg.Connection), zosmf.NewMetrics(reg))

	SetDependencies(&AppDependencies{Config: cfg, Executor: exec, Registry: reg})
	return appDependencies, nil
}

func outputStyle() types.OutputStyle {
	switch {
	case wantJSON:
		return types.StyleMachineJSON
	case Verbose:
		return types.StyleHumanVerbose
	default:
		return types.StyleHuman
	}
}

func newLogger() *log.Logger {
	return log.NewLogger(outputStyle())
}

// monitorOptions layers zosmf.yml values under any flags the user set.
func (d *AppDependencies) monitorOptions(flags *monitorFlags) []jobs.MonitorOption {
	mc := d.Config.Monitor
	var opts []jobs.MonitorOption
	if mc.PollInterval > 0 {
		opts = append(opts, jobs.WithPollInterval(mc.PollInterval))
	}
	if mc.MaxAttempts > 0 {
		opts = append(opts, jobs.WithMaxAttempts(mc.MaxAttempts))
	}
	if mc.LineLimit > 0 {
		opts = append(opts, jobs.WithLineLimit(mc.LineLimit))
	}
	if flags != nil {
		opts = append(opts, flags.options()...)
	}
	return opts
}

func tsoOptions(tc types.TsoConfig) []tso.Option {
	var opts []tso.Option
	if tc.MaxPings > 0 {
		opts = append(opts, tso.WithMaxPings(tc.MaxPings))
	}
	return opts
}

func startOptions(tc types.TsoConfig) tso.StartOptions {
	return tso.StartOptions{
		Proc:  tc.Proc,
		Chset: tc.Chset,
		Cpage: tc.Cpage,
		Rows:  tc.Rows,
		Cols:  tc.Cols,
		Rsize: tc.Rsize,
	}
}
