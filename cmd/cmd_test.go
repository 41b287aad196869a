package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/graceinfra/zosmf/internal/jobs"
	"github.com/graceinfra/zosmf/internal/tso"
	"github.com/graceinfra/zosmf/internal/zosmf"
	"github.com/graceinfra/zosmf/internal/zosmf/zosmftest"
	"github.com/graceinfra/zosmf/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useDependencies(t *testing.T, exec zosmf.Executor, cfg types.ZosmfConfig) *AppDependencies {
	t.Helper()
	SetDependencies(&AppDependencies{Config: &cfg, Executor: exec})
	t.Cleanup(func() { appDependencies = nil })
	return appDependencies
}

func TestInitModelConfigDefaults(t *testing.T) {
	m := initialInitModel("")
	cfg := m.config()

	assert.Equal(t, defaultHost, cfg.Connection.Host)
	assert.Equal(t, defaultPort, cfg.Connection.Port)
	assert.Equal(t, defaultUser, cfg.Connection.User)
	assert.Empty(t, cfg.Tso.Account)

	m = initialInitModel("zos.example.com")
	m.inputs[1].SetValue("10443")
	m.inputs[2].SetValue("ibmuser")
	m.inputs[3].SetValue("ACCT#1")
	cfg = m.config()

	assert.Equal(t, "zos.example.com", cfg.Connection.Host)
	assert.Equal(t, 10443, cfg.Connection.Port)
	assert.Equal(t, "IBMUSER", cfg.Connection.User)
	assert.Equal(t, "ACCT#1", cfg.Tso.Account)
}

func TestMonitorFlagsApplyOnlyChangedValues(t *testing.T) {
	f := newMonitorFlags(true)
	require.NoError(t, f.fs.Parse([]string{"--attempts", "5", "--line-limit", "200"}))

	opts := jobs.MonitorOptions{PollInterval: 7 * time.Second}
	for _, opt := range f.options() {
		opt(&opts)
	}

	assert.Equal(t, 7*time.Second, opts.PollInterval)
	assert.Equal(t, 5, opts.MaxAttempts)
	assert.Equal(t, 200, opts.LineLimit)
}

func TestMonitorOptionsLayering(t *testing.T) {
	deps := useDependencies(t, zosmftest.Sequence(), types.ZosmfConfig{
		Monitor: types.MonitorConfig{PollInterval: time.Second, MaxAttempts: 4},
	})
	f := newMonitorFlags(false)
	require.NoError(t, f.fs.Parse([]string{"--attempts", "9"}))

	got := jobs.NewMonitor(deps.Jobs, deps.monitorOptions(f)...).Options()

	assert.Equal(t, time.Second, got.PollInterval)
	assert.Equal(t, 9, got.MaxAttempts)
	assert.Equal(t, jobs.DefaultLineLimit, got.LineLimit)
}

func TestWriteMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	exec := zosmf.Instrument(zosmftest.Sequence(zosmftest.Text("ok")), zosmf.NewMetrics(reg))
	_, err := exec.Execute(context.Background(), &zosmf.Request{Method: "GET", Path: "/zosmf/info"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeMetrics(&buf, reg))

	assert.Contains(t, buf.String(), `zosmf_requests_total{code="200",method="GET"} 1`)
	assert.Contains(t, buf.String(), "# TYPE zosmf_request_duration_seconds histogram")
}

func TestNewTSOOutput(t *testing.T) {
	out := newTSOOutput("KEY", []tso.Message{
		tso.ResponseEcho{Ver: tso.Version, Data: "TIME"},
		tso.PlainMessage{Ver: tso.Version, Text: "IKJ56650I TIME-10:15:02 AM"},
		tso.PromptMessage{Ver: tso.Version},
	})

	assert.Equal(t, "KEY", out.ServletKey)
	assert.Equal(t, []string{"IKJ56650I TIME-10:15:02 AM"}, out.Lines)
	assert.True(t, out.Prompted)
}

func TestRefFromArgs(t *testing.T) {
	ref, err := refFromArgs([]string{"hello", "job00042"})
	require.NoError(t, err)
	assert.Equal(t, jobs.JobRef{JobName: "HELLO", JobID: "JOB00042"}, ref)

	_, err = refFromArgs([]string{"HELLO", "42"})
	assert.Error(t, err)
}

func TestJobStatusCommand(t *testing.T) {
	exec := zosmftest.Sequence(zosmftest.JSON(map[string]any{"jobname": "HELLO", "jobid": "JOB00042", "status": "OUTPUT"}))
	useDependencies(t, exec, types.ZosmfConfig{})

	rootCmd.SetArgs([]string{"job", "status", "HELLO", "JOB00042"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	require.Equal(t, 1, exec.Count())
	assert.Equal(t, "/zosmf/restjobs/jobs/HELLO/JOB00042", exec.Requests()[0].Path)
}

func TestConsoleIssueCommandUsesConfiguredConsole(t *testing.T) {
	exec := zosmftest.Sequence(zosmftest.JSON(map[string]any{"cmd-response": "IEE136I LOCAL: TIME=10.15.02"}))
	useDependencies(t, exec, types.ZosmfConfig{Console: types.ConsoleConfig{Name: "MYCN"}})

	rootCmd.SetArgs([]string{"console", "issue", "D", "T"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	req := exec.Requests()[0]
	assert.Equal(t, "/zosmf/restconsoles/consoles/MYCN", req.Path)
	assert.JSONEq(t, `{"cmd":"D T"}`, string(req.Body))
}

func TestTSOIssueRequiresAccount(t *testing.T) {
	exec := zosmftest.Sequence()
	useDependencies(t, exec, types.ZosmfConfig{})

	rootCmd.SetArgs([]string{"tso", "issue", "TIME"})
	err := rootCmd.ExecuteContext(context.Background())

	assert.ErrorContains(t, err, "TSO account number is required")
	assert.Zero(t, exec.Count())
}
