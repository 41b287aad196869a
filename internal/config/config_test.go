package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/graceinfra/zosmf/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
connection:
  host: zos.example.com
  port: 10443
  user: IBMUSER
  reject_unauthorized: false
monitor:
  poll_interval: 5s
  max_attempts: 20
tso:
  account: ACCT#1
  proc: MYPROC
  max_pings: 10
console:
  name: MYCN
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvHost, EnvPort, EnvUser, EnvPassword, EnvAccount} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), DefaultConfigFile, sampleConfig)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "zos.example.com", cfg.Connection.Host)
	assert.Equal(t, 10443, cfg.Connection.Port)
	assert.Equal(t, "IBMUSER", cfg.Connection.User)
	assert.False(t, cfg.Connection.VerifyTLS())
	assert.Equal(t, 5*time.Second, cfg.Monitor.PollInterval)
	assert.Equal(t, 20, cfg.Monitor.MaxAttempts)
	assert.Zero(t, cfg.Monitor.LineLimit)
	assert.Equal(t, "ACCT#1", cfg.Tso.Account)
	assert.Equal(t, "MYPROC", cfg.Tso.Proc)
	assert.Equal(t, 10, cfg.Tso.MaxPings)
	assert.Equal(t, "MYCN", cfg.Console.Name)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), DefaultConfigFile, sampleConfig)
	t.Setenv(EnvHost, "other.example.com")
	t.Setenv(EnvPort, "443")
	t.Setenv(EnvPassword, "secret")
	t.Setenv(EnvAccount, "ACCT#2")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "other.example.com", cfg.Connection.Host)
	assert.Equal(t, 443, cfg.Connection.Port)
	assert.Equal(t, "IBMUSER", cfg.Connection.User)
	assert.Equal(t, "secret", cfg.Connection.Password)
	assert.Equal(t, "ACCT#2", cfg.Tso.Account)
}

func TestLoadConfigDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".env", "ZOSMF_HOST=dotenv.example.com\nZOSMF_PORT=8443\nZOSMF_USER=DOTUSER\n")

	cfg, err := LoadConfig(filepath.Join(dir, DefaultConfigFile))
	require.NoError(t, err)

	assert.Equal(t, "dotenv.example.com", cfg.Connection.Host)
	assert.Equal(t, 8443, cfg.Connection.Port)
	assert.Equal(t, "DOTUSER", cfg.Connection.User)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		env         map[string]string
		errContains []string
	}{
		{
			name:        "Malformed YAML",
			content:     "connection: [",
			errContains: []string{"failed to parse YAML"},
		},
		{
			name:        "Bad port override",
			content:     sampleConfig,
			env:         map[string]string{EnvPort: "https"},
			errContains: []string{"invalid ZOSMF_PORT"},
		},
		{
			name:    "All problems reported",
			content: "monitor:\n  max_attempts: -1\ntso:\n  rows: -2\n",
			errContains: []string{
				"field 'connection.host' is required",
				"field 'connection.user' is required",
				"field 'monitor.max_attempts' cannot be negative",
				"field 'tso.rows' cannot be negative",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeFile(t, t.TempDir(), DefaultConfigFile, tt.content)

			_, err := LoadConfig(path)

			require.Error(t, err)
			for _, want := range tt.errContains {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestValidateConfigSkipsPassword(t *testing.T) {
	cfg := &types.ZosmfConfig{Connection: types.Connection{Host: "zos", Port: 443, User: "IBMUSER"}}
	assert.NoError(t, ValidateConfig(cfg))
}

func TestApplyEnvLeavesUnsetFields(t *testing.T) {
	cfg := &types.ZosmfConfig{Connection: types.Connection{Host: "zos", Port: 443}}
	env := map[string]string{EnvUser: "ENVUSER"}

	err := ApplyEnv(cfg, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})

	require.NoError(t, err)
	assert.Equal(t, "zos", cfg.Connection.Host)
	assert.Equal(t, 443, cfg.Connection.Port)
	assert.Equal(t, "ENVUSER", cfg.Connection.User)
}

func TestWriteConfig(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	cfg := types.ZosmfConfig{
		Connection: types.Connection{Host: "zos", Port: 443, User: "IBMUSER", Password: "secret"},
		Monitor:    types.MonitorConfig{PollInterval: 2 * time.Second},
	}

	require.NoError(t, WriteConfig(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.Contains(t, string(data), "poll_interval: 2s")

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Connection.Host, loaded.Connection.Host)
	assert.Equal(t, 2*time.Second, loaded.Monitor.PollInterval)

	err = WriteConfig(path, cfg)
	assert.ErrorContains(t, err, "refusing to overwrite")
}
