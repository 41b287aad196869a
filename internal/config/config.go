package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/graceinfra/zosmf/internal/utils"
	"github.com/graceinfra/zosmf/types"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "zosmf.yml"

// Environment variables that override zosmf.yml.
const (
	EnvHost     = "ZOSMF_HOST"
	EnvPort     = "ZOSMF_PORT"
	EnvUser     = "ZOSMF_USER"
	EnvPassword = "ZOSMF_PASSWORD"
	EnvAccount  = "ZOSMF_ACCOUNT"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadConfig reads filename, applies a sibling .env file and environment
// overrides, then validates the result. A missing filename is not an error
// when the environment supplies the connection.
func LoadConfig(filename string) (*types.ZosmfConfig, error) {
	envFile := filepath.Join(filepath.Dir(filename), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	var cfg types.ZosmfConfig

	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Environment only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML in %s: %w", filename, err)
		}
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("validation error in %s: %w", filename, err)
	}

	return &cfg, nil
}

// ApplyEnv overwrites connection fields and the TSO account with any
// ZOSMF_* variables lookup finds.
func ApplyEnv(cfg *types.ZosmfConfig, lookup LookupFunc) error {
	if v, ok := lookup(EnvHost); ok {
		cfg.Connection.Host = v
	}
	if v, ok := lookup(EnvPort); ok {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		cfg.Connection.Port = port
	}
	if v, ok := lookup(EnvUser); ok {
		cfg.Connection.User = v
	}
	if v, ok := lookup(EnvPassword); ok {
		cfg.Connection.Password = v
	}
	if v, ok := lookup(EnvAccount); ok {
		cfg.Tso.Account = v
	}
	return nil
}

// ValidateConfig reports every problem at once. The password is not checked
// here because the CLI can still prompt for it.
func ValidateConfig(cfg *types.ZosmfConfig) error {
	var err error
	for _, msg := range cfg.Connection.Validate() {
		if strings.Contains(msg, "connection.password") {
			continue
		}
		err = multierr.Append(err, errors.New(msg))
	}

	nonNegative := []struct {
		field string
		value int64
	}{
		{"monitor.poll_interval", int64(cfg.Monitor.PollInterval)},
		{"monitor.max_attempts", int64(cfg.Monitor.MaxAttempts)},
		{"monitor.line_limit", int64(cfg.Monitor.LineLimit)},
		{"tso.rows", int64(cfg.Tso.Rows)},
		{"tso.cols", int64(cfg.Tso.Cols)},
		{"tso.rsize", int64(cfg.Tso.Rsize)},
		{"tso.max_pings", int64(cfg.Tso.MaxPings)},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			err = multierr.Append(err, fmt.Errorf("field '%s' cannot be negative", f.field))
		}
	}

	if err != nil {
		return fmt.Errorf("zosmf configuration validation failed: %w", err)
	}
	return nil
}

// WriteConfig writes cfg to filename, refusing to replace an existing file.
// The password is never written.
func WriteConfig(filename string, cfg types.ZosmfConfig) error {
	if err := utils.MustNotExist(filename); err != nil {
		return err
	}

	cfg.Connection.Password = ""
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", filename, err)
	}
	return nil
}
