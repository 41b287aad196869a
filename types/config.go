package types

import "time"

type OutputStyle int

const (
	StyleHuman OutputStyle = iota
	StyleHumanVerbose
	StyleMachineJSON
)

// ZosmfConfig mirrors zosmf.yml.
type ZosmfConfig struct {
	Connection Connection `yaml:"connection"`

	Monitor MonitorConfig `yaml:"monitor,omitempty"`
	Tso     TsoConfig     `yaml:"tso,omitempty"`
	Console ConsoleConfig `yaml:"console,omitempty"`
}

type MonitorConfig struct {
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
	MaxAttempts  int           `yaml:"max_attempts,omitempty"`
	LineLimit    int           `yaml:"line_limit,omitempty"`
}

type TsoConfig struct {
	Account  string `yaml:"account,omitempty"`
	Proc     string `yaml:"proc,omitempty"`
	Chset    string `yaml:"chset,omitempty"`
	Cpage    string `yaml:"cpage,omitempty"`
	Rows     int    `yaml:"rows,omitempty"`
	Cols     int    `yaml:"cols,omitempty"`
	Rsize    int    `yaml:"rsize,omitempty"`
	MaxPings int    `yaml:"max_pings,omitempty"`
}

type ConsoleConfig struct {
	Name string `yaml:"name,omitempty"`
}
