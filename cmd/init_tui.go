package cmd

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/graceinfra/zosmf/types"
)

const (
	defaultHost = "localhost"
	defaultPort = 443
	defaultUser = "IBMUSER"
)

type initModel struct {
	inputs   []textinput.Model
	focusIdx int
	canceled bool
	done     bool
}

func initialInitModel(hostArg string) initModel {
	host := textinput.New()
	host.Placeholder = defaultHost
	if hostArg != "" {
		host.SetValue(hostArg)
	}
	host.Focus()
	host.CharLimit = 253
	host.Width = 30

	port := textinput.New()
	port.Placeholder = strconv.Itoa(defaultPort)
	port.CharLimit = 5
	port.Width = 30
	port.Validate = func(s string) error {
		if s == "" {
			return nil
		}
		_, err := strconv.Atoi(s)
		return err
	}

	user := textinput.New()
	user.Placeholder = defaultUser
	user.CharLimit = 8
	user.Width = 30

	account := textinput.New()
	account.Placeholder = "(optional)"
	account.CharLimit = 40
	account.Width = 30

	return initModel{
		inputs: []textinput.Model{host, port, user, account},
	}
}

func (m initModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m initModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			m.done = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		case "tab", "shift+tab", "down", "up":
			if msg.String() == "up" || msg.String() == "shift+tab" {
				m.focusIdx--
			} else {
				m.focusIdx++
			}
			if m.focusIdx >= len(m.inputs) {
				m.focusIdx = 0
			} else if m.focusIdx < 0 {
				m.focusIdx = len(m.inputs) - 1
			}
			for i := range m.inputs {
				if i == m.focusIdx {
					m.inputs[i].Focus()
				} else {
					m.inputs[i].Blur()
				}
			}
			return m, nil
		}
	}

	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m initModel) View() string {
	s := "\n"
	labels := []string{"z/OSMF host", "Port", "User", "TSO account"}

	for i, input := range m.inputs {
		s += labels[i] + ": " + input.View() + "\n"
	}

	s += "\n[Enter] to continue • [Esc] to cancel\n"
	return s
}

// config turns the form into a zosmf.yml document, filling blanks with the
// placeholder defaults.
func (m initModel) config() types.ZosmfConfig {
	var cfg types.ZosmfConfig

	cfg.Connection.Host = strings.TrimSpace(m.inputs[0].Value())
	if cfg.Connection.Host == "" {
		cfg.Connection.Host = defaultHost
	}

	cfg.Connection.Port = defaultPort
	if port, err := strconv.Atoi(strings.TrimSpace(m.inputs[1].Value())); err == nil && port > 0 {
		cfg.Connection.Port = port
	}

	cfg.Connection.User = strings.ToUpper(strings.TrimSpace(m.inputs[2].Value()))
	if cfg.Connection.User == "" {
		cfg.Connection.User = defaultUser
	}

	cfg.Tso.Account = strings.TrimSpace(m.inputs[3].Value())
	return cfg
}

func RunInitTUI(hostArg string) (cfg types.ZosmfConfig, canceled bool) {
	p := tea.NewProgram(initialInitModel(hostArg))
	m, err := p.Run()
	if err != nil {
		return cfg, true
	}

	final := m.(initModel)
	if final.canceled {
		return cfg, true
	}
	return final.config(), false
}
