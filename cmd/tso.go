package cmd

import (
	"fmt"
	"strings"

	"github.com/graceinfra/zosmf/internal/tso"
	"github.com/spf13/cobra"
)

var tsoAccount string

func init() {
	rootCmd.AddCommand(tsoCmd)
	tsoCmd.AddCommand(tsoStartCmd, tsoSendCmd, tsoStopCmd, tsoIssueCmd)

	tsoCmd.PersistentFlags().StringVar(&tsoAccount, "account", "", "TSO account number (default from config or ZOSMF_ACCOUNT)")
}

var tsoCmd = &cobra.Command{
	Use:   "tso",
	Short: "Drive a TSO address space",
	Long: `tso starts, talks to and stops TSO address spaces.

'tso start' prints a servlet key that 'tso send' and 'tso stop' take as their
first argument. 'tso issue' runs a single command in a fresh address space and
always logs it off again.`,
}

func resolveAccount(deps *AppDependencies) (string, error) {
	account := tsoAccount
	if account == "" {
		account = deps.Config.Tso.Account
	}
	if strings.TrimSpace(account) == "" {
		return "", fmt.Errorf("a TSO account number is required (use --account, tso.account or ZOSMF_ACCOUNT)")
	}
	return account, nil
}

type tsoOutput struct {
	ServletKey string   `json:"servletKey,omitempty"`
	Lines      []string `json:"lines"`
	Prompted   bool     `json:"prompted"`
}

func newTSOOutput(key string, msgs []tso.Message) tsoOutput {
	out := tsoOutput{ServletKey: key, Lines: []string{}}
	for _, m := range msgs {
		switch v := m.(type) {
		case tso.PlainMessage:
			out.Lines = append(out.Lines, v.Text)
		case tso.PromptMessage:
			out.Prompted = true
		}
	}
	return out
}

func printTSO(out tsoOutput) {
	logger := newLogger()
	for _, line := range out.Lines {
		logger.Info("%s", line)
	}
	logger.Json(out)
}

var tsoStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Log on a new TSO address space and print its servlet key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := GetDependencies()
		if err != nil {
			return err
		}
		account, err := resolveAccount(deps)
		if err != nil {
			return err
		}

		session, err := deps.TSO.Start(cmd.Context(), account, startOptions(deps.Config.Tso))
		if err != nil {
			return err
		}

		out := newTSOOutput(session.ServletKey, session.Messages)
		printTSO(out)
		newLogger().Info("✓ TSO session started: %s", session.ServletKey)
		return nil
	},
}

var tsoSendCmd = &cobra.Command{
	Use:   "send SERVLET_KEY COMMAND...",
	Short: "Send a command to a running TSO address space",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := GetDependencies()
		if err != nil {
			return err
		}

		session := &tso.Session{ServletKey: args[0]}
		msgs, err := deps.TSO.Send(cmd.Context(), session, strings.Join(args[1:], " "))
		printTSO(newTSOOutput(session.ServletKey, msgs))
		return err
	},
}

var tsoStopCmd = &cobra.Command{
	Use:   "stop SERVLET_KEY",
	Short: "Log off a TSO address space",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := GetDependencies()
		if err != nil {
			return err
		}

		if err := deps.TSO.Stop(cmd.Context(), &tso.Session{ServletKey: args[0]}); err != nil {
			return err
		}
		newLogger().Info("✓ TSO session %s stopped", args[0])
		return nil
	},
}

var tsoIssueCmd = &cobra.Command{
	Use:   "issue COMMAND...",
	Short: "Run one TSO command in a temporary address space",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := GetDependencies()
		if err != nil {
			return err
		}
		account, err := resolveAccount(deps)
		if err != nil {
			return err
		}

		res, err := deps.TSO.Issue(cmd.Context(), account, strings.Join(args, " "), startOptions(deps.Config.Tso))
		if res != nil {
			printTSO(newTSOOutput("", res.Messages))
		}
		return err
	},
}
