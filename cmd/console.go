package cmd

import (
	"strings"

	"github.com/graceinfra/zosmf/internal/console"
	"github.com/spf13/cobra"
)

var (
	consoleName    string
	consoleSolKey  string
	consoleSystem  string
	consoleAsync   bool
	consoleProcess bool
)

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.AddCommand(consoleIssueCmd, consoleResponseCmd)

	consoleCmd.PersistentFlags().StringVar(&consoleName, "console", "", "EMCS console name (default from config or defcn)")
	consoleCmd.PersistentFlags().BoolVar(&consoleProcess, "process", true, "Normalize line endings in the response")

	consoleIssueCmd.Flags().StringVar(&consoleSolKey, "sol-key", "", "Solicited keyword to look for in the response")
	consoleIssueCmd.Flags().StringVar(&consoleSystem, "sysplex-system", "", "Sysplex member to route the command to")
	consoleIssueCmd.Flags().BoolVar(&consoleAsync, "async", false, "Return immediately and collect the response later with 'console response'")
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Issue MVS console commands",
}

func resolveConsole(deps *AppDependencies) string {
	if consoleName != "" {
		return consoleName
	}
	return deps.Config.Console.Name
}

func printConsole(res *console.Response) {
	logger := newLogger()
	if text, ok := res.CommandResponse.Get(); ok {
		if text = strings.TrimRight(text, "\n"); text != "" {
			logger.Info("%s", text)
		}
	} else {
		logger.Verbose("No command response returned")
	}
	if res.LastResponseKey != "" {
		logger.Verbose("Response key: %s", res.LastResponseKey)
	}
	if res.KeywordDetected {
		logger.Verbose("Solicited keyword detected")
	}
	logger.Json(res)
}

var consoleIssueCmd = &cobra.Command{
	Use:   "issue COMMAND...",
	Short: "Issue a console command and print its response",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := GetDependencies()
		if err != nil {
			return err
		}

		res, err := deps.Console.Issue(cmd.Context(), console.IssueParams{
			ConsoleName:      resolveConsole(deps),
			Command:          strings.Join(args, " "),
			SolicitedKeyword: consoleSolKey,
			SysplexSystem:    consoleSystem,
			Async:            consoleAsync,
			ProcessResponses: consoleProcess,
		})
		if err != nil {
			return err
		}

		printConsole(res)
		return nil
	},
}

var consoleResponseCmd = &cobra.Command{
	Use:   "response KEY",
	Short: "Collect the delayed response of an earlier command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := GetDependencies()
		if err != nil {
			return err
		}

		res, err := deps.Console.GetResponse(cmd.Context(), resolveConsole(deps), args[0], consoleProcess)
		if err != nil {
			return err
		}

		printConsole(res)
		return nil
	},
}
