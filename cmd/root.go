package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/graceinfra/zosmf/internal/config"
	"github.com/spf13/cobra"
)

var (
	Verbose     bool
	wantJSON    bool
	configPath  string
	dumpMetrics bool
)

var rootCmd = &cobra.Command{
	Use:           "zosmf",
	Short:         "Monitor jobs, drive TSO and issue console commands through z/OSMF",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if !dumpMetrics || appDependencies == nil {
			return nil
		}
		return writeMetrics(os.Stderr, appDependencies.Registry)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigFile, "Path to the z/OSMF connection config")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "Enable verbose logs to stderr")
	rootCmd.PersistentFlags().BoolVar(&wantJSON, "json", false, "Print structured JSON instead of human output")
	rootCmd.PersistentFlags().BoolVar(&dumpMetrics, "metrics", false, "Dump request metrics to stderr when the command finishes")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
