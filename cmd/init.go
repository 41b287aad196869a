package cmd

import (
	"fmt"

	"github.com/graceinfra/zosmf/internal/config"
	"github.com/graceinfra/zosmf/internal/utils"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [host]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Create a zosmf.yml connection config",
	Long: `Initialize writes a starter zosmf.yml (or the file named by --config) after
prompting for the z/OSMF host, port, user and TSO account.

The password is never written to the file. Supply it through ZOSMF_PASSWORD,
a .env file next to the config, or the interactive prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := utils.MustNotExist(configPath); err != nil {
			return err
		}

		hostArg := ""
		if len(args) > 0 {
			hostArg = args[0]
		}

		cfg, canceled := RunInitTUI(hostArg)
		if canceled {
			fmt.Println("✖ zosmf init canceled.")
			return nil
		}

		if err := config.ValidateConfig(&cfg); err != nil {
			return err
		}
		if err := config.WriteConfig(configPath, cfg); err != nil {
			return err
		}

		fmt.Printf("✓ %s written for %s\n", configPath, cfg.Connection)
		return nil
	},
}
