package main

import (
	"fmt"
	"os"

	"github.com/graceinfra/zosmf/cmd"
	"github.com/graceinfra/zosmf/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	isVerbose := false
	logFilePath := os.Getenv("ZOSMF_LOG_FILE")

	for _, arg := range os.Args {
		if arg == "--verbose" || arg == "-v" {
			isVerbose = true
		}
	}

	err := logging.ConfigureGlobalLogger(isVerbose, logFilePath)
	if err != nil {
		// Fallback to basic stderr if logger setup fails
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	log.Debug().Msg("Starting zosmf CLI command execution")
	cmd.Execute()
}
