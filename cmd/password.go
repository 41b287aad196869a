package cmd

import (
	"fmt"
	"os"

	"github.com/graceinfra/zosmf/types"
	"golang.org/x/term"
)

// ensurePassword prompts on the terminal when neither zosmf.yml nor the
// environment supplied a password.
func ensurePassword(conn *types.Connection) error {
	if conn.Password != "" {
		return nil
	}

	stdinFd := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFd) {
		return fmt.Errorf("no password configured and no terminal available for a prompt (set ZOSMF_PASSWORD)")
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", conn)
	password, err := term.ReadPassword(stdinFd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(password) == 0 {
		return fmt.Errorf("password cannot be empty")
	}

	conn.Password = string(password)
	return nil
}
