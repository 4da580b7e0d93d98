package ui

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether stdout is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
