package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/spf13/viper"
)

// userMessage turns an engine error into a short line for the terminal.
func userMessage(err error) string {
	if errors.Is(err, task.ErrStorage) {
		return "Error: could not read or write the task data. Run with --verbose for details."
	}
	return "Error: " + err.Error()
}

// PrintError prints an error message without exiting. With --verbose the full
// technical error is shown instead of the user-friendly message.
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", technicalErr)
		return
	}
	fmt.Fprintln(os.Stderr, userMsg)
}

// LogError writes a debug line to stderr when verbose mode is on.
func LogError(msg string, err error) {
	if !viper.GetBool("verbose") {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "[DEBUG] %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "[DEBUG] %s\n", msg)
	}
}
