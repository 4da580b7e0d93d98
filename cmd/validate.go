package cmd

import (
	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/spf13/cobra"
)

// validateCmd checks a request's dependency graph
var validateCmd = &cobra.Command{
	Use:   "validate <request-id>",
	Short: "Check a request for missing and circular dependencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(svc *task.Service) error {
			res, err := svc.ValidateDependencies(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
