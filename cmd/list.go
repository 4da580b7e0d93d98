package cmd

import (
	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/spf13/cobra"
)

// listCmd shows every request with its progress
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List requests",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(svc *task.Service) error {
			res, err := svc.ListRequests(cmd.Context())
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
