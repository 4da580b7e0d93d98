package cmd

import (
	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/spf13/cobra"
)

// showCmd prints one task, looked up across all requests
var showCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show the details of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(svc *task.Service) error {
			res, err := svc.TaskDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
