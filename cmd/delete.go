package cmd

import (
	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/spf13/cobra"
)

// deleteCmd removes a task and its subtasks
var deleteCmd = &cobra.Command{
	Use:     "delete <request-id> <task-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task and all of its subtasks",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(svc *task.Service) error {
			res, err := svc.DeleteTask(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
