package cmd

import (
	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/spf13/cobra"
)

var (
	doneDetails string
	failReason  string
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:     "done <request-id> <task-id>",
	Aliases: []string{"finish", "complete"},
	Short:   "Mark a task as done",
	Example: `  taskpilot done req-1 task-3 --details "Changelog written"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(svc *task.Service) error {
			res, err := svc.MarkDone(cmd.Context(), args[0], args[1], doneDetails)
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		})
	},
}

// failCmd marks a task as failed
var failCmd = &cobra.Command{
	Use:     "fail <request-id> <task-id>",
	Short:   "Mark a task as failed",
	Example: `  taskpilot fail req-1 task-3 --reason "Upstream API unavailable"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(svc *task.Service) error {
			res, err := svc.MarkFailed(cmd.Context(), args[0], args[1], failReason)
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doneCmd, failCmd)
	doneCmd.Flags().StringVarP(&doneDetails, "details", "d", "", "what was done")
	failCmd.Flags().StringVarP(&failReason, "reason", "r", "", "why the task failed")
}
