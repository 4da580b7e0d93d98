package cmd

import (
	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/spf13/cobra"
)

// nextCmd selects and activates the next actionable task
var nextCmd = &cobra.Command{
	Use:   "next <request-id>",
	Short: "Start the next actionable task of a request",
	Long: `Select the next task whose dependencies are met and mark it active. Subtasks
of an active task are preferred, then higher priority, then lower task id.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(svc *task.Service) error {
			res, err := svc.NextTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)
}
