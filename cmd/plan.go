package cmd

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/spf13/cobra"
)

var (
	planTasks        []string
	planSplitDetails string
)

// planCmd registers a request from the command line
var planCmd = &cobra.Command{
	Use:   "plan <request>",
	Short: "Plan a new request with its tasks",
	Long: `Register a request and its top-level tasks. Each --task value has the form
"title::description::priority"; description and priority are optional.`,
	Example: `  taskpilot plan "Ship v1" \
    --task "Write changelog::Summarize merged PRs::low" \
    --task "Tag release::::high"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		specs := make([]task.TaskSpec, 0, len(planTasks))
		for _, raw := range planTasks {
			spec, err := parseTaskFlag(raw)
			if err != nil {
				return err
			}
			specs = append(specs, spec)
		}
		return withService(cmd.Context(), func(svc *task.Service) error {
			res, err := svc.Plan(cmd.Context(), task.PlanInput{
				OriginalRequest: args[0],
				SplitDetails:    planSplitDetails,
				Tasks:           specs,
			})
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		})
	},
}

// parseTaskFlag splits "title::description::priority".
func parseTaskFlag(raw string) (task.TaskSpec, error) {
	parts := strings.SplitN(raw, "::", 3)
	spec := task.TaskSpec{Title: strings.TrimSpace(parts[0])}
	if spec.Title == "" {
		return task.TaskSpec{}, fmt.Errorf("invalid --task %q: title is required", raw)
	}
	if len(parts) > 1 {
		spec.Description = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		spec.Priority = strings.TrimSpace(parts[2])
	}
	return spec, nil
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringArrayVarP(&planTasks, "task", "t", nil, `task as "title::description::priority" (repeatable)`)
	planCmd.Flags().StringVar(&planSplitDetails, "split-details", "", "how the request was split into tasks")
}
