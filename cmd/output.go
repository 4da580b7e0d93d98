package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/josephgoksu/taskpilot/internal/presenter"
	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/josephgoksu/taskpilot/internal/ui"
	"github.com/spf13/cobra"
)

// styled reports whether w is a terminal that should get the lipgloss views.
func styled(w io.Writer) bool {
	return w == os.Stdout && ui.IsInteractive()
}

// printResult writes res to the command's output. Terminals get the styled
// tables, pipes and files get the same markdown the MCP tools return.
func printResult(cmd *cobra.Command, res *task.Result) {
	out := cmd.OutOrStdout()
	if !styled(out) {
		fmt.Fprintln(out, presenter.Result(res))
		return
	}

	if res.Message != "" {
		fmt.Fprintln(out, res.Message)
		fmt.Fprintln(out)
	}
	switch {
	case res.Status == task.StatusRequestsListed:
		fmt.Fprintln(out, ui.RenderRequestList(res.Requests))
	case res.Task != nil && (res.Status == task.StatusTaskDetails || res.Status == task.StatusNextTask):
		fmt.Fprintln(out, ui.RenderTask(res.Task))
	}
	if res.Validation != nil && !res.Validation.Passed() {
		fmt.Fprintln(out, presenter.Validation(res.Validation))
	}
	if res.Request != nil {
		fmt.Fprintln(out, ui.RenderRequest(res.Request))
	}
}
