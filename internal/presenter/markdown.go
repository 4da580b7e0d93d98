// Package presenter renders engine results as Markdown. Tool responses embed it
// for LLM consumption; internal/ui handles styled terminal output.
package presenter

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/josephgoksu/taskpilot/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const detailsPreview = 60

var titleCaser = cases.Title(language.English)

// StatusLabel returns the display label of a status, e.g. "Done".
func StatusLabel(s models.TaskStatus) string {
	return titleCaser.String(string(s))
}

// Progress renders the progress table of one request.
func Progress(req *models.Request) string {
	if req == nil {
		return ""
	}
	var sb strings.Builder
	done, failed := 0, 0
	for _, t := range req.Tasks {
		switch t.Status {
		case models.StatusDone:
			done++
		case models.StatusFailed:
			failed++
		}
	}

	state := "In progress"
	if req.Completed {
		state = "Completed"
	}
	sb.WriteString(fmt.Sprintf("## Progress: %s (%s)\n", req.RequestID, state))
	sb.WriteString(fmt.Sprintf("%d/%d tasks terminal (%d done, %d failed)\n\n", done+failed, len(req.Tasks), done, failed))

	if len(req.Tasks) == 0 {
		sb.WriteString("_No tasks._\n")
		return sb.String()
	}

	sb.WriteString("| Task ID | Title | Priority | Status | Depends On | Parent | Details |\n")
	sb.WriteString("|---|---|---|---|---|---|---|\n")
	for _, t := range req.Tasks {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |\n",
			t.ID,
			cell(t.Title),
			titleCaser.String(string(t.Priority)),
			StatusLabel(t.Status),
			orDash(strings.Join(t.DependsOn, ", ")),
			orDash(t.Parent()),
			orDash(cell(truncate(terminalDetails(&t), detailsPreview))),
		))
	}
	return sb.String()
}

// RequestList renders list_requests summaries.
func RequestList(summaries []task.RequestSummary) string {
	if len(summaries) == 0 {
		return "No requests yet."
	}
	var sb strings.Builder
	sb.WriteString("| Request ID | Original Request | Tasks | Done | Failed | Active | Completed |\n")
	sb.WriteString("|---|---|---|---|---|---|---|\n")
	for _, s := range summaries {
		completed := "No"
		if s.Completed {
			completed = "Yes"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d | %d | %s |\n",
			s.RequestID, cell(truncate(s.OriginalRequest, detailsPreview)), s.TotalTasks, s.DoneTasks, s.FailedTasks, s.ActiveTasks, completed))
	}
	return sb.String()
}

// TaskDetail renders every attribute of a task.
func TaskDetail(requestID string, t *models.Task) string {
	if t == nil {
		return "No task information."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("### %s: %s\n", t.ID, t.Title))
	sb.WriteString(fmt.Sprintf("- **Request**: %s\n", requestID))
	sb.WriteString(fmt.Sprintf("- **Status**: %s\n", StatusLabel(t.Status)))
	sb.WriteString(fmt.Sprintf("- **Priority**: %s\n", titleCaser.String(string(t.Priority))))
	if p := t.Parent(); p != "" {
		sb.WriteString(fmt.Sprintf("- **Parent**: %s\n", p))
	}
	if len(t.SubtaskIDs) > 0 {
		sb.WriteString(fmt.Sprintf("- **Subtasks**: %s\n", strings.Join(t.SubtaskIDs, ", ")))
	}
	if len(t.DependsOn) > 0 {
		sb.WriteString(fmt.Sprintf("- **Depends on**: %s\n", strings.Join(t.DependsOn, ", ")))
	}
	if t.CompletedDetails != "" {
		sb.WriteString(fmt.Sprintf("- **Completed details**: %s\n", t.CompletedDetails))
	}
	if t.FailureReason != "" {
		sb.WriteString(fmt.Sprintf("- **Failure reason**: %s\n", t.FailureReason))
	}
	if strings.TrimSpace(t.Description) != "" {
		sb.WriteString("\n")
		sb.WriteString(t.Description)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Validation renders a dependency validation report.
func Validation(report *task.ValidationReport) string {
	if report == nil {
		return ""
	}
	if report.Passed() {
		return "Dependency validation passed."
	}
	var sb strings.Builder
	sb.WriteString("Dependency issues:\n")
	for _, issue := range report.Issues {
		sb.WriteString("- " + issue + "\n")
	}
	return sb.String()
}

// Result renders the text content for a tool result: the message, any
// operation specific section and the request progress table.
func Result(res *task.Result) string {
	if res == nil {
		return ""
	}
	parts := []string{res.Message}
	switch res.Status {
	case task.StatusRequestsListed:
		parts = append(parts, RequestList(res.Requests))
	case task.StatusTaskDetails, task.StatusNextTask:
		if res.Task != nil && res.Request != nil {
			parts = append(parts, TaskDetail(res.Request.RequestID, res.Task))
		}
	}
	if res.Validation != nil && !res.Validation.Passed() {
		parts = append(parts, Validation(res.Validation))
	}
	if res.Request != nil {
		parts = append(parts, Progress(res.Request))
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

func terminalDetails(t *models.Task) string {
	switch t.Status {
	case models.StatusDone:
		return t.CompletedDetails
	case models.StatusFailed:
		return t.FailureReason
	}
	return ""
}

// cell makes s safe inside a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
