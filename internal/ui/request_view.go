package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/josephgoksu/taskpilot/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	colStatus   = 3
	colPriority = 2
	barWidth    = 24
)

var caser = cases.Title(language.English)

// RenderRequest renders a request header, a progress bar and its task table.
func RenderRequest(req *models.Request) string {
	if req == nil {
		return ""
	}
	terminal := 0
	for _, t := range req.Tasks {
		if t.Status.IsTerminal() {
			terminal++
		}
	}

	var sb strings.Builder
	title := fmt.Sprintf("%s  %s", req.RequestID, req.OriginalRequest)
	if req.Completed {
		title += "  " + StyleSuccess.Render("✓ completed")
	}
	sb.WriteString(StyleHeader.Render(title) + "\n")
	sb.WriteString(" " + ProgressBar(terminal, len(req.Tasks), barWidth) + "\n\n")

	table := &Table{
		Headers:  []string{"ID", "Title", "Priority", "Status", "Depends On", "Parent"},
		MaxWidth: 40,
		CellStyle: func(col int, value string) lipgloss.Style {
			switch col {
			case colStatus:
				return StatusStyle(models.TaskStatus(strings.ToLower(value)))
			case colPriority:
				return PriorityStyle(models.TaskPriority(strings.ToLower(value)))
			}
			return StyleText
		},
	}
	for _, t := range req.Tasks {
		title := t.Title
		if t.Parent() != "" {
			title = "└ " + title
		}
		table.Rows = append(table.Rows, []string{
			t.ID,
			title,
			caser.String(string(t.Priority)),
			caser.String(string(t.Status)),
			strings.Join(t.DependsOn, ","),
			t.Parent(),
		})
	}
	sb.WriteString(table.Render())
	return sb.String()
}

// RenderRequestList renders request summaries.
func RenderRequestList(summaries []task.RequestSummary) string {
	if len(summaries) == 0 {
		return StyleSubtle.Render("No requests yet.") + "\n"
	}
	table := &Table{
		Headers:  []string{"Request", "Original Request", "Progress", "Completed"},
		MaxWidth: 50,
		CellStyle: func(col int, value string) lipgloss.Style {
			if col == 3 && value == "yes" {
				return StyleSuccess
			}
			return StyleText
		},
	}
	for _, s := range summaries {
		completed := "no"
		if s.Completed {
			completed = "yes"
		}
		table.Rows = append(table.Rows, []string{
			s.RequestID,
			s.OriginalRequest,
			fmt.Sprintf("%d/%d", s.DoneTasks+s.FailedTasks, s.TotalTasks),
			completed,
		})
	}
	return table.Render()
}

// RenderTask renders a task in a bordered panel.
func RenderTask(t *models.Task) string {
	if t == nil {
		return ""
	}
	var lines []string
	lines = append(lines, StyleTitle.Render(fmt.Sprintf("%s  %s", t.ID, t.Title)))
	lines = append(lines, fmt.Sprintf("%s  %s",
		StatusStyle(t.Status).Render(caser.String(string(t.Status))),
		PriorityStyle(t.Priority).Render(caser.String(string(t.Priority)))))
	if t.Description != "" {
		lines = append(lines, "", t.Description)
	}
	if len(t.DependsOn) > 0 {
		lines = append(lines, "", StyleSubtle.Render("depends on: "+strings.Join(t.DependsOn, ", ")))
	}
	if len(t.SubtaskIDs) > 0 {
		lines = append(lines, StyleSubtle.Render("subtasks:   "+strings.Join(t.SubtaskIDs, ", ")))
	}
	if t.CompletedDetails != "" {
		lines = append(lines, StyleSuccess.Render("details: "+t.CompletedDetails))
	}
	if t.FailureReason != "" {
		lines = append(lines, StyleError.Render("reason: "+t.FailureReason))
	}
	return StylePanel.Render(strings.Join(lines, "\n")) + "\n"
}

// ProgressBar renders done/total as a fixed-width bar with a count.
func ProgressBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	bar := StyleSuccess.Render(strings.Repeat("█", filled)) +
		StyleSubtle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %d/%d", bar, done, total)
}
