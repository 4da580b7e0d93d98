package ui

import (
	"testing"

	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/josephgoksu/taskpilot/models"
	"github.com/stretchr/testify/assert"
)

func TestRenderRequest(t *testing.T) {
	parent := "task-1"
	req := &models.Request{
		RequestID:       "req-1",
		OriginalRequest: "Ship the release",
		Tasks: []models.Task{
			{ID: "task-1", Title: "Prepare", Status: models.StatusActive, Priority: models.PriorityHigh, SubtaskIDs: []string{"task-2"}},
			{ID: "task-2", Title: "Changelog", Status: models.StatusDone, Priority: models.PriorityHigh, ParentID: &parent},
		},
	}

	out := RenderRequest(req)
	assert.Contains(t, out, "req-1")
	assert.Contains(t, out, "Ship the release")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "└ Changelog")
	assert.Contains(t, out, "Active")
	assert.Empty(t, RenderRequest(nil))
}

func TestRenderRequestList(t *testing.T) {
	assert.Contains(t, RenderRequestList(nil), "No requests yet.")

	out := RenderRequestList([]task.RequestSummary{{RequestID: "req-3", OriginalRequest: "Docs", TotalTasks: 4, DoneTasks: 2, FailedTasks: 1, Completed: false}})
	assert.Contains(t, out, "req-3")
	assert.Contains(t, out, "3/4")
}

func TestRenderTask(t *testing.T) {
	out := RenderTask(&models.Task{ID: "task-9", Title: "Fix", Status: models.StatusFailed, Priority: models.PriorityLow, FailureReason: "tests red"})
	assert.Contains(t, out, "task-9")
	assert.Contains(t, out, "reason: tests red")
}

func TestProgressBar(t *testing.T) {
	assert.Contains(t, ProgressBar(0, 0, 10), "0/0")
	assert.Contains(t, ProgressBar(5, 10, 10), "5/10")
}
