package presenter

import (
	"strings"
	"testing"

	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/josephgoksu/taskpilot/models"
	"github.com/stretchr/testify/assert"
)

func sampleRequest() *models.Request {
	parent := "task-1"
	return &models.Request{
		RequestID: "req-1",
		Tasks: []models.Task{
			{ID: "task-1", Title: "Parent", Status: models.StatusActive, Priority: models.PriorityHigh, SubtaskIDs: []string{"task-2"}},
			{ID: "task-2", Title: "Child | piped", Status: models.StatusDone, Priority: models.PriorityHigh, ParentID: &parent, CompletedDetails: "merged"},
			{ID: "task-3", Title: "Blocked", Status: models.StatusFailed, Priority: models.PriorityLow, DependsOn: []string{"task-1", "task-2"}, FailureReason: "flaky"},
		},
	}
}

func TestProgress(t *testing.T) {
	out := Progress(sampleRequest())

	assert.Contains(t, out, "## Progress: req-1 (In progress)")
	assert.Contains(t, out, "2/3 tasks terminal (1 done, 1 failed)")
	assert.Contains(t, out, "| Task ID | Title | Priority | Status | Depends On | Parent | Details |")
	assert.Contains(t, out, "| task-1 | Parent | High | Active | - | - | - |")
	assert.Contains(t, out, "| task-2 | Child \\| piped | High | Done | - | task-1 | merged |")
	assert.Contains(t, out, "| task-3 | Blocked | Low | Failed | task-1, task-2 | - | flaky |")
}

func TestProgress_EmptyAndCompleted(t *testing.T) {
	assert.Empty(t, Progress(nil))

	out := Progress(&models.Request{RequestID: "req-2", Completed: true})
	assert.Contains(t, out, "(Completed)")
	assert.Contains(t, out, "_No tasks._")
}

func TestRequestList(t *testing.T) {
	assert.Equal(t, "No requests yet.", RequestList(nil))

	out := RequestList([]task.RequestSummary{{RequestID: "req-1", OriginalRequest: "Ship", TotalTasks: 3, DoneTasks: 1, Completed: false}})
	assert.Contains(t, out, "| req-1 | Ship | 3 | 1 | 0 | 0 | No |")
}

func TestTaskDetail(t *testing.T) {
	req := sampleRequest()
	out := TaskDetail("req-1", &req.Tasks[2])

	assert.True(t, strings.HasPrefix(out, "### task-3: Blocked"))
	assert.Contains(t, out, "- **Status**: Failed")
	assert.Contains(t, out, "- **Failure reason**: flaky")
	assert.Contains(t, out, "- **Depends on**: task-1, task-2")
	assert.NotContains(t, out, "Completed details")
}

func TestValidation(t *testing.T) {
	assert.Equal(t, "Dependency validation passed.", Validation(&task.ValidationReport{}))

	out := Validation(&task.ValidationReport{Issues: []string{"Circular dependency detected: task-1 -> task-2 -> task-1"}, Cyclic: true})
	assert.Contains(t, out, "- Circular dependency detected")
}

func TestResult(t *testing.T) {
	req := sampleRequest()
	out := Result(&task.Result{Status: task.StatusNextTask, Message: "Next task: task-1.", Task: &req.Tasks[0], Request: req})

	assert.True(t, strings.HasPrefix(out, "Next task: task-1."))
	assert.Contains(t, out, "### task-1: Parent")
	assert.Contains(t, out, "## Progress: req-1")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
