package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/josephgoksu/taskpilot/store"
	"github.com/josephgoksu/taskpilot/types"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupToolset(t *testing.T, fsys afero.Fs) *toolset {
	t.Helper()
	if fsys == nil {
		fsys = afero.NewMemMapFs()
	}
	st, err := store.NewFileStore("/data/tasks.json", "json", store.WithFs(fsys))
	require.NoError(t, err)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &toolset{svc: task.NewService(st, task.WithClock(func() time.Time { return now }))}
}

func call[In any](t *testing.T, h mcpsdk.ToolHandlerFor[In, types.ToolResult], args In) *mcpsdk.CallToolResultFor[types.ToolResult] {
	t.Helper()
	res, err := h(context.Background(), nil, &mcpsdk.CallToolParamsFor[In]{Arguments: args})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcpsdk.CallToolResultFor[types.ToolResult]) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func decodeError(t *testing.T, res *mcpsdk.CallToolResultFor[types.ToolResult]) types.MCPError {
	t.Helper()
	require.True(t, res.IsError)
	var e types.MCPError
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &e))
	return e
}

func planTwo(t *testing.T, ts *toolset) {
	t.Helper()
	res := call(t, ts.requestPlanning(), types.RequestPlanningParams{
		OriginalRequest: "ship the release",
		Tasks: []types.TaskInput{
			{Title: "Write changelog", Priority: "low"},
			{Title: "Tag release", Priority: "high", DependsOn: []string{"task-1"}},
		},
	})
	require.False(t, res.IsError, text(t, res))
}

func TestRequestPlanning(t *testing.T) {
	ts := setupToolset(t, nil)

	res := call(t, ts.requestPlanning(), types.RequestPlanningParams{
		OriginalRequest: "ship the release",
		SplitDetails:    "two steps",
		Tasks:           []types.TaskInput{{Title: "Write changelog"}, {Title: "Tag release", Priority: "high"}},
	})

	require.False(t, res.IsError)
	out := res.StructuredContent
	assert.Equal(t, task.StatusPlanned, out.Status)
	require.NotNil(t, out.Request)
	assert.Equal(t, "req-1", out.Request.RequestID)
	assert.Len(t, out.Tasks, 2)
	assert.Equal(t, "medium", out.Tasks[0].Priority)
	assert.Equal(t, "2025-03-01T12:00:00Z", out.Tasks[0].CreatedAt)
	assert.Contains(t, out.Progress, "| Task ID |")
	assert.Contains(t, text(t, res), "task-2")
}

func TestRequestPlanning_InvalidInput(t *testing.T) {
	ts := setupToolset(t, nil)

	tests := []struct {
		name string
		args types.RequestPlanningParams
	}{
		{"missing request", types.RequestPlanningParams{Tasks: []types.TaskInput{{Title: "A"}}}},
		{"no tasks", types.RequestPlanningParams{OriginalRequest: "x"}},
		{"missing title", types.RequestPlanningParams{OriginalRequest: "x", Tasks: []types.TaskInput{{Description: "d"}}}},
		{"bad priority", types.RequestPlanningParams{OriginalRequest: "x", Tasks: []types.TaskInput{{Title: "A", Priority: "urgent"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := decodeError(t, call(t, ts.requestPlanning(), tt.args))
			assert.Equal(t, types.CodeInvalidInput, e.Code)
		})
	}
}

func TestGetNextTask_RespectsDependencies(t *testing.T) {
	ts := setupToolset(t, nil)
	planTwo(t, ts)

	res := call(t, ts.getNextTask(), types.RequestRef{RequestID: "req-1"})
	require.False(t, res.IsError)
	assert.Equal(t, task.StatusNextTask, res.StructuredContent.Status)
	require.NotNil(t, res.StructuredContent.Task)
	assert.Equal(t, "task-1", res.StructuredContent.Task.ID)
	assert.Equal(t, "active", res.StructuredContent.Task.Status)
}

func TestMarkDone_CompletesRequest(t *testing.T) {
	ts := setupToolset(t, nil)
	planTwo(t, ts)

	res := call(t, ts.markTaskDone(), types.MarkTaskDoneParams{RequestID: "req-1", TaskID: "task-1", CompletedDetails: "written"})
	assert.Equal(t, task.StatusTaskMarkedDone, res.StructuredContent.Status)
	assert.False(t, res.StructuredContent.RequestCompleted)

	res = call(t, ts.markTaskFailed(), types.MarkTaskFailedParams{RequestID: "req-1", TaskID: "task-2"})
	assert.Equal(t, task.StatusTaskMarkedFailed, res.StructuredContent.Status)
	assert.True(t, res.StructuredContent.RequestCompleted)
	assert.Equal(t, task.DefaultFailureReason, res.StructuredContent.Task.FailureReason)

	res = call(t, ts.getNextTask(), types.RequestRef{RequestID: "req-1"})
	assert.Equal(t, task.StatusAlreadyCompleted, res.StructuredContent.Status)

	res = call(t, ts.markTaskDone(), types.MarkTaskDoneParams{RequestID: "req-1", TaskID: "task-1"})
	assert.Equal(t, task.StatusAlreadyDone, res.StructuredContent.Status)
}

func TestErrorCodes(t *testing.T) {
	ts := setupToolset(t, nil)
	planTwo(t, ts)

	e := decodeError(t, call(t, ts.getNextTask(), types.RequestRef{RequestID: "req-9"}))
	assert.Equal(t, types.CodeNotFound, e.Code)

	e = decodeError(t, call(t, ts.openTaskDetails(), types.OpenTaskDetailsParams{TaskID: "task-99"}))
	assert.Equal(t, types.CodeNotFound, e.Code)

	e = decodeError(t, call(t, ts.addDependency(), types.DependencyParams{RequestID: "req-1", TaskID: "task-1", DependsOnTaskID: "task-1"}))
	assert.Equal(t, types.CodeInvalidEdit, e.Code)

	call(t, ts.markTaskDone(), types.MarkTaskDoneParams{RequestID: "req-1", TaskID: "task-1"})
	title := "renamed"
	e = decodeError(t, call(t, ts.updateTask(), types.UpdateTaskParams{RequestID: "req-1", TaskID: "task-1", Title: &title}))
	assert.Equal(t, types.CodeInvalidState, e.Code)

	e = decodeError(t, call(t, ts.removeSubtask(), types.RemoveSubtaskParams{RequestID: "req-1", SubtaskID: "task-2", ParentTaskID: "task-1"}))
	assert.Equal(t, types.CodeInvalidEdit, e.Code)
}

func TestStorageFailure(t *testing.T) {
	ts := setupToolset(t, afero.NewReadOnlyFs(afero.NewMemMapFs()))

	e := decodeError(t, call(t, ts.requestPlanning(), types.RequestPlanningParams{
		OriginalRequest: "x",
		Tasks:           []types.TaskInput{{Title: "A"}},
	}))
	assert.Equal(t, types.CodeStorageFailure, e.Code)
}

func TestDependencyTools(t *testing.T) {
	ts := setupToolset(t, nil)
	planTwo(t, ts)

	res := call(t, ts.addDependency(), types.DependencyParams{RequestID: "req-1", TaskID: "task-1", DependsOnTaskID: "task-2"})
	require.False(t, res.IsError)
	assert.Equal(t, task.StatusDependencyAdded, res.StructuredContent.Status)
	require.NotNil(t, res.StructuredContent.Validation)
	assert.True(t, res.StructuredContent.Validation.Cyclic)

	res = call(t, ts.validateDependencies(), types.RequestRef{RequestID: "req-1"})
	assert.Equal(t, task.StatusValidationFailed, res.StructuredContent.Status)
	assert.Contains(t, text(t, res), "Circular dependency detected")

	res = call(t, ts.removeDependency(), types.DependencyParams{RequestID: "req-1", TaskID: "task-1", DependsOnTaskID: "task-2"})
	assert.Equal(t, task.StatusDependencyRemoved, res.StructuredContent.Status)

	res = call(t, ts.removeDependency(), types.DependencyParams{RequestID: "req-1", TaskID: "task-1", DependsOnTaskID: "task-2"})
	assert.Equal(t, task.StatusDependencyNotFound, res.StructuredContent.Status)

	res = call(t, ts.validateDependencies(), types.RequestRef{RequestID: "req-1"})
	assert.Equal(t, task.StatusValidationPassed, res.StructuredContent.Status)
	assert.Empty(t, res.StructuredContent.Validation.Issues)
}

func TestSubtaskTools(t *testing.T) {
	ts := setupToolset(t, nil)
	planTwo(t, ts)

	res := call(t, ts.addSubtask(), types.AddSubtaskParams{RequestID: "req-1", ParentTaskID: "task-2", SubtaskTitle: "Push tag"})
	require.False(t, res.IsError, text(t, res))
	assert.Equal(t, task.StatusSubtaskAdded, res.StructuredContent.Status)
	require.NotNil(t, res.StructuredContent.Task)
	assert.Equal(t, "task-3", res.StructuredContent.Task.ID)
	assert.Equal(t, "task-2", res.StructuredContent.Task.ParentID)
	assert.Equal(t, "high", res.StructuredContent.Task.Priority)

	res = call(t, ts.removeSubtask(), types.RemoveSubtaskParams{RequestID: "req-1", SubtaskID: "task-3", ParentTaskID: "task-2"})
	assert.Equal(t, task.StatusSubtaskRemoved, res.StructuredContent.Status)
	assert.Equal(t, []string{"task-3"}, res.StructuredContent.Removed)

	res = call(t, ts.deleteTask(), types.TaskRef{RequestID: "req-1", TaskID: "task-1"})
	assert.Equal(t, task.StatusTaskDeleted, res.StructuredContent.Status)
	require.Len(t, res.StructuredContent.Request.Tasks, 1)
	assert.Empty(t, res.StructuredContent.Request.Tasks[0].DependsOn)
}

func TestAddTasksAndList(t *testing.T) {
	ts := setupToolset(t, nil)
	planTwo(t, ts)

	res := call(t, ts.addTasksToRequest(), types.AddTasksParams{RequestID: "req-1", Tasks: []types.TaskInput{{Title: "Announce"}}})
	assert.Equal(t, task.StatusTasksAdded, res.StructuredContent.Status)
	require.Len(t, res.StructuredContent.Tasks, 1)
	assert.Equal(t, "task-3", res.StructuredContent.Tasks[0].ID)

	res = call(t, ts.listRequests(), types.ListRequestsParams{})
	assert.Equal(t, task.StatusRequestsListed, res.StructuredContent.Status)
	require.Len(t, res.StructuredContent.Requests, 1)
	assert.Equal(t, 3, res.StructuredContent.Requests[0].TotalTasks)
}

func TestUpdateTask(t *testing.T) {
	ts := setupToolset(t, nil)
	planTwo(t, ts)

	prio := "high"
	desc := "keep a changelog"
	res := call(t, ts.updateTask(), types.UpdateTaskParams{RequestID: "req-1", TaskID: "task-1", Priority: &prio, Description: &desc})
	require.False(t, res.IsError)
	assert.Equal(t, task.StatusTaskUpdated, res.StructuredContent.Status)
	assert.Equal(t, "high", res.StructuredContent.Task.Priority)
	assert.Equal(t, desc, res.StructuredContent.Task.Description)
}

func TestRequestsResource(t *testing.T) {
	ts := setupToolset(t, nil)
	planTwo(t, ts)

	res, err := requestsResource(ts.svc)(context.Background(), nil, &mcpsdk.ReadResourceParams{URI: RequestsResourceURI})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)

	var doc struct {
		Requests []struct {
			RequestID string `json:"requestId"`
		} `json:"requests"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &doc))
	require.Len(t, doc.Requests, 1)
	assert.Equal(t, "req-1", doc.Requests[0].RequestID)
}

func TestNewServer(t *testing.T) {
	ts := setupToolset(t, nil)
	assert.NotNil(t, NewServer(ts.svc, "test"))
}
