/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package mcp

import (
	"time"

	"github.com/josephgoksu/taskpilot/internal/presenter"
	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/josephgoksu/taskpilot/models"
	"github.com/josephgoksu/taskpilot/types"
)

func toTaskSpecs(in []types.TaskInput) []task.TaskSpec {
	specs := make([]task.TaskSpec, 0, len(in))
	for _, t := range in {
		specs = append(specs, task.TaskSpec{
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority,
			DependsOn:   t.DependsOn,
		})
	}
	return specs
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func taskToResponse(t models.Task) types.TaskResponse {
	resp := types.TaskResponse{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Status:           string(t.Status),
		Priority:         string(t.Priority),
		DependsOn:        t.DependsOn,
		ParentID:         t.Parent(),
		SubtaskIDs:       t.SubtaskIDs,
		FailureReason:    t.FailureReason,
		CompletedDetails: t.CompletedDetails,
		CreatedAt:        formatTime(t.CreatedAt),
		UpdatedAt:        formatTime(t.UpdatedAt),
	}
	if t.CompletedAt != nil {
		resp.CompletedAt = formatTime(*t.CompletedAt)
	}
	return resp
}

func tasksToResponse(tasks []models.Task) []types.TaskResponse {
	if len(tasks) == 0 {
		return nil
	}
	out := make([]types.TaskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = taskToResponse(t)
	}
	return out
}

func requestToResponse(r *models.Request) *types.RequestResponse {
	resp := &types.RequestResponse{
		RequestID:       r.RequestID,
		OriginalRequest: r.OriginalRequest,
		SplitDetails:    r.SplitDetails,
		Completed:       r.Completed,
		Tasks:           tasksToResponse(r.Tasks),
	}
	if resp.Tasks == nil {
		resp.Tasks = []types.TaskResponse{}
	}
	return resp
}

// toToolResult converts an engine result into the structured tool payload.
func toToolResult(res *task.Result) types.ToolResult {
	out := types.ToolResult{
		Status:           res.Status,
		Message:          res.Message,
		Tasks:            tasksToResponse(res.Tasks),
		AutoCompleted:    res.AutoCompleted,
		RequestCompleted: res.RequestCompleted,
		Removed:          res.Removed,
	}
	if res.Request != nil {
		out.Request = requestToResponse(res.Request)
		out.Progress = presenter.Progress(res.Request)
	}
	if res.Task != nil {
		tr := taskToResponse(*res.Task)
		out.Task = &tr
	}
	for _, s := range res.Requests {
		out.Requests = append(out.Requests, types.RequestSummaryResponse{
			RequestID:       s.RequestID,
			OriginalRequest: s.OriginalRequest,
			TotalTasks:      s.TotalTasks,
			DoneTasks:       s.DoneTasks,
			FailedTasks:     s.FailedTasks,
			ActiveTasks:     s.ActiveTasks,
			Completed:       s.Completed,
		})
	}
	if res.Validation != nil {
		issues := res.Validation.Issues
		if issues == nil {
			issues = []string{}
		}
		out.Validation = &types.ValidationResponse{Issues: issues, Cyclic: res.Validation.Cyclic}
	}
	return out
}
