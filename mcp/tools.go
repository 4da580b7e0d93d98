/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/josephgoksu/taskpilot/internal/logger"
	"github.com/josephgoksu/taskpilot/internal/presenter"
	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/josephgoksu/taskpilot/types"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

var validate = validator.New()

type toolset struct {
	svc *task.Service
}

// instrument adapts an engine call into a tool handler: it validates the
// arguments, logs the call and renders the result or the error.
func instrument[In any](name string, call func(ctx context.Context, args In) (*task.Result, error)) mcpsdk.ToolHandlerFor[In, types.ToolResult] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[In]) (*mcpsdk.CallToolResultFor[types.ToolResult], error) {
		var args In
		if params != nil {
			args = params.Arguments
		}
		callID := uuid.NewString()
		start := time.Now()
		log := slog.With("tool", name, "call_id", callID)

		raw, _ := json.Marshal(args)
		log.Debug("tool call", "args", string(raw))
		logger.SetLastToolCall(name, string(raw))

		if err := validate.Struct(args); err != nil {
			log.Warn("invalid tool arguments", "error", err)
			return validationErrorResult(err), nil
		}

		res, err := call(ctx, args)
		if err != nil {
			log.Warn("tool failed", "error", err, "duration", time.Since(start))
			return errorResult(err), nil
		}
		log.Info("tool completed", "status", res.Status, "duration", time.Since(start))

		out := toToolResult(res)
		return &mcpsdk.CallToolResultFor[types.ToolResult]{
			Content:           []mcpsdk.Content{&mcpsdk.TextContent{Text: presenter.Result(res)}},
			StructuredContent: out,
		}, nil
	}
}

func (ts *toolset) requestPlanning() mcpsdk.ToolHandlerFor[types.RequestPlanningParams, types.ToolResult] {
	return instrument("request_planning", func(ctx context.Context, args types.RequestPlanningParams) (*task.Result, error) {
		return ts.svc.Plan(ctx, task.PlanInput{
			OriginalRequest: args.OriginalRequest,
			SplitDetails:    args.SplitDetails,
			Tasks:           toTaskSpecs(args.Tasks),
		})
	})
}

func (ts *toolset) getNextTask() mcpsdk.ToolHandlerFor[types.RequestRef, types.ToolResult] {
	return instrument("get_next_task", func(ctx context.Context, args types.RequestRef) (*task.Result, error) {
		return ts.svc.NextTask(ctx, args.RequestID)
	})
}

func (ts *toolset) markTaskDone() mcpsdk.ToolHandlerFor[types.MarkTaskDoneParams, types.ToolResult] {
	return instrument("mark_task_done", func(ctx context.Context, args types.MarkTaskDoneParams) (*task.Result, error) {
		return ts.svc.MarkDone(ctx, args.RequestID, args.TaskID, args.CompletedDetails)
	})
}

func (ts *toolset) markTaskFailed() mcpsdk.ToolHandlerFor[types.MarkTaskFailedParams, types.ToolResult] {
	return instrument("mark_task_failed", func(ctx context.Context, args types.MarkTaskFailedParams) (*task.Result, error) {
		return ts.svc.MarkFailed(ctx, args.RequestID, args.TaskID, args.Reason)
	})
}

func (ts *toolset) openTaskDetails() mcpsdk.ToolHandlerFor[types.OpenTaskDetailsParams, types.ToolResult] {
	return instrument("open_task_details", func(ctx context.Context, args types.OpenTaskDetailsParams) (*task.Result, error) {
		return ts.svc.TaskDetails(ctx, args.TaskID)
	})
}

func (ts *toolset) listRequests() mcpsdk.ToolHandlerFor[types.ListRequestsParams, types.ToolResult] {
	return instrument("list_requests", func(ctx context.Context, _ types.ListRequestsParams) (*task.Result, error) {
		return ts.svc.ListRequests(ctx)
	})
}

func (ts *toolset) addTasksToRequest() mcpsdk.ToolHandlerFor[types.AddTasksParams, types.ToolResult] {
	return instrument("add_tasks_to_request", func(ctx context.Context, args types.AddTasksParams) (*task.Result, error) {
		return ts.svc.AddTasks(ctx, args.RequestID, toTaskSpecs(args.Tasks))
	})
}

func (ts *toolset) updateTask() mcpsdk.ToolHandlerFor[types.UpdateTaskParams, types.ToolResult] {
	return instrument("update_task", func(ctx context.Context, args types.UpdateTaskParams) (*task.Result, error) {
		return ts.svc.UpdateTask(ctx, args.RequestID, args.TaskID, task.TaskUpdate{
			Title:       args.Title,
			Description: args.Description,
			Priority:    args.Priority,
		})
	})
}

func (ts *toolset) addDependency() mcpsdk.ToolHandlerFor[types.DependencyParams, types.ToolResult] {
	return instrument("add_dependency", func(ctx context.Context, args types.DependencyParams) (*task.Result, error) {
		return ts.svc.AddDependency(ctx, args.RequestID, args.TaskID, args.DependsOnTaskID)
	})
}

func (ts *toolset) removeDependency() mcpsdk.ToolHandlerFor[types.DependencyParams, types.ToolResult] {
	return instrument("remove_dependency", func(ctx context.Context, args types.DependencyParams) (*task.Result, error) {
		return ts.svc.RemoveDependency(ctx, args.RequestID, args.TaskID, args.DependsOnTaskID)
	})
}

func (ts *toolset) validateDependencies() mcpsdk.ToolHandlerFor[types.RequestRef, types.ToolResult] {
	return instrument("validate_dependencies", func(ctx context.Context, args types.RequestRef) (*task.Result, error) {
		return ts.svc.ValidateDependencies(ctx, args.RequestID)
	})
}

func (ts *toolset) deleteTask() mcpsdk.ToolHandlerFor[types.TaskRef, types.ToolResult] {
	return instrument("delete_task", func(ctx context.Context, args types.TaskRef) (*task.Result, error) {
		return ts.svc.DeleteTask(ctx, args.RequestID, args.TaskID)
	})
}

func (ts *toolset) addSubtask() mcpsdk.ToolHandlerFor[types.AddSubtaskParams, types.ToolResult] {
	return instrument("add_subtask", func(ctx context.Context, args types.AddSubtaskParams) (*task.Result, error) {
		return ts.svc.AddSubtask(ctx, args.RequestID, args.ParentTaskID, task.TaskSpec{
			Title:       args.SubtaskTitle,
			Description: args.SubtaskDescription,
			Priority:    args.Priority,
			DependsOn:   args.DependsOn,
		})
	})
}

func (ts *toolset) removeSubtask() mcpsdk.ToolHandlerFor[types.RemoveSubtaskParams, types.ToolResult] {
	return instrument("remove_subtask", func(ctx context.Context, args types.RemoveSubtaskParams) (*task.Result, error) {
		return ts.svc.RemoveSubtask(ctx, args.RequestID, args.SubtaskID, args.ParentTaskID)
	})
}
