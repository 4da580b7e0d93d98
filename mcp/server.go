/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
// Package mcp exposes the task engine as Model Context Protocol tools.
package mcp

import (
	"context"
	"log/slog"

	"github.com/josephgoksu/taskpilot/internal/task"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// RequestsResourceURI is the read-only JSON view of every request.
const RequestsResourceURI = "taskpilot://requests"

// NewServer builds an MCP server with every task tool and resource registered.
func NewServer(svc *task.Service, version string) *mcpsdk.Server {
	impl := &mcpsdk.Implementation{
		Name:    "taskpilot",
		Version: version,
	}
	opts := &mcpsdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.InitializedParams) {
			slog.Info("mcp client initialized")
		},
	}
	server := mcpsdk.NewServer(impl, opts)
	registerTools(server, &toolset{svc: svc})
	registerResources(server, svc)
	return server
}

// Run serves over stdio until the client disconnects or ctx is done.
func Run(ctx context.Context, server *mcpsdk.Server) error {
	return server.Run(ctx, mcpsdk.NewStdioTransport())
}

func registerTools(server *mcpsdk.Server, ts *toolset) {
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name: "request_planning",
		Description: "Register a new user request and plan its tasks. Returns the request id and a progress table. " +
			"After planning, call get_next_task to start working.",
	}, ts.requestPlanning())

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name: "get_next_task",
		Description: "Select and activate the next actionable task of a request. Subtasks of an active task come first, " +
			"then priority (high, medium, low), then task id. Tasks with unmet dependencies are never returned.",
	}, ts.getNextTask())

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "mark_task_done",
		Description: "Mark a task as done. Parents whose subtasks are all finished complete automatically, and the request completes once every task is finished.",
	}, ts.markTaskDone())

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "mark_task_failed",
		Description: "Mark a task as failed with an optional reason. Failed tasks count as finished for completion.",
	}, ts.markTaskFailed())

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "open_task_details",
		Description: "Show every attribute of a task, searching all requests.",
	}, ts.openTaskDetails())

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_requests",
		Description: "List all requests with task counts and completion state.",
	}, ts.listRequests())

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "add_tasks_to_request",
		Description: "Append top-level tasks to an existing request that is not completed.",
	}, ts.addTasksToRequest())

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "update_task",
		Description: "Edit title, description or priority of a task that is not done or failed.",
	}, ts.updateTask())

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "add_dependency",
		Description: "Make a task depend on another task of the same request. Cycles are reported in the result, not rejected.",
	}, ts.addDependency())

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "remove_dependency",
		Description: "Remove a dependency between two tasks of a request.",
	}, ts.removeDependency())

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "validate_dependencies",
		Description: "Check a request for dependencies on missing tasks and for circular dependencies.",
	}, ts.validateDependencies())

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "delete_task",
		Description: "Delete a task and all of its subtasks. References to deleted tasks are removed from the remaining tasks.",
	}, ts.deleteTask())

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "add_subtask",
		Description: "Add a subtask under a task that is not done or failed. The subtask inherits the parent's priority unless one is given.",
	}, ts.addSubtask())

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "remove_subtask",
		Description: "Remove a subtask and its descendants. When parentTaskId is given it must be the subtask's direct parent.",
	}, ts.removeSubtask())
}
