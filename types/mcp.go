/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// MCP Tool Parameter Types

// TaskInput describes one task to create
type TaskInput struct {
	Title       string   `json:"title" validate:"required" jsonschema:"Short task title"`
	Description string   `json:"description,omitempty" jsonschema:"What needs to be done"`
	Priority    string   `json:"priority,omitempty" validate:"omitempty,oneof=high medium low" jsonschema:"Task priority: high, medium or low (default medium)"`
	DependsOn   []string `json:"dependsOn,omitempty" jsonschema:"Ids of tasks in the same request that must be done first"`
}

// RequestPlanningParams registers a new request with its tasks
type RequestPlanningParams struct {
	OriginalRequest string      `json:"originalRequest" validate:"required" jsonschema:"The user's original request"`
	SplitDetails    string      `json:"splitDetails,omitempty" jsonschema:"How the request was split into tasks"`
	Tasks           []TaskInput `json:"tasks" validate:"required,min=1,dive" jsonschema:"Tasks to create"`
}

// RequestRef identifies a request
type RequestRef struct {
	RequestID string `json:"requestId" validate:"required" jsonschema:"Request id, e.g. req-1"`
}

// TaskRef identifies a task within a request
type TaskRef struct {
	RequestID string `json:"requestId" validate:"required" jsonschema:"Request id, e.g. req-1"`
	TaskID    string `json:"taskId" validate:"required" jsonschema:"Task id, e.g. task-1"`
}

// MarkTaskDoneParams for marking a task as done
type MarkTaskDoneParams struct {
	RequestID        string `json:"requestId" validate:"required" jsonschema:"Request id"`
	TaskID           string `json:"taskId" validate:"required" jsonschema:"Task id"`
	CompletedDetails string `json:"completedDetails,omitempty" jsonschema:"What was done"`
}

// MarkTaskFailedParams for marking a task as failed
type MarkTaskFailedParams struct {
	RequestID string `json:"requestId" validate:"required" jsonschema:"Request id"`
	TaskID    string `json:"taskId" validate:"required" jsonschema:"Task id"`
	Reason    string `json:"reason,omitempty" jsonschema:"Why the task failed"`
}

// OpenTaskDetailsParams for retrieving a task from any request
type OpenTaskDetailsParams struct {
	TaskID string `json:"taskId" validate:"required" jsonschema:"Task id"`
}

// ListRequestsParams takes no arguments
type ListRequestsParams struct{}

// AddTasksParams appends tasks to a request
type AddTasksParams struct {
	RequestID string      `json:"requestId" validate:"required" jsonschema:"Request id"`
	Tasks     []TaskInput `json:"tasks" validate:"required,min=1,dive" jsonschema:"Tasks to append"`
}

// UpdateTaskParams edits a non-terminal task; omitted fields are unchanged
type UpdateTaskParams struct {
	RequestID   string  `json:"requestId" validate:"required" jsonschema:"Request id"`
	TaskID      string  `json:"taskId" validate:"required" jsonschema:"Task id"`
	Title       *string `json:"title,omitempty" jsonschema:"New title"`
	Description *string `json:"description,omitempty" jsonschema:"New description"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=high medium low" jsonschema:"New priority: high, medium or low"`
}

// DependencyParams names a dependency edge
type DependencyParams struct {
	RequestID       string `json:"requestId" validate:"required" jsonschema:"Request id"`
	TaskID          string `json:"taskId" validate:"required" jsonschema:"The dependent task"`
	DependsOnTaskID string `json:"dependsOnTaskId" validate:"required" jsonschema:"The task it depends on"`
}

// AddSubtaskParams creates a child task
type AddSubtaskParams struct {
	RequestID          string   `json:"requestId" validate:"required" jsonschema:"Request id"`
	ParentTaskID       string   `json:"parentTaskId" validate:"required" jsonschema:"Parent task id"`
	SubtaskTitle       string   `json:"subtaskTitle" validate:"required" jsonschema:"Subtask title"`
	SubtaskDescription string   `json:"subtaskDescription" jsonschema:"Subtask description"`
	Priority           string   `json:"priority,omitempty" validate:"omitempty,oneof=high medium low" jsonschema:"Priority; inherited from the parent when omitted"`
	DependsOn          []string `json:"dependsOn,omitempty" jsonschema:"Ids of tasks that must be done first"`
}

// RemoveSubtaskParams removes a subtask and its descendants
type RemoveSubtaskParams struct {
	RequestID    string `json:"requestId" validate:"required" jsonschema:"Request id"`
	SubtaskID    string `json:"subtaskId" validate:"required" jsonschema:"Subtask id"`
	ParentTaskID string `json:"parentTaskId,omitempty" jsonschema:"Expected direct parent; checked when given"`
}

// MCP Tool Response Types

// TaskResponse is the wire view of a task
type TaskResponse struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Status           string   `json:"status"`
	Priority         string   `json:"priority"`
	DependsOn        []string `json:"dependsOn,omitempty"`
	ParentID         string   `json:"parentId,omitempty"`
	SubtaskIDs       []string `json:"subtaskIds,omitempty"`
	FailureReason    string   `json:"failureReason,omitempty"`
	CompletedDetails string   `json:"completedDetails,omitempty"`
	CreatedAt        string   `json:"createdAt,omitempty"`
	UpdatedAt        string   `json:"updatedAt,omitempty"`
	CompletedAt      string   `json:"completedAt,omitempty"`
}

// RequestResponse is the wire view of a request
type RequestResponse struct {
	RequestID       string         `json:"requestId"`
	OriginalRequest string         `json:"originalRequest"`
	SplitDetails    string         `json:"splitDetails,omitempty"`
	Completed       bool           `json:"completed"`
	Tasks           []TaskResponse `json:"tasks"`
}

// RequestSummaryResponse is one list_requests entry
type RequestSummaryResponse struct {
	RequestID       string `json:"requestId"`
	OriginalRequest string `json:"originalRequest"`
	TotalTasks      int    `json:"totalTasks"`
	DoneTasks       int    `json:"doneTasks"`
	FailedTasks     int    `json:"failedTasks"`
	ActiveTasks     int    `json:"activeTasks"`
	Completed       bool   `json:"completed"`
}

// ValidationResponse carries dependency issues
type ValidationResponse struct {
	Issues []string `json:"issues"`
	Cyclic bool     `json:"cyclic"`
}

// ToolResult is the structured content of every tool
type ToolResult struct {
	Status           string                   `json:"status"`
	Message          string                   `json:"message"`
	Request          *RequestResponse         `json:"request,omitempty"`
	Task             *TaskResponse            `json:"task,omitempty"`
	Tasks            []TaskResponse           `json:"tasks,omitempty"`
	Requests         []RequestSummaryResponse `json:"requests,omitempty"`
	Validation       *ValidationResponse      `json:"validation,omitempty"`
	AutoCompleted    []string                 `json:"autoCompleted,omitempty"`
	RequestCompleted bool                     `json:"requestCompleted,omitempty"`
	Removed          []string                 `json:"removed,omitempty"`
	Progress         string                   `json:"progress,omitempty"`
}
