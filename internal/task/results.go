package task

import "github.com/josephgoksu/taskpilot/models"

// Status tags carried by every Result.
const (
	StatusPlanned            = "planned"
	StatusNextTask           = "next_task"
	StatusAlreadyCompleted   = "already_completed"
	StatusAllTasksDone       = "all_tasks_done"
	StatusNoActionableTask   = "no_actionable_task"
	StatusTaskMarkedDone     = "task_marked_done"
	StatusAlreadyDone        = "already_done"
	StatusTaskMarkedFailed   = "task_marked_failed"
	StatusAlreadyFailed      = "already_failed"
	StatusTaskDetails        = "task_details"
	StatusRequestsListed     = "requests_listed"
	StatusTasksAdded         = "tasks_added"
	StatusTaskUpdated        = "task_updated"
	StatusDependencyAdded    = "dependency_added"
	StatusDependencyExists   = "dependency_exists"
	StatusDependencyRemoved  = "dependency_removed"
	StatusDependencyNotFound = "dependency_not_found"
	StatusValidationPassed   = "validation_passed"
	StatusValidationFailed   = "validation_failed"
	StatusTaskDeleted        = "task_deleted"
	StatusSubtaskAdded       = "subtask_added"
	StatusSubtaskRemoved     = "subtask_removed"
)

// Result is returned by every Service operation. Entity fields are copies and may
// be retained by the caller.
type Result struct {
	Status           string
	Message          string
	Request          *models.Request
	Task             *models.Task
	Tasks            []models.Task
	Requests         []RequestSummary
	Validation       *ValidationReport
	AutoCompleted    []string
	RequestCompleted bool
	Removed          []string
}

// RequestSummary is a compact listing entry.
type RequestSummary struct {
	RequestID       string
	OriginalRequest string
	TotalTasks      int
	DoneTasks       int
	FailedTasks     int
	ActiveTasks     int
	Completed       bool
}

func summarize(req *models.Request) RequestSummary {
	s := RequestSummary{
		RequestID:       req.RequestID,
		OriginalRequest: req.OriginalRequest,
		TotalTasks:      len(req.Tasks),
		Completed:       req.Completed,
	}
	for _, t := range req.Tasks {
		switch t.Status {
		case models.StatusDone:
			s.DoneTasks++
		case models.StatusFailed:
			s.FailedTasks++
		case models.StatusActive:
			s.ActiveTasks++
		}
	}
	return s
}

func cloneRequest(req *models.Request) *models.Request {
	if req == nil {
		return nil
	}
	c := req.Clone()
	return &c
}

func cloneTask(t *models.Task) *models.Task {
	if t == nil {
		return nil
	}
	c := t.Clone()
	return &c
}
