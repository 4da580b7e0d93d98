package task

import (
	"strings"
	"time"

	"github.com/josephgoksu/taskpilot/models"
)

const (
	// DefaultFailureReason is recorded when a task is failed without a reason.
	DefaultFailureReason = "No reason provided"
	// AutoCompletedDetails is recorded on parents completed by their subtasks.
	AutoCompletedDetails = "Automatically completed: all subtasks reached a terminal state"
)

// transition is what a terminal transition changed besides the task itself.
type transition struct {
	autoCompleted    []string
	requestCompleted bool
}

func markDone(req *models.Request, t *models.Task, details string, now time.Time) transition {
	setDone(t, strings.TrimSpace(details), now)
	return propagate(req, t, now)
}

func markFailed(req *models.Request, t *models.Task, reason string, now time.Time) transition {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultFailureReason
	}
	t.Status = models.StatusFailed
	t.FailureReason = reason
	t.CompletedDetails = ""
	t.CompletedAt = &now
	t.UpdatedAt = now
	return propagate(req, t, now)
}

func setDone(t *models.Task, details string, now time.Time) {
	t.Status = models.StatusDone
	t.CompletedDetails = details
	t.FailureReason = ""
	t.CompletedAt = &now
	t.UpdatedAt = now
}

func activate(t *models.Task, now time.Time) {
	t.Status = models.StatusActive
	t.UpdatedAt = now
}

// propagate runs after t became terminal. Only t's direct parent is considered;
// a parent completed here does not re-check its own parent.
func propagate(req *models.Request, t *models.Task, now time.Time) transition {
	var tr transition
	if parentID := t.Parent(); parentID != "" {
		if completeParentIfSettled(req, parentID, now) {
			tr.autoCompleted = append(tr.autoCompleted, parentID)
		}
	}
	tr.requestCompleted = refreshRequestCompletion(req, now)
	req.UpdatedAt = now
	return tr
}

// completeParentIfSettled forces parentID to done when it is non-terminal, has at
// least one subtask and every subtask is terminal. A failed subtask does not fail
// the parent.
func completeParentIfSettled(req *models.Request, parentID string, now time.Time) bool {
	taskMap := indexTasks(req)
	parent, ok := taskMap[parentID]
	if !ok || parent.Status.IsTerminal() || len(parent.SubtaskIDs) == 0 {
		return false
	}
	for _, id := range parent.SubtaskIDs {
		child, ok := taskMap[id]
		if !ok || !child.Status.IsTerminal() {
			return false
		}
	}
	setDone(parent, AutoCompletedDetails, now)
	return true
}

// refreshRequestCompletion sets req.Completed once every task is terminal. It
// never clears the flag. It reports whether the flag changed.
func refreshRequestCompletion(req *models.Request, now time.Time) bool {
	if req.Completed || !allTerminal(req) {
		return false
	}
	req.Completed = true
	req.UpdatedAt = now
	return true
}

// allTerminal reports whether req has tasks and all of them are terminal.
func allTerminal(req *models.Request) bool {
	if len(req.Tasks) == 0 {
		return false
	}
	for _, t := range req.Tasks {
		if !t.Status.IsTerminal() {
			return false
		}
	}
	return true
}
