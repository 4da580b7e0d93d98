package task

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/josephgoksu/taskpilot/models"
)

// TaskSpec describes a task to be created.
type TaskSpec struct {
	Title       string
	Description string
	Priority    string // empty means default (or inherited for subtasks)
	DependsOn   []string
}

// newTask builds a pending task from spec. fallback is used when spec has no
// priority.
func newTask(id string, spec TaskSpec, fallback models.TaskPriority, now time.Time) (models.Task, error) {
	title := strings.TrimSpace(spec.Title)
	if title == "" {
		return models.Task{}, fmt.Errorf("%w: title is required", ErrInvalidTaskInput)
	}
	priority := fallback
	if strings.TrimSpace(spec.Priority) != "" {
		p, err := models.ParsePriority(spec.Priority)
		if err != nil {
			return models.Task{}, fmt.Errorf("%w: %w", ErrInvalidTaskInput, err)
		}
		priority = p
	}
	return models.Task{
		ID:          id,
		Title:       title,
		Description: spec.Description,
		Status:      models.StatusPending,
		Priority:    priority,
		DependsOn:   cleanIDs(spec.DependsOn),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// cleanIDs trims, drops empties and removes duplicates while keeping order.
func cleanIDs(ids []string) []string {
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// addSubtask creates a child of parentID inside req. The child inherits the
// parent's priority unless spec sets one.
func addSubtask(e *Entities, req *models.Request, parentID string, spec TaskSpec, now time.Time) (*models.Task, error) {
	if req.Completed {
		return nil, fmt.Errorf("%w: %s", ErrRequestCompleted, req.RequestID)
	}
	parent := findTask(req, parentID)
	if parent == nil {
		return nil, fmt.Errorf("%w: %s in request %s", ErrTaskNotFound, parentID, req.RequestID)
	}
	if parent.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: parent %s is %s", ErrTerminalTask, parentID, parent.Status)
	}

	child, err := newTask("", spec, parent.Priority, now)
	if err != nil {
		return nil, err
	}
	child.ID = e.NextTaskID()
	if slices.Contains(child.DependsOn, child.ID) {
		return nil, fmt.Errorf("%w: %s", ErrSelfDependency, child.ID)
	}
	pid := parent.ID
	child.ParentID = &pid

	parent.SubtaskIDs = append(parent.SubtaskIDs, child.ID)
	parent.UpdatedAt = now
	req.Tasks = append(req.Tasks, child)
	req.UpdatedAt = now
	return &req.Tasks[len(req.Tasks)-1], nil
}

// removeSubtree deletes rootID and all of its descendants from req, unlinks the
// root from its parent and strips references to removed ids from survivors.
// Survivors whose parent was removed become top-level. It returns the removed ids,
// or nil when rootID does not exist.
func removeSubtree(req *models.Request, rootID string) []string {
	taskMap := indexTasks(req)
	if _, ok := taskMap[rootID]; !ok {
		return nil
	}

	removed := map[string]bool{rootID: true}
	order := []string{rootID}
	for queue := []string{rootID}; len(queue) > 0; queue = queue[1:] {
		t, ok := taskMap[queue[0]]
		if !ok {
			continue
		}
		for _, childID := range t.SubtaskIDs {
			if removed[childID] {
				continue
			}
			removed[childID] = true
			order = append(order, childID)
			queue = append(queue, childID)
		}
	}

	survivors := req.Tasks[:0]
	for _, t := range req.Tasks {
		if removed[t.ID] {
			continue
		}
		t.DependsOn = slices.DeleteFunc(t.DependsOn, func(id string) bool { return removed[id] })
		t.SubtaskIDs = slices.DeleteFunc(t.SubtaskIDs, func(id string) bool { return removed[id] })
		if t.ParentID != nil && removed[*t.ParentID] {
			t.ParentID = nil
		}
		survivors = append(survivors, t)
	}
	clear(req.Tasks[len(survivors):])
	req.Tasks = survivors
	return order
}
