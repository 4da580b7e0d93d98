package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/josephgoksu/taskpilot/models"
	"github.com/josephgoksu/taskpilot/store"
)

// Service runs every task operation as one load, apply, save cycle against a
// SnapshotStore. It holds no entity state between calls.
type Service struct {
	store store.SnapshotStore
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service backed by st.
func NewService(st store.SnapshotStore, opts ...Option) *Service {
	s := &Service{store: st, now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlanInput is the input of Plan.
type PlanInput struct {
	OriginalRequest string
	SplitDetails    string
	Tasks           []TaskSpec
}

// TaskUpdate carries the editable fields of a task; nil fields are left as is.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *string
}

// update loads the snapshot, applies fn and saves when fn reports a mutation.
// Nothing is saved when fn fails.
func (s *Service) update(ctx context.Context, fn func(e *Entities) (bool, error)) error {
	if l, ok := s.store.(store.Locker); ok {
		unlock, err := l.Lock(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStorage, err)
		}
		defer func() {
			if err := unlock(); err != nil {
				slog.Warn("failed to release store lock", "error", err)
			}
		}()
	}

	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	e := NewEntities(snap)
	mutated, err := fn(e)
	if err != nil {
		return err
	}
	if !mutated {
		return nil
	}
	if err := s.store.Save(ctx, e.Snapshot()); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	slog.Debug("snapshot saved", "requests", len(e.Requests()))
	return nil
}

// view loads the snapshot and applies fn without locking or saving. Saves
// replace the data through a rename, so a load never sees a partial write.
func (s *Service) view(ctx context.Context, fn func(e *Entities) error) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return fn(NewEntities(snap))
}

// Plan creates a request with its initial top-level tasks.
func (s *Service) Plan(ctx context.Context, in PlanInput) (*Result, error) {
	if len(in.Tasks) == 0 {
		return nil, ErrEmptyTaskList
	}
	var res *Result
	err := s.update(ctx, func(e *Entities) (bool, error) {
		now := s.now()
		tasks, err := buildTasks(e, in.Tasks, now)
		if err != nil {
			return false, err
		}
		req := e.AppendRequest(models.Request{
			RequestID:       e.NextRequestID(),
			OriginalRequest: in.OriginalRequest,
			SplitDetails:    in.SplitDetails,
			Tasks:           tasks,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		res = &Result{
			Status:  StatusPlanned,
			Message: fmt.Sprintf("Request %s planned with %d tasks.", req.RequestID, len(tasks)),
			Request: cloneRequest(req),
		}
		res.Tasks = res.Request.Tasks
		return true, nil
	})
	return res, err
}

// buildTasks allocates ids and builds pending top-level tasks for specs.
func buildTasks(e *Entities, specs []TaskSpec, now time.Time) ([]models.Task, error) {
	tasks := make([]models.Task, 0, len(specs))
	for i, spec := range specs {
		t, err := newTask("", spec, models.PriorityMedium, now)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		t.ID = e.NextTaskID()
		if slices.Contains(t.DependsOn, t.ID) {
			return nil, fmt.Errorf("%w: %s", ErrSelfDependency, t.ID)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// NextTask selects and activates the next actionable task of a request.
func (s *Service) NextTask(ctx context.Context, requestID string) (*Result, error) {
	var res *Result
	err := s.update(ctx, func(e *Entities) (bool, error) {
		req, err := e.Find(requestID)
		if err != nil {
			return false, err
		}
		sel := selectNext(req, s.now())
		res = &Result{Task: cloneTask(sel.Task), Request: cloneRequest(req)}
		switch sel.Outcome {
		case OutcomeAlreadyCompleted:
			res.Status = StatusAlreadyCompleted
			res.Message = fmt.Sprintf("Request %s is already completed.", requestID)
		case OutcomeAllDone:
			res.Status = StatusAllTasksDone
			res.RequestCompleted = true
			res.Message = fmt.Sprintf("All tasks in request %s are done.", requestID)
		case OutcomeNoActionable:
			res.Status = StatusNoActionableTask
			res.Message = fmt.Sprintf("No actionable task in request %s: remaining tasks are blocked by unmet dependencies or an inactive parent.", requestID)
		default:
			res.Status = StatusNextTask
			res.Message = fmt.Sprintf("Next task: %s %q.", sel.Task.ID, sel.Task.Title)
			if sel.ActivatedParent != "" {
				res.Message += fmt.Sprintf(" Parent %s was activated.", sel.ActivatedParent)
			}
		}
		return sel.Mutated, nil
	})
	return res, err
}

// MarkDone marks a task done and propagates completion.
func (s *Service) MarkDone(ctx context.Context, requestID, taskID, details string) (*Result, error) {
	return s.terminate(ctx, requestID, taskID, func(req *models.Request, t *models.Task, now time.Time) (transition, string) {
		return markDone(req, t, details, now), StatusTaskMarkedDone
	})
}

// MarkFailed marks a task failed and propagates completion. An empty reason is
// replaced by DefaultFailureReason.
func (s *Service) MarkFailed(ctx context.Context, requestID, taskID, reason string) (*Result, error) {
	return s.terminate(ctx, requestID, taskID, func(req *models.Request, t *models.Task, now time.Time) (transition, string) {
		return markFailed(req, t, reason, now), StatusTaskMarkedFailed
	})
}

func (s *Service) terminate(ctx context.Context, requestID, taskID string, apply func(*models.Request, *models.Task, time.Time) (transition, string)) (*Result, error) {
	var res *Result
	err := s.update(ctx, func(e *Entities) (bool, error) {
		req, t, err := e.FindTask(requestID, taskID)
		if err != nil {
			return false, err
		}
		switch t.Status {
		case models.StatusDone:
			res = &Result{Status: StatusAlreadyDone, Message: fmt.Sprintf("Task %s is already done.", taskID), Task: cloneTask(t), Request: cloneRequest(req)}
			return false, nil
		case models.StatusFailed:
			res = &Result{Status: StatusAlreadyFailed, Message: fmt.Sprintf("Task %s has already failed.", taskID), Task: cloneTask(t), Request: cloneRequest(req)}
			return false, nil
		}

		tr, status := apply(req, t, s.now())
		res = &Result{
			Status:           status,
			Task:             cloneTask(t),
			Request:          cloneRequest(req),
			AutoCompleted:    tr.autoCompleted,
			RequestCompleted: tr.requestCompleted,
		}
		verb := "done"
		if status == StatusTaskMarkedFailed {
			verb = "failed"
		}
		res.Message = fmt.Sprintf("Task %s marked %s.", taskID, verb)
		for _, id := range tr.autoCompleted {
			res.Message += fmt.Sprintf(" Parent %s auto-completed.", id)
		}
		if tr.requestCompleted {
			res.Message += fmt.Sprintf(" Request %s is now completed.", requestID)
		}
		return true, nil
	})
	return res, err
}

// TaskDetails looks a task up in any request.
func (s *Service) TaskDetails(ctx context.Context, taskID string) (*Result, error) {
	var res *Result
	err := s.view(ctx, func(e *Entities) error {
		req, t, err := e.FindTaskAnywhere(taskID)
		if err != nil {
			return err
		}
		res = &Result{
			Status:  StatusTaskDetails,
			Message: fmt.Sprintf("Task %s in request %s.", taskID, req.RequestID),
			Task:    cloneTask(t),
			Request: cloneRequest(req),
		}
		return nil
	})
	return res, err
}

// ListRequests summarizes every request in insertion order.
func (s *Service) ListRequests(ctx context.Context) (*Result, error) {
	var res *Result
	err := s.view(ctx, func(e *Entities) error {
		reqs := e.Requests()
		res = &Result{
			Status:   StatusRequestsListed,
			Message:  fmt.Sprintf("%d requests.", len(reqs)),
			Requests: make([]RequestSummary, 0, len(reqs)),
		}
		for i := range reqs {
			res.Requests = append(res.Requests, summarize(&reqs[i]))
		}
		return nil
	})
	return res, err
}

// Requests returns copies of every stored request.
func (s *Service) Requests(ctx context.Context) ([]models.Request, error) {
	var out []models.Request
	err := s.view(ctx, func(e *Entities) error {
		for _, r := range e.Requests() {
			out = append(out, r.Clone())
		}
		return nil
	})
	return out, err
}

// Request returns a copy of one request.
func (s *Service) Request(ctx context.Context, requestID string) (*models.Request, error) {
	var out *models.Request
	err := s.view(ctx, func(e *Entities) error {
		req, err := e.Find(requestID)
		if err != nil {
			return err
		}
		out = cloneRequest(req)
		return nil
	})
	return out, err
}

// AddTasks appends top-level tasks to an open request.
func (s *Service) AddTasks(ctx context.Context, requestID string, specs []TaskSpec) (*Result, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyTaskList
	}
	var res *Result
	err := s.update(ctx, func(e *Entities) (bool, error) {
		req, err := e.Find(requestID)
		if err != nil {
			return false, err
		}
		if req.Completed {
			return false, fmt.Errorf("%w: %s", ErrRequestCompleted, requestID)
		}
		now := s.now()
		tasks, err := buildTasks(e, specs, now)
		if err != nil {
			return false, err
		}
		req.Tasks = append(req.Tasks, tasks...)
		req.UpdatedAt = now
		res = &Result{
			Status:  StatusTasksAdded,
			Message: fmt.Sprintf("Added %d tasks to request %s.", len(tasks), requestID),
			Request: cloneRequest(req),
		}
		for i := range tasks {
			res.Tasks = append(res.Tasks, tasks[i].Clone())
		}
		return true, nil
	})
	return res, err
}

// UpdateTask edits title, description or priority of a non-terminal task.
func (s *Service) UpdateTask(ctx context.Context, requestID, taskID string, upd TaskUpdate) (*Result, error) {
	var res *Result
	err := s.update(ctx, func(e *Entities) (bool, error) {
		req, t, err := e.FindTask(requestID, taskID)
		if err != nil {
			return false, err
		}
		if t.Status.IsTerminal() {
			return false, fmt.Errorf("%w: cannot edit %s task %s", ErrTerminalTask, t.Status, taskID)
		}

		var changed []string
		if upd.Title != nil {
			title := strings.TrimSpace(*upd.Title)
			if title == "" {
				return false, fmt.Errorf("%w: title cannot be empty", ErrInvalidTaskInput)
			}
			t.Title = title
			changed = append(changed, "title")
		}
		if upd.Description != nil {
			t.Description = *upd.Description
			changed = append(changed, "description")
		}
		if upd.Priority != nil {
			p, err := models.ParsePriority(*upd.Priority)
			if err != nil {
				return false, fmt.Errorf("%w: %w", ErrInvalidTaskInput, err)
			}
			t.Priority = p
			changed = append(changed, "priority")
		}

		res = &Result{Status: StatusTaskUpdated, Task: cloneTask(t)}
		if len(changed) == 0 {
			res.Message = fmt.Sprintf("Task %s unchanged.", taskID)
			res.Request = cloneRequest(req)
			return false, nil
		}
		now := s.now()
		t.UpdatedAt = now
		req.UpdatedAt = now
		res.Task = cloneTask(t)
		res.Request = cloneRequest(req)
		res.Message = fmt.Sprintf("Task %s updated: %s.", taskID, strings.Join(changed, ", "))
		return true, nil
	})
	return res, err
}

// editableDependency resolves both ends of a dependency edit.
func editableDependency(e *Entities, requestID, taskID, dependsOnID string) (*models.Request, *models.Task, error) {
	req, t, err := e.FindTask(requestID, taskID)
	if err != nil {
		return nil, nil, err
	}
	if req.Completed {
		return nil, nil, fmt.Errorf("%w: %s", ErrRequestCompleted, requestID)
	}
	if t.Status.IsTerminal() {
		return nil, nil, fmt.Errorf("%w: cannot change dependencies of %s task %s", ErrTerminalTask, t.Status, taskID)
	}
	if taskID == dependsOnID {
		return nil, nil, fmt.Errorf("%w: %s", ErrSelfDependency, taskID)
	}
	return req, t, nil
}

// AddDependency makes taskID depend on dependsOnID. Cycles are not rejected; the
// result carries a validation report instead.
func (s *Service) AddDependency(ctx context.Context, requestID, taskID, dependsOnID string) (*Result, error) {
	var res *Result
	err := s.update(ctx, func(e *Entities) (bool, error) {
		req, t, err := editableDependency(e, requestID, taskID, dependsOnID)
		if err != nil {
			return false, err
		}
		if findTask(req, dependsOnID) == nil {
			return false, fmt.Errorf("%w: %s in request %s", ErrTaskNotFound, dependsOnID, requestID)
		}
		if slices.Contains(t.DependsOn, dependsOnID) {
			report := Validate(req)
			res = &Result{
				Status:     StatusDependencyExists,
				Message:    fmt.Sprintf("Task %s already depends on %s.", taskID, dependsOnID),
				Task:       cloneTask(t),
				Request:    cloneRequest(req),
				Validation: &report,
			}
			return false, nil
		}

		now := s.now()
		t.DependsOn = append(t.DependsOn, dependsOnID)
		t.UpdatedAt = now
		req.UpdatedAt = now
		report := Validate(req)
		res = &Result{
			Status:     StatusDependencyAdded,
			Message:    fmt.Sprintf("Task %s now depends on %s.", taskID, dependsOnID),
			Task:       cloneTask(t),
			Request:    cloneRequest(req),
			Validation: &report,
		}
		if report.Cyclic {
			res.Message += " Warning: the dependency graph now contains a cycle."
		}
		return true, nil
	})
	return res, err
}

// RemoveDependency drops the edge taskID -> dependsOnID.
func (s *Service) RemoveDependency(ctx context.Context, requestID, taskID, dependsOnID string) (*Result, error) {
	var res *Result
	err := s.update(ctx, func(e *Entities) (bool, error) {
		req, t, err := editableDependency(e, requestID, taskID, dependsOnID)
		if err != nil {
			return false, err
		}
		idx := slices.Index(t.DependsOn, dependsOnID)
		if idx < 0 {
			res = &Result{
				Status:  StatusDependencyNotFound,
				Message: fmt.Sprintf("Task %s does not depend on %s.", taskID, dependsOnID),
				Task:    cloneTask(t),
				Request: cloneRequest(req),
			}
			return false, nil
		}
		now := s.now()
		t.DependsOn = slices.Delete(t.DependsOn, idx, idx+1)
		t.UpdatedAt = now
		req.UpdatedAt = now
		res = &Result{
			Status:  StatusDependencyRemoved,
			Message: fmt.Sprintf("Task %s no longer depends on %s.", taskID, dependsOnID),
			Task:    cloneTask(t),
			Request: cloneRequest(req),
		}
		return true, nil
	})
	return res, err
}

// ValidateDependencies reports dangling references and cycles of a request.
func (s *Service) ValidateDependencies(ctx context.Context, requestID string) (*Result, error) {
	var res *Result
	err := s.view(ctx, func(e *Entities) error {
		req, err := e.Find(requestID)
		if err != nil {
			return err
		}
		report := Validate(req)
		res = &Result{Request: cloneRequest(req), Validation: &report}
		if report.Passed() {
			res.Status = StatusValidationPassed
			res.Message = fmt.Sprintf("Dependencies of request %s are valid.", requestID)
		} else {
			res.Status = StatusValidationFailed
			res.Message = fmt.Sprintf("Found %d dependency issues in request %s.", len(report.Issues), requestID)
		}
		return nil
	})
	return res, err
}

// DeleteTask removes a task with its whole subtree.
func (s *Service) DeleteTask(ctx context.Context, requestID, taskID string) (*Result, error) {
	return s.removeTree(ctx, requestID, taskID, "", StatusTaskDeleted)
}

// RemoveSubtask removes a subtask with its subtree. When parentID is set it must be
// the subtask's direct parent.
func (s *Service) RemoveSubtask(ctx context.Context, requestID, subtaskID, parentID string) (*Result, error) {
	return s.removeTree(ctx, requestID, subtaskID, parentID, StatusSubtaskRemoved)
}

func (s *Service) removeTree(ctx context.Context, requestID, taskID, expectedParent, status string) (*Result, error) {
	var res *Result
	err := s.update(ctx, func(e *Entities) (bool, error) {
		req, t, err := e.FindTask(requestID, taskID)
		if err != nil {
			return false, err
		}
		if req.Completed {
			return false, fmt.Errorf("%w: %s", ErrRequestCompleted, requestID)
		}
		formerParent := t.Parent()
		if expectedParent != "" && formerParent != expectedParent {
			return false, fmt.Errorf("%w: %s is not the parent of %s", ErrNotDirectParent, expectedParent, taskID)
		}

		removed := removeSubtree(req, taskID)
		if removed == nil {
			return false, fmt.Errorf("%w: %s in request %s", ErrTaskNotFound, taskID, requestID)
		}
		now := s.now()
		req.UpdatedAt = now

		res = &Result{Status: status, Removed: removed}
		if formerParent != "" && completeParentIfSettled(req, formerParent, now) {
			res.AutoCompleted = []string{formerParent}
		}
		res.RequestCompleted = refreshRequestCompletion(req, now)
		res.Request = cloneRequest(req)
		res.Message = fmt.Sprintf("Removed %s and %d descendants.", taskID, len(removed)-1)
		return true, nil
	})
	return res, err
}

// AddSubtask creates a child task under parentID.
func (s *Service) AddSubtask(ctx context.Context, requestID, parentID string, spec TaskSpec) (*Result, error) {
	var res *Result
	err := s.update(ctx, func(e *Entities) (bool, error) {
		req, err := e.Find(requestID)
		if err != nil {
			return false, err
		}
		child, err := addSubtask(e, req, parentID, spec, s.now())
		if err != nil {
			return false, err
		}
		res = &Result{
			Status:  StatusSubtaskAdded,
			Message: fmt.Sprintf("Subtask %s added under %s.", child.ID, parentID),
			Task:    cloneTask(child),
			Request: cloneRequest(req),
		}
		return true, nil
	})
	return res, err
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRequestNotFound) || errors.Is(err, ErrTaskNotFound)
}

// IsInvalidState reports whether err is an invalid-state error.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrTerminalTask) || errors.Is(err, ErrRequestCompleted)
}

// IsInvalidEdit reports whether err is an invalid structural edit.
func IsInvalidEdit(err error) bool {
	return errors.Is(err, ErrSelfDependency) || errors.Is(err, ErrNotDirectParent) ||
		errors.Is(err, ErrEmptyTaskList) || errors.Is(err, ErrInvalidTaskInput)
}
