package task

import "errors"

// Not found.
var (
	ErrRequestNotFound = errors.New("request not found")
	ErrTaskNotFound    = errors.New("task not found")
)

// Invalid state.
var (
	ErrTerminalTask     = errors.New("task is in a terminal state")
	ErrRequestCompleted = errors.New("request is already completed")
)

// Invalid structural edit.
var (
	ErrSelfDependency   = errors.New("task cannot depend on itself")
	ErrNotDirectParent  = errors.New("task is not the direct parent of the subtask")
	ErrEmptyTaskList    = errors.New("at least one task is required")
	ErrInvalidTaskInput = errors.New("invalid task input")
)

// ErrStorage wraps every failure returned by the persistence backend.
var ErrStorage = errors.New("storage failure")
