/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TaskStatus represents the possible statuses of a task.
type TaskStatus string

const (
	StatusPending TaskStatus = "pending"
	StatusActive  TaskStatus = "active"
	StatusDone    TaskStatus = "done"
	StatusFailed  TaskStatus = "failed"
)

// IsTerminal reports whether no further transition is defined out of s.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusFailed
}

// TaskPriority represents the priority levels of a task.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Rank orders priorities for scheduling: high=0, medium=1, low=2.
// Unknown values rank with medium.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// ParsePriority normalizes a user supplied priority. Empty input yields medium.
func ParsePriority(s string) (TaskPriority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("invalid priority %q: must be one of high, medium, low", s)
}

// Task represents a unit of work. Hierarchy is expressed through ParentID/SubtaskIDs
// only; every task of a request lives in the request's flat Tasks slice.
type Task struct {
	ID               string       `json:"id" yaml:"id" toml:"id" validate:"required"`
	Title            string       `json:"title" yaml:"title" toml:"title"`
	Description      string       `json:"description" yaml:"description" toml:"description"`
	Status           TaskStatus   `json:"status" yaml:"status" toml:"status" validate:"required,oneof=pending active done failed"`
	Priority         TaskPriority `json:"priority" yaml:"priority" toml:"priority" validate:"required,oneof=high medium low"`
	DependsOn        []string     `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty" toml:"dependsOn,omitempty"`
	ParentID         *string      `json:"parentId,omitempty" yaml:"parentId,omitempty" toml:"parentId,omitempty"`
	SubtaskIDs       []string     `json:"subtaskIds,omitempty" yaml:"subtaskIds,omitempty" toml:"subtaskIds,omitempty"`
	FailureReason    string       `json:"failureReason,omitempty" yaml:"failureReason,omitempty" toml:"failureReason,omitempty"`
	CompletedDetails string       `json:"completedDetails,omitempty" yaml:"completedDetails,omitempty" toml:"completedDetails,omitempty"`
	CreatedAt        time.Time    `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt"`
	CompletedAt      *time.Time   `json:"completedAt,omitempty" yaml:"completedAt,omitempty" toml:"completedAt,omitempty"`
}

// Parent returns the parent id, or "" for a top-level task.
func (t *Task) Parent() string {
	if t.ParentID == nil {
		return ""
	}
	return *t.ParentID
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	c := t
	c.DependsOn = slices.Clone(t.DependsOn)
	c.SubtaskIDs = slices.Clone(t.SubtaskIDs)
	if t.ParentID != nil {
		p := *t.ParentID
		c.ParentID = &p
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return c
}

// Request groups the tasks planned for one piece of user intent.
type Request struct {
	RequestID       string    `json:"requestId" yaml:"requestId" toml:"requestId" validate:"required"`
	OriginalRequest string    `json:"originalRequest" yaml:"originalRequest" toml:"originalRequest"`
	SplitDetails    string    `json:"splitDetails,omitempty" yaml:"splitDetails,omitempty" toml:"splitDetails,omitempty"`
	Tasks           []Task    `json:"tasks" yaml:"tasks" toml:"tasks" validate:"dive"`
	Completed       bool      `json:"completed" yaml:"completed" toml:"completed"`
	CreatedAt       time.Time `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt"`
}

// Clone returns a deep copy of r.
func (r Request) Clone() Request {
	c := r
	c.Tasks = make([]Task, len(r.Tasks))
	for i, t := range r.Tasks {
		c.Tasks[i] = t.Clone()
	}
	return c
}

// SnapshotMetadata holds the monotonic id counters.
type SnapshotMetadata struct {
	LastRequestID int `json:"lastRequestId" yaml:"lastRequestId" toml:"lastRequestId"`
	LastTaskID    int `json:"lastTaskId" yaml:"lastTaskId" toml:"lastTaskId"`
}

// Snapshot is the persisted document: every request in listing order plus counters.
// Metadata is nil when the document did not carry it.
type Snapshot struct {
	Requests []Request        `json:"requests" yaml:"requests" toml:"requests" validate:"dive"`
	Metadata *SnapshotMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
}

// global validator instance
var validate = validator.New()

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var errorMessages []string
	for _, e := range validationErrors {
		errorMessages = append(errorMessages, fmt.Sprintf("field '%s' failed rule '%s' (value: '%v')", e.Field(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
}
