package task

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/josephgoksu/taskpilot/models"
)

const (
	requestIDPrefix = "req-"
	taskIDPrefix    = "task-"
)

// Entities is the in-memory view of one loaded snapshot. It owns the id counters
// and is discarded at the end of every operation.
type Entities struct {
	snap *models.Snapshot
}

// NewEntities wraps snap and makes sure its counters are at least as large as the
// highest id suffix already in use.
func NewEntities(snap *models.Snapshot) *Entities {
	if snap == nil {
		snap = &models.Snapshot{}
	}
	e := &Entities{snap: snap}
	e.RecoverCounters()
	return e
}

// Snapshot returns the underlying document, ready to be saved.
func (e *Entities) Snapshot() *models.Snapshot { return e.snap }

// Requests returns every request in insertion order.
func (e *Entities) Requests() []models.Request { return e.snap.Requests }

// RecoverCounters raises the counters to max(stored, highest existing suffix, 0).
func (e *Entities) RecoverCounters() {
	if e.snap.Metadata == nil {
		e.snap.Metadata = &models.SnapshotMetadata{}
	}
	meta := e.snap.Metadata
	meta.LastRequestID = max(meta.LastRequestID, 0)
	meta.LastTaskID = max(meta.LastTaskID, 0)
	for _, req := range e.snap.Requests {
		meta.LastRequestID = max(meta.LastRequestID, idSuffix(req.RequestID, requestIDPrefix))
		for _, t := range req.Tasks {
			meta.LastTaskID = max(meta.LastTaskID, idSuffix(t.ID, taskIDPrefix))
		}
	}
}

// NextRequestID allocates a fresh request id. Ids are never reused.
func (e *Entities) NextRequestID() string {
	e.snap.Metadata.LastRequestID++
	return fmt.Sprintf("%s%d", requestIDPrefix, e.snap.Metadata.LastRequestID)
}

// NextTaskID allocates a fresh task id. Ids are never reused.
func (e *Entities) NextTaskID() string {
	e.snap.Metadata.LastTaskID++
	return fmt.Sprintf("%s%d", taskIDPrefix, e.snap.Metadata.LastTaskID)
}

// AppendRequest adds req at the end of the listing order and returns a pointer
// into the collection.
func (e *Entities) AppendRequest(req models.Request) *models.Request {
	e.snap.Requests = append(e.snap.Requests, req)
	return &e.snap.Requests[len(e.snap.Requests)-1]
}

// Find returns the request with the given id.
func (e *Entities) Find(requestID string) (*models.Request, error) {
	for i := range e.snap.Requests {
		if e.snap.Requests[i].RequestID == requestID {
			return &e.snap.Requests[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
}

// FindTask returns a task of the given request.
func (e *Entities) FindTask(requestID, taskID string) (*models.Request, *models.Task, error) {
	req, err := e.Find(requestID)
	if err != nil {
		return nil, nil, err
	}
	t := findTask(req, taskID)
	if t == nil {
		return req, nil, fmt.Errorf("%w: %s in request %s", ErrTaskNotFound, taskID, requestID)
	}
	return req, t, nil
}

// FindTaskAnywhere searches every request for taskID.
func (e *Entities) FindTaskAnywhere(taskID string) (*models.Request, *models.Task, error) {
	for i := range e.snap.Requests {
		if t := findTask(&e.snap.Requests[i], taskID); t != nil {
			return &e.snap.Requests[i], t, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
}

func findTask(req *models.Request, taskID string) *models.Task {
	for i := range req.Tasks {
		if req.Tasks[i].ID == taskID {
			return &req.Tasks[i]
		}
	}
	return nil
}

// indexTasks maps task ids to pointers into req.Tasks. The index goes stale as soon
// as req.Tasks is appended to or shrunk.
func indexTasks(req *models.Request) map[string]*models.Task {
	m := make(map[string]*models.Task, len(req.Tasks))
	for i := range req.Tasks {
		m[req.Tasks[i].ID] = &req.Tasks[i]
	}
	return m
}

// idSuffix returns the numeric part of id after prefix, or 0.
func idSuffix(id, prefix string) int {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
