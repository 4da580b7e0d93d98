package task

import (
	"testing"

	"github.com/josephgoksu/taskpilot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntities_RecoverCounters(t *testing.T) {
	tests := []struct {
		name        string
		snap        *models.Snapshot
		wantRequest string
		wantTask    string
	}{
		{
			name:        "empty snapshot",
			snap:        nil,
			wantRequest: "req-1",
			wantTask:    "task-1",
		},
		{
			name: "stored counters ahead of data",
			snap: &models.Snapshot{
				Requests: []models.Request{{RequestID: "req-1", Tasks: []models.Task{{ID: "task-2"}}}},
				Metadata: &models.SnapshotMetadata{LastRequestID: 5, LastTaskID: 9},
			},
			wantRequest: "req-6",
			wantTask:    "task-10",
		},
		{
			name: "stored counters behind data",
			snap: &models.Snapshot{
				Requests: []models.Request{{RequestID: "req-4", Tasks: []models.Task{{ID: "task-12"}, {ID: "custom"}}}},
				Metadata: &models.SnapshotMetadata{LastRequestID: 1, LastTaskID: -3},
			},
			wantRequest: "req-5",
			wantTask:    "task-13",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEntities(tt.snap)
			assert.Equal(t, tt.wantRequest, e.NextRequestID())
			assert.Equal(t, tt.wantTask, e.NextTaskID())
		})
	}
}

func TestEntities_Find(t *testing.T) {
	e := NewEntities(&models.Snapshot{Requests: []models.Request{
		{RequestID: "req-1", Tasks: []models.Task{{ID: "task-1"}}},
		{RequestID: "req-2", Tasks: []models.Task{{ID: "task-2"}}},
	}})

	req, task, err := e.FindTaskAnywhere("task-2")
	require.NoError(t, err)
	assert.Equal(t, "req-2", req.RequestID)
	assert.Equal(t, "task-2", task.ID)

	_, _, err = e.FindTask("req-1", "task-2")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = e.Find("req-3")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestRemoveSubtree_OrphansBecomeTopLevel(t *testing.T) {
	root, mid := "task-1", "task-2"
	req := requestOf(
		models.Task{ID: "task-1", SubtaskIDs: []string{"task-2"}},
		models.Task{ID: "task-2", ParentID: &root, SubtaskIDs: []string{"task-3"}},
		models.Task{ID: "task-3", ParentID: &mid},
		models.Task{ID: "task-4", ParentID: &mid, DependsOn: []string{"task-2", "task-1"}},
	)
	// task-4 claims task-2 as parent without being listed, so the walk does not reach it.

	removed := removeSubtree(req, "task-2")
	assert.Equal(t, []string{"task-2", "task-3"}, removed)
	require.Len(t, req.Tasks, 2)
	assert.Empty(t, req.Tasks[0].SubtaskIDs)
	assert.Nil(t, req.Tasks[1].ParentID)
	assert.Equal(t, []string{"task-1"}, req.Tasks[1].DependsOn)

	assert.Nil(t, removeSubtree(req, "task-404"))
}
