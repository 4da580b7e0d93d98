package task

import (
	"fmt"
	"testing"

	"github.com/josephgoksu/taskpilot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestOf(tasks ...models.Task) *models.Request {
	return &models.Request{RequestID: "req-1", Tasks: tasks}
}

func pending(id string, deps ...string) models.Task {
	return models.Task{ID: id, Status: models.StatusPending, Priority: models.PriorityMedium, DependsOn: deps}
}

func TestValidate_NoIssues(t *testing.T) {
	// A <- B <- C (linear, no cycle)
	req := requestOf(pending("task-1"), pending("task-2", "task-1"), pending("task-3", "task-2"))

	report := Validate(req)
	assert.True(t, report.Passed())
	assert.False(t, report.Cyclic)
}

func TestValidate_TwoNodeCycle(t *testing.T) {
	req := requestOf(pending("task-1", "task-2"), pending("task-2", "task-1"))

	report := Validate(req)
	require.Len(t, report.Issues, 1)
	assert.True(t, report.Cyclic)
	assert.Equal(t, "Circular dependency detected: task-1 -> task-2 -> task-1", report.Issues[0])
}

func TestValidate_ReportsOnlyFirstCycle(t *testing.T) {
	req := requestOf(
		pending("task-1", "task-2"), pending("task-2", "task-1"),
		pending("task-3", "task-4"), pending("task-4", "task-3"),
	)

	report := Validate(req)
	assert.Len(t, report.Issues, 1)
}

func TestValidate_DanglingBeforeCycle(t *testing.T) {
	req := requestOf(
		pending("task-1", "task-9", "task-9"),
		pending("task-2", "task-3"),
		pending("task-3", "task-2"),
	)
	// Duplicate dependency ids produce one issue after dedupe.
	report := Validate(req)
	require.Len(t, report.Issues, 2)
	assert.Equal(t, "Task task-1 depends on non-existent task task-9", report.Issues[0])
	assert.Contains(t, report.Issues[1], "Circular dependency detected")
}

func TestValidate_DeepChainDoesNotRecurse(t *testing.T) {
	const n = 100000
	tasks := make([]models.Task, 0, n)
	for i := 1; i <= n; i++ {
		if i == 1 {
			tasks = append(tasks, pending("task-1"))
			continue
		}
		tasks = append(tasks, pending(fmt.Sprintf("task-%d", i), fmt.Sprintf("task-%d", i-1)))
	}
	// Walk from the deepest end first.
	tasks[0], tasks[n-1] = tasks[n-1], tasks[0]

	report := Validate(requestOf(tasks...))
	assert.True(t, report.Passed())
}

func TestDependenciesMet(t *testing.T) {
	done := models.Task{ID: "task-1", Status: models.StatusDone}
	failed := models.Task{ID: "task-2", Status: models.StatusFailed}
	req := requestOf(done, failed, pending("task-3", "task-1"), pending("task-4", "task-2"), pending("task-5", "task-404"), pending("task-6"))
	taskMap := indexTasks(req)

	assert.True(t, DependenciesMet(taskMap["task-3"], taskMap))
	assert.False(t, DependenciesMet(taskMap["task-4"], taskMap), "failed is not done")
	assert.False(t, DependenciesMet(taskMap["task-5"], taskMap), "unknown ids are unmet")
	assert.True(t, DependenciesMet(taskMap["task-6"], taskMap))
}
