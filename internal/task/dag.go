package task

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/taskpilot/models"
)

// ValidationReport is the result of validating a request's dependency graph.
// Issues are data, not errors.
type ValidationReport struct {
	Issues []string `json:"issues"`
	Cyclic bool     `json:"cyclic"`
}

// Passed reports whether no issue was found.
func (r ValidationReport) Passed() bool { return len(r.Issues) == 0 }

// DependenciesMet reports whether every dependency of t resolves to a done task.
// Unknown ids count as unmet.
func DependenciesMet(t *models.Task, taskMap map[string]*models.Task) bool {
	for _, depID := range t.DependsOn {
		dep, ok := taskMap[depID]
		if !ok || dep.Status != models.StatusDone {
			return false
		}
	}
	return true
}

// Validate reports dangling dependency references and then the first dependency
// cycle found by a depth-first walk. Edges point from a task to its dependencies.
func Validate(req *models.Request) ValidationReport {
	taskMap := indexTasks(req)
	var issues []string

	for _, t := range req.Tasks {
		for _, depID := range t.DependsOn {
			if _, ok := taskMap[depID]; !ok {
				issues = append(issues, fmt.Sprintf("Task %s depends on non-existent task %s", t.ID, depID))
			}
		}
	}

	cycle := findCycle(req, taskMap)
	if cycle != nil {
		issues = append(issues, "Circular dependency detected: "+strings.Join(cycle, " -> "))
	}

	return ValidationReport{Issues: dedupe(issues), Cyclic: cycle != nil}
}

type dfsFrame struct {
	id   string
	next int // index of the next dependency to visit
}

// findCycle returns the first cycle as a closed path (first id repeated at the end),
// or nil. It walks with an explicit stack so deep graphs cannot exhaust the
// goroutine stack.
func findCycle(req *models.Request, taskMap map[string]*models.Task) []string {
	visited := make(map[string]bool, len(req.Tasks))
	onStack := make(map[string]bool)

	for _, root := range req.Tasks {
		if visited[root.ID] {
			continue
		}
		stack := []dfsFrame{{id: root.ID}}
		visited[root.ID] = true
		onStack[root.ID] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := taskMap[top.id].DependsOn
			if top.next >= len(deps) {
				onStack[top.id] = false
				stack = stack[:len(stack)-1]
				continue
			}
			depID := deps[top.next]
			top.next++

			if _, ok := taskMap[depID]; !ok {
				continue
			}
			if onStack[depID] {
				return cyclePath(stack, depID)
			}
			if !visited[depID] {
				visited[depID] = true
				onStack[depID] = true
				stack = append(stack, dfsFrame{id: depID})
			}
		}
	}
	return nil
}

func cyclePath(stack []dfsFrame, start string) []string {
	var path []string
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].id == start {
			for _, f := range stack[i:] {
				path = append(path, f.id)
			}
			break
		}
	}
	return append(path, start)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
