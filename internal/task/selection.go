package task

import (
	"cmp"
	"slices"
	"time"

	"github.com/josephgoksu/taskpilot/models"
)

// Outcome classifies the result of a selection.
type Outcome int

const (
	OutcomeSelected Outcome = iota
	OutcomeAlreadyCompleted
	OutcomeAllDone
	OutcomeNoActionable
)

// Selection is the result of selectNext.
type Selection struct {
	Outcome         Outcome
	Task            *models.Task
	ActivatedParent string // set when a pending parent was activated with the task
	Mutated         bool
}

type candidate struct {
	task         *models.Task
	parentActive bool
}

// selectNext picks the next actionable task of req and activates it.
//
// Children of active parents are preferred (pass A); otherwise any pending or
// active task with met dependencies whose parent is not active (pass B). Ties
// are broken by parent activity, priority rank and numeric id.
func selectNext(req *models.Request, now time.Time) Selection {
	if req.Completed {
		return Selection{Outcome: OutcomeAlreadyCompleted}
	}
	taskMap := indexTasks(req)

	candidates := passA(req, taskMap)
	if len(candidates) == 0 {
		candidates = passB(req, taskMap)
	}
	if len(candidates) == 0 {
		if refreshRequestCompletion(req, now) {
			return Selection{Outcome: OutcomeAllDone, Mutated: true}
		}
		return Selection{Outcome: OutcomeNoActionable}
	}

	slices.SortStableFunc(candidates, compareCandidates)
	chosen := candidates[0].task
	sel := Selection{Outcome: OutcomeSelected, Task: chosen}
	if chosen.Status != models.StatusPending {
		return sel
	}

	if parent, ok := taskMap[chosen.Parent()]; ok && parent.Status == models.StatusPending {
		activate(parent, now)
		sel.ActivatedParent = parent.ID
	}
	activate(chosen, now)
	req.UpdatedAt = now
	sel.Mutated = true
	return sel
}

func passA(req *models.Request, taskMap map[string]*models.Task) []candidate {
	var out []candidate
	for i := range req.Tasks {
		parent := &req.Tasks[i]
		if parent.Status != models.StatusActive {
			continue
		}
		for _, childID := range parent.SubtaskIDs {
			child, ok := taskMap[childID]
			if ok && child.Status == models.StatusPending && DependenciesMet(child, taskMap) {
				out = append(out, candidate{task: child, parentActive: true})
			}
		}
	}
	return out
}

func passB(req *models.Request, taskMap map[string]*models.Task) []candidate {
	var out []candidate
	for i := range req.Tasks {
		t := &req.Tasks[i]
		if t.Status.IsTerminal() || !DependenciesMet(t, taskMap) {
			continue
		}
		if parent, ok := taskMap[t.Parent()]; ok && parent.Status == models.StatusActive {
			continue
		}
		out = append(out, candidate{task: t})
	}
	return out
}

func compareCandidates(a, b candidate) int {
	if a.parentActive != b.parentActive {
		if a.parentActive {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(a.task.Priority.Rank(), b.task.Priority.Rank()); c != 0 {
		return c
	}
	return compareTaskIDs(a.task.ID, b.task.ID)
}

// compareTaskIDs orders ids by numeric suffix. Ids without one sort last, by text.
func compareTaskIDs(a, b string) int {
	na, nb := idSuffix(a, taskIDPrefix), idSuffix(b, taskIDPrefix)
	switch {
	case na > 0 && nb > 0:
		if c := cmp.Compare(na, nb); c != 0 {
			return c
		}
	case na > 0:
		return -1
	case nb > 0:
		return 1
	}
	return cmp.Compare(a, b)
}
