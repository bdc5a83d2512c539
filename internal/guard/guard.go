// Package guard validates task status transitions against the dependency
// graph. It is the single gate mutations pass through before reaching the
// store: transitions to done require every dependency done, and any
// change to a dependency list is checked for cycles over the graph as it
// would exist after the change.
package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/josephgoksu/TaskGraph/internal/graph"
	"github.com/josephgoksu/TaskGraph/models"
	"github.com/josephgoksu/TaskGraph/store"
	"github.com/josephgoksu/TaskGraph/types"
)

// Warning records a forced bypass of a transition rule. Forced
// transitions proceed, but the violation is never silently ignored: it is
// logged and handed back to the caller.
type Warning struct {
	TaskID    string    `json:"taskId"`
	Message   string    `json:"message"`
	UnmetDeps []string  `json:"unmetDeps,omitempty"`
	At        time.Time `json:"at"`
}

// allowedTransitions is the per-task state machine. done is terminal for
// the active workflow; archival is handled by the store, not here.
var allowedTransitions = map[models.TaskStatus][]models.TaskStatus{
	models.StatusTodo:       {models.StatusInProgress, models.StatusDone, models.StatusBlocked},
	models.StatusInProgress: {models.StatusDone, models.StatusBlocked, models.StatusTodo},
	models.StatusBlocked:    {models.StatusTodo, models.StatusInProgress},
	models.StatusDone:       {},
}

// Guard enforces transition and dependency rules on top of a TaskStore.
type Guard struct {
	store           store.TaskStore
	analysisTimeout time.Duration
}

// New creates a Guard over the given store and installs its graph
// validator so dependency mutations are cycle-checked inside the store's
// lock.
func New(s store.TaskStore, analysisTimeout time.Duration) *Guard {
	if analysisTimeout <= 0 {
		analysisTimeout = 30 * time.Second
	}
	g := &Guard{store: s, analysisTimeout: analysisTimeout}
	s.SetGraphValidator(g.validateGraph)
	return g
}

// validateGraph rejects any snapshot whose dependency relation contains a
// cycle. The store calls it with the post-change snapshot before
// persisting, so a rejected mutation leaves no partial state. The check
// runs under the caller's context, additionally capped by the analysis
// budget.
func (g *Guard) validateGraph(ctx context.Context, tasks []models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, g.analysisTimeout)
	defer cancel()

	findings, err := graph.Build(tasks).DetectCycles(ctx)
	if err != nil {
		return err
	}
	if len(findings) > 0 {
		return types.NewEngineError(types.CodeCircularDependency,
			findings[0].String(),
			map[string]interface{}{"cycle": findings[0].Cycle})
	}
	return nil
}

// RequestTransition moves a task to newStatus if the state machine and
// the dependency rule allow it. With force=true a dependency violation is
// bypassed and recorded as a warning instead of rejecting. The returned
// warnings are non-empty only for forced bypasses.
func (g *Guard) RequestTransition(ctx context.Context, id string, newStatus models.TaskStatus, force bool) (models.Task, []Warning, error) {
	if _, ok := allowedTransitions[newStatus]; !ok {
		return models.Task{}, nil, types.NewEngineError(types.CodeValidation,
			fmt.Sprintf("unknown status '%s'", newStatus), nil)
	}

	task, err := g.store.Get(ctx, id)
	if err != nil {
		return models.Task{}, nil, err
	}
	if task.Archived {
		return models.Task{}, nil, types.NewEngineError(types.CodeValidation,
			fmt.Sprintf("task '%s' is archived; archived tasks cannot change status", task.Title),
			map[string]interface{}{"id": id})
	}
	if task.Status == newStatus {
		return task, nil, nil
	}
	if !transitionAllowed(task.Status, newStatus) {
		return models.Task{}, nil, types.NewEngineError(types.CodeValidation,
			fmt.Sprintf("cannot transition task '%s' from %s to %s", task.Title, task.Status, newStatus),
			map[string]interface{}{"id": id, "from": task.Status, "to": newStatus})
	}

	var warnings []Warning
	if newStatus == models.StatusDone {
		unmetIDs, unmetNames := g.unmetDependencies(ctx, task)
		if len(unmetIDs) > 0 {
			if !force {
				return models.Task{}, nil, types.NewEngineError(types.CodeDependencyNotSatisfied,
					fmt.Sprintf("task '%s' cannot be done: unmet dependencies: %s",
						task.Title, strings.Join(unmetNames, ", ")),
					map[string]interface{}{"id": id, "unmet": unmetIDs})
			}
			w := Warning{
				TaskID: id,
				Message: fmt.Sprintf("forced done with unmet dependencies: %s",
					strings.Join(unmetNames, ", ")),
				UnmetDeps: unmetIDs,
				At:        time.Now().UTC(),
			}
			warnings = append(warnings, w)
			slog.Warn("forced transition bypassed dependency check",
				"id", id, "unmet", unmetIDs)
		}
	}

	updated, err := g.store.Update(ctx, id, map[string]interface{}{"status": string(newStatus)})
	if err != nil {
		return models.Task{}, nil, err
	}
	return updated, warnings, nil
}

// SetDependencies replaces a task's dependency list. Self-references are
// rejected here; the cycle check runs inside the store's exclusive lock
// via the installed graph validator, so the whole mutation is atomic.
func (g *Guard) SetDependencies(ctx context.Context, id string, deps []string) (models.Task, error) {
	for _, dep := range deps {
		if dep == id {
			return models.Task{}, types.NewEngineError(types.CodeValidation,
				"task cannot depend on itself", map[string]interface{}{"id": id})
		}
	}
	return g.store.Update(ctx, id, map[string]interface{}{"dependencies": deps})
}

// unmetDependencies resolves each dependency id and collects those not
// currently done. Dangling ids and unreadable records count as unmet:
// the guard fails closed. The second slice carries display names for the
// rejection message.
func (g *Guard) unmetDependencies(ctx context.Context, task models.Task) ([]string, []string) {
	var ids, names []string
	for _, depID := range task.Dependencies {
		dep, err := g.store.Get(ctx, depID)
		switch {
		case errors.Is(err, types.ErrNotFound):
			ids = append(ids, depID)
			names = append(names, fmt.Sprintf("%s (deleted)", depID))
		case err != nil:
			ids = append(ids, depID)
			names = append(names, fmt.Sprintf("%s (unreadable)", depID))
		case dep.Status != models.StatusDone:
			ids = append(ids, depID)
			names = append(names, fmt.Sprintf("'%s' [%s]", dep.Title, dep.Status))
		}
	}
	return ids, names
}

func transitionAllowed(from, to models.TaskStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
