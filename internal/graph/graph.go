// Package graph builds an in-memory dependency graph over task ids and
// answers structural questions about it: cycles, critical path,
// bottlenecks, ready sets. Graphs are derived from a snapshot of tasks
// and discarded after use; nothing here touches the store.
package graph

import (
	"sort"

	"github.com/josephgoksu/TaskGraph/models"
)

// Graph is a directed adjacency over task ids. dependsOn follows the
// dependency direction (A -> B means A requires B done first); blocks is
// the reverse index (B blocks A).
type Graph struct {
	tasks     map[string]models.Task
	dependsOn map[string][]string
	blocks    map[string][]string
	order     []string // known ids, sorted, for deterministic traversal
}

// Build constructs the graph in O(V+E). Dependency ids that do not
// resolve to a task in the snapshot (dangling references) are kept in the
// edge lists; callers decide how to treat them.
func Build(tasks []models.Task) *Graph {
	g := &Graph{
		tasks:     make(map[string]models.Task, len(tasks)),
		dependsOn: make(map[string][]string, len(tasks)),
		blocks:    make(map[string][]string),
	}
	for _, t := range tasks {
		g.tasks[t.ID] = t
		deps := make([]string, len(t.Dependencies))
		copy(deps, t.Dependencies)
		g.dependsOn[t.ID] = deps
		for _, dep := range t.Dependencies {
			g.blocks[dep] = append(g.blocks[dep], t.ID)
		}
		g.order = append(g.order, t.ID)
	}
	sort.Strings(g.order)
	for _, ids := range g.blocks {
		sort.Strings(ids)
	}
	return g
}

// Task returns the snapshot task for id.
func (g *Graph) Task(id string) (models.Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// Len returns the number of tasks in the graph.
func (g *Graph) Len() int {
	return len(g.tasks)
}

// Neighbors returns the ids the given task depends on.
func (g *Graph) Neighbors(id string) []string {
	return g.dependsOn[id]
}

// ReverseNeighbors returns the ids blocked by the given task.
func (g *Graph) ReverseNeighbors(id string) []string {
	return g.blocks[id]
}

// UnmetDependencies returns the dependency ids of the task that do not
// currently resolve to a done task. A dangling id (no such task in the
// snapshot) counts as unmet: the engine fails closed rather than treating
// a deleted dependency as satisfied.
func (g *Graph) UnmetDependencies(id string) []string {
	var unmet []string
	for _, dep := range g.dependsOn[id] {
		t, ok := g.tasks[dep]
		if !ok || t.Status != models.StatusDone {
			unmet = append(unmet, dep)
		}
	}
	return unmet
}
