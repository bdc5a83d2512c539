package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/josephgoksu/TaskGraph/models"
	"github.com/josephgoksu/TaskGraph/types"
)

// CycleFinding names one detected dependency cycle. The ids appear in
// dependency order, first id repeated implicitly (a -> b -> a is
// reported as [a b]).
type CycleFinding struct {
	Cycle []string `json:"cycle"`
}

func (f CycleFinding) String() string {
	return fmt.Sprintf("cycle detected involving tasks %v", f.Cycle)
}

// Bottleneck is a task blocking an unusually large number of dependents.
type Bottleneck struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Blocked []string `json:"blocked"`
}

// CriticalPath is the maximum-effort chain of dependent tasks, bounding
// minimum completion time.
type CriticalPath struct {
	TaskIDs     []string `json:"taskIds"`
	TotalEffort float64  `json:"totalEffort"`
}

// checkDeadline maps a ctx expiry onto the engine's analysis timeout
// error. Analyzer loops call it once per visited node so large graphs
// fail cleanly instead of overrunning their budget.
func checkDeadline(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return types.NewEngineError(types.CodeAnalysisTimeout,
			"graph analysis exceeded its time budget", nil)
	}
	return nil
}

// DetectCycles reports every dependency cycle reachable in the graph via
// depth-first traversal with a recursion stack. Cycles are returned as
// structured findings, not errors: the caller decides how to react.
// Self-loops are reported as single-node cycles rather than looping.
func (g *Graph) DetectCycles(ctx context.Context) ([]CycleFinding, error) {
	visited := make(map[string]bool, len(g.tasks))
	onStack := make(map[string]bool, len(g.tasks))
	var stack []string
	var findings []CycleFinding

	var walk func(id string) error
	walk = func(id string) error {
		if err := checkDeadline(ctx); err != nil {
			return err
		}
		visited[id] = true
		onStack[id] = true
		stack = append(stack, id)

		for _, dep := range g.dependsOn[id] {
			if _, known := g.tasks[dep]; !known {
				continue // dangling reference, no edge to follow
			}
			if onStack[dep] {
				// Slice the cycle out of the current stack.
				start := 0
				for i, sid := range stack {
					if sid == dep {
						start = i
						break
					}
				}
				cycle := make([]string, len(stack)-start)
				copy(cycle, stack[start:])
				findings = append(findings, CycleFinding{Cycle: cycle})
				continue
			}
			if !visited[dep] {
				if err := walk(dep); err != nil {
					return err
				}
			}
		}

		onStack[id] = false
		stack = stack[:len(stack)-1]
		return nil
	}

	for _, id := range g.order {
		if !visited[id] {
			if err := walk(id); err != nil {
				return nil, err
			}
		}
	}
	return findings, nil
}

// FindCriticalPath computes the maximum-effort path through the blocks
// direction, starting from any task with no unmet dependency. The graph
// is acyclic by invariant; a back edge that slipped through contributes
// nothing rather than looping. Ties are broken by task id ordering so
// the result is deterministic.
func (g *Graph) FindCriticalPath(ctx context.Context) (CriticalPath, error) {
	// bestFrom[id] is the maximum effort of any blocks-path starting at
	// id, including id's own effort; nextOf[id] is the successor on it.
	bestFrom := make(map[string]float64, len(g.tasks))
	nextOf := make(map[string]string, len(g.tasks))
	computed := make(map[string]bool, len(g.tasks))
	onStack := make(map[string]bool)

	var walk func(id string) (float64, error)
	walk = func(id string) (float64, error) {
		if err := checkDeadline(ctx); err != nil {
			return 0, err
		}
		if computed[id] {
			return bestFrom[id], nil
		}
		if onStack[id] {
			return 0, nil // back edge, ignore
		}
		onStack[id] = true
		defer func() { onStack[id] = false }()

		best := 0.0
		next := ""
		for _, succ := range g.blocks[id] {
			if _, known := g.tasks[succ]; !known {
				continue
			}
			if onStack[succ] {
				continue // back edge, never adopt as successor
			}
			w, err := walk(succ)
			if err != nil {
				return 0, err
			}
			if next == "" || w > best || (w == best && succ < next) {
				best = w
				next = succ
			}
		}
		bestFrom[id] = g.tasks[id].Effort + best
		nextOf[id] = next
		computed[id] = true
		return bestFrom[id], nil
	}

	var start string
	var startWeight float64
	for _, id := range g.order {
		if len(g.UnmetDependencies(id)) > 0 {
			continue
		}
		w, err := walk(id)
		if err != nil {
			return CriticalPath{}, err
		}
		if w > startWeight || (w == startWeight && (start == "" || id < start)) {
			startWeight = w
			start = id
		}
	}
	if start == "" {
		return CriticalPath{}, nil
	}

	var path []string
	for id := start; id != ""; id = nextOf[id] {
		path = append(path, id)
	}
	return CriticalPath{TaskIDs: path, TotalEffort: startWeight}, nil
}

// Bottlenecks returns tasks whose blocks set exceeds the threshold,
// ranked by the size of that set descending. Ties are broken by id.
func (g *Graph) Bottlenecks(threshold int) []Bottleneck {
	var out []Bottleneck
	for _, id := range g.order {
		blocked := g.blocks[id]
		if len(blocked) <= threshold {
			continue
		}
		t := g.tasks[id]
		out = append(out, Bottleneck{ID: id, Title: t.Title, Blocked: blocked})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Blocked) != len(out[j].Blocked) {
			return len(out[i].Blocked) > len(out[j].Blocked)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Parallelizable returns the tasks that can be started immediately: in
// todo, not archived, with every dependency met. These are suggestions
// for humans working concurrently; the engine never starts anything
// itself.
func (g *Graph) Parallelizable() []models.Task {
	var out []models.Task
	for _, id := range g.order {
		t := g.tasks[id]
		if t.Status != models.StatusTodo || t.Archived {
			continue
		}
		if len(g.UnmetDependencies(id)) == 0 {
			out = append(out, t)
		}
	}
	return out
}

// TopologicalSort returns tasks in dependency order, dependencies first.
// It refuses to sort a cyclic graph and returns the findings instead.
func (g *Graph) TopologicalSort(ctx context.Context) ([]models.Task, error) {
	findings, err := g.DetectCycles(ctx)
	if err != nil {
		return nil, err
	}
	if len(findings) > 0 {
		return nil, types.NewEngineError(types.CodeCircularDependency,
			findings[0].String(),
			map[string]interface{}{"cycle": findings[0].Cycle})
	}

	visited := make(map[string]bool, len(g.tasks))
	sorted := make([]models.Task, 0, len(g.tasks))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		t, exists := g.tasks[id]
		if !exists {
			return
		}
		for _, dep := range g.dependsOn[id] {
			visit(dep)
		}
		sorted = append(sorted, t)
	}

	for _, id := range g.order {
		visit(id)
	}
	return sorted, nil
}
