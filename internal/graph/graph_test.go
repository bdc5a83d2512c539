package graph

import (
	"reflect"
	"testing"

	"github.com/josephgoksu/TaskGraph/models"
)

func task(id string, status models.TaskStatus, effort float64, deps ...string) models.Task {
	return models.Task{
		ID:           id,
		Title:        "Task " + id,
		Status:       status,
		Priority:     models.PriorityMedium,
		Effort:       effort,
		Dependencies: deps,
	}
}

func TestBuildAdjacency(t *testing.T) {
	g := Build([]models.Task{
		task("a", models.StatusTodo, 1),
		task("b", models.StatusTodo, 1, "a"),
		task("c", models.StatusTodo, 1, "a", "b"),
	})

	if g.Len() != 3 {
		t.Errorf("expected 3 tasks, got %d", g.Len())
	}
	if got := g.Neighbors("c"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected c to depend on [a b], got %v", got)
	}
	if got := g.ReverseNeighbors("a"); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("expected a to block [b c], got %v", got)
	}
	if got := g.ReverseNeighbors("c"); len(got) != 0 {
		t.Errorf("expected c to block nothing, got %v", got)
	}
}

func TestUnmetDependencies(t *testing.T) {
	g := Build([]models.Task{
		task("done", models.StatusDone, 1),
		task("open", models.StatusInProgress, 1),
		task("child", models.StatusTodo, 1, "done", "open", "ghost"),
	})

	unmet := g.UnmetDependencies("child")
	if !reflect.DeepEqual(unmet, []string{"open", "ghost"}) {
		t.Errorf("expected unmet [open ghost], got %v", unmet)
	}
}

func TestUnmetDependenciesDanglingFailsClosed(t *testing.T) {
	g := Build([]models.Task{
		task("child", models.StatusTodo, 1, "missing"),
	})

	// A dependency id that resolves to nothing counts as unmet.
	unmet := g.UnmetDependencies("child")
	if !reflect.DeepEqual(unmet, []string{"missing"}) {
		t.Errorf("expected dangling id to count as unmet, got %v", unmet)
	}
}
