package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/josephgoksu/TaskGraph/internal/graph"
	"github.com/josephgoksu/TaskGraph/models"
	"github.com/josephgoksu/TaskGraph/types"
)

func setupTestStore(t *testing.T) *FileRecordStore {
	t.Helper()
	s, err := Open(Options{Root: t.TempDir(), Format: "json"})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustCreate(t *testing.T, s *FileRecordStore, input models.CreateTaskInput) models.Task {
	t.Helper()
	task, err := s.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("failed to create task %q: %v", input.Title, err)
	}
	return task
}

func TestCreateAppliesDefaults(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, models.CreateTaskInput{Title: "First task"})

	if task.ID == "" {
		t.Error("expected a generated id")
	}
	if task.Status != models.StatusTodo {
		t.Errorf("expected status todo, got %s", task.Status)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("expected default priority medium, got %s", task.Priority)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if task.CompletedAt != nil {
		t.Error("expected completedAt to be unset on creation")
	}

	got, err := s.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("failed to read back created task: %v", err)
	}
	if got.ID != task.ID || got.Title != task.Title {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, task)
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Create(context.Background(), models.CreateTaskInput{Title: "   "})
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("expected validation error for blank title, got %v", err)
	}
}

func TestCreateRejectsUnknownDependency(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Create(context.Background(), models.CreateTaskInput{
		Title:        "Needs a ghost",
		Dependencies: []string{"0b27d015-3f35-4c30-8f0b-9b6f9a1f1a11"},
	})
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("expected validation error for missing dependency, got %v", err)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	task := mustCreate(t, s, models.CreateTaskInput{Title: "Original"})

	updated, err := s.Update(ctx, task.ID, map[string]interface{}{
		"title":    "Renamed",
		"priority": "high",
		"effort":   5.0,
	})
	if err != nil {
		t.Fatalf("failed to update task: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("expected title Renamed, got %s", updated.Title)
	}
	if updated.Priority != models.PriorityHigh {
		t.Errorf("expected priority high, got %s", updated.Priority)
	}
	if updated.Effort != 5.0 {
		t.Errorf("expected effort 5, got %g", updated.Effort)
	}
	if !updated.UpdatedAt.After(task.UpdatedAt) && !updated.UpdatedAt.Equal(task.UpdatedAt) {
		t.Error("expected updatedAt to advance")
	}
}

func TestUpdateRejectsServerAssignedFields(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	task := mustCreate(t, s, models.CreateTaskInput{Title: "Immutable id"})

	for _, field := range []string{"id", "createdAt", "updatedAt", "completedAt", "archived"} {
		_, err := s.Update(ctx, task.ID, map[string]interface{}{field: "anything"})
		if !errors.Is(err, types.ErrValidation) {
			t.Errorf("expected validation error for field %q, got %v", field, err)
		}
	}
}

func TestUpdateRejectsUnknownField(t *testing.T) {
	s := setupTestStore(t)
	task := mustCreate(t, s, models.CreateTaskInput{Title: "Strict schema"})

	_, err := s.Update(context.Background(), task.ID, map[string]interface{}{"colour": "blue"})
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("expected validation error for unknown field, got %v", err)
	}
}

func TestUpdateStatusDoneStampsCompletedAt(t *testing.T) {
	s := setupTestStore(t)
	task := mustCreate(t, s, models.CreateTaskInput{Title: "Finish me"})

	updated, err := s.Update(context.Background(), task.ID, map[string]interface{}{"status": "done"})
	if err != nil {
		t.Fatalf("failed to mark task done: %v", err)
	}
	if updated.Status != models.StatusDone {
		t.Errorf("expected status done, got %s", updated.Status)
	}
	if updated.CompletedAt == nil {
		t.Error("expected completedAt to be stamped when status reaches done")
	}
}

func TestDeleteReturnsDependents(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := mustCreate(t, s, models.CreateTaskInput{Title: "Base"})
	dep := mustCreate(t, s, models.CreateTaskInput{
		Title:        "Depends on base",
		Dependencies: []string{base.ID},
	})

	dependents, err := s.Delete(ctx, base.ID)
	if err != nil {
		t.Fatalf("failed to delete task: %v", err)
	}
	if len(dependents) != 1 || dependents[0] != dep.ID {
		t.Errorf("expected dependents [%s], got %v", dep.ID, dependents)
	}

	if _, err := s.Get(ctx, base.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}

	// The dependent keeps its dangling reference.
	got, err := s.Get(ctx, dep.ID)
	if err != nil {
		t.Fatalf("failed to read dependent: %v", err)
	}
	if !got.DependsOn(base.ID) {
		t.Error("expected dangling dependency reference to survive the delete")
	}
}

func TestArchiveKeepsRecordResolvable(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	task := mustCreate(t, s, models.CreateTaskInput{Title: "Old work"})

	archived, err := s.Archive(ctx, task.ID)
	if err != nil {
		t.Fatalf("failed to archive task: %v", err)
	}
	if !archived.Archived {
		t.Error("expected archived flag to be set")
	}

	// Archiving again is idempotent.
	again, err := s.Archive(ctx, task.ID)
	if err != nil {
		t.Fatalf("expected second archive to succeed: %v", err)
	}
	if !again.Archived {
		t.Error("expected archived flag after repeat archive")
	}

	// Still resolvable by id for dependency checks.
	got, err := s.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("expected archived task to stay resolvable: %v", err)
	}
	if !got.Archived {
		t.Error("expected Get to return the archived version")
	}

	// Hidden from default listings, visible with IncludeArchived.
	visible, err := s.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("expected archived task hidden from default list, got %d tasks", len(visible))
	}
	all, err := s.List(ctx, ListFilter{IncludeArchived: true})
	if err != nil {
		t.Fatalf("failed to list all tasks: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected archived task in full list, got %d tasks", len(all))
	}
}

func TestListFilters(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, models.CreateTaskInput{Title: "Plain"})
	urgent := mustCreate(t, s, models.CreateTaskInput{Title: "Urgent", Priority: models.PriorityCritical})
	tagged := mustCreate(t, s, models.CreateTaskInput{Title: "Tagged", Labels: []string{"infra"}})

	byPriority, err := s.List(ctx, ListFilter{Priority: models.PriorityCritical})
	if err != nil {
		t.Fatalf("failed to list by priority: %v", err)
	}
	if len(byPriority) != 1 || byPriority[0].ID != urgent.ID {
		t.Errorf("expected only the critical task, got %v", byPriority)
	}

	byLabel, err := s.List(ctx, ListFilter{Label: "infra"})
	if err != nil {
		t.Fatalf("failed to list by label: %v", err)
	}
	if len(byLabel) != 1 || byLabel[0].ID != tagged.ID {
		t.Errorf("expected only the labeled task, got %v", byLabel)
	}
}

func TestCorruptRecordIsQuarantined(t *testing.T) {
	root := t.TempDir()
	s, err := Open(Options{Root: root, Format: "json"})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	ctx := context.Background()
	task := mustCreate(t, s, models.CreateTaskInput{Title: "About to rot"})

	// Corrupt the record on disk behind the store's back.
	path := filepath.Join(root, "tasks", task.ID+".json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to corrupt record: %v", err)
	}

	_, err = s.Get(ctx, task.ID)
	if !errors.Is(err, types.ErrCorruptRecord) {
		t.Fatalf("expected corrupt record error, got %v", err)
	}

	// The record was moved aside, not deleted.
	entries, err := os.ReadDir(filepath.Join(root, "quarantine"))
	if err != nil {
		t.Fatalf("failed to read quarantine dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), task.ID+".json.") {
		t.Errorf("expected quarantined copy of %s, got %v", task.ID, entries)
	}

	// Subsequent reads see a missing record, and listing skips it cleanly.
	if _, err := s.Get(ctx, task.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected not found after quarantine, got %v", err)
	}
	tasks, err := s.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("failed to list after quarantine: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty list after quarantine, got %d tasks", len(tasks))
	}
}

func TestOpenDiscardsOrphanedTempFiles(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "tasks"), 0o755); err != nil {
		t.Fatalf("failed to prepare store dir: %v", err)
	}
	orphan := filepath.Join(root, "tasks", "abc.json.tmp.deadbeef")
	if err := os.WriteFile(orphan, []byte("half a record"), 0o644); err != nil {
		t.Fatalf("failed to plant orphan temp file: %v", err)
	}

	if _, err := Open(Options{Root: root, Format: "json"}); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	if _, err := os.Stat(orphan); !errors.Is(err, os.ErrNotExist) {
		t.Error("expected orphaned temp file to be discarded on open")
	}
}

func TestConcurrentCreatesGetUniqueIDs(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, err := s.Create(ctx, models.CreateTaskInput{Title: "Concurrent"})
			if err != nil {
				t.Errorf("concurrent create failed: %v", err)
				return
			}
			ids <- task.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate id assigned: %s", id)
		}
		seen[id] = true
	}

	tasks, err := s.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(tasks) != n {
		t.Errorf("expected %d tasks, got %d", n, len(tasks))
	}
}

func TestConcurrentUpdatesLeaveParseableRecord(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	task := mustCreate(t, s, models.CreateTaskInput{Title: "Contested"})

	var wg sync.WaitGroup
	titles := []string{"From writer one", "From writer two", "From writer three"}
	for _, title := range titles {
		wg.Add(1)
		go func(title string) {
			defer wg.Done()
			if _, err := s.Update(ctx, task.ID, map[string]interface{}{"title": title}); err != nil {
				t.Errorf("concurrent update failed: %v", err)
			}
		}(title)
	}
	wg.Wait()

	// Last writer wins, and the record is a complete version either way.
	got, err := s.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("failed to read contested record: %v", err)
	}
	found := false
	for _, title := range titles {
		if got.Title == title {
			found = true
		}
	}
	if !found {
		t.Errorf("expected one of the written titles, got %q", got.Title)
	}
}

type ctxMarkerKey struct{}

func TestGraphValidatorGatesDependencyUpdates(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.WithValue(context.Background(), ctxMarkerKey{}, "threaded")
	a := mustCreate(t, s, models.CreateTaskInput{Title: "A"})
	b := mustCreate(t, s, models.CreateTaskInput{Title: "B"})

	rejection := types.NewEngineError(types.CodeCircularDependency, "rejected by validator", nil)
	s.SetGraphValidator(func(ctx context.Context, tasks []models.Task) error {
		// The hook must run under the caller's context, not a fresh one.
		if ctx.Value(ctxMarkerKey{}) != "threaded" {
			t.Error("expected the caller's context to reach the validator")
		}
		return rejection
	})

	_, err := s.Update(ctx, a.ID, map[string]interface{}{"dependencies": []string{b.ID}})
	if !errors.Is(err, types.ErrCircularDependency) {
		t.Fatalf("expected validator rejection, got %v", err)
	}

	// Nothing was persisted.
	got, err := s.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("failed to read task: %v", err)
	}
	if len(got.Dependencies) != 0 {
		t.Errorf("expected rejected update to leave dependencies untouched, got %v", got.Dependencies)
	}

	// The validator is not consulted for plain field updates.
	if _, err := s.Update(ctx, a.ID, map[string]interface{}{"title": "Still fine"}); err != nil {
		t.Errorf("expected plain update to bypass graph validator, got %v", err)
	}
}

func TestBackupAndRestore(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	keep := mustCreate(t, s, models.CreateTaskInput{Title: "Keep"})
	lose := mustCreate(t, s, models.CreateTaskInput{Title: "Lose"})

	backupDir := t.TempDir()
	if err := s.Backup(ctx, backupDir); err != nil {
		t.Fatalf("failed to back up store: %v", err)
	}

	if _, err := s.Delete(ctx, lose.ID); err != nil {
		t.Fatalf("failed to delete task: %v", err)
	}

	if err := s.Restore(ctx, backupDir); err != nil {
		t.Fatalf("failed to restore store: %v", err)
	}

	tasks, err := s.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("failed to list after restore: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks after restore, got %d", len(tasks))
	}
	if _, err := s.Get(ctx, keep.ID); err != nil {
		t.Errorf("expected kept task to survive restore: %v", err)
	}
	if _, err := s.Get(ctx, lose.ID); err != nil {
		t.Errorf("expected deleted task to come back from backup: %v", err)
	}
}

func TestRestoreRejectsCyclicBackup(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, models.CreateTaskInput{Title: "A"})
	b := mustCreate(t, s, models.CreateTaskInput{Title: "B"})

	backupDir := t.TempDir()
	if err := s.Backup(ctx, backupDir); err != nil {
		t.Fatalf("failed to back up store: %v", err)
	}

	// Hand-edit the backup into a dependency cycle.
	addBackupDep := func(id, dep string) {
		t.Helper()
		path := filepath.Join(backupDir, "tasks", id+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read backup record: %v", err)
		}
		task, err := unmarshalRecord("json", data)
		if err != nil {
			t.Fatalf("failed to parse backup record: %v", err)
		}
		task.Dependencies = []string{dep}
		edited, err := marshalRecord("json", task)
		if err != nil {
			t.Fatalf("failed to marshal edited record: %v", err)
		}
		if err := os.WriteFile(path, edited, 0o644); err != nil {
			t.Fatalf("failed to write edited record: %v", err)
		}
	}
	addBackupDep(a.ID, b.ID)
	addBackupDep(b.ID, a.ID)

	s.SetGraphValidator(func(ctx context.Context, tasks []models.Task) error {
		findings, err := graph.Build(tasks).DetectCycles(ctx)
		if err != nil {
			return err
		}
		if len(findings) > 0 {
			return types.NewEngineError(types.CodeCircularDependency, findings[0].String(), nil)
		}
		return nil
	})

	err := s.Restore(ctx, backupDir)
	if !errors.Is(err, types.ErrCircularDependency) {
		t.Fatalf("expected cyclic backup to be rejected, got %v", err)
	}

	// The live records were not replaced.
	for _, id := range []string{a.ID, b.ID} {
		got, err := s.Get(ctx, id)
		if err != nil {
			t.Fatalf("failed to read live record after aborted restore: %v", err)
		}
		if len(got.Dependencies) != 0 {
			t.Errorf("expected live record %s to keep no dependencies, got %v", id, got.Dependencies)
		}
	}
}

func TestRestoreRejectsMismatchedRecordName(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, models.CreateTaskInput{Title: "Real"})

	backupDir := t.TempDir()
	if err := s.Backup(ctx, backupDir); err != nil {
		t.Fatalf("failed to back up store: %v", err)
	}

	// Duplicate the record under a filename claiming a different id.
	src := filepath.Join(backupDir, "tasks", a.ID+".json")
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("failed to read backup record: %v", err)
	}
	imposter := filepath.Join(backupDir, "tasks", "11f9f6a7-9a06-4a83-b180-6de0a286cd8f.json")
	if err := os.WriteFile(imposter, data, 0o644); err != nil {
		t.Fatalf("failed to plant mismatched record: %v", err)
	}

	err = s.Restore(ctx, backupDir)
	if !errors.Is(err, types.ErrCorruptRecord) {
		t.Fatalf("expected mismatched record name to abort restore, got %v", err)
	}

	// The live store was not touched.
	if _, err := s.Get(ctx, a.ID); err != nil {
		t.Errorf("expected live record to survive aborted restore: %v", err)
	}
}

func TestRestoreRejectsCorruptBackup(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	task := mustCreate(t, s, models.CreateTaskInput{Title: "Survivor"})

	backupDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(backupDir, "tasks"), 0o755); err != nil {
		t.Fatalf("failed to prepare backup dir: %v", err)
	}
	bad := filepath.Join(backupDir, "tasks", "bad.json")
	if err := os.WriteFile(bad, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("failed to plant corrupt backup: %v", err)
	}

	err := s.Restore(ctx, backupDir)
	if !errors.Is(err, types.ErrCorruptRecord) {
		t.Fatalf("expected corrupt record error, got %v", err)
	}

	// The live store was not touched.
	if _, err := s.Get(ctx, task.ID); err != nil {
		t.Errorf("expected live record to survive aborted restore: %v", err)
	}
}

func TestLockTimeoutSurfacesAsEngineError(t *testing.T) {
	root := t.TempDir()
	s, err := Open(Options{
		Root:          root,
		Format:        "json",
		LockTimeout:   100 * time.Millisecond,
		RetryInterval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	// Hold the store lock from a second handle so operations time out.
	blocker, err := Open(Options{Root: root, Format: "json"})
	if err != nil {
		t.Fatalf("failed to open blocking store: %v", err)
	}
	unlock, err := blocker.acquireStore(context.Background(), true)
	if err != nil {
		t.Fatalf("failed to take blocking lock: %v", err)
	}
	defer unlock()

	_, err = s.Create(context.Background(), models.CreateTaskInput{Title: "Blocked out"})
	if !errors.Is(err, types.ErrLockTimeout) {
		t.Errorf("expected lock timeout error, got %v", err)
	}
	if !types.IsRetryable(err) {
		t.Error("expected lock timeout to be retryable")
	}
}

func TestYAMLFormatRoundTrip(t *testing.T) {
	s, err := Open(Options{Root: t.TempDir(), Format: "yaml"})
	if err != nil {
		t.Fatalf("failed to open yaml store: %v", err)
	}
	ctx := context.Background()

	task := mustCreate(t, s, models.CreateTaskInput{Title: "YAML record", Effort: 3})
	got, err := s.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("failed to read yaml record: %v", err)
	}
	if got.Title != "YAML record" || got.Effort != 3 {
		t.Errorf("yaml round trip mismatch: %+v", got)
	}
}
