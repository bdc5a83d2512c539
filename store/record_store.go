package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/josephgoksu/TaskGraph/models"
	"github.com/josephgoksu/TaskGraph/types"
)

const (
	liveDir       = "tasks"
	archiveDir    = "archive"
	quarantineDir = "quarantine"
	locksDir      = "locks"
	storeLockName = "store.lock"
	tmpInfix      = ".tmp."
)

// Options configures a FileRecordStore.
type Options struct {
	// Root is the store directory. Subareas for live, archived and
	// quarantined records are created beneath it.
	Root string
	// Format is the record serialization: json (default), yaml or toml.
	Format string
	// LockTimeout bounds how long any operation waits on an advisory
	// lock before failing with LOCK_TIMEOUT.
	LockTimeout time.Duration
	// RetryInterval is the poll interval while waiting for a lock.
	RetryInterval time.Duration
}

// FileRecordStore implements TaskStore with one file per task record.
// Cross-process safety comes from OS-level advisory locks (flock), not
// in-memory mutexes: independent processes share the same store
// directory. Every write goes through a temp-file-then-rename swap so a
// reader only ever observes the pre-write or post-write version.
type FileRecordStore struct {
	root          string
	format        string
	ext           string
	lockTimeout   time.Duration
	retryInterval time.Duration
	graphCheck    func(ctx context.Context, tasks []models.Task) error
}

// Open prepares the store directory layout, discards temp files orphaned
// by crashed writers and returns a ready store.
func Open(opts Options) (*FileRecordStore, error) {
	if opts.Root == "" {
		return nil, types.NewEngineError(types.CodeValidation, "store root directory is required", nil)
	}
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, types.NewEngineError(types.CodeValidation, err.Error(), nil)
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = 10 * time.Second
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 25 * time.Millisecond
	}

	s := &FileRecordStore{
		root:          opts.Root,
		format:        format,
		ext:           "." + format,
		lockTimeout:   opts.LockTimeout,
		retryInterval: opts.RetryInterval,
	}

	for _, dir := range []string{liveDir, archiveDir, quarantineDir, locksDir} {
		if err := os.MkdirAll(filepath.Join(opts.Root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}
	}

	s.discardOrphanedTemps()
	return s, nil
}

// SetGraphValidator installs the dependency-graph hook. See TaskStore.
func (s *FileRecordStore) SetGraphValidator(fn func(ctx context.Context, tasks []models.Task) error) {
	s.graphCheck = fn
}

// Close releases store resources. Locks are acquired per operation and
// released before the operation returns, so there is nothing to unwind.
func (s *FileRecordStore) Close() error {
	return nil
}

// discardOrphanedTemps removes temp files left behind by writers that
// crashed before the rename. A temp that never got renamed was never
// committed, so discarding it restores the pre-write state.
func (s *FileRecordStore) discardOrphanedTemps() {
	for _, dir := range []string{liveDir, archiveDir} {
		entries, err := os.ReadDir(filepath.Join(s.root, dir))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.Contains(e.Name(), tmpInfix) {
				continue
			}
			orphan := filepath.Join(s.root, dir, e.Name())
			if err := os.Remove(orphan); err != nil {
				slog.Warn("failed to discard orphaned temp file", "path", orphan, "error", err)
			} else {
				slog.Warn("discarded orphaned temp file from interrupted write", "path", orphan)
			}
		}
	}
}

// --- locking ---

type release func()

// acquireStore takes the store-wide advisory lock. Structural operations
// (create, delete, archive, restore, dependency mutations) take it
// exclusively; record reads and plain field updates take it shared so
// they never block each other.
func (s *FileRecordStore) acquireStore(ctx context.Context, exclusive bool) (release, error) {
	return s.acquire(ctx, storeLockName, exclusive)
}

// acquireRecord takes the per-record advisory lock, serializing
// operations against the same id within and across processes.
func (s *FileRecordStore) acquireRecord(ctx context.Context, id string) (release, error) {
	return s.acquire(ctx, id+".lock", true)
}

func (s *FileRecordStore) acquire(ctx context.Context, name string, exclusive bool) (release, error) {
	lk := flock.New(filepath.Join(s.root, locksDir, name))

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	var ok bool
	var err error
	if exclusive {
		ok, err = lk.TryLockContext(lockCtx, s.retryInterval)
	} else {
		ok, err = lk.TryRLockContext(lockCtx, s.retryInterval)
	}
	if !ok {
		if err == nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, types.NewEngineError(types.CodeLockTimeout,
				fmt.Sprintf("could not acquire lock %s within %s", name, s.lockTimeout),
				map[string]interface{}{"lock": name, "timeout": s.lockTimeout.String()})
		}
		return nil, fmt.Errorf("failed to acquire lock %s: %w", name, err)
	}
	return func() { _ = lk.Unlock() }, nil
}

// --- record IO ---

func (s *FileRecordStore) livePath(id string) string {
	return filepath.Join(s.root, liveDir, id+s.ext)
}

func (s *FileRecordStore) archivePath(id string) string {
	return filepath.Join(s.root, archiveDir, id+s.ext)
}

// resolvePath locates the record file for id, checking the live area
// first and then the archive. Archived records stay resolvable so
// dependency checks against them keep working.
func (s *FileRecordStore) resolvePath(id string) (string, error) {
	live := s.livePath(id)
	if _, err := os.Stat(live); err == nil {
		return live, nil
	}
	archived := s.archivePath(id)
	if _, err := os.Stat(archived); err == nil {
		return archived, nil
	}
	return "", types.NewEngineError(types.CodeNotFound,
		fmt.Sprintf("task with ID '%s' not found", id),
		map[string]interface{}{"id": id})
}

// readRecord loads and parses one record. A record that fails to parse is
// quarantined (renamed aside, never deleted) and surfaces as
// CORRUPT_RECORD so manual recovery from the quarantine area stays
// possible.
func (s *FileRecordStore) readRecord(path string) (models.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Task{}, types.NewEngineError(types.CodeNotFound,
				fmt.Sprintf("record %s not found", filepath.Base(path)), nil)
		}
		return models.Task{}, fmt.Errorf("failed to read record %s: %w", path, err)
	}

	task, err := unmarshalRecord(s.format, data)
	if err != nil {
		quarantined := filepath.Join(s.root, quarantineDir,
			fmt.Sprintf("%s.%d", filepath.Base(path), time.Now().UnixNano()))
		if renameErr := os.Rename(path, quarantined); renameErr != nil {
			slog.Warn("failed to quarantine corrupt record", "path", path, "error", renameErr)
			quarantined = ""
		} else {
			slog.Warn("quarantined corrupt record", "path", path, "quarantined", quarantined)
		}
		return models.Task{}, types.NewEngineError(types.CodeCorruptRecord,
			fmt.Sprintf("record %s failed to parse: %v", filepath.Base(path), err),
			map[string]interface{}{"path": path, "quarantined": quarantined})
	}
	return task, nil
}

// writeRecord writes the record through the temp-then-rename protocol:
// marshal, write to a uniquely named temp file in the same directory,
// fsync, re-read and parse the temp to verify it is well-formed, then
// atomically swap it into place. Any failure leaves the previous record
// untouched.
func (s *FileRecordStore) writeRecord(path string, task models.Task) error {
	if err := models.ValidateStruct(task); err != nil {
		return types.NewEngineError(types.CodeValidation, err.Error(), map[string]interface{}{"id": task.ID})
	}

	data, err := marshalRecord(s.format, task)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", task.ID, err)
	}

	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return fmt.Errorf("failed to generate temp suffix: %w", err)
	}
	tmpPath := path + tmpInfix + hex.EncodeToString(suffix)
	defer func() { _ = os.Remove(tmpPath) }()

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temp file %s: %w", tmpPath, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write temp file %s: %w", tmpPath, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync temp file %s: %w", tmpPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file %s: %w", tmpPath, err)
	}

	// Verify the bytes on disk round-trip before committing.
	written, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to verify temp file %s: %w", tmpPath, err)
	}
	if _, err := unmarshalRecord(s.format, written); err != nil {
		return fmt.Errorf("temp file %s failed verification, record not replaced: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to swap temp file into %s: %w", path, err)
	}
	return nil
}

// snapshotLocked reads every record, live and archived. Callers must hold
// the store lock. Corrupt records are quarantined and skipped.
func (s *FileRecordStore) snapshotLocked(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	for _, dir := range []string{liveDir, archiveDir} {
		entries, err := os.ReadDir(filepath.Join(s.root, dir))
		if err != nil {
			return nil, fmt.Errorf("failed to read store directory %s: %w", dir, err)
		}
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("snapshot interrupted: %w", err)
			}
			if e.IsDir() || !strings.HasSuffix(e.Name(), s.ext) || strings.Contains(e.Name(), tmpInfix) {
				continue
			}
			task, err := s.readRecord(filepath.Join(s.root, dir, e.Name()))
			if err != nil {
				if errors.Is(err, types.ErrCorruptRecord) {
					slog.Warn("skipping corrupt record in snapshot", "file", e.Name())
					continue
				}
				return nil, err
			}
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// --- CRUD ---

// Create assigns a unique id, applies defaults and persists a new record.
// It holds the store-wide exclusive lock so concurrent creators can never
// be assigned colliding ids.
func (s *FileRecordStore) Create(ctx context.Context, input models.CreateTaskInput) (models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.Task{}, types.NewEngineError(types.CodeValidation, "title is required and must be non-empty", nil)
	}
	if err := models.ValidateStruct(input); err != nil {
		return models.Task{}, types.NewEngineError(types.CodeValidation, err.Error(), nil)
	}

	unlock, err := s.acquireStore(ctx, true)
	if err != nil {
		return models.Task{}, err
	}
	defer unlock()

	// uuid4 collisions are astronomically unlikely; the stat check keeps
	// the uniqueness invariant explicit anyway.
	var id string
	for {
		id = uuid.NewString()
		if _, err := os.Stat(s.livePath(id)); errors.Is(err, fs.ErrNotExist) {
			if _, err := os.Stat(s.archivePath(id)); errors.Is(err, fs.ErrNotExist) {
				break
			}
		}
	}

	for _, depID := range input.Dependencies {
		if depID == id {
			return models.Task{}, types.NewEngineError(types.CodeValidation, "task cannot depend on itself", nil)
		}
		if _, err := s.resolvePath(depID); err != nil {
			return models.Task{}, types.NewEngineError(types.CodeValidation,
				fmt.Sprintf("dependency task with ID '%s' not found", depID),
				map[string]interface{}{"missing": depID})
		}
	}

	task := models.NewTask(id, input)
	if err := s.writeRecord(s.livePath(id), task); err != nil {
		return models.Task{}, fmt.Errorf("failed to save new task: %w", err)
	}
	return task, nil
}

// Get retrieves a task by its unique identifier.
func (s *FileRecordStore) Get(ctx context.Context, id string) (models.Task, error) {
	unlockStore, err := s.acquireStore(ctx, false)
	if err != nil {
		return models.Task{}, err
	}
	defer unlockStore()

	unlockRecord, err := s.acquireRecord(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	defer unlockRecord()

	path, err := s.resolvePath(id)
	if err != nil {
		return models.Task{}, err
	}
	return s.readRecord(path)
}

// Update merges fields into the existing record under the per-record
// lock. Dependency list changes are structural: they run under the
// store-wide exclusive lock and through the graph validator so the
// acyclicity invariant holds at all times.
func (s *FileRecordStore) Update(ctx context.Context, id string, updates map[string]interface{}) (models.Task, error) {
	_, touchesDeps := updates["dependencies"]

	unlockStore, err := s.acquireStore(ctx, touchesDeps)
	if err != nil {
		return models.Task{}, err
	}
	defer unlockStore()

	unlockRecord, err := s.acquireRecord(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	defer unlockRecord()

	path, err := s.resolvePath(id)
	if err != nil {
		return models.Task{}, err
	}
	task, err := s.readRecord(path)
	if err != nil {
		return models.Task{}, err
	}

	if err := applyUpdates(&task, updates); err != nil {
		return models.Task{}, err
	}
	task.UpdatedAt = time.Now().UTC()
	if task.Status == models.StatusDone && task.CompletedAt == nil {
		now := task.UpdatedAt
		task.CompletedAt = &now
	}

	if touchesDeps {
		if task.DependsOn(id) {
			return models.Task{}, types.NewEngineError(types.CodeValidation, "task cannot depend on itself",
				map[string]interface{}{"id": id})
		}
		for _, depID := range task.Dependencies {
			if depID == id {
				continue
			}
			if _, err := s.resolvePath(depID); err != nil {
				return models.Task{}, types.NewEngineError(types.CodeValidation,
					fmt.Sprintf("dependency task with ID '%s' not found", depID),
					map[string]interface{}{"missing": depID})
			}
		}
		if s.graphCheck != nil {
			snapshot, err := s.snapshotLocked(ctx)
			if err != nil {
				return models.Task{}, err
			}
			for i := range snapshot {
				if snapshot[i].ID == id {
					snapshot[i] = task
				}
			}
			if err := s.graphCheck(ctx, snapshot); err != nil {
				return models.Task{}, err
			}
		}
	}

	if err := s.writeRecord(path, task); err != nil {
		return models.Task{}, fmt.Errorf("failed to save updated task: %w", err)
	}
	return task, nil
}

// Delete removes the record permanently. Dependents keep their dangling
// references (fail closed on later transition checks); their ids are
// returned so the caller can warn the user.
func (s *FileRecordStore) Delete(ctx context.Context, id string) ([]string, error) {
	unlock, err := s.acquireStore(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	path, err := s.resolvePath(id)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.snapshotLocked(ctx)
	if err != nil {
		return nil, err
	}
	var dependents []string
	for _, t := range snapshot {
		if t.ID != id && t.DependsOn(id) {
			dependents = append(dependents, t.ID)
		}
	}

	if err := os.Remove(path); err != nil {
		return nil, fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	if len(dependents) > 0 {
		slog.Warn("deleted task still referenced by dependents", "id", id, "dependents", dependents)
	}
	return dependents, nil
}

// Archive flags the record and moves it into the archive subarea. The
// move reuses the atomic write path so a crash leaves either the live or
// the archived version, never both halves.
func (s *FileRecordStore) Archive(ctx context.Context, id string) (models.Task, error) {
	unlock, err := s.acquireStore(ctx, true)
	if err != nil {
		return models.Task{}, err
	}
	defer unlock()

	live := s.livePath(id)
	if _, err := os.Stat(live); err != nil {
		if _, statErr := os.Stat(s.archivePath(id)); statErr == nil {
			// Already archived; archiving is idempotent.
			return s.readRecord(s.archivePath(id))
		}
		return models.Task{}, types.NewEngineError(types.CodeNotFound,
			fmt.Sprintf("task with ID '%s' not found", id),
			map[string]interface{}{"id": id})
	}

	task, err := s.readRecord(live)
	if err != nil {
		return models.Task{}, err
	}
	task.Archived = true
	task.UpdatedAt = time.Now().UTC()

	if err := s.writeRecord(s.archivePath(id), task); err != nil {
		return models.Task{}, fmt.Errorf("failed to write archived record: %w", err)
	}
	if err := os.Remove(live); err != nil {
		return models.Task{}, fmt.Errorf("failed to remove live record after archiving: %w", err)
	}
	return task, nil
}

// List returns a snapshot of records passing the filter, sorted by
// creation time then id for deterministic output.
func (s *FileRecordStore) List(ctx context.Context, filter ListFilter) ([]models.Task, error) {
	unlock, err := s.acquireStore(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	snapshot, err := s.snapshotLocked(ctx)
	if err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(snapshot))
	for _, t := range snapshot {
		if filter.Matches(t) {
			tasks = append(tasks, t)
		}
	}
	sortTasks(tasks)
	return tasks, nil
}

func sortTasks(tasks []models.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// Backup copies every live and archived record into destinationPath,
// preserving the live/archive split.
func (s *FileRecordStore) Backup(ctx context.Context, destinationPath string) error {
	unlock, err := s.acquireStore(ctx, false)
	if err != nil {
		return err
	}
	defer unlock()

	for _, dir := range []string{liveDir, archiveDir} {
		dstDir := filepath.Join(destinationPath, dir)
		if err := os.MkdirAll(dstDir, 0o755); err != nil {
			return fmt.Errorf("failed to create backup directory %s: %w", dstDir, err)
		}
		entries, err := os.ReadDir(filepath.Join(s.root, dir))
		if err != nil {
			return fmt.Errorf("failed to read store directory %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), s.ext) {
				continue
			}
			data, err := os.ReadFile(filepath.Join(s.root, dir, e.Name()))
			if err != nil {
				return fmt.Errorf("failed to read record for backup: %w", err)
			}
			if err := os.WriteFile(filepath.Join(dstDir, e.Name()), data, 0o644); err != nil {
				return fmt.Errorf("failed to write backup record: %w", err)
			}
		}
	}
	return nil
}

// Restore replaces store contents with records from sourcePath. Every
// source record must parse cleanly, carry the id its filename claims,
// and pass the graph validator before any live record is touched.
func (s *FileRecordStore) Restore(ctx context.Context, sourcePath string) error {
	unlock, err := s.acquireStore(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	type staged struct {
		dir  string
		name string
		data []byte
	}
	var records []staged
	var tasks []models.Task
	for _, dir := range []string{liveDir, archiveDir} {
		entries, err := os.ReadDir(filepath.Join(sourcePath, dir))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to read backup directory %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), s.ext) {
				continue
			}
			data, err := os.ReadFile(filepath.Join(sourcePath, dir, e.Name()))
			if err != nil {
				return fmt.Errorf("failed to read backup record %s: %w", e.Name(), err)
			}
			task, err := unmarshalRecord(s.format, data)
			if err != nil {
				return types.NewEngineError(types.CodeCorruptRecord,
					fmt.Sprintf("backup record %s failed to parse, restore aborted: %v", e.Name(), err),
					map[string]interface{}{"file": e.Name()})
			}
			if task.ID+s.ext != e.Name() {
				return types.NewEngineError(types.CodeCorruptRecord,
					fmt.Sprintf("backup record %s carries id %s, restore aborted", e.Name(), task.ID),
					map[string]interface{}{"file": e.Name(), "id": task.ID})
			}
			records = append(records, staged{dir: dir, name: e.Name(), data: data})
			tasks = append(tasks, task)
		}
	}

	// A backup is untrusted input: its dependency relation must satisfy
	// the same invariants as any other mutation.
	if s.graphCheck != nil {
		if err := s.graphCheck(ctx, tasks); err != nil {
			return err
		}
	}

	for _, dir := range []string{liveDir, archiveDir} {
		entries, err := os.ReadDir(filepath.Join(s.root, dir))
		if err != nil {
			return fmt.Errorf("failed to read store directory %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), s.ext) {
				continue
			}
			if err := os.Remove(filepath.Join(s.root, dir, e.Name())); err != nil {
				return fmt.Errorf("failed to clear record before restore: %w", err)
			}
		}
	}

	for _, r := range records {
		if err := os.WriteFile(filepath.Join(s.root, r.dir, r.name), r.data, 0o644); err != nil {
			return fmt.Errorf("failed to restore record %s: %w", r.name, err)
		}
	}
	return nil
}

// --- field merging ---

// fieldNameMapping maps record field names to struct field names.
var fieldNameMapping = map[string]string{
	"title":        "Title",
	"description":  "Description",
	"status":       "Status",
	"priority":     "Priority",
	"dependencies": "Dependencies",
	"labels":       "Labels",
	"parentId":     "ParentID",
	"effort":       "Effort",
	"source":       "Source",
}

// applyUpdates merges the update map into the task reflectively, the same
// way the update map flows in from callers that only know record field
// names. Server-assigned fields are rejected.
func applyUpdates(task *models.Task, updates map[string]interface{}) error {
	for key, value := range updates {
		switch key {
		case "id", "createdAt", "updatedAt", "completedAt", "archived":
			return types.NewEngineError(types.CodeValidation,
				fmt.Sprintf("field '%s' is server-assigned and cannot be updated", key), nil)
		}

		fieldName, ok := fieldNameMapping[key]
		if !ok {
			return types.NewEngineError(types.CodeValidation,
				fmt.Sprintf("unknown field '%s'", key), nil)
		}

		if key == "title" {
			if str, ok := value.(string); !ok || strings.TrimSpace(str) == "" {
				return types.NewEngineError(types.CodeValidation, "title is required and must be non-empty", nil)
			}
		}

		field := reflect.ValueOf(task).Elem().FieldByName(fieldName)
		if !field.IsValid() || !field.CanSet() {
			return fmt.Errorf("internal: field %s not settable", fieldName)
		}

		val := reflect.ValueOf(value)
		if value == nil {
			field.Set(reflect.Zero(field.Type()))
			continue
		}
		if field.Type() != val.Type() {
			converted, err := convertType(value, field.Type())
			if err != nil {
				return types.NewEngineError(types.CodeValidation,
					fmt.Sprintf("invalid value for field '%s': %v", key, err), nil)
			}
			val = converted
		}
		field.Set(val)
	}
	return nil
}

// convertType coerces loosely typed update values (e.g. decoded JSON)
// into the task's field types.
func convertType(value interface{}, targetType reflect.Type) (reflect.Value, error) {
	switch targetType {
	case reflect.TypeOf(models.TaskStatus("")):
		if str, ok := value.(string); ok {
			return reflect.ValueOf(models.TaskStatus(str)), nil
		}
	case reflect.TypeOf(models.TaskPriority("")):
		if str, ok := value.(string); ok {
			return reflect.ValueOf(models.TaskPriority(str)), nil
		}
	case reflect.TypeOf([]string{}):
		switch v := value.(type) {
		case []string:
			return reflect.ValueOf(v), nil
		case []interface{}:
			out := make([]string, 0, len(v))
			for _, item := range v {
				str, ok := item.(string)
				if !ok {
					return reflect.Value{}, fmt.Errorf("expected string element, got %T", item)
				}
				out = append(out, str)
			}
			return reflect.ValueOf(out), nil
		}
	case reflect.TypeOf((*string)(nil)):
		if str, ok := value.(string); ok {
			return reflect.ValueOf(&str), nil
		}
	case reflect.TypeOf(float64(0)):
		switch v := value.(type) {
		case float64:
			return reflect.ValueOf(v), nil
		case int:
			return reflect.ValueOf(float64(v)), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("unsupported conversion from %T to %v", value, targetType)
}
