package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// ChangeOp classifies an observed record change.
type ChangeOp string

const (
	ChangeCreated ChangeOp = "created"
	ChangeUpdated ChangeOp = "updated"
	ChangeRemoved ChangeOp = "removed"
)

// ChangeEvent reports that a record file changed on disk, typically
// because another process (an external sync collaborator, a second CLI
// invocation) wrote to the store.
type ChangeEvent struct {
	ID   string
	Op   ChangeOp
	Path string
}

// Watch emits a ChangeEvent for every committed record change until ctx
// is cancelled. Temp files from in-flight writes are filtered out: only
// the final rename of a completed write surfaces.
func (s *FileRecordStore) Watch(ctx context.Context) (<-chan ChangeEvent, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range []string{liveDir, archiveDir} {
		if err := watcher.Add(filepath.Join(s.root, dir)); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}

	events := make(chan ChangeEvent)
	go func() {
		defer close(events)
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				name := filepath.Base(ev.Name)
				if strings.Contains(name, tmpInfix) || !strings.HasSuffix(name, s.ext) {
					continue
				}
				change := ChangeEvent{
					ID:   strings.TrimSuffix(name, s.ext),
					Path: ev.Name,
				}
				switch {
				case ev.Op.Has(fsnotify.Create):
					change.Op = ChangeCreated
				case ev.Op.Has(fsnotify.Write):
					change.Op = ChangeUpdated
				case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
					change.Op = ChangeRemoved
				default:
					continue
				}
				select {
				case events <- change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("store watcher error", "error", err)
			}
		}
	}()
	return events, nil
}
