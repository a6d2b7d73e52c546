package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ddmoney420/moji/system"
)

const DefaultWatchDebounce = 100 * time.Millisecond

type fileWatcher struct {
	w      *fsnotify.Watcher
	path   string
	target string
}

// newFileWatcher starts watching path. Events are only consumed by run.
func newFileWatcher(path string) (*fileWatcher, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory: many editors save by replacing the file.
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %v: %w", path, err)
	}
	return &fileWatcher{
		w:      w,
		path:   path,
		target: target,
	}, nil
}

func (fw *fileWatcher) Close() error {
	return fw.w.Close()
}

func (fw *fileWatcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != fw.target {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create)
}

// run calls fn once per burst of events on the file closer together than
// debounce. It returns when ctx is done.
func (fw *fileWatcher) run(ctx context.Context, debounce time.Duration, fn func()) error {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-fw.w.Events:
			if !ok {
				return nil
			}
			if !fw.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-fw.w.Errors:
			if !ok {
				return nil
			}
			system.Logger.Warn("watch", "path", fw.path, "err", err)
		case <-fire:
			fire = nil
			fn()
		}
	}
}

// watchFile calls fn after path is written, once per burst of events closer
// together than debounce. It returns when ctx is done.
func watchFile(ctx context.Context, path string, debounce time.Duration, fn func()) error {
	fw, err := newFileWatcher(path)
	if err != nil {
		return err
	}
	defer fw.Close()
	return fw.run(ctx, debounce, fn)
}
