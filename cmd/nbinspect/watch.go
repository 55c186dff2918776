// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AleutianAI/nbinspect/services/notebook"
)

// DefaultDebounceWindow is how long the watcher waits for more changes
// before re-running.
const DefaultDebounceWindow = 200 * time.Millisecond

// changeBufferSize bounds the queue between the event and debounce loops.
const changeBufferSize = 1000

// notebookWatcher re-runs analysis when cell documents change.
//
// # Description
//
// Watches the analyze roots and batches changes using a debounce window,
// so an editor saving a file several times triggers one re-run. Directory
// roots are watched recursively; file roots are watched through their
// parent directory and matched by exact path.
//
// # Thread Safety
//
// Run must be called once. The handler is called from a single goroutine.
type notebookWatcher struct {
	watcher    *fsnotify.Watcher
	discoverer *notebook.Discoverer
	handler    func(changed []string)
	debounce   time.Duration

	// files named explicitly on the command line
	files map[string]bool

	// directory roots, watched recursively
	dirs []string

	changes  chan string
	stopOnce sync.Once
}

// newNotebookWatcher registers watches for roots.
//
// Watches are in place when this returns, so changes made after it
// returns are seen by Run.
func newNotebookWatcher(roots []string, d *notebook.Discoverer, debounce time.Duration, handler func([]string)) (*notebookWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounceWindow
	}

	w := &notebookWatcher{
		watcher:    fw,
		discoverer: d,
		handler:    handler,
		debounce:   debounce,
		files:      make(map[string]bool),
		changes:    make(chan string, changeBufferSize),
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			w.stop()
			return nil, err
		}
		if info.IsDir() {
			w.dirs = append(w.dirs, filepath.Clean(root))
			err = w.addRecursive(root)
		} else {
			w.files[filepath.Clean(root)] = true
			err = fw.Add(filepath.Dir(root))
		}
		if err != nil {
			w.stop()
			return nil, fmt.Errorf("watch %s: %w", root, err)
		}
	}
	return w, nil
}

// Run processes events until ctx is canceled. Pending changes are
// dropped on cancellation.
func (w *notebookWatcher) Run(ctx context.Context) error {
	defer w.stop()
	go w.processEvents(ctx)
	w.debounceLoop(ctx)
	return nil
}

func (w *notebookWatcher) stop() {
	w.stopOnce.Do(func() {
		w.watcher.Close()
	})
}

// addRecursive adds a directory and all non-ignored subdirectories.
func (w *notebookWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Ignore errors, continue walking
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.discoverer.Ignored(path) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// relevant reports whether a change to path should trigger a re-run.
func (w *notebookWatcher) relevant(path string) bool {
	clean := filepath.Clean(path)
	if w.files[clean] {
		return true
	}
	return w.underDirRoot(clean) && w.discoverer.Matches(clean)
}

func (w *notebookWatcher) underDirRoot(path string) bool {
	for _, root := range w.dirs {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// processEvents forwards relevant fsnotify events to the debounce loop.
func (w *notebookWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// New directories under a recursive root are watched too
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !w.discoverer.Ignored(event.Name) {
					if err := w.addRecursive(event.Name); err != nil {
						slog.Debug("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}

			select {
			case w.changes <- event.Name:
			default:
				// Buffer full; a re-run is already pending
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", "error", err)
		}
	}
}

// debounceLoop batches changes and calls the handler after the debounce
// window passes without new changes.
func (w *notebookWatcher) debounceLoop(ctx context.Context) {
	var batch []string
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 {
			if w.handler != nil {
				w.handler(deduplicatePaths(batch))
			}
			batch = batch[:0]
		}
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.changes:
			batch = append(batch, path)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			flush()
		}
	}
}

// deduplicatePaths keeps the first occurrence of each path, in order.
func deduplicatePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	result := make([]string, 0, len(paths))
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}
	return result
}
