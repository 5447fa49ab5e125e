// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package template

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog whenever the on-disk template directory changes.
// It blocks until ctx is canceled or the watcher fails. Reload errors are
// logged and do not stop the watch; the previous catalog stays in effect.
//
// Events are debounced so editors that write metadata and template files in
// quick succession trigger a single reload.
func (m *Manager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create template watcher: %w", err)
	}
	defer watcher.Close()

	if err := m.addWatchDirs(watcher); err != nil {
		return err
	}

	const debounce = 250 * time.Millisecond
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New subdirectories must be watched before their files
			// produce events.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			if err := m.Reload(); err != nil {
				m.warnf("template reload failed: %v", err)
			}
			// Newly created language directories need watches too.
			if err := m.addWatchDirs(watcher); err != nil {
				m.warnf("template watcher refresh failed: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.warnf("template watcher error: %v", err)
		}
	}
}

// addWatchDirs registers the catalog root and every template directory with
// the watcher. Adding an already-watched directory is a no-op.
func (m *Manager) addWatchDirs(watcher *fsnotify.Watcher) error {
	langRoot := filepath.Join(m.cfg.Root, "languages")
	if err := os.MkdirAll(langRoot, 0o755); err != nil {
		return fmt.Errorf("failed to create template root: %w", err)
	}
	if err := watcher.Add(langRoot); err != nil {
		return fmt.Errorf("failed to watch template root: %w", err)
	}

	langs, err := os.ReadDir(langRoot)
	if err != nil {
		return fmt.Errorf("failed to read template root: %w", err)
	}
	for _, lang := range langs {
		if !lang.IsDir() {
			continue
		}
		langDir := filepath.Join(langRoot, lang.Name())
		if err := watcher.Add(langDir); err != nil {
			m.warnf("failed to watch %s: %v", langDir, err)
			continue
		}
		entries, err := os.ReadDir(langDir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				if err := watcher.Add(filepath.Join(langDir, entry.Name())); err != nil {
					m.warnf("failed to watch %s: %v", filepath.Join(langDir, entry.Name()), err)
				}
			}
		}
	}
	return nil
}
