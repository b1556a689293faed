/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	applog "goflipbook/internal/log"
)

// DefaultSettle is how long Watch waits for a burst of file events to end.
const DefaultSettle = 250 * time.Millisecond

// Watch observes <root>/pages and calls onChange once a burst of page file
// creations, removals or renames has settled. It blocks until ctx is done.
// onChange runs on the watcher goroutine.
func Watch(ctx context.Context, root string, settle time.Duration, onChange func()) error {
	l := applog.WithOperation(applog.WithComponent("discovery"), "watch")
	if settle <= 0 {
		settle = DefaultSettle
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Join(root, PagesDir)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	l.Debug("watching pages", slog.String("dir", dir))

	// Go 1.23 timers: Reset drops any stale tick, no draining needed
	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !IsPageFile(ev.Name) || ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(settle)
		case <-timer.C:
			l.Info("page files changed")
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.Warn("watch error", slog.Any("err", err))
		}
	}
}
