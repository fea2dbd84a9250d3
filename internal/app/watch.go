package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/spirvbuild/internal/config"
	"github.com/specialistvlad/spirvbuild/internal/ctxlog"
)

// watchDebounce collects a burst of events on the same save into one rebuild.
const watchDebounce = 150 * time.Millisecond

// watch rebuilds modules whenever one of their inputs or a manifest changes.
// Build errors are logged and recorded, never returned. It returns when ctx
// is done.
func (a *App) watch(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	targets := a.watchTargets()
	watchedDirs := make(map[string]struct{})
	addDirs := func() {
		for path := range targets {
			dir := filepath.Dir(path)
			if _, ok := watchedDirs[dir]; ok {
				continue
			}
			// Directories are watched rather than files so that editors
			// replacing a file through a rename are still noticed.
			if err := watcher.Add(dir); err != nil {
				logger.Warn("Cannot watch directory.", "dir", dir, "error", err)
				continue
			}
			watchedDirs[dir] = struct{}{}
		}
	}
	addDirs()
	logger.Info("👀 Watching for changes.", "files", len(targets), "dirs", len(watchedDirs))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Watch stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			path := absPath(event.Name)
			if _, ok := targets[path]; !ok {
				continue
			}
			logger.Debug("Watched file changed.", "path", path, "op", event.Op.String())
			pending[path] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", "error", err)

		case <-fire:
			fire = nil
			changed := pending
			pending = make(map[string]struct{})
			a.rebuild(ctx, changed)
			targets = a.watchTargets()
			addDirs()
		}
	}
}

// rebuild relinks what changed affects. A changed manifest reloads the model
// and rebuilds every selected module.
func (a *App) rebuild(ctx context.Context, changed map[string]struct{}) {
	logger := ctxlog.FromContext(ctx)

	modules, reload := a.affectedModules(changed)
	if reload {
		logger.Info("Manifest changed, reloading.")
		if err := a.reload(ctx); err != nil {
			a.status.record(err)
			logger.Error("Reload failed, keeping previous manifests.", "error", err)
			return
		}
		if err := a.buildSelected(ctx); err != nil {
			logger.Error("Build failed, waiting for changes.", "error", err)
		}
		return
	}
	if len(modules) == 0 {
		return
	}

	err := a.buildModules(ctx, modules)
	a.status.record(err)
	if err != nil {
		logger.Error("Build failed, waiting for changes.", "error", err)
	}
}

// affectedModules returns the selected modules with an input in changed, and
// whether a manifest file is among the changes.
func (a *App) affectedModules(changed map[string]struct{}) ([]*config.Module, bool) {
	for _, file := range a.Model().Files {
		if _, ok := changed[absPath(file)]; ok {
			return nil, true
		}
	}

	selected, err := a.selectModules()
	if err != nil {
		return nil, true
	}
	var affected []*config.Module
	for _, mod := range selected {
		for _, input := range mod.Inputs() {
			if _, ok := changed[absPath(input)]; ok {
				affected = append(affected, mod)
				break
			}
		}
	}
	return affected, false
}

// watchTargets returns the absolute paths of every manifest file and every
// input of a selected module.
func (a *App) watchTargets() map[string]struct{} {
	targets := make(map[string]struct{})
	for _, file := range a.Model().Files {
		targets[absPath(file)] = struct{}{}
	}
	selected, err := a.selectModules()
	if err != nil {
		return targets
	}
	for _, mod := range selected {
		for _, input := range mod.Inputs() {
			targets[absPath(input)] = struct{}{}
		}
	}
	return targets
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
