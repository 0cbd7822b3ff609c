package rules

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ayushkatiyar1508/brain-guard/pkg/logger"
	"github.com/ayushkatiyar1508/brain-guard/pkg/metrics"
)

// Watch reloads path into e whenever the file is written or recreated, until
// ctx is cancelled. A reload that fails keeps the previous rules. The parent
// directory is watched so that saves by rename are seen.
func Watch(ctx context.Context, path string, e *Engine) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	e.logger.Info(ctx, "watching rules", logger.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			rules, err := LoadFile(path)
			if err != nil {
				metrics.RecordRulesReload("error")
				e.logger.Error(ctx, "rules reload failed, keeping previous rules",
					logger.String("path", path), logger.Error(err))
				continue
			}
			e.Replace(rules)
			metrics.RecordRulesReload("ok")
			e.logger.Info(ctx, "rules reloaded", logger.String("path", path), logger.Int("rules", len(rules)))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error(ctx, "rules watcher error", logger.Error(err))
		}
	}
}
