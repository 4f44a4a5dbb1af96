package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/taigrr/archipelago/pkg/logging"
)

// Watch reloads path whenever it is written, created or renamed into
// place and hands the result to onChange. It blocks until ctx is done.
//
// The parent directory is watched rather than the file so that editors
// which save by rename keep triggering reloads. A file that fails to
// load is reported with its error; onChange decides whether to keep the
// previous settings.
func Watch(ctx context.Context, path string, onChange func(Config, error)) error {
	if path == "" {
		path = DefaultPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	logging.Debug("watching config", "path", abs)

	for {
		select {
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != abs {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			cfg, err := Load(abs)
			logging.Debug("config changed", "op", e.Op.String(), "err", err)
			onChange(cfg, err)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Warn("config watcher", "err", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
