package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads path whenever it is written and delivers each successfully decoded Config.
// The directory is watched rather than the file so editors that save by rename are picked up.
// Files that fail to decode are logged and skipped. The channel holds at most the latest config
// and is closed when ctx is done.
//
// Parameters:
//   - ctx: stops the watcher when cancelled
//   - path: the config file
//   - log: receives reload failures; nil uses logger.Default()
//
// Returns:
//   - <-chan Config: reloaded configurations
//   - error: error if the watcher cannot be created
func Watch(ctx context.Context, path string, log logger.Logger) (<-chan Config, error) {
	if log == nil {
		log = logger.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	out := make(chan Config, 1)
	go func() {
		defer close(out)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
					continue
				}
				cfg, err := Load(abs)
				if err != nil {
					log.Warnf("config: reload %s: %v", path, err)
					continue
				}
				log.Infof("config: reloaded %s", path)
				// replace a config nobody has read yet
				select {
				case <-out:
				default:
				}
				out <- cfg
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warnf("config: watcher: %v", err)
			}
		}
	}()
	return out, nil
}
