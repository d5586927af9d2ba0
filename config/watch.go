package config

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports every successfully parsed new version of a config
// file. Invalid versions are logged and skipped.
type Watcher struct {
	watcher *fsnotify.Watcher
	file    string
	done    chan struct{}
}

// Watch starts watching cfile. The directory is watched rather than the
// file itself so editors that replace the file are handled. onChange
// runs on the watcher goroutine.
func Watch(cfile string, onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	abs, err := filepath.Abs(cfile)
	if err != nil {
		fw.Close()
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", abs, err)
	}

	w := &Watcher{watcher: fw, file: abs, done: make(chan struct{})}
	go w.run(onChange)
	return w, nil
}

func (w *Watcher) run(onChange func(*Config)) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.file || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			conf, err := ReadConfig(w.file)
			if err != nil {
				slog.Warn("Ignoring changed config file", "file", w.file, "error", err)
				continue
			}
			slog.Info("Config file changed", "file", w.file)
			onChange(conf)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)
		}
	}
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
