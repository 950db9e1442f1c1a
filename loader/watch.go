package loader

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn for every attached file that is written, until ctx is
// done. Directories are watched rather than files, so editors that save by
// renaming a new file into place are still seen.
func (l *Loader) Watch(ctx context.Context, fn func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dirs := map[string]bool{}
	for _, p := range l.Attached() {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		l.log.Debugf("watching %s", dir)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			for _, p := range l.Changed() {
				l.log.Infof("changed: %s", p)
				fn(p)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.log.Errorf("watcher error: %s", err)
		}
	}
}
