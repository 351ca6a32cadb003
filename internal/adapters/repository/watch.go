package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/okian/visitas/pkg/logger"
)

// Watcher calls a hook whenever the watched file is written, created,
// renamed or removed. The parent directory is watched so editors that
// replace the file atomically are still seen.
type Watcher struct {
	fw     *fsnotify.Watcher
	target string
	hook   func()
	log    logger.Logger

	stopOnce sync.Once
	done     chan struct{}
}

// WatchFile starts watching path until ctx is done or Close is called.
func WatchFile(ctx context.Context, path string, hook func(), log logger.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if log == nil {
		log = logger.Named("watch")
	}
	w := &Watcher{
		fw:     fw,
		target: filepath.Clean(abs),
		hook:   hook,
		log:    log,
		done:   make(chan struct{}),
	}
	go w.run(ctx)
	return w, nil
}

// Close stops the watcher and waits for its loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.fw.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove
	for {
		select {
		case <-ctx.Done():
			_ = w.fw.Close()
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.target || ev.Op&relevant == 0 {
				continue
			}
			w.log.Info(ctx, "source changed", logger.String("path", w.target), logger.String("op", ev.Op.String()))
			w.hook()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn(ctx, "watch error", logger.Error(err))
		}
	}
}
