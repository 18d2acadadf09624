package content

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a Store whenever its backing file changes on disk.
type Watcher struct {
	store   *Store
	log     zerolog.Logger
	watcher *fsnotify.Watcher
	Reloads chan error
	closeCh chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// Watch starts watching the directory of the store's file. Editors often
// replace files instead of writing them, so the directory is watched and
// events are filtered by name.
func Watch(store *Store, log zerolog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(store.Path())); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		store:   store,
		log:     log,
		watcher: w,
		Reloads: make(chan error, 16),
		closeCh: make(chan struct{}),
	}
	watcher.wg.Add(1)
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		w.wg.Wait()
		close(w.Reloads)
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	target := filepath.Clean(w.store.Path())

	// Writes arrive as bursts (truncate, then write); reload once the burst
	// settles so a half-written file is never parsed.
	var timer *time.Timer
	var settle <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			settle = timer.C
		case <-settle:
			settle = nil
			err := w.store.Reload()
			if err != nil {
				w.log.Warn().Err(err).Str("path", target).Msg("content reload rejected")
			} else {
				w.log.Info().Str("path", target).Msg("content reloaded")
			}
			select {
			case w.Reloads <- err:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("content watcher")
		case <-w.closeCh:
			return
		}
	}
}
