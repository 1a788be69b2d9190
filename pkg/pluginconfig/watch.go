package pluginconfig

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/surround/errors"
	"github.com/grovetools/surround/pkg/models"
)

// DefaultWatchDebounce coalesces the burst of events an editor save produces.
const DefaultWatchDebounce = 100 * time.Millisecond

// Watch reloads the store when the file is edited by something else and calls
// onReload with the new configuration. Writes made through the store leave
// the content unchanged and do not trigger onReload. Watch blocks until ctx is
// cancelled.
func (s *Store) Watch(ctx context.Context, debounce time.Duration, onReload func(models.PluginConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create file watcher")
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create plugin config directory").
			WithDetail("path", dir)
	}
	// fsnotify loses a watched file on atomic replace, so watch its directory.
	if err := watcher.Add(dir); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to watch plugin config directory").
			WithDetail("path", dir)
	}

	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		changed, err := s.Reload()
		if err != nil {
			s.logger.WithError(err).WithField("path", s.path).Warn("Failed to reload plugin config")
			return
		}
		if !changed {
			return
		}
		s.logger.WithField("path", s.path).Info("Plugin config changed on disk")
		if onReload != nil {
			onReload(s.Get())
		}
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	target := filepath.Clean(s.path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			s.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, reload)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}
