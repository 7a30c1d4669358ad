package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/logger"
)

// DefaultDebounce collapses the bursts of events editors produce on save.
const DefaultDebounce = 500 * time.Millisecond

// ReloadCallback is called with the reloaded config
type ReloadCallback func(*Config) error

// ConfigWatcher watches the config file, and any extra inputs added with
// Watch, and reloads the config when they change
type ConfigWatcher struct {
	configPath     string
	watched        []string
	watcher        *fsnotify.Watcher
	callbacks      []ReloadCallback
	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	logger         *zap.SugaredLogger
}

// NewConfigWatcher creates a watcher for configPath
func NewConfigWatcher(configPath string) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	// Watch the directory: editors replace files on save, which drops a
	// watch held on the file itself.
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "failed to watch config file %s", configPath)
	}

	return &ConfigWatcher{
		configPath:     configPath,
		watcher:        watcher,
		debouncePeriod: DefaultDebounce,
		logger:         logger.ComponentLogger("config"),
	}, nil
}

// Watch adds a file or directory whose changes also trigger a reload.
func (cw *ConfigWatcher) Watch(path string) error {
	if err := cw.watcher.Add(path); err != nil {
		return errors.Wrapf(err, "failed to watch %s", path)
	}
	cw.mu.Lock()
	cw.watched = append(cw.watched, filepath.Clean(path))
	cw.mu.Unlock()
	return nil
}

// OnReload registers a callback to be called when config is reloaded
func (cw *ConfigWatcher) OnReload(callback ReloadCallback) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.callbacks = append(cw.callbacks, callback)
}

// Start begins watching for changes
func (cw *ConfigWatcher) Start() {
	go cw.watchLoop()
}

func (cw *ConfigWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if !cw.relevant(event.Name) {
				continue
			}

			cw.logger.Debugw("Watcher detected change",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			cw.scheduleReload()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warnw("Config watcher error", logger.FieldError, err)
		}
	}
}

// scheduleReload debounces rapid file changes and triggers reload
func (cw *ConfigWatcher) scheduleReload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.debounceTimer = time.AfterFunc(cw.debouncePeriod, func() {
		if err := cw.reload(); err != nil {
			cw.logger.Errorw("Config reload failed", logger.FieldError, err)
		}
	})
}

func (cw *ConfigWatcher) reload() error {
	cfg, _, err := Load(cw.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cw.logger.Infow("Config reloaded", logger.FieldFile, cw.configPath)

	cw.mu.Lock()
	callbacks := make([]ReloadCallback, len(cw.callbacks))
	copy(callbacks, cw.callbacks)
	cw.mu.Unlock()

	for _, callback := range callbacks {
		if err := callback(cfg); err != nil {
			// keep calling the remaining callbacks
			cw.logger.Warnw("Config reload callback error", logger.FieldError, err)
		}
	}
	return nil
}

// Stop stops watching for changes
func (cw *ConfigWatcher) Stop() error {
	cw.mu.Lock()
	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.mu.Unlock()
	return cw.watcher.Close()
}

// relevant reports whether an event on name should trigger a reload: the
// config file itself, or anything inside a path added with Watch.
func (cw *ConfigWatcher) relevant(name string) bool {
	name = filepath.Clean(name)
	if name == filepath.Clean(cw.configPath) {
		return true
	}

	cw.mu.Lock()
	defer cw.mu.Unlock()
	for _, w := range cw.watched {
		if name == w || filepath.Dir(name) == w {
			return true
		}
	}
	return false
}
