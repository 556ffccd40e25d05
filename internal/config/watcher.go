package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"resumatch/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the loaded config file and reports freshly re-loaded,
// validated configurations. Invalid edits are logged and skipped so a typo
// in the weights never takes a running server down.
type Watcher struct {
	mu sync.Mutex

	configFile    string
	debounceDelay time.Duration
	debounceTimer *time.Timer

	fsWatcher *fsnotify.Watcher
	stopChan  chan struct{}

	onReload func(*Config)
	logger   *errors.Logger

	running bool
}

// NewWatcher creates a config file watcher. onReload is invoked with each
// successfully re-loaded configuration.
func NewWatcher(configFile string, onReload func(*Config), logger *errors.Logger) (*Watcher, error) {
	if configFile == "" {
		return nil, fmt.Errorf("no config file in use, nothing to watch")
	}

	return &Watcher{
		configFile:    configFile,
		debounceDelay: time.Second,
		stopChan:      make(chan struct{}),
		onReload:      onReload,
		logger:        logger,
	}, nil
}

// Start begins watching the config file for changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("config watcher is already running")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory rather than the file itself: editors and config
	// management tools typically replace the file, which drops a watch on
	// the file path.
	if err := fsWatcher.Add(filepath.Dir(w.configFile)); err != nil {
		_ = fsWatcher.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	w.fsWatcher = fsWatcher
	w.running = true
	go w.watchLoop()

	if w.logger != nil {
		w.logger.Info("Config watcher started", "file", w.configFile)
	}
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	close(w.stopChan)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	if w.fsWatcher != nil {
		if err := w.fsWatcher.Close(); err != nil && w.logger != nil {
			w.logger.LogError(err, "Failed to close config file watcher")
		}
	}
	w.running = false
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.configFile) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.LogError(err, "Config watcher error")
			}

		case <-w.stopChan:
			return
		}
	}
}

// scheduleReload debounces bursts of write events into a single reload.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := LoadConfig()
	if err != nil {
		if w.logger != nil {
			w.logger.LogError(err, "Config reload failed, keeping previous configuration",
				"file", w.configFile)
		}
		return
	}

	if w.logger != nil {
		w.logger.Info("Config reloaded",
			"file", w.configFile,
			"weights_lexical", cfg.Engine.Weights.Lexical,
			"weights_similarity", cfg.Engine.Weights.Similarity,
			"weights_compatibility", cfg.Engine.Weights.Compatibility)
	}
	w.onReload(cfg)
}
