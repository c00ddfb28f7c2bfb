package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// blocklistFile is the on-disk format for a reloadable blocklist.
type blocklistFile struct {
	BlockedTerms []string `yaml:"blocked_terms"`
}

// LoadBlocklistFile reads a YAML blocklist file and returns its terms.
//
// Expected format:
//
//	blocked_terms:
//	  - spam
//	  - scam
func LoadBlocklistFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blocklist file %q: %w", path, err)
	}

	var file blocklistFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse blocklist file %q: %w", path, err)
	}

	if len(file.BlockedTerms) == 0 {
		return nil, fmt.Errorf("blocklist file %q contains no terms", path)
	}

	return file.BlockedTerms, nil
}

// BlocklistWatcher watches a blocklist file for changes and reloads the
// filter's terms. Writes are debounced so editors that write in several
// events trigger a single reload.
type BlocklistWatcher struct {
	filter   *Filter
	path     string
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	running bool
}

// NewBlocklistWatcher creates a watcher that reloads filter from the YAML
// file at path whenever it changes.
func NewBlocklistWatcher(filter *Filter, path string, logger *slog.Logger) (*BlocklistWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &BlocklistWatcher{
		filter:   filter,
		path:     path,
		debounce: 100 * time.Millisecond,
		logger:   logger.With("component", "moderation.watcher"),
		watcher:  watcher,
	}, nil
}

// Start loads the blocklist once, then watches for changes until the context
// is cancelled. It returns an error if the initial load fails; reload
// failures afterwards are logged and the previous blocklist stays active.
func (w *BlocklistWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("blocklist watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	terms, err := LoadBlocklistFile(w.path)
	if err != nil {
		return err
	}
	w.filter.SetBlocklist(terms)

	// Watch the directory; editors replace files rather than write in place,
	// which drops the watch on the file itself.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", w.path, err)
	}

	w.logger.Info("blocklist watcher started",
		"path", w.path,
		"terms", len(terms),
	)

	go w.run(ctx)

	return nil
}

// run processes fsnotify events until the context is cancelled.
func (w *BlocklistWatcher) run(ctx context.Context) {
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			// Debounce: restart the timer on every event.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerCh:
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("blocklist watcher error", "error", err)
		}
	}
}

// reload re-reads the blocklist file and swaps the filter's terms.
func (w *BlocklistWatcher) reload() {
	terms, err := LoadBlocklistFile(w.path)
	if err != nil {
		w.logger.Error("blocklist reload failed, keeping previous terms",
			"path", w.path,
			"error", err,
		)
		return
	}

	w.filter.SetBlocklist(terms)
	w.logger.Info("blocklist reloaded",
		"path", w.path,
		"terms", len(terms),
	)
}

// Stop closes the underlying watcher.
func (w *BlocklistWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		w.watcher.Close()
		w.running = false
	}
}
