package dev

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/vango-dev/pagewire/pkg/assets"
)

// DefaultPollInterval is how often the manifest is stat'ed.
const DefaultPollInterval = 500 * time.Millisecond

// WatcherConfig configures a ManifestWatcher.
type WatcherConfig struct {
	// Path is the manifest file.
	Path string

	// Manifest receives new entries. Nil creates an empty one.
	Manifest *assets.Manifest

	// Interval between polls. Zero uses DefaultPollInterval.
	Interval time.Duration

	Logger *slog.Logger
}

// ManifestWatcher polls a manifest file and keeps a live Manifest in sync
// with it. It implements assets.Versioner.
type ManifestWatcher struct {
	path     string
	manifest *assets.Manifest
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	modTime  time.Time
	size     int64
	onChange []func(version string)
}

// NewManifestWatcher creates a watcher. It does not read the file until
// Check or Run.
func NewManifestWatcher(config WatcherConfig) *ManifestWatcher {
	if config.Manifest == nil {
		config.Manifest = assets.NewManifest()
	}
	if config.Interval <= 0 {
		config.Interval = DefaultPollInterval
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &ManifestWatcher{
		path:     config.Path,
		manifest: config.Manifest,
		interval: config.Interval,
		logger:   config.Logger.With("component", "dev.watcher", "path", config.Path),
	}
}

// Manifest returns the live manifest.
func (w *ManifestWatcher) Manifest() *assets.Manifest { return w.manifest }

// Version returns the version of the live manifest.
func (w *ManifestWatcher) Version() string { return w.manifest.Version() }

// OnChange registers fn to run with the new version after each change.
func (w *ManifestWatcher) OnChange(fn func(version string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Check polls once. It reports whether the version changed. A file that
// is missing or mid-write leaves the live manifest untouched.
func (w *ManifestWatcher) Check() (bool, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	unchanged := info.ModTime().Equal(w.modTime) && info.Size() == w.size
	w.mu.Unlock()
	if unchanged {
		return false, nil
	}

	next, err := assets.Load(w.path)
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	w.modTime, w.size = info.ModTime(), info.Size()
	prev := w.manifest.Version()
	changed := next.Version() != prev
	if changed {
		w.manifest.Replace(next)
	}
	handlers := append([]func(string){}, w.onChange...)
	w.mu.Unlock()

	if !changed {
		return false, nil
	}
	version := next.Version()
	w.logger.Info("asset manifest changed", "from", prev, "to", version)
	for _, fn := range handlers {
		fn(version)
	}
	return true, nil
}

// Run polls until ctx is done.
func (w *ManifestWatcher) Run(ctx context.Context) error {
	if _, err := w.Check(); err != nil {
		w.logger.Warn("manifest not readable", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Check(); err != nil {
				w.logger.Debug("manifest poll failed", "error", err)
			}
		}
	}
}
