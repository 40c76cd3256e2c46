package dev

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/pagewire/pkg/assets"
)

// Config configures the dev loop.
type Config struct {
	ManifestPath string
	Manifest     *assets.Manifest
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Loop ties a ManifestWatcher to a Reloader.
type Loop struct {
	Watcher  *ManifestWatcher
	Reloader *Reloader
}

// New creates a Loop whose watcher notifies its reloader.
func New(config Config) *Loop {
	l := &Loop{
		Watcher: NewManifestWatcher(WatcherConfig{
			Path:     config.ManifestPath,
			Manifest: config.Manifest,
			Interval: config.PollInterval,
			Logger:   config.Logger,
		}),
		Reloader: NewReloader(config.Logger),
	}
	l.Watcher.OnChange(l.Reloader.Notify)
	return l
}

// Run watches until ctx is done, then disconnects browsers.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Reloader.Close()
	return l.Watcher.Run(ctx)
}
