package server

import (
	"log/slog"

	"github.com/vango-dev/pagewire/pkg/adapter"
	"github.com/vango-dev/pagewire/pkg/assets"
	"github.com/vango-dev/pagewire/pkg/events"
	"github.com/vango-dev/pagewire/pkg/render"
)

// Config configures Pages.
type Config struct {
	// Adapter is the registered adapter name ("react", "vue"). Required.
	Adapter string

	// Registry resolves Adapter. Default: adapter.Default. New seals it.
	Registry *adapter.Registry

	// Version supplies the asset version. Nil means versioning is off and
	// no visit is ever a mismatch.
	Version assets.Versioner

	// Title is the default document title of first-load shells.
	Title string

	// Lang is the html lang attribute. Default: "en".
	Lang string

	// RootID is the mount element id. Default: "app".
	RootID string

	// Assets resolves bundle names for the adapter's bootstrap markup.
	Assets assets.Resolver

	// Dev enables development mode. The asset version is then read on
	// every request instead of once at startup, so a rebuilt manifest takes
	// effect without a restart.
	Dev bool

	// AlwaysInclude lists props sent on every partial reload. Nil means
	// the keys of the shared props.
	AlwaysInclude []string

	// AllowedRedirectHosts are the external hosts Location may send a
	// client to. Local paths are always allowed.
	AllowedRedirectHosts []string

	// Extenders run on every first-load shell after the adapter's own.
	Extenders []render.Extender

	// Logger is the structured logger.
	// Default: slog.Default() with component=pages.
	Logger *slog.Logger

	// Events receives page.rendered, page.version_mismatch and
	// page.redirected. Nil disables publishing.
	Events *events.Bus

	// Observer receives metrics callbacks. Nil disables them.
	Observer Observer
}

// DefaultConfig returns a Config for the named adapter with defaults filled.
func DefaultConfig(adapterName string) Config {
	return Config{
		Adapter:  adapterName,
		Registry: adapter.Default,
		Lang:     "en",
		RootID:   render.DefaultRootID,
	}
}
