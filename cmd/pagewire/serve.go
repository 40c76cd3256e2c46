package main

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/pagewire/internal/config"
	"github.com/vango-dev/pagewire/internal/demo"
	"github.com/vango-dev/pagewire/internal/dev"
	"github.com/vango-dev/pagewire/internal/errors"
	"github.com/vango-dev/pagewire/pkg/adapter"
	"github.com/vango-dev/pagewire/pkg/assets"
	"github.com/vango-dev/pagewire/pkg/events"
	"github.com/vango-dev/pagewire/pkg/middleware"
	"github.com/vango-dev/pagewire/pkg/render"
	"github.com/vango-dev/pagewire/pkg/server"
)

const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	addr    string
	adapter string
	dev     bool
}

func serveCmd(g *globalFlags) *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo application",
		Long: `Serve the demo application with the adapter named in the project file.

The asset version comes from, in order: the "version" setting, the S3
manifest (assets.s3), the local manifest (assets.manifest). Without any of
them versioning is off.

Examples:
  pagewire serve
  pagewire serve --adapter=vue --addr=:8080
  pagewire serve --dev -C ./example`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, g, f)
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", "", "Listen address (default from the project file)")
	cmd.Flags().StringVar(&f.adapter, "adapter", "", "Adapter name (default from the project file)")
	cmd.Flags().BoolVar(&f.dev, "dev", false, "Enable dev mode and browser reload")
	return cmd
}

func runServe(cmd *cobra.Command, g *globalFlags, f *serveFlags) error {
	logger, err := newLogger(cmd.ErrOrStderr(), g.logFormat, g.logLevel)
	if err != nil {
		return err
	}

	cfg, err := loadProject(g.dir, logger)
	if err != nil {
		return err
	}
	if f.addr != "" {
		cfg.Addr = f.addr
	}
	if f.adapter != "" {
		cfg.Adapter = f.adapter
	}
	if f.dev {
		cfg.Dev.Enabled = true
		cfg.Dev.Reload = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if app.loop != nil {
		go app.loop.Run(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "adapter", cfg.Adapter, "version", app.pages.Version(), "dev", cfg.Dev.Enabled)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return errors.New("E130").Wrap(err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.New("E130").Wrap(err)
	}
	return nil
}

// loadProject loads the project file from dir. A directory without one
// runs on defaults.
func loadProject(dir string, logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}
	var pe *errors.PagewireError
	if stderrors.As(err, &pe) && pe.Code == "E100" {
		logger.Warn("no project file, using defaults", "dir", dir)
		return config.New(), nil
	}
	return nil, err
}

type application struct {
	handler  http.Handler
	pages    *server.Pages
	loop     *dev.Loop
	registry *prometheus.Registry
}

// newApplication wires assets, metrics, tracing and the demo routes.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	manifest, err := loadAssets(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &application{registry: prometheus.NewRegistry()}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(
		middleware.WithNamespace(cfg.Metrics.Namespace),
		middleware.WithRegistry(app.registry),
	)

	var versioner assets.Versioner
	var resolver assets.Resolver = assets.NewPassthroughResolver(cfg.Assets.Prefix)
	if manifest != nil {
		versioner = manifest
		resolver = assets.NewResolver(manifest, cfg.Assets.Prefix)
	}

	var extenders []render.Extender
	if cfg.Dev.Enabled && manifest != nil && !cfg.Assets.S3.Enabled() {
		app.loop = dev.New(dev.Config{
			ManifestPath: cfg.ManifestPath(),
			Manifest:     manifest,
			PollInterval: cfg.Dev.Interval(),
			Logger:       logger,
		})
		versioner = app.loop.Watcher
		if cfg.Dev.Reload {
			extenders = append(extenders, app.loop.Reloader.Extender())
		}
	}
	if cfg.Version != "" {
		versioner = assets.StaticVersion(cfg.Version)
	}

	bus := events.NewBus(logger)
	events.Subscribe(bus, events.NameRedirected, func(_ context.Context, e events.Event[events.Redirected]) {
		logger.Debug("redirect", "from", e.Payload.From, "to", e.Payload.To, "status", e.Payload.Status, "hard", e.Payload.Hard)
	})

	app.pages, err = server.New(server.Config{
		Adapter:              cfg.Adapter,
		Version:              versioner,
		Title:                cfg.PageTitle(),
		Assets:               resolver,
		Dev:                  cfg.Dev.Enabled,
		AlwaysInclude:        cfg.AlwaysInclude,
		AllowedRedirectHosts: demo.AllowedHosts,
		Extenders:            extenders,
		Logger:               logger,
		Events:               bus,
		Observer:             metrics,
	})
	if err != nil {
		if stderrors.Is(err, adapter.ErrAdapterNotFound) {
			return nil, errors.New("E120").Wrap(err).
				WithSuggestion("Set adapter to one of: " + strings.Join(adapter.Names(), ", "))
		}
		return nil, errors.New("E121").Wrap(err)
	}

	r := chi.NewRouter()
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	}
	if app.loop != nil && cfg.Dev.Reload {
		r.Handle(dev.ReloadPath, app.loop.Reloader)
	}
	if manifest != nil && !cfg.Assets.S3.Enabled() {
		prefix := strings.TrimSuffix(cfg.Assets.Prefix, "/")
		files := http.FileServer(http.Dir(filepath.Dir(cfg.ManifestPath())))
		r.Handle(prefix+"/*", http.StripPrefix(prefix, files))
	}
	r.Mount("/", demo.New(app.pages, logger).Routes(
		middleware.OpenTelemetry(),
		metrics.Handler,
	))

	app.handler = r
	return app, nil
}

// loadAssets returns the configured manifest, or nil when none is set.
func loadAssets(ctx context.Context, cfg *config.Config) (*assets.Manifest, error) {
	switch {
	case cfg.Assets.S3.Enabled():
		s3 := cfg.Assets.S3
		client := assets.NewAnonymousS3Client(s3.Region)
		m, err := assets.LoadS3(ctx, client, s3.Bucket, s3.Key)
		if err != nil {
			return nil, errors.New("E112").Wrap(err).
				WithDetail("Could not read s3://" + s3.Bucket + "/" + s3.Key)
		}
		return m, nil
	case cfg.Assets.Manifest != "":
		return loadManifest(cfg.ManifestPath())
	default:
		return nil, nil
	}
}

func isNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}
