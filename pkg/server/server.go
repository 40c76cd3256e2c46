package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/vango-dev/pagewire/pkg/adapter"
	"github.com/vango-dev/pagewire/pkg/events"
	"github.com/vango-dev/pagewire/pkg/page"
	"github.com/vango-dev/pagewire/pkg/protocol"
	"github.com/vango-dev/pagewire/pkg/render"
)

// Pages is the server half of the protocol. Handler installs negotiation
// and the asset version guard in front of application routes; controllers
// answer with Render, Redirect and Location.
type Pages struct {
	config     Config
	descriptor adapter.Descriptor
	stack      *adapter.Stack
	renderer   *render.Renderer
	logger     *slog.Logger
	observer   Observer
	allowlist  map[string]struct{}

	// version is fixed at New unless config.Dev is set.
	version string

	mu     sync.RWMutex
	shared page.Props
}

// New builds Pages from config. It resolves and installs the adapter and
// seals the registry, so an unknown or duplicated adapter fails here and
// never while serving.
func New(config Config) (*Pages, error) {
	if config.Adapter == "" {
		return nil, ErrNoAdapter
	}
	if config.Registry == nil {
		config.Registry = adapter.Default
	}
	if config.Logger == nil {
		config.Logger = slog.Default().With("component", "pages")
	}
	if config.Observer == nil {
		config.Observer = nopObserver{}
	}

	d, err := config.Registry.Resolve(config.Adapter)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	config.Registry.Seal()

	stack := adapter.NewStack()
	if err := stack.Install(d); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	p := &Pages{
		config:     config,
		descriptor: d,
		stack:      stack,
		renderer: render.New(render.Config{
			Title:  config.Title,
			Lang:   config.Lang,
			RootID: config.RootID,
			Assets: config.Assets,
			Dev:    config.Dev,
			Extra:  config.Extenders,
		}),
		logger:    config.Logger,
		observer:  config.Observer,
		allowlist: normalizeRedirectAllowlist(config.AllowedRedirectHosts),
		shared:    page.Props{},
	}
	if config.Version != nil {
		p.version = config.Version.Version()
	}

	p.logger.Info("pages ready", "adapter", d.Name, "version", p.version, "dev", config.Dev)
	return p, nil
}

// Adapter returns the installed adapter name.
func (p *Pages) Adapter() string { return p.descriptor.Name }

// Version returns the current asset version.
func (p *Pages) Version() string {
	if p.config.Dev && p.config.Version != nil {
		return p.config.Version.Version()
	}
	return p.version
}

// Share registers a prop sent with every page. Values may be page.Func or
// page.Lazy to be evaluated per request.
func (p *Pages) Share(key string, value any) {
	p.mu.Lock()
	p.shared[key] = value
	p.mu.Unlock()
}

// Shared returns a copy of the shared props.
func (p *Pages) Shared() page.Props {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.shared.Clone()
}

// pagesHandler is the pipeline built by Install. It remembers which
// adapters sit in front of next so a second install is caught.
type pagesHandler struct {
	http.Handler
	pages *Pages
	stack *adapter.Stack
}

// Install wraps next with adapter negotiation and the version guard. It
// fails with adapter.ErrAlreadyInstalled when next is already a pages
// pipeline for the same adapter, so the mistake surfaces while routes are
// wired and not on the first request.
func (p *Pages) Install(next http.Handler) (http.Handler, error) {
	stack := adapter.NewStack()
	if inner, ok := next.(*pagesHandler); ok {
		for _, d := range inner.stack.Descriptors() {
			if err := stack.Install(d); err != nil {
				return nil, fmt.Errorf("server: %w", err)
			}
		}
	}
	if err := stack.Install(p.descriptor); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	return &pagesHandler{
		Handler: p.stack.Handler(p.guard(next)),
		pages:   p,
		stack:   stack,
	}, nil
}

// Handler is Install for static wiring. It panics when the pipeline
// already has the pages middleware, like a router rejecting a duplicate
// route.
func (p *Pages) Handler(next http.Handler) http.Handler {
	h, err := p.Install(next)
	if err != nil {
		panic(err)
	}
	return h
}

// Middleware is Handler in the func(http.Handler) http.Handler shape
// routers expect.
func (p *Pages) Middleware() func(http.Handler) http.Handler {
	return p.Handler
}

// guard answers stale protocol visits with a hard navigation before the
// controller runs and binds p to the request for FromRequest.
func (p *Pages) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(context.WithValue(r.Context(), pagesKey{}, p))

		c, _ := protocol.FromContext(r.Context())
		current := p.Version()
		if c.IsVisit() && protocol.CheckVersion(c.AssertedVersion, current) == protocol.Mismatch {
			target := r.URL.RequestURI()
			p.logger.Info("asset version mismatch",
				"url", target,
				"asserted", c.AssertedVersion,
				"version", current)
			p.observer.ObserveVersionMismatch()
			events.Publish(r.Context(), p.config.Events, events.NameVersionMismatch, events.VersionMismatch{
				URL:      target,
				Asserted: c.AssertedVersion,
				Current:  current,
			})
			render.WriteHardNavigate(w, target)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Render answers r with component and props: a JSON page object for a
// protocol visit, the HTML shell otherwise. Shared props, request props
// from WithProps and props are merged in that order, later wins.
func (p *Pages) Render(w http.ResponseWriter, r *http.Request, component string, props page.Props, opts ...RenderOption) error {
	start := time.Now()
	target := r.URL.RequestURI()

	if component == "" {
		return &RenderError{URL: target, Op: "render", Err: page.ErrNoComponent}
	}
	c, ok := protocol.FromContext(r.Context())
	if !ok {
		return &RenderError{Component: component, URL: target, Op: "render", Err: ErrNoProtocol}
	}

	var ro renderOptions
	for _, opt := range opts {
		opt(&ro)
	}

	merged := p.Shared()
	for k, v := range requestProps(r.Context()) {
		merged[k] = v
	}
	for k, v := range props {
		merged[k] = v
	}

	partial := c.PartialFor(component)
	filtered := merged.Filter(partial.Selection(), p.alwaysInclude(ro.always))
	resolved, err := page.Resolve(r.Context(), filtered, partial != nil)
	if err != nil {
		return &RenderError{Component: component, URL: target, Op: "resolve props", Err: err}
	}

	mode, kind := page.Full, KindFull
	switch {
	case partial != nil:
		mode, kind = page.Partial, KindPartial
	case !c.IsVisit():
		kind = KindBare
	}
	pg := page.NewWithMode(component, resolved, target, p.Version(), mode)

	if c.IsVisit() {
		err = render.WriteJSON(w, pg)
	} else {
		err = p.renderer.WriteShell(w, pg, p.extenders(r, ro)...)
	}
	if err != nil {
		return &RenderError{Component: component, URL: target, Op: "write", Err: err}
	}

	elapsed := time.Since(start)
	p.observer.ObserveVisit(kind, elapsed)
	events.Publish(r.Context(), p.config.Events, events.NameRendered, events.Rendered{
		Component: component,
		URL:       target,
		Version:   pg.Version(),
		Kind:      kind,
		Keys:      resolved.Keys(),
		Duration:  elapsed,
	})
	p.logger.Debug("page rendered", "component", component, "url", target, "kind", kind)
	return nil
}

// Redirect sends the client to url after a form submission or any other
// request. Non-GET requests get 303 so the follow-up is always a GET.
func (p *Pages) Redirect(w http.ResponseWriter, r *http.Request, url string) {
	status := render.RedirectStatus(r.Method)
	render.WriteRedirect(w, r, url)
	p.redirected(r, url, status, false)
}

// Location sends the client to url outside the protocol, as a full
// browser navigation. External hosts must be listed in
// Config.AllowedRedirectHosts.
func (p *Pages) Location(w http.ResponseWriter, r *http.Request, url string) error {
	target, ok := p.validateLocation(url)
	if !ok {
		return &RenderError{URL: r.URL.RequestURI(), Op: "location", Err: fmt.Errorf("%w: %q", ErrInvalidLocation, url)}
	}

	c, _ := protocol.FromContext(r.Context())
	if c.IsVisit() {
		render.WriteHardNavigate(w, target)
		p.redirected(r, target, render.HardNavigateStatus, true)
		return nil
	}
	p.Redirect(w, r, target)
	return nil
}

func (p *Pages) redirected(r *http.Request, to string, status int, hard bool) {
	p.observer.ObserveRedirect(status)
	events.Publish(r.Context(), p.config.Events, events.NameRedirected, events.Redirected{
		From:   r.URL.RequestURI(),
		To:     to,
		Status: status,
		Hard:   hard,
	})
}

func (p *Pages) alwaysInclude(extra []string) []string {
	base := p.config.AlwaysInclude
	if base == nil {
		base = p.Shared().Keys()
	}
	if len(extra) == 0 {
		return base
	}

	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, k := range list {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (p *Pages) extenders(r *http.Request, ro renderOptions) []render.Extender {
	ext := make([]render.Extender, 0, 2+len(ro.extend))
	if d, ok := adapter.FromContext(r.Context()); ok {
		ext = append(ext, d.ExtendResponse)
	} else {
		ext = append(ext, p.descriptor.ExtendResponse)
	}
	if ro.title != "" {
		title := ro.title
		ext = append(ext, func(s *render.Shell) { s.Title = title })
	}
	return append(ext, ro.extend...)
}
