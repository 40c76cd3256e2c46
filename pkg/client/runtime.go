package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/pagewire/pkg/page"
	"github.com/vango-dev/pagewire/pkg/protocol"
)

const maxResponseBytes = 10 << 20

// Runtime is the client navigation state machine. One Runtime drives one
// mounted app. Visits run on the caller's goroutine; a newer visit cancels
// the one in flight and only the newest result is committed.
//
// Adapters are called with the runtime lock held and must not call back
// into the Runtime.
type Runtime struct {
	adapter      Adapter
	http         *http.Client
	base         *url.URL
	logger       *slog.Logger
	hardNav      HardNavigator
	maxRedirects int
	now          func() time.Time

	mu         sync.Mutex
	state      State
	current    page.Page
	currentURL string
	scroll     Scroll
	history    []Entry
	version    string
	token      uint64
	cancel     context.CancelFunc
	inflight   *Visit

	obsMu    sync.RWMutex
	onStart  []func(*Visit)
	onNav    []func(page.Page)
	onError  []func(*Visit, error)
	onFinish []func(*Visit)
}

// New creates a runtime rendering through adapter.
func New(adapter Adapter, opts ...Option) *Runtime {
	r := &Runtime{
		adapter:      adapter,
		http:         &http.Client{Timeout: 30 * time.Second},
		logger:       slog.Default().With("component", "client"),
		maxRedirects: DefaultMaxRedirects,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.http.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	if r.hardNav == nil {
		r.hardNav = func(ctx context.Context, target string) error {
			_, err := r.Boot(ctx, target)
			return err
		}
	}
	return r
}

// OnStart registers fn to run when a visit starts.
func (r *Runtime) OnStart(fn func(*Visit)) {
	r.obsMu.Lock()
	r.onStart = append(r.onStart, fn)
	r.obsMu.Unlock()
}

// OnNavigate registers fn to run after a page is committed.
func (r *Runtime) OnNavigate(fn func(page.Page)) {
	r.obsMu.Lock()
	r.onNav = append(r.onNav, fn)
	r.obsMu.Unlock()
}

// OnError registers fn to run when a visit fails.
func (r *Runtime) OnError(fn func(*Visit, error)) {
	r.obsMu.Lock()
	r.onError = append(r.onError, fn)
	r.obsMu.Unlock()
}

// OnFinish registers fn to run when a visit ends, whatever the outcome.
func (r *Runtime) OnFinish(fn func(*Visit)) {
	r.obsMu.Lock()
	r.onFinish = append(r.onFinish, fn)
	r.obsMu.Unlock()
}

// State returns the navigation state.
func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Current returns the mounted page and its URL.
func (r *Runtime) Current() (page.Page, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.currentURL
}

// History returns a copy of the history stack, oldest first. The current
// page is not part of it.
func (r *Runtime) History() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.history))
	copy(out, r.history)
	return out
}

// Version returns the asset version sent with visits.
func (r *Runtime) Version() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}

// InFlight returns the visit in flight, or nil.
func (r *Runtime) InFlight() *Visit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inflight
}

// Scroll returns the scroll position of the current page.
func (r *Runtime) Scroll() Scroll {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scroll
}

// SetScroll records the scroll position of the current page.
func (r *Runtime) SetScroll(s Scroll) {
	r.mu.Lock()
	r.scroll = s
	r.mu.Unlock()
}

// Mount shows p without a request. It is how a host hands over the page
// embedded in the first-load shell.
func (r *Runtime) Mount(p page.Page) error {
	if p.Component() == "" {
		return page.ErrNoComponent
	}
	c, err := r.adapter.Resolve(p.Component())
	if err != nil {
		return err
	}

	r.mu.Lock()
	if err := r.adapter.Swap(c, p); err != nil {
		r.mu.Unlock()
		return err
	}
	r.current = p
	r.currentURL = p.URL()
	r.scroll = Scroll{}
	if p.Version() != "" {
		r.version = p.Version()
	}
	r.mu.Unlock()

	r.emitNavigate(p)
	return nil
}

// Boot performs a first load of target: it fetches the HTML shell, reads
// the embedded page and commits it.
func (r *Runtime) Boot(ctx context.Context, target string) (page.Page, error) {
	v, err := r.newVisit(target, nil)
	if err != nil {
		return page.Page{}, err
	}
	v.boot = true
	return r.visit(ctx, v)
}

// Visit navigates to target.
func (r *Runtime) Visit(ctx context.Context, target string, opts ...VisitOption) (page.Page, error) {
	v, err := r.newVisit(target, opts)
	if err != nil {
		return page.Page{}, err
	}
	return r.visit(ctx, v)
}

// Reload revisits the current URL with replace semantics and the scroll
// position kept. With keys it is a partial reload of those props.
func (r *Runtime) Reload(ctx context.Context, only ...string) (page.Page, error) {
	cur, target := r.Current()
	if cur.IsZero() {
		return page.Page{}, ErrNotMounted
	}
	opts := []VisitOption{Replace(), PreserveScroll()}
	if len(only) > 0 {
		opts = append(opts, Only(only...), ForComponent(cur.Component()))
	}
	return r.Visit(ctx, target, opts...)
}

// Back restores the previous history entry without a request. A visit in
// flight is cancelled.
func (r *Runtime) Back() (page.Page, error) {
	r.mu.Lock()
	if len(r.history) == 0 {
		r.mu.Unlock()
		return page.Page{}, ErrNoHistory
	}
	prev := r.history[len(r.history)-1]

	c, err := r.adapter.Resolve(prev.Page.Component())
	if err == nil {
		err = r.adapter.Swap(c, prev.Page)
	}
	if err != nil {
		r.mu.Unlock()
		return page.Page{}, err
	}

	r.supersedeLocked()
	r.history = r.history[:len(r.history)-1]
	r.current = prev.Page
	r.currentURL = prev.URL
	r.scroll = prev.Scroll
	r.state = Idle
	r.mu.Unlock()

	r.emitNavigate(prev.Page)
	return prev.Page, nil
}

func (r *Runtime) newVisit(target string, opts []VisitOption) (*Visit, error) {
	u, err := r.resolveURL(target)
	if err != nil {
		return nil, err
	}
	v := &Visit{
		ID:          uuid.NewString(),
		URL:         u,
		Method:      http.MethodGet,
		RequestedAt: r.now(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.Method = strings.ToUpper(v.Method)
	if (v.PartialKeys != nil || v.ExceptKeys != nil) && v.PartialComponent == "" {
		cur, _ := r.Current()
		v.PartialComponent = cur.Component()
	}
	return v, nil
}

func (r *Runtime) resolveURL(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("client: parse url %q: %w", target, err)
	}
	if r.base != nil {
		u = r.base.ResolveReference(u)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("client: url %q is not absolute and no base url is set", target)
	}
	return u.String(), nil
}

// begin makes v the visit in flight and returns its context and token.
func (r *Runtime) begin(ctx context.Context, v *Visit) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	r.supersedeLocked()
	r.token++
	r.cancel = cancel
	r.inflight = v
	r.state = Visiting
	v.version = r.version
	token := r.token
	r.mu.Unlock()

	return ctx, token
}

// supersedeLocked cancels the visit in flight, if any. Its result will be
// discarded because the token moves on.
func (r *Runtime) supersedeLocked() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.inflight != nil {
		r.logger.Debug("visit superseded", "visit", r.inflight.ID, "url", r.inflight.URL)
		r.inflight = nil
		r.token++
	}
}

func (r *Runtime) visit(parent context.Context, v *Visit) (page.Page, error) {
	ctx, token := r.begin(parent, v)
	r.emitStart(v)
	defer r.emitFinish(v)

	res, err := r.fetch(ctx, v)
	switch {
	case err != nil:
		return page.Page{}, r.fail(token, v, err)
	case res.hardLocation != "":
		if !r.release(token, Idle) {
			return page.Page{}, ErrSuperseded
		}
		r.logger.Info("hard navigation", "visit", v.ID, "location", res.hardLocation)
		if err := r.hardNav(parent, res.hardLocation); err != nil {
			return page.Page{}, err
		}
		p, _ := r.Current()
		return p, nil
	}
	return r.commit(token, res.visit, res.page)
}

type fetchResult struct {
	visit        *Visit
	page         page.Page
	hardLocation string
}

// fetch runs v and follows plain redirects until a page or a hard location
// comes back.
func (r *Runtime) fetch(ctx context.Context, v *Visit) (fetchResult, error) {
	cur := v
	for hops := 0; ; hops++ {
		resp, err := r.do(ctx, cur)
		if err != nil {
			return fetchResult{}, &VisitError{VisitID: v.ID, Method: cur.Method, URL: cur.URL, Err: err}
		}

		if loc, ok := protocol.HardLocation(resp.Header); ok {
			discard(resp)
			target, err := resolveAgainst(cur.URL, loc)
			if err != nil {
				return fetchResult{}, &VisitError{VisitID: v.ID, Method: cur.Method, URL: cur.URL, StatusCode: resp.StatusCode, Err: err}
			}
			return fetchResult{visit: cur, hardLocation: target}, nil
		}

		if isRedirect(resp.StatusCode) {
			discard(resp)
			loc := resp.Header.Get("Location")
			if loc == "" {
				return fetchResult{}, &VisitError{VisitID: v.ID, Method: cur.Method, URL: cur.URL, StatusCode: resp.StatusCode, Err: errors.New("redirect without Location")}
			}
			if hops >= r.maxRedirects {
				return fetchResult{}, &VisitError{VisitID: v.ID, Method: cur.Method, URL: cur.URL, StatusCode: resp.StatusCode, Err: ErrTooManyRedirects}
			}
			target, err := resolveAgainst(cur.URL, loc)
			if err != nil {
				return fetchResult{}, &VisitError{VisitID: v.ID, Method: cur.Method, URL: cur.URL, StatusCode: resp.StatusCode, Err: err}
			}
			r.logger.Debug("following redirect", "visit", v.ID, "status", resp.StatusCode, "location", target)
			cur = cur.followUp(target, resp.StatusCode)
			continue
		}

		p, err := r.decode(cur, resp)
		if err != nil {
			return fetchResult{}, &VisitError{VisitID: v.ID, Method: cur.Method, URL: cur.URL, StatusCode: resp.StatusCode, Err: err}
		}
		return fetchResult{visit: cur, page: p}, nil
	}
}

func (r *Runtime) do(ctx context.Context, v *Visit) (*http.Response, error) {
	target := v.URL
	var body io.Reader
	contentType := ""

	switch data := v.Data.(type) {
	case nil:
	case url.Values:
		if v.Method == http.MethodGet || v.Method == http.MethodHead {
			u, err := url.Parse(target)
			if err != nil {
				return nil, err
			}
			q := u.Query()
			for k, vals := range data {
				for _, val := range vals {
					q.Add(k, val)
				}
			}
			u.RawQuery = q.Encode()
			target = u.String()
		} else {
			body = strings.NewReader(data.Encode())
			contentType = "application/x-www-form-urlencoded"
		}
	default:
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode data: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, v.Method, target, body)
	if err != nil {
		return nil, err
	}
	for k, vals := range v.Headers {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if v.boot {
		req.Header.Set("Accept", "text/html")
	} else {
		req.Header.Set("Accept", "text/html, application/xhtml+xml")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		var partial *protocol.Partial
		if v.IsPartial() {
			partial = &protocol.Partial{Component: v.PartialComponent, Only: v.PartialKeys, Except: v.ExceptKeys}
		}
		protocol.SetVisitHeaders(req.Header, v.version, partial)
	}

	return r.http.Do(req)
}

func (r *Runtime) decode(v *Visit, resp *http.Response) (page.Page, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return page.Page{}, ErrHTTPStatus
	}

	body := io.LimitReader(resp.Body, maxResponseBytes)
	if v.boot {
		return ParseShell(body)
	}
	if !protocol.IsVisitResponse(resp.Header) {
		return page.Page{}, ErrNotProtocol
	}
	var p page.Page
	if err := json.NewDecoder(body).Decode(&p); err != nil {
		return page.Page{}, fmt.Errorf("decode page: %w", err)
	}
	return p, nil
}

// commit swaps in p if token is still current.
func (r *Runtime) commit(token uint64, v *Visit, p page.Page) (page.Page, error) {
	c, err := r.adapter.Resolve(p.Component())
	if err != nil {
		return page.Page{}, r.fail(token, v, err)
	}

	r.mu.Lock()
	if token != r.token {
		r.mu.Unlock()
		return page.Page{}, ErrSuperseded
	}

	partial := v.IsPartial() && !r.current.IsZero() && r.current.Component() == p.Component()
	next := p
	if partial {
		next = r.current.Merge(p).WithMode(page.Partial)
	}

	if err := r.adapter.Swap(c, next); err != nil {
		r.mu.Unlock()
		return page.Page{}, r.fail(token, v, err)
	}

	if !partial && !v.Replace && !r.current.IsZero() {
		r.history = append(r.history, Entry{Page: r.current, URL: r.currentURL, Scroll: r.scroll})
	}
	r.current = next
	r.currentURL = v.URL
	if p.URL() != "" && !v.boot {
		if u, err := resolveAgainst(v.URL, p.URL()); err == nil {
			r.currentURL = u
		}
	}
	if !v.PreserveScroll {
		r.scroll = Scroll{}
	}
	if p.Version() != "" {
		r.version = p.Version()
	}
	r.state = Succeeded
	r.inflight = nil
	r.cancel = nil
	r.mu.Unlock()

	r.logger.Debug("visit committed", "visit", v.ID, "component", next.Component(), "url", v.URL, "partial", partial)
	r.emitNavigate(next)
	r.release(token, Idle)
	return next, nil
}

// fail records err for the visit holding token. The previous page stays.
func (r *Runtime) fail(token uint64, v *Visit, err error) error {
	r.mu.Lock()
	if token != r.token {
		r.mu.Unlock()
		return ErrSuperseded
	}
	r.state = Failed
	r.inflight = nil
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.logger.Warn("visit failed", "visit", v.ID, "url", v.URL, "error", err)
	r.emitError(v, err)
	r.release(token, Idle)
	return err
}

// release moves the runtime to state if token is still current.
func (r *Runtime) release(token uint64, state State) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token != r.token {
		return false
	}
	r.state = state
	r.inflight = nil
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	return true
}

func (r *Runtime) emitStart(v *Visit) {
	r.obsMu.RLock()
	fns := r.onStart
	r.obsMu.RUnlock()
	for _, fn := range fns {
		fn(v)
	}
}

func (r *Runtime) emitNavigate(p page.Page) {
	r.obsMu.RLock()
	fns := r.onNav
	r.obsMu.RUnlock()
	for _, fn := range fns {
		fn(p)
	}
}

func (r *Runtime) emitError(v *Visit, err error) {
	r.obsMu.RLock()
	fns := r.onError
	r.obsMu.RUnlock()
	for _, fn := range fns {
		fn(v, err)
	}
}

func (r *Runtime) emitFinish(v *Visit) {
	r.obsMu.RLock()
	fns := r.onFinish
	r.obsMu.RUnlock()
	for _, fn := range fns {
		fn(v)
	}
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func resolveAgainst(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(u).String(), nil
}

func discard(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
