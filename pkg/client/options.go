package client

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultMaxRedirects bounds the redirects a single visit follows.
const DefaultMaxRedirects = 10

// HardNavigator performs a full page load of target, outside the visit
// protocol. A browser host reloads the window; the default boots the
// runtime from the server-rendered shell.
type HardNavigator func(ctx context.Context, target string) error

// Option configures a Runtime.
type Option func(*Runtime)

// WithHTTPClient sets the HTTP client. The runtime follows redirects itself,
// so the client's CheckRedirect is replaced on a copy.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Runtime) {
		cp := *c
		r.http = &cp
	}
}

// WithBaseURL sets the URL relative visit targets resolve against.
func WithBaseURL(base string) Option {
	return func(r *Runtime) {
		if u, err := url.Parse(base); err == nil {
			r.base = u
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// WithHardNavigator sets the hard navigation handler.
func WithHardNavigator(fn HardNavigator) Option {
	return func(r *Runtime) { r.hardNav = fn }
}

// WithMaxRedirects sets the redirect bound. Values below 1 are ignored.
func WithMaxRedirects(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.maxRedirects = n
		}
	}
}

// WithClock sets the time source used for Visit.RequestedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Runtime) { r.now = now }
}
