package adapter

import (
	"context"
	"net/http"

	"github.com/vango-dev/pagewire/pkg/protocol"
	"github.com/vango-dev/pagewire/pkg/render"
)

// Middleware wraps an HTTP handler.
type Middleware func(http.Handler) http.Handler

// Descriptor describes one client runtime binding.
type Descriptor struct {
	// Name identifies the adapter in configuration ("react", "vue").
	Name string

	// Middleware builds the request middleware for this adapter.
	Middleware func() Middleware

	// ExtendResponse injects the adapter's bootstrap markup into the shell.
	ExtendResponse render.Extender
}

// Define builds a descriptor whose middleware negotiates each request and
// binds the descriptor to the request context, so the renderer later finds
// the right ExtendResponse hook.
func Define(name string, extend render.Extender) Descriptor {
	d := Descriptor{Name: name, ExtendResponse: extend}
	d.Middleware = func() Middleware {
		return Negotiating(d)
	}
	return d
}

// Negotiating returns middleware that classifies each request with
// protocol.Negotiate and records d as the active adapter.
func Negotiating(d Descriptor) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := protocol.WithClassification(r.Context(), protocol.Negotiate(r.Header))
			ctx = WithDescriptor(ctx, d)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type descriptorKey struct{}

// WithDescriptor records the active adapter for a request.
func WithDescriptor(ctx context.Context, d Descriptor) context.Context {
	return context.WithValue(ctx, descriptorKey{}, d)
}

// FromContext returns the active adapter of a request.
func FromContext(ctx context.Context) (Descriptor, bool) {
	d, ok := ctx.Value(descriptorKey{}).(Descriptor)
	return d, ok
}
