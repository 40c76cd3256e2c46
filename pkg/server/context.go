package server

import (
	"context"
	"net/http"

	"github.com/vango-dev/pagewire/pkg/page"
)

type pagesKey struct{}

type propsKey struct{}

// FromRequest returns the Pages that handled r. It fails with ErrNoProtocol
// when the route is not behind Pages.Handler.
func FromRequest(r *http.Request) (*Pages, error) {
	p, ok := r.Context().Value(pagesKey{}).(*Pages)
	if !ok || p == nil {
		return nil, ErrNoProtocol
	}
	return p, nil
}

// RequireProtocol rejects requests that did not pass through Pages.Handler
// with a 500. Mount it on routes whose handlers call Render.
func RequireProtocol(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := FromRequest(r); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithProps returns r carrying props for every Render on it. Middleware
// uses it for request-scoped shared data such as the signed-in user.
// Repeated calls merge, later wins.
func WithProps(r *http.Request, props page.Props) *http.Request {
	merged := requestProps(r.Context()).Clone()
	if merged == nil {
		merged = page.Props{}
	}
	for k, v := range props {
		merged[k] = v
	}
	return r.WithContext(context.WithValue(r.Context(), propsKey{}, merged))
}

func requestProps(ctx context.Context) page.Props {
	p, _ := ctx.Value(propsKey{}).(page.Props)
	return p
}
