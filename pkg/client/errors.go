package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for visit outcomes.
var (
	// ErrUnknownComponent is returned when the adapter has no module for a
	// component name sent by the server.
	ErrUnknownComponent = errors.New("client: unknown component")

	// ErrSuperseded is returned by a visit whose result was discarded
	// because a newer visit started.
	ErrSuperseded = errors.New("client: visit superseded")

	// ErrTooManyRedirects is returned when a visit exceeds MaxRedirects.
	ErrTooManyRedirects = errors.New("client: too many redirects")

	// ErrNotProtocol is returned for a 2xx response without the protocol marker.
	ErrNotProtocol = errors.New("client: response is not a page object")

	// ErrNoHistory is returned by Back on an empty history.
	ErrNoHistory = errors.New("client: no history")

	// ErrNotMounted is returned by Reload before any page was mounted.
	ErrNotMounted = errors.New("client: no page mounted")
)

// VisitError wraps a failed visit with its context.
type VisitError struct {
	VisitID    string
	Method     string
	URL        string
	StatusCode int // 0 for transport failures
	Err        error
}

// Error returns the error message.
func (e *VisitError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("client: visit %s %s %s: status %d: %v", e.VisitID, e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("client: visit %s %s %s: %v", e.VisitID, e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *VisitError) Unwrap() error {
	return e.Err
}

// ErrHTTPStatus is wrapped by VisitError for non-2xx responses.
var ErrHTTPStatus = errors.New("client: unexpected status")
