package server

import (
	"errors"
	"fmt"
)

// Sentinel errors for page rendering and server construction.
var (
	// ErrNoProtocol is returned when a handler asks for the pages of a
	// request that did not pass through Pages.Handler.
	ErrNoProtocol = errors.New("server: pages middleware not installed for this route")

	// ErrNoAdapter is returned by New when no adapter name is configured.
	ErrNoAdapter = errors.New("server: no adapter configured")

	// ErrInvalidLocation is returned by Location for a target that is
	// neither a local path nor an allowed external host.
	ErrInvalidLocation = errors.New("server: location not allowed")
)

// RenderError wraps a failure to produce a page response.
type RenderError struct {
	Component string
	URL       string
	Op        string // Operation that failed
	Err       error  // Underlying error
}

// Error returns the error message with render context.
func (e *RenderError) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("server: %s %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("server: %s %s (%s): %v", e.Op, e.Component, e.URL, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *RenderError) Unwrap() error {
	return e.Err
}
