package server

import "time"

// Kind labels of served page responses.
const (
	KindBare    = "bare"
	KindFull    = "full"
	KindPartial = "partial"
)

// Observer receives metrics callbacks from Pages. middleware.Metrics is the
// Prometheus implementation.
type Observer interface {
	// ObserveVisit is called after a page response was written. kind is
	// KindBare, KindFull or KindPartial.
	ObserveVisit(kind string, d time.Duration)

	// ObserveVersionMismatch is called for each hard navigation caused by a
	// stale asset version.
	ObserveVersionMismatch()

	// ObserveRedirect is called for each redirect, with the status written.
	ObserveRedirect(status int)
}

type nopObserver struct{}

func (nopObserver) ObserveVisit(string, time.Duration) {}
func (nopObserver) ObserveVersionMismatch()            {}
func (nopObserver) ObserveRedirect(int)                {}
