package client

import "github.com/vango-dev/pagewire/pkg/page"

// State is the navigation state of a runtime.
type State int

const (
	// Idle means no visit is in flight.
	Idle State = iota

	// Visiting means a visit is in flight.
	Visiting

	// Succeeded is the transient state of a committed visit.
	Succeeded

	// Failed is the transient state of a failed visit.
	Failed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Visiting:
		return "visiting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Scroll is a scroll position.
type Scroll struct {
	X, Y int
}

// Entry is one history entry.
type Entry struct {
	Page   page.Page
	URL    string
	Scroll Scroll
}
