package events

import "time"

// Rendered is the payload of NameRendered.
type Rendered struct {
	Component string
	URL       string
	Version   string
	Kind      string // "bare", "full" or "partial"
	Keys      []string
	Duration  time.Duration
}

// VersionMismatch is the payload of NameVersionMismatch.
type VersionMismatch struct {
	URL      string
	Asserted string
	Current  string
}

// Redirected is the payload of NameRedirected.
type Redirected struct {
	From   string
	To     string
	Status int
	Hard   bool // X-Pagewire-Location hard navigation
}
