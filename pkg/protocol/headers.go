package protocol

import (
	"net/http"
	"strings"
)

// Header names used by the visit protocol.
const (
	HeaderVisit            = "X-Pagewire"
	HeaderVersion          = "X-Pagewire-Version"
	HeaderPartialComponent = "X-Pagewire-Partial-Component"
	HeaderPartialData      = "X-Pagewire-Partial-Data"
	HeaderPartialExcept    = "X-Pagewire-Partial-Except"
	HeaderLocation         = "X-Pagewire-Location"
)

// MarkerValue is the value of HeaderVisit on requests and responses.
const MarkerValue = "true"

// SplitKeys parses a comma-separated key list. Whitespace around keys is
// trimmed and empty entries are dropped. The result is never nil, so an
// empty header value means "no keys" rather than "no directive".
func SplitKeys(v string) []string {
	keys := []string{}
	seen := make(map[string]struct{})
	for _, part := range strings.Split(v, ",") {
		k := strings.TrimSpace(part)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// JoinKeys is the inverse of SplitKeys.
func JoinKeys(keys []string) string {
	return strings.Join(keys, ",")
}

// SetVisitHeaders marks h as a protocol visit built against version. When p
// is non-nil the partial reload headers are added too.
func SetVisitHeaders(h http.Header, version string, p *Partial) {
	h.Set(HeaderVisit, MarkerValue)
	if version != "" {
		h.Set(HeaderVersion, version)
	}
	if p == nil || p.Component == "" {
		return
	}
	h.Set(HeaderPartialComponent, p.Component)
	if p.Only != nil {
		h.Set(HeaderPartialData, JoinKeys(p.Only))
	}
	if len(p.Except) > 0 {
		h.Set(HeaderPartialExcept, JoinKeys(p.Except))
	}
}

// IsVisitResponse reports whether a response carries the protocol marker.
func IsVisitResponse(h http.Header) bool {
	return strings.EqualFold(strings.TrimSpace(h.Get(HeaderVisit)), MarkerValue)
}

// HardLocation returns the hard navigation target of a response, if any.
func HardLocation(h http.Header) (string, bool) {
	loc := h.Get(HeaderLocation)
	return loc, loc != ""
}
