package protocol

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vango-dev/pagewire/pkg/page"
)

// Kind classifies an incoming request.
type Kind int

const (
	// Bare is a first load: no protocol marker, the client expects HTML.
	Bare Kind = iota

	// Visit is a protocol-aware navigation expecting a page object.
	Visit
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Bare:
		return "bare"
	case Visit:
		return "visit"
	default:
		return "unknown"
	}
}

// Partial is a partial reload directive as sent by the client.
type Partial struct {
	// Component is the component the client believes it is reloading.
	Component string

	// Only lists the requested prop keys. Nil when the client sent no
	// X-Pagewire-Partial-Data header; empty when it sent an empty one.
	Only []string

	// Except lists prop keys the client does not want.
	Except []string
}

// Selection converts the directive into a prop selection.
// A nil Partial yields a nil Selection (full visit).
func (p *Partial) Selection() *page.Selection {
	if p == nil {
		return nil
	}
	return &page.Selection{Only: p.Only, Except: p.Except}
}

// Classification is the result of Negotiate.
type Classification struct {
	Kind Kind

	// AssertedVersion is the client's asset version, empty when not sent.
	AssertedVersion string

	// Partial is the raw partial directive, nil for full visits.
	Partial *Partial
}

// IsVisit reports whether the request is a protocol visit.
func (c Classification) IsVisit() bool {
	return c.Kind == Visit
}

// PartialFor returns the partial directive if it targets component, and nil
// otherwise. A directive naming another component is a stale request from
// before a client-side navigation; it is dropped and a full page is served.
func (c Classification) PartialFor(component string) *Partial {
	if c.Kind != Visit || c.Partial == nil {
		return nil
	}
	if c.Partial.Component != component {
		return nil
	}
	return c.Partial
}

// Negotiate classifies a request from its headers alone.
func Negotiate(h http.Header) Classification {
	if !markerSet(h.Get(HeaderVisit)) {
		return Classification{Kind: Bare}
	}

	c := Classification{
		Kind:            Visit,
		AssertedVersion: strings.TrimSpace(h.Get(HeaderVersion)),
	}

	component := strings.TrimSpace(h.Get(HeaderPartialComponent))
	data, hasData := headerPresent(h, HeaderPartialData)
	except, hasExcept := headerPresent(h, HeaderPartialExcept)
	if component == "" || (!hasData && !hasExcept) {
		return c
	}

	p := &Partial{Component: component}
	if hasData {
		p.Only = SplitKeys(data)
	}
	if hasExcept {
		p.Except = SplitKeys(except)
	}
	c.Partial = p
	return c
}

// NegotiateRequest is Negotiate(r.Header).
func NegotiateRequest(r *http.Request) Classification {
	return Negotiate(r.Header)
}

func markerSet(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	ok, err := strconv.ParseBool(v)
	return err == nil && ok
}

func headerPresent(h http.Header, key string) (string, bool) {
	vals := h.Values(key)
	if len(vals) == 0 {
		return "", false
	}
	return strings.Join(vals, ","), true
}
