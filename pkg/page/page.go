package page

import (
	"encoding/json"
	"errors"
)

// Mode reports whether a page carries its component's full prop set or only
// the subset requested by a partial reload.
type Mode int

const (
	// Full is a page with every (non-lazy) prop of its component.
	Full Mode = iota

	// Partial is a page narrowed by a partial reload directive.
	Partial
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Full:
		return "full"
	case Partial:
		return "partial"
	default:
		return "unknown"
	}
}

// ErrNoComponent is returned when a page is decoded without a component name.
var ErrNoComponent = errors.New("page: missing component")

// Page is the unit the server hands to the client runtime: which component
// to render, with which props, for which URL, built against which asset
// version. A Page is immutable once constructed.
type Page struct {
	component string
	props     Props
	url       string
	version   string
	mode      Mode
}

// New builds a full page. The props mapping is copied.
func New(component string, props Props, url, version string) Page {
	return NewWithMode(component, props, url, version, Full)
}

// NewWithMode builds a page with an explicit rendering mode.
func NewWithMode(component string, props Props, url, version string, mode Mode) Page {
	return Page{
		component: component,
		props:     props.Clone(),
		url:       url,
		version:   version,
		mode:      mode,
	}
}

// Component returns the client component name.
func (p Page) Component() string { return p.component }

// URL returns the request URL the page was rendered for.
func (p Page) URL() string { return p.url }

// Version returns the asset version the page was rendered against.
func (p Page) Version() string { return p.version }

// Mode returns whether the page is full or partial.
func (p Page) Mode() Mode { return p.mode }

// Props returns a copy of the page props.
func (p Page) Props() Props { return p.props.Clone() }

// Prop returns a copy of a single prop value.
func (p Page) Prop(key string) (any, bool) {
	v, ok := p.props[key]
	return cloneValue(v), ok
}

// IsZero reports whether p is the zero page.
func (p Page) IsZero() bool {
	return p.component == "" && p.url == "" && p.props == nil
}

// wirePage is the JSON shape of a page object.
type wirePage struct {
	Component string `json:"component"`
	Props     Props  `json:"props"`
	URL       string `json:"url"`
	Version   string `json:"version"`
}

// MarshalJSON encodes the page as {component, props, url, version}.
// Map keys are emitted in sorted order, so identical pages encode to
// identical bytes.
func (p Page) MarshalJSON() ([]byte, error) {
	props := p.props
	if props == nil {
		props = Props{}
	}
	return json.Marshal(wirePage{
		Component: p.component,
		Props:     props,
		URL:       p.url,
		Version:   p.version,
	})
}

// UnmarshalJSON decodes a page object. The decoded page is always Full;
// callers that know the response answered a partial reload use WithMode.
func (p *Page) UnmarshalJSON(data []byte) error {
	var w wirePage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Component == "" {
		return ErrNoComponent
	}
	if w.Props == nil {
		w.Props = Props{}
	}
	*p = Page{
		component: w.Component,
		props:     w.Props,
		url:       w.URL,
		version:   w.Version,
		mode:      Full,
	}
	return nil
}

// WithMode returns a copy of p with the given mode.
func (p Page) WithMode(mode Mode) Page {
	p.mode = mode
	return p
}

// Merge returns a page for next whose props are p's props overlaid with
// next's props. It is how a client commits a partial response on top of the
// page it is already showing.
func (p Page) Merge(next Page) Page {
	merged := p.props.Clone()
	if merged == nil {
		merged = Props{}
	}
	for k, v := range next.props {
		merged[k] = v
	}
	return Page{
		component: next.component,
		props:     merged,
		url:       next.url,
		version:   next.version,
		mode:      next.mode,
	}
}
