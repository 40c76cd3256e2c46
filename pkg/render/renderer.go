package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/vango-dev/pagewire/pkg/assets"
	"github.com/vango-dev/pagewire/pkg/page"
	"github.com/vango-dev/pagewire/pkg/protocol"
)

// Extender lets an adapter inject its bootstrap markup into a shell.
type Extender func(*Shell)

// Config configures a Renderer.
type Config struct {
	// Title is the default document title.
	Title string

	// Lang is the html lang attribute. Default: "en".
	Lang string

	// RootID is the mount element id. Default: "app".
	RootID string

	// Assets resolves bundle names for adapter bootstrap markup.
	Assets assets.Resolver

	// Dev marks shells as development builds.
	Dev bool

	// Extra runs after the adapter's extender on every shell. The server
	// uses it to inject the development reload client.
	Extra []Extender
}

// Renderer writes page responses.
type Renderer struct {
	config Config
}

// New creates a Renderer.
func New(config Config) *Renderer {
	if config.Lang == "" {
		config.Lang = "en"
	}
	if config.RootID == "" {
		config.RootID = DefaultRootID
	}
	return &Renderer{config: config}
}

// Shell builds the first-load document for p and runs the extenders on it.
func (r *Renderer) Shell(p page.Page, extend ...Extender) *Shell {
	s := NewShell(p)
	s.Title = r.config.Title
	s.Lang = r.config.Lang
	s.RootID = r.config.RootID
	s.Assets = r.config.Assets
	s.Dev = r.config.Dev
	for _, fn := range extend {
		if fn != nil {
			fn(s)
		}
	}
	for _, fn := range r.config.Extra {
		fn(s)
	}
	return s
}

// WriteShell answers a bare request with the HTML document for p.
// The document is fully rendered before any header is written, so an
// encoding failure never leaves a half-written 200 behind.
func (r *Renderer) WriteShell(w http.ResponseWriter, p page.Page, extend ...Extender) error {
	var buf bytes.Buffer
	if _, err := r.Shell(p, extend...).WriteTo(&buf); err != nil {
		return err
	}

	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	h.Add("Vary", protocol.HeaderVisit)
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}

// WriteJSON answers a protocol visit with the page object as the whole body.
func WriteJSON(w http.ResponseWriter, p page.Page) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("render: encode page: %w", err)
	}

	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set(protocol.HeaderVisit, protocol.MarkerValue)
	h.Add("Vary", protocol.HeaderVisit)
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(data)
	return err
}

// HardNavigateStatus is the status of a hard navigation response. A 303
// makes any client that follows Location do so with a GET, so a stale POST
// visit is never replayed.
const HardNavigateStatus = http.StatusSeeOther

// WriteHardNavigate tells a client runtime to leave the protocol and load
// url as a full browser navigation. It carries no page data.
func WriteHardNavigate(w http.ResponseWriter, url string) {
	h := w.Header()
	h.Set("Location", url)
	h.Set(protocol.HeaderLocation, url)
	h.Add("Vary", protocol.HeaderVisit)
	w.WriteHeader(HardNavigateStatus)
}

// RedirectStatus picks the redirect status for a request method. Anything
// that is not a GET or HEAD gets 303 See Other, which obliges the client to
// follow up with a GET, so a POST, PUT, PATCH or DELETE is never replayed
// against the redirect target.
func RedirectStatus(method string) int {
	switch method {
	case http.MethodGet, http.MethodHead, "":
		return http.StatusFound
	default:
		return http.StatusSeeOther
	}
}

// WriteRedirect redirects r to url with RedirectStatus(r.Method).
func WriteRedirect(w http.ResponseWriter, r *http.Request, url string) {
	w.Header().Add("Vary", protocol.HeaderVisit)
	http.Redirect(w, r, url, RedirectStatus(r.Method))
}
