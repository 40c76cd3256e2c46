package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/vango-dev/pagewire/pkg/assets"
	"github.com/vango-dev/pagewire/pkg/page"
)

// DefaultRootID is the id of the element the client runtime mounts into.
const DefaultRootID = "app"

// Shell is the HTML document served on a bare first load. The page object is
// embedded in the root element's data-page attribute; adapters add the
// markup that boots their client runtime through the ExtendResponse hook.
type Shell struct {
	// Title is the document title.
	Title string

	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// RootID is the id of the mount element. Defaults to DefaultRootID.
	RootID string

	// RootAttrs are extra attributes on the mount element.
	RootAttrs map[string]string

	// Meta contains meta tags for the page.
	Meta []MetaTag

	// Links contains link tags (stylesheets, preloads, icons).
	Links []LinkTag

	// Scripts are emitted at the end of the body, after the mount element.
	Scripts []ScriptTag

	// HeadHTML is trusted raw markup appended to the head.
	HeadHTML []string

	// Assets resolves bundle names for adapters. Nil means names are used
	// as given.
	Assets assets.Resolver

	// Dev is set when the server runs in development mode.
	Dev bool

	page page.Page
}

// NewShell creates a shell for p.
func NewShell(p page.Page) *Shell {
	return &Shell{
		Lang:      "en",
		RootID:    DefaultRootID,
		RootAttrs: make(map[string]string),
		page:      p,
	}
}

// Page returns the embedded page object.
func (s *Shell) Page() page.Page { return s.page }

// Asset resolves a bundle name through the shell's asset resolver.
func (s *Shell) Asset(source string) string {
	if s.Assets == nil {
		return source
	}
	return s.Assets.Asset(source)
}

// SetAttr sets an attribute on the mount element. The id and data-page
// attributes are owned by the shell and cannot be overridden.
func (s *Shell) SetAttr(name, value string) {
	if name == "id" || name == "data-page" {
		return
	}
	if s.RootAttrs == nil {
		s.RootAttrs = make(map[string]string)
	}
	s.RootAttrs[name] = value
}

// AddScript appends a body script.
func (s *Shell) AddScript(tag ScriptTag) {
	s.Scripts = append(s.Scripts, tag)
}

// AddLink appends a head link.
func (s *Shell) AddLink(tag LinkTag) {
	s.Links = append(s.Links, tag)
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name    string
	Content string
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel         string
	Href        string
	As          string
	CrossOrigin string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Module bool   // type="module"
	Defer  bool   // defer attribute
	Inline string // inline script content, trusted
}

// WriteTo writes the complete document.
func (s *Shell) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := s.write(cw)
	return cw.n, err
}

func (s *Shell) write(w io.Writer) error {
	lang := s.Lang
	if lang == "" {
		lang = "en"
	}
	rootID := s.RootID
	if rootID == "" {
		rootID = DefaultRootID
	}

	data, err := json.Marshal(s.page)
	if err != nil {
		return fmt.Errorf("render: encode page: %w", err)
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", escapeAttr(lang)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "  <meta charset=\"utf-8\">\n  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n"); err != nil {
		return err
	}
	if s.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(s.Title)); err != nil {
			return err
		}
	}
	for _, m := range s.Meta {
		if _, err := fmt.Fprintf(w, "  <meta name=\"%s\" content=\"%s\">\n", escapeAttr(m.Name), escapeAttr(m.Content)); err != nil {
			return err
		}
	}
	for _, l := range s.Links {
		if err := writeLink(w, l); err != nil {
			return err
		}
	}
	for _, raw := range s.HeadHTML {
		if _, err := fmt.Fprintf(w, "  %s\n", raw); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</head>\n<body>\n"); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "<div id=\"%s\" data-page=\"%s\"", escapeAttr(rootID), escapeAttr(string(data))); err != nil {
		return err
	}
	names := make([]string, 0, len(s.RootAttrs))
	for name := range s.RootAttrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, " %s=\"%s\"", escapeAttr(name), escapeAttr(s.RootAttrs[name])); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "></div>\n"); err != nil {
		return err
	}

	for _, sc := range s.Scripts {
		if err := writeScript(w, sc); err != nil {
			return err
		}
	}

	_, err = io.WriteString(w, "</body>\n</html>\n")
	return err
}

func writeLink(w io.Writer, l LinkTag) error {
	if _, err := fmt.Fprintf(w, "  <link rel=\"%s\" href=\"%s\"", escapeAttr(l.Rel), escapeAttr(l.Href)); err != nil {
		return err
	}
	if l.As != "" {
		if _, err := fmt.Fprintf(w, " as=\"%s\"", escapeAttr(l.As)); err != nil {
			return err
		}
	}
	if l.CrossOrigin != "" {
		if _, err := fmt.Fprintf(w, " crossorigin=\"%s\"", escapeAttr(l.CrossOrigin)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ">\n")
	return err
}

func writeScript(w io.Writer, sc ScriptTag) error {
	if _, err := io.WriteString(w, "<script"); err != nil {
		return err
	}
	if sc.Module {
		if _, err := io.WriteString(w, ` type="module"`); err != nil {
			return err
		}
	}
	if sc.Src != "" {
		if _, err := fmt.Fprintf(w, ` src="%s"`, escapeAttr(sc.Src)); err != nil {
			return err
		}
	}
	if sc.Defer {
		if _, err := io.WriteString(w, " defer"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, ">%s</script>\n", sc.Inline)
	return err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
