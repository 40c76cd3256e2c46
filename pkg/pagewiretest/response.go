package pagewiretest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/vango-dev/pagewire/pkg/page"
	"github.com/vango-dev/pagewire/pkg/protocol"
)

// ErrNoPage is returned when a document has no element carrying data-page.
var ErrNoPage = errors.New("pagewiretest: no data-page element")

// DecodePage asserts that rec is a page-object JSON response and decodes it.
func DecodePage(t testing.TB, rec *httptest.ResponseRecorder) page.Page {
	t.Helper()

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	if !protocol.IsVisitResponse(rec.Header()) {
		t.Fatalf("response is missing %s: true", protocol.HeaderVisit)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("Content-Type = %q, want application/json", ct)
	}

	var p page.Page
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode page: %v (body %q)", err, rec.Body.String())
	}
	return p
}

// Document is a parsed HTML shell.
type Document struct {
	// Page is the embedded page object.
	Page page.Page

	// RootAttrs are the mount element's attributes, data-page excluded.
	RootAttrs map[string]string

	// Scripts lists script src attributes in document order.
	Scripts []string

	// InlineScripts lists the text of scripts without src.
	InlineScripts []string

	// Title is the document title.
	Title string
}

// ParseShell parses an HTML shell and fails the test on error.
func ParseShell(t testing.TB, body string) *Document {
	t.Helper()
	doc, err := ReadShell(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse shell: %v", err)
	}
	return doc
}

// ExtractPage returns the page embedded in an HTML shell.
func ExtractPage(t testing.TB, body string) page.Page {
	t.Helper()
	return ParseShell(t, body).Page
}

// ReadShell parses an HTML shell.
func ReadShell(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{RootAttrs: make(map[string]string)}
	var found bool
	var walkErr error

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script":
				if src, ok := attr(n, "src"); ok {
					doc.Scripts = append(doc.Scripts, src)
				} else if n.FirstChild != nil {
					doc.InlineScripts = append(doc.InlineScripts, n.FirstChild.Data)
				}
			case "title":
				if n.FirstChild != nil {
					doc.Title = n.FirstChild.Data
				}
			}
			if data, ok := attr(n, "data-page"); ok && !found {
				found = true
				if err := json.Unmarshal([]byte(data), &doc.Page); err != nil {
					walkErr = fmt.Errorf("pagewiretest: decode data-page: %w", err)
				}
				for _, a := range n.Attr {
					if a.Key != "data-page" {
						doc.RootAttrs[a.Key] = a.Val
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if walkErr != nil {
		return nil, walkErr
	}
	if !found {
		return nil, ErrNoPage
	}
	return doc, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
