package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"

	"github.com/vango-dev/pagewire/pkg/page"
)

// ErrNoPageData is returned when a shell has no data-page attribute.
var ErrNoPageData = errors.New("client: shell has no data-page element")

// ParseShell reads the page object embedded in a first-load HTML shell.
func ParseShell(r io.Reader) (page.Page, error) {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return page.Page{}, fmt.Errorf("client: parse shell: %w", err)
			}
			return page.Page{}, ErrNoPageData
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			for _, a := range tok.Attr {
				if a.Key != "data-page" {
					continue
				}
				var p page.Page
				if err := json.Unmarshal([]byte(a.Val), &p); err != nil {
					return page.Page{}, fmt.Errorf("client: decode data-page: %w", err)
				}
				return p, nil
			}
		}
	}
}
