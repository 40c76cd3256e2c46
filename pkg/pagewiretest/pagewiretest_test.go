package pagewiretest

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/vango-dev/pagewire/pkg/protocol"
)

func TestRequestBuilder(t *testing.T) {
	req := NewRequest("GET", "/feed?page=2").
		Version("v9").
		Partial("feed", "items").
		Cookie(&http.Cookie{Name: "sid", Value: "abc"}).
		Build()

	c := protocol.Negotiate(req.Header)
	if !c.IsVisit() || c.AssertedVersion != "v9" {
		t.Fatalf("Negotiate() = %+v", c)
	}
	if p := c.PartialFor("feed"); p == nil || len(p.Only) != 1 || p.Only[0] != "items" {
		t.Errorf("partial = %+v", p)
	}
	if ck, err := req.Cookie("sid"); err != nil || ck.Value != "abc" {
		t.Errorf("cookie = %v, %v", ck, err)
	}
	if req.URL.RequestURI() != "/feed?page=2" {
		t.Errorf("RequestURI() = %q", req.URL.RequestURI())
	}
}

func TestRequestBuilderBare(t *testing.T) {
	req := NewRequest("POST", "/users").Form("name=ann").Build()
	if protocol.Negotiate(req.Header).IsVisit() {
		t.Error("request without Visit() must be bare")
	}
	if req.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", req.Header.Get("Content-Type"))
	}
}

func TestReadShell(t *testing.T) {
	body := `<!DOCTYPE html><html><head><title>Acme</title></head><body>
<div id="app" data-page="{&quot;component&quot;:&quot;landing&quot;,&quot;props&quot;:{},&quot;url&quot;:&quot;/&quot;,&quot;version&quot;:&quot;v1&quot;}" data-adapter="react"></div>
<script type="module" src="/build/react.js"></script>
<script>window.x = 1</script>
</body></html>`

	doc, err := ReadShell(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ReadShell() error: %v", err)
	}
	if doc.Page.Component() != "landing" || doc.Page.Version() != "v1" {
		t.Errorf("page = %+v", doc.Page)
	}
	if doc.RootAttrs["data-adapter"] != "react" || doc.RootAttrs["id"] != "app" {
		t.Errorf("RootAttrs = %v", doc.RootAttrs)
	}
	if len(doc.Scripts) != 1 || doc.Scripts[0] != "/build/react.js" {
		t.Errorf("Scripts = %v", doc.Scripts)
	}
	if len(doc.InlineScripts) != 1 {
		t.Errorf("InlineScripts = %v", doc.InlineScripts)
	}
	if doc.Title != "Acme" {
		t.Errorf("Title = %q", doc.Title)
	}
}

func TestReadShellWithoutPage(t *testing.T) {
	_, err := ReadShell(strings.NewReader("<html><body><p>hi</p></body></html>"))
	if !errors.Is(err, ErrNoPage) {
		t.Fatalf("ReadShell() error = %v, want ErrNoPage", err)
	}
}
